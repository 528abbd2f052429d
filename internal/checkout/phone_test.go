package checkout

import "testing"

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "noDigits",
			input: "abc-()",
			want:  "",
		},
		{
			name:  "partialAreaCode",
			input: "55",
			want:  "(55",
		},
		{
			name:  "completeAreaCode",
			input: "555",
			want:  "(555",
		},
		{
			name:  "prefixStarted",
			input: "5551",
			want:  "(555) 1",
		},
		{
			name:  "completePrefix",
			input: "555123",
			want:  "(555) 123",
		},
		{
			name:  "lineNumberStarted",
			input: "5551234",
			want:  "(555) 123-4",
		},
		{
			name:  "fullNumber",
			input: "5551234567",
			want:  "(555) 123-4567",
		},
		{
			name:  "alreadyFormatted",
			input: "(555) 123-4567",
			want:  "(555) 123-4567",
		},
		{
			name:  "mixedSeparators",
			input: "555.123.4567",
			want:  "(555) 123-4567",
		},
		{
			name:  "truncatesFifteenDigits",
			input: "555123456789012",
			want:  "(555) 123-4567",
		},
		{
			name:  "lettersBetweenDigits",
			input: "5a5b5c1",
			want:  "(555) 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatPhoneNumber(tt.input)
			if got != tt.want {
				t.Errorf("FormatPhoneNumber(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePhoneNumber(t *testing.T) {
	got := ParsePhoneNumber("+1 (555) 123-4567 ext 89")
	want := PhoneNumber{AreaCode: "155", Prefix: "512", LineNumber: "3456"}
	if got != want {
		t.Errorf("ParsePhoneNumber() = %+v, want %+v", got, want)
	}

	short := ParsePhoneNumber("12345")
	if short.AreaCode != "123" || short.Prefix != "45" || short.LineNumber != "" {
		t.Errorf("ParsePhoneNumber(12345) = %+v", short)
	}
}

func TestBarePhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "digitsOnly", input: "5551234567", want: "5551234567"},
		{name: "formatted", input: "(555) 123-4567", want: "5551234567"},
		{name: "unicodeDigitsIgnored", input: "٥٥٥123", want: "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BarePhoneNumber(tt.input); got != tt.want {
				t.Errorf("BarePhoneNumber(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
