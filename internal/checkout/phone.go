package checkout

import "strings"

const phoneDigits = 10

// PhoneNumber is the grouped view of a bare North American phone number.
type PhoneNumber struct {
	AreaCode   string
	Prefix     string
	LineNumber string
}

// BarePhoneNumber returns only the digits of value.
func BarePhoneNumber(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParsePhoneNumber splits the first ten digits of raw into its groups.
func ParsePhoneNumber(raw string) PhoneNumber {
	bare := BarePhoneNumber(raw)
	if len(bare) > phoneDigits {
		bare = bare[:phoneDigits]
	}

	return PhoneNumber{
		AreaCode:   sliceDigits(bare, 0, 3),
		Prefix:     sliceDigits(bare, 3, 6),
		LineNumber: sliceDigits(bare, 6, phoneDigits),
	}
}

// String renders the number as (AAA) PPP-LLLL. A separator is written only
// once the group after it has started, so partial input never ends in
// punctuation.
func (p PhoneNumber) String() string {
	var b strings.Builder
	if p.AreaCode != "" {
		b.WriteString("(")
		b.WriteString(p.AreaCode)
	}
	if p.Prefix != "" {
		b.WriteString(") ")
		b.WriteString(p.Prefix)
	}
	if p.LineNumber != "" {
		b.WriteString("-")
		b.WriteString(p.LineNumber)
	}
	return b.String()
}

// FormatPhoneNumber normalizes raw input into its display form.
func FormatPhoneNumber(raw string) string {
	return ParsePhoneNumber(raw).String()
}

func sliceDigits(s string, from, to int) string {
	if from >= len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
