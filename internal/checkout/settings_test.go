package checkout

import (
	"testing"
	"time"

	"github.com/appetiteclub/apt"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(apt.NewConfig())
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if s.OrdersEndpoint != "http://localhost:8080/api/orders" {
		t.Errorf("OrdersEndpoint = %q", s.OrdersEndpoint)
	}
	if s.ConfirmationPath != defaultConfirmationPath {
		t.Errorf("ConfirmationPath = %q", s.ConfirmationPath)
	}
	if s.ModalTTL != defaultModalTTL {
		t.Errorf("ModalTTL = %v", s.ModalTTL)
	}
	if s.SubmitTimeout != defaultSubmitTimeout {
		t.Errorf("SubmitTimeout = %v", s.SubmitTimeout)
	}
	if s.EventsTopic != defaultEventsTopic {
		t.Errorf("EventsTopic = %q", s.EventsTopic)
	}
}

func TestLoadSettingsNilConfig(t *testing.T) {
	if _, err := LoadSettings(nil); err != nil {
		t.Errorf("LoadSettings(nil) error = %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	valid := Settings{
		OrdersEndpoint:   "http://orders.local/api/orders",
		ConfirmationPath: "/order-confirmation",
		ModalTTL:         time.Minute,
		SubmitTimeout:    time.Second,
		EventsTopic:      "checkout.orders",
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Settings) {}, wantErr: false},
		{name: "missingEndpoint", mutate: func(s *Settings) { s.OrdersEndpoint = "" }, wantErr: true},
		{name: "relativeEndpoint", mutate: func(s *Settings) { s.OrdersEndpoint = "api/orders" }, wantErr: true},
		{name: "relativeConfirmation", mutate: func(s *Settings) { s.ConfirmationPath = "order-confirmation" }, wantErr: true},
		{name: "zeroTimeout", mutate: func(s *Settings) { s.SubmitTimeout = 0 }, wantErr: true},
		{name: "missingTopic", mutate: func(s *Settings) { s.EventsTopic = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfirmationURL(t *testing.T) {
	s := Settings{ConfirmationPath: "/order-confirmation"}

	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "plain", id: "42", want: "/order-confirmation/42"},
		{name: "uuid", id: "550e8400-e29b-41d4-a716-446655440000", want: "/order-confirmation/550e8400-e29b-41d4-a716-446655440000"},
		{name: "escaped", id: "a/b", want: "/order-confirmation/a%2Fb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ConfirmationURL(tt.id); got != tt.want {
				t.Errorf("ConfirmationURL(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestJoinURL(t *testing.T) {
	got, err := joinURL("http://orders.local:8080/", "/api/orders")
	if err != nil {
		t.Fatalf("joinURL() error = %v", err)
	}
	if got != "http://orders.local:8080/api/orders" {
		t.Errorf("joinURL() = %q", got)
	}
}
