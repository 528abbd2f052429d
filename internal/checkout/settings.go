package checkout

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/go-playground/validator/v10"
)

const (
	defaultOrdersPath       = "/api/orders"
	defaultConfirmationPath = "/order-confirmation"
	defaultSubmitTimeout    = 10 * time.Second
	defaultEventsTopic      = "checkout.orders"
)

// Settings is the checkout configuration resolved from apt.Config.
type Settings struct {
	OrdersEndpoint   string        `validate:"required,url"`
	ConfirmationPath string        `validate:"required,startswith=/"`
	ModalTTL         time.Duration `validate:"gte=0"`
	SubmitTimeout    time.Duration `validate:"gt=0"`
	EventsTopic      string        `validate:"required"`
}

var settingsValidator = validator.New(validator.WithRequiredStructEnabled())

// LoadSettings reads checkout keys from config, falling back to defaults.
func LoadSettings(config *apt.Config) (Settings, error) {
	if config == nil {
		config = apt.NewConfig()
	}

	orderURL := config.GetStringOrDef("services.order.url", "http://localhost:8080")
	ordersPath := config.GetStringOrDef("checkout.orders.path", defaultOrdersPath)

	endpoint, err := joinURL(orderURL, ordersPath)
	if err != nil {
		return Settings{}, fmt.Errorf("orders endpoint: %w", err)
	}

	modalTTL, err := parseDurationOrDef(config, "checkout.modal.ttl", defaultModalTTL)
	if err != nil {
		return Settings{}, err
	}

	submitTimeout, err := parseDurationOrDef(config, "checkout.submit.timeout", defaultSubmitTimeout)
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		OrdersEndpoint:   endpoint,
		ConfirmationPath: strings.TrimRight(config.GetStringOrDef("checkout.confirmation.path", defaultConfirmationPath), "/"),
		ModalTTL:         modalTTL,
		SubmitTimeout:    submitTimeout,
		EventsTopic:      config.GetStringOrDef("checkout.events.topic", defaultEventsTopic),
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Validate checks the settings for missing or malformed values.
func (s Settings) Validate() error {
	if err := settingsValidator.Struct(s); err != nil {
		return fmt.Errorf("invalid checkout settings: %w", err)
	}
	return nil
}

// ConfirmationURL returns the confirmation view path for an order id.
func (s Settings) ConfirmationURL(orderID string) string {
	return s.ConfirmationPath + "/" + url.PathEscape(orderID)
}

func joinURL(base, path string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", err
	}
	return u.JoinPath(path).String(), nil
}

func parseDurationOrDef(config *apt.Config, key string, def time.Duration) (time.Duration, error) {
	value, ok := config.GetString(key)
	if !ok || strings.TrimSpace(value) == "" {
		return def, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return d, nil
}
