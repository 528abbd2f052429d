package checkout

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSubmissionInFlight = errors.New("order submission already in progress")

// Modal is one open checkout overlay. It lives from the moment the parent
// page opens it until it is closed or the order is placed.
type Modal struct {
	ID        string
	Items     json.RawMessage
	CreatedAt time.Time
	ExpiresAt time.Time

	mu          sync.Mutex
	form        FormState
	errors      []string
	submitError string
	submitting  bool
}

// ModalView is an immutable copy of a modal used for rendering.
type ModalView struct {
	ID          string
	Form        FormState
	Errors      []string
	SubmitError string
	Submitting  bool
}

// NewModal creates a modal for the given order items.
func NewModal(items json.RawMessage, ttl time.Duration) *Modal {
	now := time.Now()
	if len(items) == 0 {
		items = json.RawMessage("[]")
	}
	return &Modal{
		ID:        uuid.NewString(),
		Items:     items,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Dispatch applies a to the form and returns the resulting state.
func (m *Modal) Dispatch(a Action) FormState {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form = Reduce(m.form, a)
	return m.form
}

// Form returns the current form values.
func (m *Modal) Form() FormState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

// Validate recomputes the error list from the current form, stores it for
// rendering and returns the same list to the caller.
func (m *Modal) Validate() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validateLocked()
}

// Prepare validates the form and, when it is clean, marks the modal as
// submitting and returns the payload built from the validated values.
// Validation errors are returned with an empty payload and nil error.
func (m *Modal) Prepare() ([]string, OrderPayload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if errs := m.validateLocked(); len(errs) > 0 {
		return errs, OrderPayload{}, nil
	}
	if err := m.beginSubmitLocked(); err != nil {
		return nil, OrderPayload{}, err
	}
	return nil, m.payloadLocked(), nil
}

func (m *Modal) validateLocked() []string {
	m.errors = m.form.Validate()
	return m.errors
}

// BeginSubmit marks the modal as submitting. It fails while another
// submission is still running.
func (m *Modal) BeginSubmit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.beginSubmitLocked()
}

func (m *Modal) beginSubmitLocked() error {
	if m.submitting {
		return ErrSubmissionInFlight
	}
	m.submitting = true
	m.submitError = ""
	return nil
}

// EndSubmit clears the in-flight flag and records the failure message, if any.
func (m *Modal) EndSubmit(failure string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitting = false
	m.submitError = failure
}

// DismissSubmitError hides the submission failure message.
func (m *Modal) DismissSubmitError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitError = ""
}

// Payload builds the order request from the current form.
func (m *Modal) Payload() OrderPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payloadLocked()
}

func (m *Modal) payloadLocked() OrderPayload {
	return OrderPayload{
		Name:    m.form.Name,
		Phone:   m.form.Phone,
		Address: m.form.Address,
		Items:   m.Items,
	}
}

// View snapshots the modal for templates.
func (m *Modal) View() ModalView {
	m.mu.Lock()
	defer m.mu.Unlock()
	errs := make([]string, len(m.errors))
	copy(errs, m.errors)
	return ModalView{
		ID:          m.ID,
		Form:        m.form,
		Errors:      errs,
		SubmitError: m.submitError,
		Submitting:  m.submitting,
	}
}

// DismissKind identifies what the user did to leave the modal.
type DismissKind string

const (
	DismissBackground DismissKind = "click"
	DismissKey        DismissKind = "key"
	DismissButton     DismissKind = "button"
)

// DismissEvent is a user interaction on the modal shell.
type DismissEvent struct {
	Kind DismissKind
	Key  string
}

// Dismiss asks the owner to close the modal when ev is a background click,
// the Close button or the Escape key. It reports whether setOpen was called.
func Dismiss(ev DismissEvent, setOpen func(bool)) bool {
	switch ev.Kind {
	case DismissBackground, DismissButton:
	case DismissKey:
		if ev.Key != "Escape" {
			return false
		}
	default:
		return false
	}

	if setOpen != nil {
		setOpen(false)
	}
	return true
}
