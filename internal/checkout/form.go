package checkout

import "fmt"

// FormState holds the values of the three checkout inputs.
type FormState struct {
	Name    string
	Phone   string
	Address string
}

// Action is an input event applied to a FormState through Reduce.
type Action interface {
	apply(FormState) FormState
}

// FieldChanged replaces the value of a single field.
type FieldChanged struct {
	Field string
	Value string
}

func (a FieldChanged) apply(s FormState) FormState {
	switch a.Field {
	case FieldName:
		s.Name = a.Value
	case FieldPhone:
		s.Phone = a.Value
	case FieldAddress:
		s.Address = a.Value
	}
	return s
}

// PhoneBlurred re-formats the phone value when its input loses focus.
type PhoneBlurred struct{}

func (PhoneBlurred) apply(s FormState) FormState {
	s.Phone = FormatPhoneNumber(s.Phone)
	return s
}

// Reduce returns the state that results from applying a to s.
func Reduce(s FormState, a Action) FormState {
	if a == nil {
		return s
	}
	return a.apply(s)
}

// IsFormField reports whether name is one of the checkout inputs.
func IsFormField(name string) bool {
	switch name {
	case FieldName, FieldPhone, FieldAddress:
		return true
	}
	return false
}

// ParseFieldChanged builds a FieldChanged action, rejecting unknown fields.
func ParseFieldChanged(field, value string) (FieldChanged, error) {
	if !IsFormField(field) {
		return FieldChanged{}, fmt.Errorf("unknown form field %q", field)
	}
	return FieldChanged{Field: field, Value: value}, nil
}

// Fields enumerates the form in display order.
func (s FormState) Fields() []Field {
	return []Field{
		{Name: FieldName, Value: s.Name},
		{Name: FieldPhone, Value: s.Phone},
		{Name: FieldAddress, Value: s.Address},
	}
}

// Validate runs ValidateFields over the current values.
func (s FormState) Validate() []string {
	return ValidateFields(s.Fields())
}
