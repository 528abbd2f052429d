package checkout

import "fmt"

const (
	FieldName    = "name"
	FieldPhone   = "phone"
	FieldAddress = "address"
)

// MsgPhoneLength is reported when the bare phone number is not ten digits long.
const MsgPhoneLength = "Phone number must consist of 10 digits."

// Field is one entry of the form mapping, kept in enumeration order.
type Field struct {
	Name  string
	Value string
}

// ValidateFields returns the error list for fields. The phone length check
// comes first, followed by one blank-field message per empty field in the
// order given. Labels are the field keys as-is.
func ValidateFields(fields []Field) []string {
	errs := []string{}

	phone := ""
	for _, f := range fields {
		if f.Name == FieldPhone {
			phone = f.Value
			break
		}
	}
	if len(BarePhoneNumber(phone)) != phoneDigits {
		errs = append(errs, MsgPhoneLength)
	}

	for _, f := range fields {
		if f.Value == "" {
			errs = append(errs, blankFieldMessage(f.Name))
		}
	}

	return errs
}

func blankFieldMessage(field string) string {
	return fmt.Sprintf("%s cannot be blank.", field)
}
