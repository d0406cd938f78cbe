package model

import "strconv"

// InputKind enumerates the HTML input types the booking form renders.
type InputKind string

const (
	InputText   InputKind = "text"
	InputEmail  InputKind = "email"
	InputTel    InputKind = "tel"
	InputDate   InputKind = "date"
	InputNumber InputKind = "number"
)

// Valid reports whether the kind is one of the supported input types.
func (k InputKind) Valid() bool {
	switch k {
	case InputText, InputEmail, InputTel, InputDate, InputNumber:
		return true
	default:
		return false
	}
}

// Field identifiers used by the booking registry.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldDate      = "date"
	FieldGroup     = "group"
)

// Field describes one form input. Fields are immutable once a FormModel is
// built.
type Field struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder,omitempty"`
	Kind        InputKind `json:"kind"`
}

// FormModel is the ordered field registry plus the metadata renderers use to
// build the surrounding form element.
type FormModel struct {
	ID       string            `json:"id"`
	Action   string            `json:"action"`
	Method   string            `json:"method"`
	Fields   []Field           `json:"fields"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Field returns the descriptor registered under name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns the field identifiers in registry order.
func (m FormModel) Names() []string {
	names := make([]string, 0, len(m.Fields))
	for _, field := range m.Fields {
		names = append(names, field.Name)
	}
	return names
}

// RawValues maps field identifiers to the text currently held by each input.
type RawValues map[string]string

// Clone returns an independent copy.
func (v RawValues) Clone() RawValues {
	out := make(RawValues, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// Values is the typed booking record handed to submit handlers.
type Values struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Date      string `json:"date"`
	Group     int    `json:"group"`
}

// Raw converts typed values back into input text, keyed by field identifier.
func (v Values) Raw() RawValues {
	return RawValues{
		FieldFirstName: v.FirstName,
		FieldLastName:  v.LastName,
		FieldEmail:     v.Email,
		FieldPhone:     v.Phone,
		FieldDate:      v.Date,
		FieldGroup:     strconv.Itoa(v.Group),
	}
}
