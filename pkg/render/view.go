package render

import (
	"github.com/goliatone/go-bookingform/pkg/form"
	"github.com/goliatone/go-bookingform/pkg/model"
)

// Submit control labels.
const (
	SubmitLabel     = "Submit"
	SubmittingLabel = "Submitting"
)

// FieldView is the label/input/error triple for one registry entry.
type FieldView struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Placeholder string          `json:"placeholder"`
	Kind        model.InputKind `json:"kind"`
	Value       string          `json:"value"`
	Touched     bool            `json:"touched"`
	Invalid     bool            `json:"invalid"`
	// Error is only populated when the field is both touched and invalid.
	Error string `json:"error,omitempty"`
}

// View is everything a renderer needs to draw the form.
type View struct {
	FormID      string      `json:"formId"`
	Action      string      `json:"action"`
	Method      string      `json:"method"`
	Fields      []FieldView `json:"fields"`
	Status      form.Status `json:"status"`
	Submitting  bool        `json:"submitting"`
	SubmitLabel string      `json:"submitLabel"`
	FormErrors  []string    `json:"formErrors,omitempty"`
}

// BuildView projects the registry and controller state into a View. It is a
// pure function: field order follows the registry and errors are gated on the
// touched set.
func BuildView(registry model.FormModel, state form.State) View {
	view := View{
		FormID:      registry.ID,
		Action:      registry.Action,
		Method:      registry.Method,
		Fields:      make([]FieldView, 0, len(registry.Fields)),
		Status:      state.Status(),
		Submitting:  state.Submitting,
		SubmitLabel: SubmitLabel,
		FormErrors:  MergeFormErrors(nil, state.SubmitError),
	}
	if state.Submitting {
		view.SubmitLabel = SubmittingLabel
	}

	for _, field := range registry.Fields {
		view.Fields = append(view.Fields, FieldView{
			ID:          field.Name,
			Label:       field.Label,
			Placeholder: field.Placeholder,
			Kind:        field.Kind,
			Value:       state.Values[field.Name],
			Touched:     state.IsTouched(field.Name),
			Invalid:     state.Errors.For(field.Name) != "",
			Error:       state.VisibleError(field.Name),
		})
	}
	return view
}

// VisibleErrors returns the displayed messages keyed by field.
func (v View) VisibleErrors() map[string]string {
	out := make(map[string]string)
	for _, field := range v.Fields {
		if field.Error != "" {
			out[field.ID] = field.Error
		}
	}
	return out
}
