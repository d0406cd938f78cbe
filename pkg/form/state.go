package form

import (
	"fmt"

	"github.com/goliatone/go-bookingform/pkg/model"
	"github.com/goliatone/go-bookingform/pkg/validation"
)

// EventKind names a user interaction.
type EventKind string

const (
	EventChange EventKind = "change"
	EventBlur   EventKind = "blur"
	EventSubmit EventKind = "submit"
)

// Event is one user interaction. Value is only meaningful for change events.
type Event struct {
	Kind  EventKind `json:"type"`
	Field string    `json:"field,omitempty"`
	Value string    `json:"value,omitempty"`
}

// Change builds a change event.
func Change(field, value string) Event {
	return Event{Kind: EventChange, Field: field, Value: value}
}

// Blur builds a blur event.
func Blur(field string) Event {
	return Event{Kind: EventBlur, Field: field}
}

// Submit builds a submit event.
func Submit() Event {
	return Event{Kind: EventSubmit}
}

// Status is the observable phase of the form.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	// StatusSubmitted is idle again after a submission completed.
	StatusSubmitted Status = "submitted"
)

// State is the full controller state.
type State struct {
	Values      model.RawValues   `json:"values"`
	Touched     map[string]bool   `json:"touched"`
	Errors      validation.Result `json:"errors"`
	Submitting  bool              `json:"submitting"`
	SubmitCount int               `json:"submitCount"`
	Completed   int               `json:"completed"`
	SubmitError string            `json:"submitError,omitempty"`
}

// NewState seeds a state with initial values and nothing touched.
func NewState(values model.RawValues) State {
	return State{
		Values:  values.Clone(),
		Touched: make(map[string]bool),
		Errors:  make(validation.Result),
	}
}

// Status reports the observable phase.
func (s State) Status() Status {
	switch {
	case s.Submitting:
		return StatusSubmitting
	case s.Completed > 0:
		return StatusSubmitted
	default:
		return StatusIdle
	}
}

// IsTouched reports whether the field was blurred or a submit was attempted.
func (s State) IsTouched(name string) bool {
	return s.Touched[name]
}

// VisibleError returns the message to display for a field. Errors stay hidden
// until the field is touched.
func (s State) VisibleError(name string) string {
	if !s.Touched[name] {
		return ""
	}
	return s.Errors.For(name)
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Values = s.Values.Clone()
	out.Errors = s.Errors.Clone()
	out.Touched = make(map[string]bool, len(s.Touched))
	for key, value := range s.Touched {
		out.Touched[key] = value
	}
	return out
}

// Reduce applies one event to the values and touched set. It never mutates its
// input and leaves the validation result and submitting flag alone; callers
// project those afterwards.
func Reduce(form model.FormModel, s State, e Event) (State, error) {
	next := s.Clone()

	switch e.Kind {
	case EventChange:
		if _, ok := form.Field(e.Field); !ok {
			return s, fmt.Errorf("%w: %q", ErrUnknownField, e.Field)
		}
		next.Values[e.Field] = e.Value
	case EventBlur:
		if _, ok := form.Field(e.Field); !ok {
			return s, fmt.Errorf("%w: %q", ErrUnknownField, e.Field)
		}
		next.Touched[e.Field] = true
	case EventSubmit:
		for _, field := range form.Fields {
			next.Touched[field.Name] = true
		}
		next.SubmitCount++
		next.SubmitError = ""
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownEvent, e.Kind)
	}

	return next, nil
}
