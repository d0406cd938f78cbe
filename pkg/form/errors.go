package form

import "errors"

var (
	// ErrUnknownField is returned for events naming a field outside the
	// registry.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrSubmitInFlight is returned when a submit arrives while a previous
	// submission has not finished.
	ErrSubmitInFlight = errors.New("form: submission already in progress")
	// ErrUnknownEvent is returned for unsupported event kinds.
	ErrUnknownEvent = errors.New("form: unknown event")
)
