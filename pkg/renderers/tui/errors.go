package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or declined
	// the final confirmation.
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when a field keeps failing validation.
	ErrTooManyAttempts = errors.New("tui: too many invalid attempts")
)
