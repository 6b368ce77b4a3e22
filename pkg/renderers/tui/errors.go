package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrRejected is returned when the form is still invalid after the last
	// allowed submit round.
	ErrRejected = errors.New("tui: form rejected")
)
