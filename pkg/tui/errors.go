package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalidChoice is returned when a select prompt yields no option.
	ErrInvalidChoice = errors.New("tui: invalid choice")
)
