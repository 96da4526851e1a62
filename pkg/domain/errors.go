package domain

import (
	"errors"
	"fmt"
)

// ErrHandlerFailure is the default kind of error recorded when a matched handler fails.
var ErrHandlerFailure = errors.New("handler failure")

// ErrMissingArgument is returned by argument-taking handlers when the input carries no argument.
var ErrMissingArgument = errors.New("missing argument")

// ErrSessionNotFound is returned when a session ID is unknown.
var ErrSessionNotFound = errors.New("session not found")

// HandlerFailure wraps an error (or recovered panic) raised inside a matched handler.
type HandlerFailure struct {
	Intent string
	Kind   error
	Cause  error
}

func (e *HandlerFailure) Error() string {
	return fmt.Sprintf("intent %q: %v: %v", e.Intent, e.Kind, e.Cause)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *HandlerFailure) Unwrap() []error {
	return []error{e.Kind, e.Cause}
}
