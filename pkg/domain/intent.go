package domain

import (
	"context"
	"strings"
)

// Handler produces a reply for normalized input text.
type Handler interface {
	Handle(ctx context.Context, text string) (string, error)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, text string) (string, error)

// Handle calls f(ctx, text).
func (f HandlerFunc) Handle(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// StaticReply returns a Handler that always answers with reply.
func StaticReply(reply string) Handler {
	return HandlerFunc(func(context.Context, string) (string, error) {
		return reply, nil
	})
}

// Intent is a named rule: if any trigger is a substring of the input, Handler answers.
type Intent struct {
	Name     string
	Triggers []string
	Handler  Handler

	// FailsWith is the error kind reported when Handler fails.
	// Defaults to ErrHandlerFailure.
	FailsWith error
}

// Matches reports whether any non-empty trigger is contained in text.
func (i Intent) Matches(text string) bool {
	for _, trigger := range i.Triggers {
		if trigger != "" && strings.Contains(text, trigger) {
			return true
		}
	}
	return false
}
