package runner

import (
	"context"

	"github.com/aretw0/minibot"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (REPL) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents a reply to the user.
	Output(ctx context.Context, reply minibot.Reply) error

	// Input reads the next message. It returns io.EOF when the stream ends
	// and ctx.Err() when ctx is done first.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (banner, input errors).
	SystemOutput(ctx context.Context, msg string) error
}

// Responder answers one raw message. *minibot.Bot implements it.
type Responder interface {
	Answer(ctx context.Context, raw string) minibot.Reply
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, raw string) minibot.Reply

// Answer calls f(ctx, raw).
func (f ResponderFunc) Answer(ctx context.Context, raw string) minibot.Reply {
	return f(ctx, raw)
}

// ContentRenderer is a function that transforms the reply before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
