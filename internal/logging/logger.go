package logging

import (
	"io"
	"log/slog"
	"os"
	"unicode/utf8"
)

// MaxMessageLen caps how much of a user message or expression ends up in a log line.
const MaxMessageLen = 120

// messageKeys are the attributes that carry raw user input.
var messageKeys = map[string]bool{
	"text":       true,
	"expression": true,
	"input":      true,
}

// New returns the minibot logger at level.
// Records go to Stderr: Stdout belongs to the chat loop and to MCP stdio.
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter is New with an explicit destination.
// "error" is renamed to "err" and user input attributes are clipped to MaxMessageLen runes.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}))
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	if messageKeys[a.Key] && a.Value.Kind() == slog.KindString {
		a.Value = slog.StringValue(clip(a.Value.String()))
	}
	return a
}

func clip(s string) string {
	if utf8.RuneCountInString(s) <= MaxMessageLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxMessageLen]) + "…"
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
