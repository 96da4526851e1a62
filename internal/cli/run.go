package cli

import (
	"context"
	"fmt"
	"io"
	"os"
)

// DefaultSessionID names the conversation of a plain `minibot run`.
const DefaultSessionID = "local"

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Headless    bool
	JSON        bool
	Plain       bool
	Debug       bool
	RepliesPath string
	SessionID   string
	RedisURL    string

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// Execute handles the 'run' command logic.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.JSON && opts.Plain {
		return fmt.Errorf("--json and --plain cannot be used together")
	}
	if opts.SessionID == "" {
		opts.SessionID = DefaultSessionID
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return RunSession(ctx, opts)
}
