package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/minibot"
	"github.com/aretw0/minibot/internal/logging"
	"github.com/aretw0/minibot/pkg/intents"
)

// Runner is the read-answer loop of a conversation.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Catalog supplies the welcome banner, exit words and goodbye message.
	Catalog *intents.Catalog

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Headless suppresses the welcome banner.
	Headless bool

	// Renderer is handed to the default TextHandler.
	Renderer ContentRenderer
}

// NewRunner creates a Runner with default Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Catalog == nil {
		r.Catalog = intents.Default()
	}
	return r
}

// Run answers messages until an exit word, end of input or an interrupt.
// The goodbye message is printed in all three cases. Only IO failures are returned.
func (r *Runner) Run(ctx context.Context, bot Responder) error {
	handler := r.resolveHandler()
	if c, ok := handler.(io.Closer); ok {
		defer c.Close()
	}

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	if !r.Headless && r.Catalog.Welcome != "" {
		if err := handler.SystemOutput(ctx, r.Catalog.Welcome); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}

	for {
		raw, err := handler.Input(signals.Context())
		if err != nil {
			signals.CheckRace()
			switch {
			case signals.Interrupted():
				r.Logger.Debug("Runner input: interrupted", "err", err)
				return r.goodbye(context.WithoutCancel(ctx), handler)
			case errors.Is(err, io.EOF):
				return r.goodbye(ctx, handler)
			default:
				return fmt.Errorf("input error: %w", err)
			}
		}

		if r.Catalog.IsExit(raw) {
			return r.goodbye(ctx, handler)
		}

		reply := bot.Answer(signals.Context(), raw)
		r.Logger.Debug("Runner: answered", "source", reply.Source)
		if err := handler.Output(ctx, reply); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

func (r *Runner) goodbye(ctx context.Context, handler IOHandler) error {
	if err := handler.Output(ctx, minibot.Reply{Text: r.Catalog.Goodbye, Source: "exit"}); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	th := NewTextHandler(nil, nil, WithTextHandlerRenderer(r.Renderer))
	// Memoize to prevent creating new Pumps on subsequent Run() calls
	r.Handler = th
	return th
}
