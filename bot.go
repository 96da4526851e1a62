package minibot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/minibot/internal/logging"
	"github.com/aretw0/minibot/internal/normalize"
	"github.com/aretw0/minibot/pkg/adapters/memory"
	"github.com/aretw0/minibot/pkg/calc"
	"github.com/aretw0/minibot/pkg/domain"
	"github.com/aretw0/minibot/pkg/intents"
	"github.com/aretw0/minibot/pkg/ports"
	"github.com/aretw0/minibot/pkg/router"
)

// Reply sources that are not intent names.
const (
	SourceMath     = "math"
	SourceMood     = "mood"
	SourceFAQ      = "faq"
	SourceFallback = "fallback"
)

// Reply is an answer together with the stage that produced it.
type Reply struct {
	Text string `json:"reply"`
	// Source is the intent name, or one of the Source* constants.
	Source string `json:"source"`
}

// Bot is the high-level entry point of the library.
// It owns one task list and answers one message at a time.
type Bot struct {
	catalog *intents.Catalog
	tasks   ports.TaskStore
	now     func() time.Time
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	router  *router.Router
	Name    string
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithCatalog replaces the embedded reply catalog.
func WithCatalog(c *intents.Catalog) Option {
	return func(b *Bot) {
		b.catalog = c
	}
}

// WithTaskStore injects the task list backend (default: in-memory).
func WithTaskStore(s ports.TaskStore) Option {
	return func(b *Bot) {
		b.tasks = s
	}
}

// WithClock overrides the time source used by the time intent.
func WithClock(now func() time.Time) Option {
	return func(b *Bot) {
		b.now = now
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bot) {
		b.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the bot.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithName labels the bot (usually the session id) in logs.
func WithName(name string) Option {
	return func(b *Bot) {
		b.Name = name
	}
}

// New builds a Bot with the built-in intent table.
func New(opts ...Option) *Bot {
	b := &Bot{}
	for _, opt := range opts {
		opt(b)
	}

	if b.catalog == nil {
		b.catalog = intents.Default()
	}
	if b.tasks == nil {
		b.tasks = memory.NewTaskStore()
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	if b.Name != "" {
		b.logger = b.logger.With("session", b.Name)
	}

	table := intents.Builtin(intents.Config{
		Catalog: b.catalog,
		Tasks:   b.tasks,
		Now:     b.now,
		Hooks:   b.hooks,
	})
	b.router = router.New(table,
		router.WithLogger(b.logger),
		router.WithLifecycleHooks(b.hooks),
	)
	return b
}

// Respond answers one raw message. It never fails: errors become replies.
func (b *Bot) Respond(ctx context.Context, raw string) string {
	return b.Answer(ctx, raw).Text
}

// Answer runs the reply pipeline: math shortcut, normalization, intent router,
// mood hint, FAQ and finally the fallback message.
func (b *Bot) Answer(ctx context.Context, raw string) Reply {
	start := time.Now()
	reply := b.answer(ctx, raw)

	b.logger.Debug("Replied", "source", reply.Source)
	if b.hooks.OnReply != nil {
		b.hooks.OnReply(ctx, &domain.ReplyEvent{
			EventBase: domain.NewEventBase(domain.EventReply),
			Source:    reply.Source,
			Duration:  time.Since(start),
		})
	}
	return reply
}

func (b *Bot) answer(ctx context.Context, raw string) Reply {
	if calc.LooksLikeMath(raw) {
		if v, err := b.Evaluate(ctx, raw); err == nil {
			return Reply{Text: fmt.Sprintf(b.catalog.Entry(intents.Calc).Reply, calc.Format(v)), Source: SourceMath}
		}
		// Not a valid expression after all; let the intents have a go.
	}

	text := normalize.Text(raw)
	if intent, ok := b.router.Match(text); ok {
		if reply, ok := b.router.Dispatch(ctx, text); ok {
			return Reply{Text: reply, Source: intent.Name}
		}
	}
	if reply, ok := b.catalog.MoodReply(text); ok {
		return Reply{Text: reply, Source: SourceMood}
	}
	if reply, ok := b.catalog.FAQReply(text); ok {
		return Reply{Text: reply, Source: SourceFAQ}
	}
	return Reply{Text: b.catalog.Fallback, Source: SourceFallback}
}

// Evaluate runs the sandboxed evaluator and reports the outcome to the hooks.
func (b *Bot) Evaluate(ctx context.Context, expr string) (float64, error) {
	v, err := calc.Evaluate(expr)
	if b.hooks.OnEvaluate != nil {
		event := &domain.EvalEvent{EventBase: domain.NewEventBase(domain.EventEvaluate), Expression: expr}
		if err != nil {
			event.ErrorKind = calc.KindOf(err).String()
		} else {
			event.Result = calc.Format(v)
		}
		b.hooks.OnEvaluate(ctx, event)
	}
	return v, err
}

// Tasks returns the task list backing the todo intents.
func (b *Bot) Tasks() ports.TaskStore {
	return b.tasks
}

// Catalog returns the reply catalog in use.
func (b *Bot) Catalog() *intents.Catalog {
	return b.catalog
}

// Intents returns the intent table in priority order.
func (b *Bot) Intents() []domain.Intent {
	return b.router.Intents()
}
