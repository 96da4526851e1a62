package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/minibot/internal/logging"
	"github.com/aretw0/minibot/pkg/domain"
)

// DiagnosticPrefix starts every reply produced for a failed handler.
const DiagnosticPrefix = "Bu komutta bir hata oluştu: "

// Router dispatches normalized text to the first matching intent.
// The intent table is copied on construction and never mutated afterwards.
type Router struct {
	intents []domain.Intent
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures the Router.
type Option func(*Router)

// WithLogger configures a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Router) {
		r.hooks = hooks
	}
}

// New creates a Router over an ordered intent table. Earlier intents take priority.
func New(intents []domain.Intent, opts ...Option) *Router {
	r := &Router{
		intents: cloneIntents(intents),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Intents returns a copy of the intent table in priority order.
func (r *Router) Intents() []domain.Intent {
	return cloneIntents(r.intents)
}

// cloneIntents copies the table down to each intent's trigger list.
func cloneIntents(intents []domain.Intent) []domain.Intent {
	out := make([]domain.Intent, len(intents))
	for i, intent := range intents {
		intent.Triggers = slices.Clone(intent.Triggers)
		out[i] = intent
	}
	return out
}

// Match returns the first intent whose triggers occur in text.
func (r *Router) Match(text string) (domain.Intent, bool) {
	for _, intent := range r.intents {
		if intent.Matches(text) {
			return intent, true
		}
	}
	return domain.Intent{}, false
}

// Dispatch answers text with the first matching intent.
// The boolean is false when nothing matched, so the caller can fall through to other strategies.
// A failing (or panicking) handler never escapes: it is turned into a diagnostic reply.
func (r *Router) Dispatch(ctx context.Context, text string) (string, bool) {
	intent, ok := r.Match(text)
	if !ok {
		r.logger.Debug("No intent matched", "text", text)
		if r.hooks.OnNoMatch != nil {
			r.hooks.OnNoMatch(ctx, &domain.IntentEvent{EventBase: domain.NewEventBase(domain.EventNoMatch), Text: text})
		}
		return "", false
	}

	r.logger.Debug("Intent matched", "intent", intent.Name)
	if r.hooks.OnIntentMatch != nil {
		r.hooks.OnIntentMatch(ctx, &domain.IntentEvent{EventBase: domain.NewEventBase(domain.EventIntentMatch), Intent: intent.Name, Text: text})
	}

	reply, err := invoke(ctx, intent, text)
	if err != nil {
		failure := &domain.HandlerFailure{Intent: intent.Name, Kind: failureKind(intent), Cause: err}
		r.logger.Warn("Handler failed", "intent", intent.Name, "error", failure)
		if r.hooks.OnHandlerFailure != nil {
			r.hooks.OnHandlerFailure(ctx, &domain.IntentEvent{EventBase: domain.NewEventBase(domain.EventHandlerFailure), Intent: intent.Name, Text: text, Err: failure})
		}
		return Diagnostic(failure), true
	}
	return reply, true
}

// Diagnostic renders a handler failure as the generic user-facing message.
func Diagnostic(err error) string {
	var failure *domain.HandlerFailure
	if errors.As(err, &failure) {
		return DiagnosticPrefix + failure.Cause.Error()
	}
	return DiagnosticPrefix + err.Error()
}

func failureKind(intent domain.Intent) error {
	if intent.FailsWith != nil {
		return intent.FailsWith
	}
	return domain.ErrHandlerFailure
}

// invoke runs the handler, converting panics into errors.
func invoke(ctx context.Context, intent domain.Intent, text string) (reply string, err error) {
	if intent.Handler == nil {
		return "", fmt.Errorf("intent %q has no handler", intent.Name)
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return intent.Handler.Handle(ctx, text)
}
