package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/minibot/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one structured record per event.
// Failures are logged at Warn, everything else at Debug.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnIntentMatch: func(ctx context.Context, e *domain.IntentEvent) {
			logger.DebugContext(ctx, "intent_match", "intent", e.Intent)
		},
		OnHandlerFailure: func(ctx context.Context, e *domain.IntentEvent) {
			logger.WarnContext(ctx, "handler_failure", "intent", e.Intent, "err", e.Err)
		},
		OnNoMatch: func(ctx context.Context, e *domain.IntentEvent) {
			logger.DebugContext(ctx, "no_match", "text", e.Text)
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvalEvent) {
			if e.ErrorKind != "" {
				logger.DebugContext(ctx, "evaluate", "expression", e.Expression, "error_kind", e.ErrorKind)
				return
			}
			logger.DebugContext(ctx, "evaluate", "expression", e.Expression, "result", e.Result)
		},
		OnReply: func(ctx context.Context, e *domain.ReplyEvent) {
			logger.DebugContext(ctx, "reply", "source", e.Source, "duration", e.Duration)
		},
	}
}
