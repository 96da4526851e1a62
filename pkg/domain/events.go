package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventIntentMatch    EventType = "intent_match"
	EventHandlerFailure EventType = "handler_failure"
	EventNoMatch        EventType = "no_match"
	EventEvaluate       EventType = "evaluate"
	EventReply          EventType = "reply"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NewEventBase stamps an event with the current time.
func NewEventBase(t EventType) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t}
}

// IntentEvent is emitted by the router.
type IntentEvent struct {
	EventBase
	Intent string `json:"intent,omitempty"`
	Text   string `json:"text"`
	Err    error  `json:"-"`
}

// EvalEvent is emitted whenever an expression is evaluated.
type EvalEvent struct {
	EventBase
	Expression string `json:"expression"`
	Result     string `json:"result,omitempty"`
	ErrorKind  string `json:"error_kind,omitempty"`
}

// ReplyEvent is emitted once per answered message, naming the stage that answered
// (an intent name, "math", "mood", "faq" or "fallback").
type ReplyEvent struct {
	EventBase
	Source   string        `json:"source"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for observability. Nil hooks are skipped.
type LifecycleHooks struct {
	OnIntentMatch    func(context.Context, *IntentEvent)
	OnHandlerFailure func(context.Context, *IntentEvent)
	OnNoMatch        func(context.Context, *IntentEvent)
	OnEvaluate       func(context.Context, *EvalEvent)
	OnReply          func(context.Context, *ReplyEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnIntentMatch:    chain(h.OnIntentMatch, other.OnIntentMatch),
		OnHandlerFailure: chain(h.OnHandlerFailure, other.OnHandlerFailure),
		OnNoMatch:        chain(h.OnNoMatch, other.OnNoMatch),
		OnEvaluate:       chain(h.OnEvaluate, other.OnEvaluate),
		OnReply:          chain(h.OnReply, other.OnReply),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
