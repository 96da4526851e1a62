package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aretw0/minibot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "minibot"

// OutcomeOK labels successful evaluations; failures use the error kind.
const OutcomeOK = "ok"

// Metrics holds the Prometheus collectors fed by the lifecycle hooks.
type Metrics struct {
	IntentMatches   *prometheus.CounterVec
	HandlerFailures *prometheus.CounterVec
	NoMatch         prometheus.Counter
	Evaluations     *prometheus.CounterVec
	ReplyDuration   *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg.
// A *prometheus.Registry also serves as the gatherer for Handler.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		IntentMatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "intent_matches_total",
				Help:      "Total number of messages routed to an intent",
			},
			[]string{"intent"},
		),
		HandlerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "handler_failures_total",
				Help:      "Total number of intent handlers that failed or panicked",
			},
			[]string{"intent"},
		),
		NoMatch: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "no_match_total",
				Help:      "Total number of messages no intent matched",
			},
		),
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Arithmetic evaluations by outcome",
			},
			[]string{"outcome"},
		),
		ReplyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "reply_duration_seconds",
				Help:      "Time spent answering a message",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"source"},
		),
	}

	for _, c := range []prometheus.Collector{m.IntentMatches, m.HandlerFailures, m.NoMatch, m.Evaluations, m.ReplyDuration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	} else {
		m.gatherer = prometheus.DefaultGatherer
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnIntentMatch: func(_ context.Context, e *domain.IntentEvent) {
			m.IntentMatches.WithLabelValues(e.Intent).Inc()
		},
		OnHandlerFailure: func(_ context.Context, e *domain.IntentEvent) {
			m.HandlerFailures.WithLabelValues(e.Intent).Inc()
		},
		OnNoMatch: func(context.Context, *domain.IntentEvent) {
			m.NoMatch.Inc()
		},
		OnEvaluate: func(_ context.Context, e *domain.EvalEvent) {
			outcome := OutcomeOK
			if e.ErrorKind != "" {
				outcome = e.ErrorKind
			}
			m.Evaluations.WithLabelValues(outcome).Inc()
		},
		OnReply: func(_ context.Context, e *domain.ReplyEvent) {
			m.ReplyDuration.WithLabelValues(e.Source).Observe(e.Duration.Seconds())
		},
	}
}

// Handler serves the registered metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
