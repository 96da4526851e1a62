package intents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/minibot/pkg/calc"
	"github.com/aretw0/minibot/pkg/domain"
	"github.com/aretw0/minibot/pkg/ports"
)

// TimeLayout is dd.mm.yyyy HH:MM.
const TimeLayout = "02.01.2006 15:04"

// TimeHandler answers with the current date and time.
type TimeHandler struct {
	Entry Entry
	Now   func() time.Time
}

func (h *TimeHandler) Handle(ctx context.Context, text string) (string, error) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return fmt.Sprintf(h.Entry.Reply, now().Format(TimeLayout)), nil
}

// CalcHandler evaluates whatever follows the first trigger. An empty expression is 0.
// Evaluation errors become a readable reply rather than a handler failure.
type CalcHandler struct {
	Entry Entry
	Hooks domain.LifecycleHooks
}

func (h *CalcHandler) Handle(ctx context.Context, text string) (string, error) {
	expr := "0"
	if arg, err := argumentAfter(text, h.Entry.Triggers...); err == nil {
		expr = arg
	}

	v, err := calc.Evaluate(expr)
	if h.Hooks.OnEvaluate != nil {
		event := &domain.EvalEvent{EventBase: domain.NewEventBase(domain.EventEvaluate), Expression: expr}
		if err != nil {
			event.ErrorKind = calc.KindOf(err).String()
		} else {
			event.Result = calc.Format(v)
		}
		h.Hooks.OnEvaluate(ctx, event)
	}
	if err != nil {
		return fmt.Sprintf(h.Entry.Error, DescribeEvalError(err)), nil
	}
	return fmt.Sprintf(h.Entry.Reply, calc.Format(v)), nil
}

// DescribeEvalError turns an evaluator error into a short Turkish explanation.
func DescribeEvalError(err error) string {
	var calcErr *calc.Error
	if !errors.As(err, &calcErr) {
		return err.Error()
	}

	var msg string
	switch calcErr.Kind {
	case calc.KindSyntax:
		msg = "ifade anlaşılamadı"
	case calc.KindDisallowed:
		msg = "ifade desteklenmiyor"
	case calc.KindDivisionByZero:
		msg = "sıfıra bölünemez"
	default:
		msg = "geçersiz işlem"
	}
	if calcErr.Pos >= 0 {
		msg += fmt.Sprintf(" (sütun %d)", calcErr.Pos+1)
	}
	return msg
}

// AddTaskHandler appends the text after "ekle" to the task list.
// A missing item yields the prompt and leaves the list untouched.
type AddTaskHandler struct {
	Entry Entry
	Store ports.TaskStore
}

func (h *AddTaskHandler) Handle(ctx context.Context, text string) (string, error) {
	item, err := argumentAfter(text, "ekle")
	if errors.Is(err, domain.ErrMissingArgument) {
		return h.Entry.Prompt, nil
	}
	if err := h.Store.Append(ctx, item); err != nil {
		return "", fmt.Errorf("failed to add task: %w", err)
	}
	return fmt.Sprintf(h.Entry.Reply, item), nil
}

// ClearTasksHandler empties the task list.
type ClearTasksHandler struct {
	Entry Entry
	Store ports.TaskStore
}

func (h *ClearTasksHandler) Handle(ctx context.Context, text string) (string, error) {
	if err := h.Store.Clear(ctx); err != nil {
		return "", fmt.Errorf("failed to clear tasks: %w", err)
	}
	return h.Entry.Reply, nil
}

// ListTasksHandler renders the task list.
type ListTasksHandler struct {
	Catalog *Catalog
	Store   ports.TaskStore
}

func (h *ListTasksHandler) Handle(ctx context.Context, text string) (string, error) {
	items, err := h.Store.Items(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list tasks: %w", err)
	}
	return h.Catalog.FormatTasks(items), nil
}

// argumentAfter returns the trimmed text after the first occurrence of the first
// marker (in argument order) present in text, or ErrMissingArgument.
func argumentAfter(text string, markers ...string) (string, error) {
	for _, marker := range markers {
		if marker == "" {
			continue
		}
		if _, rest, found := strings.Cut(text, marker); found {
			if arg := strings.TrimSpace(rest); arg != "" {
				return arg, nil
			}
			return "", domain.ErrMissingArgument
		}
	}
	return "", domain.ErrMissingArgument
}
