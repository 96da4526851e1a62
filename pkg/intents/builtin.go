package intents

import (
	"time"

	"github.com/aretw0/minibot/pkg/domain"
	"github.com/aretw0/minibot/pkg/ports"
)

// Config wires the built-in intents to their collaborators.
type Config struct {
	Catalog *Catalog
	Tasks   ports.TaskStore
	Now     func() time.Time
	Hooks   domain.LifecycleHooks
}

// Builtin returns the built-in intent table in priority order.
// Tasks is shared by the add, clear and list handlers.
func Builtin(cfg Config) []domain.Intent {
	c := cfg.Catalog
	if c == nil {
		c = Default()
	}

	handlers := map[string]domain.Handler{
		Greeting:  domain.StaticReply(c.Entry(Greeting).Reply),
		Time:      &TimeHandler{Entry: c.Entry(Time), Now: cfg.Now},
		Help:      domain.StaticReply(c.Entry(Help).Reply),
		Identity:  domain.StaticReply(c.Entry(Identity).Reply),
		Joke:      domain.StaticReply(c.Entry(Joke).Reply),
		Calc:      &CalcHandler{Entry: c.Entry(Calc), Hooks: cfg.Hooks},
		TodoAdd:   &AddTaskHandler{Entry: c.Entry(TodoAdd), Store: cfg.Tasks},
		TodoClear: &ClearTasksHandler{Entry: c.Entry(TodoClear), Store: cfg.Tasks},
		TodoList:  &ListTasksHandler{Catalog: c, Store: cfg.Tasks},
	}

	table := make([]domain.Intent, 0, len(Order))
	for _, name := range Order {
		table = append(table, domain.Intent{
			Name:     name,
			Triggers: c.Entry(name).Triggers,
			Handler:  handlers[name],
		})
	}
	return table
}
