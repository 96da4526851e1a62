package ports

import "context"

// TaskStore holds the task list of a single conversation.
// Items keep insertion order; there is no dedup and no removal by index.
type TaskStore interface {
	// Append adds item at the end of the list.
	Append(ctx context.Context, item string) error

	// Items returns the list in insertion order. An empty list is not an error.
	Items(ctx context.Context) ([]string, error)

	// Clear removes every item.
	Clear(ctx context.Context) error
}

// TaskStoreFactory opens the task list owned by a session.
type TaskStoreFactory func(sessionID string) TaskStore
