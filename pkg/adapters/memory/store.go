package memory

import (
	"context"
	"sync"

	"github.com/aretw0/minibot/pkg/ports"
)

// TaskStore implements ports.TaskStore in memory.
// Safe for concurrent use.
type TaskStore struct {
	items []string
	mu    sync.RWMutex
}

// NewTaskStore creates an empty in-memory task list.
func NewTaskStore() *TaskStore {
	return &TaskStore{}
}

// Factory returns a ports.TaskStoreFactory that opens a fresh list per session.
func Factory() ports.TaskStoreFactory {
	return func(string) ports.TaskStore {
		return NewTaskStore()
	}
}

// Append adds item at the end of the list.
func (s *TaskStore) Append(ctx context.Context, item string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return nil
}

// Items returns a copy of the list so callers can't mutate the store through it.
func (s *TaskStore) Items(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ret := make([]string, len(s.items))
	copy(ret, s.items)
	return ret, nil
}

// Clear removes every item.
func (s *TaskStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}
