package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/minibot/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the adapter.
const DefaultPrefix = "minibot:session:"

// Store opens Redis-backed task lists, one list per session.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for task lists. Every append refreshes it.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromURL creates a store from a redis:// URL.
func NewFromURL(url string, opts ...Option) (*Store, error) {
	o, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(o), opts...), nil
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client (e.g. to build a Locker on the same connection).
func (s *Store) Client() *backend.Client {
	return s.client
}

// Prefix returns the key prefix.
func (s *Store) Prefix() string {
	return s.prefix
}

// Tasks returns the task list of sessionID.
func (s *Store) Tasks(sessionID string) *TaskStore {
	return &TaskStore{store: s, sessionID: sessionID}
}

// Factory adapts Tasks to ports.TaskStoreFactory.
func (s *Store) Factory() ports.TaskStoreFactory {
	return func(sessionID string) ports.TaskStore {
		return s.Tasks(sessionID)
	}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// List returns the sessions that currently own a task list.
// Expired entries are pruned from the index lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
	}

	sessions, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) tasksKey(sessionID string) string {
	return s.prefix + sessionID + ":tasks"
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// TaskStore implements ports.TaskStore on a Redis list.
type TaskStore struct {
	store     *Store
	sessionID string
}

// Append pushes item to the tail of the list and refreshes the session index.
func (t *TaskStore) Append(ctx context.Context, item string) error {
	s := t.store
	key := s.tasksKey(t.sessionID)

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, item)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}

	// Score = Now + TTL. If TTL = 0, Score = far future.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: t.sessionID})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append task: %w", err)
	}
	return nil
}

// Items returns the list in insertion order.
func (t *TaskStore) Items(ctx context.Context) ([]string, error) {
	items, err := t.store.client.LRange(ctx, t.store.tasksKey(t.sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	return items, nil
}

// Clear deletes the list and drops the session from the index.
func (t *TaskStore) Clear(ctx context.Context) error {
	s := t.store
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.tasksKey(t.sessionID))
	pipe.ZRem(ctx, s.indexKey(), t.sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	return nil
}
