package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/minibot"
	"github.com/aretw0/minibot/internal/logging"
	"github.com/aretw0/minibot/pkg/adapters/memory"
	"github.com/aretw0/minibot/pkg/domain"
	"github.com/aretw0/minibot/pkg/ports"
)

const (
	// DefaultLockTTL bounds how long a distributed session lock survives a crashed holder.
	DefaultLockTTL = 30 * time.Second

	// DefaultIdleTTL is how long a session's Bot stays in memory without a message.
	DefaultIdleTTL = 30 * time.Minute

	// DefaultMaxSessions caps the Bots held in memory at once.
	DefaultMaxSessions = 10000
)

// ErrEmptySessionID is returned when an operation is called without a session ID.
var ErrEmptySessionID = errors.New("session id is required")

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// botEntry is a session's Bot and the last time a message reached it.
type botEntry struct {
	bot      *minibot.Bot
	lastUsed time.Time
}

// Manager owns one Bot per session and serializes every message of a session.
// It uses Reference Counting to garbage collect unused locks.
//
// Bots idle for longer than the idle TTL are evicted when a new session starts,
// and the oldest idle Bot makes room once the session cap is reached. An evicted
// session starts over with a fresh Bot on its next message; its task list survives
// only if the TaskStoreFactory persists it.
type Manager struct {
	tasks   ports.TaskStoreFactory
	botOpts []minibot.Option

	mu    sync.Mutex            // Global lock for the maps
	locks map[string]*lockEntry // Map of active locks
	bots  map[string]*botEntry

	idleTTL     time.Duration
	maxSessions int
	now         func() time.Time

	index   ports.SessionIndex      // Optional index of persisted sessions
	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithIdleTTL overrides DefaultIdleTTL. Zero or less disables idle eviction.
func WithIdleTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.idleTTL = ttl
	}
}

// WithMaxSessions overrides DefaultMaxSessions. Zero or less removes the cap.
func WithMaxSessions(n int) Option {
	return func(m *Manager) {
		m.maxSessions = n
	}
}

// WithClock replaces time.Now for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithSessionIndex makes List include sessions persisted by the task backend,
// including those whose Bot was evicted or lives in another process.
func WithSessionIndex(index ports.SessionIndex) Option {
	return func(m *Manager) {
		m.index = index
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithBotOptions are applied to every Bot the Manager creates.
func WithBotOptions(opts ...minibot.Option) Option {
	return func(m *Manager) {
		m.botOpts = append(m.botOpts, opts...)
	}
}

// NewManager creates a Session Manager. tasks opens the task list of a session;
// nil means a fresh in-memory list per session.
func NewManager(tasks ports.TaskStoreFactory, opts ...Option) *Manager {
	if tasks == nil {
		tasks = memory.Factory()
	}
	m := &Manager{
		tasks:   tasks,
		locks:   make(map[string]*lockEntry),
		bots:        make(map[string]*botEntry),
		idleTTL:     DefaultIdleTTL,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		lockTTL:     DefaultLockTTL,
		logger:      logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// bot returns the Bot of a session, creating it on first use.
// The caller must hold the session lock.
func (m *Manager) bot(sessionID string) *minibot.Bot {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if e, ok := m.bots[sessionID]; ok {
		e.lastUsed = now
		return e.bot
	}

	m.evictLocked(now)
	opts := append([]minibot.Option{
		minibot.WithTaskStore(m.tasks(sessionID)),
		minibot.WithName(sessionID),
	}, m.botOpts...)
	b := minibot.New(opts...)
	m.bots[sessionID] = &botEntry{bot: b, lastUsed: now}
	m.logger.Debug("Session started", "session_id", sessionID)
	return b
}

// evictLocked drops idle Bots and, at the cap, the least recently used one.
// Sessions with a message in flight hold a lock entry and are never evicted.
// m.mu must be held.
func (m *Manager) evictLocked(now time.Time) {
	var oldestID string
	var oldest time.Time
	for id, e := range m.bots {
		if _, busy := m.locks[id]; busy {
			continue
		}
		if m.idleTTL > 0 && now.Sub(e.lastUsed) > m.idleTTL {
			delete(m.bots, id)
			m.logger.Debug("Session evicted", "session_id", id, "reason", "idle")
			continue
		}
		if oldestID == "" || e.lastUsed.Before(oldest) {
			oldestID, oldest = id, e.lastUsed
		}
	}
	if m.maxSessions > 0 && len(m.bots) >= m.maxSessions && oldestID != "" {
		delete(m.bots, oldestID)
		m.logger.Debug("Session evicted", "session_id", oldestID, "reason", "capacity")
	}
}

// Evict drops every Bot idle for longer than the idle TTL and returns how many went.
func (m *Manager) Evict() int {
	if m.idleTTL <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for id, e := range m.bots {
		if _, busy := m.locks[id]; busy {
			continue
		}
		if now.Sub(e.lastUsed) > m.idleTTL {
			delete(m.bots, id)
			n++
		}
	}
	return n
}

// Len returns the number of Bots held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bots)
}

// Respond answers raw within the session. Messages of one session never run concurrently.
func (m *Manager) Respond(ctx context.Context, sessionID, raw string) (minibot.Reply, error) {
	var reply minibot.Reply
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		reply = m.bot(sessionID).Answer(ctx, raw)
		return nil
	})
	return reply, err
}

// Tasks lists the task list of a session.
func (m *Manager) Tasks(ctx context.Context, sessionID string) ([]string, error) {
	var items []string
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		items, err = m.bot(sessionID).Tasks().Items(ctx)
		return err
	})
	return items, err
}

// ClearTasks empties the task list of a session.
func (m *Manager) ClearTasks(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.bot(sessionID).Tasks().Clear(ctx)
	})
}

// Lookup returns the Bot of a session this Manager has already served.
func (m *Manager) Lookup(sessionID string) (*minibot.Bot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.bots[sessionID]; ok {
		return e.bot, nil
	}
	return nil, domain.ErrSessionNotFound
}

// Delete clears the task list of a session and forgets its Bot. A session known
// only to the session index (evicted, or served by another process) is cleared too.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var tasks ports.TaskStore
		if b, err := m.Lookup(sessionID); err == nil {
			tasks = b.Tasks()
		} else if ok, err := m.indexed(ctx, sessionID); err != nil {
			return err
		} else if ok {
			tasks = m.tasks(sessionID)
		} else {
			return domain.ErrSessionNotFound
		}
		if err := tasks.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear session tasks: %w", err)
		}

		m.mu.Lock()
		delete(m.bots, sessionID)
		m.mu.Unlock()
		return nil
	})
}

// List returns the IDs of the sessions held in memory, merged with the session
// index when one is configured, sorted and without duplicates.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	seen := make(map[string]bool, len(m.bots))
	for id := range m.bots {
		seen[id] = true
	}
	m.mu.Unlock()

	if m.index != nil {
		persisted, err := m.index.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list persisted sessions: %w", err)
		}
		for _, id := range persisted {
			seen[id] = true
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Manager) indexed(ctx context.Context, sessionID string) (bool, error) {
	if m.index == nil {
		return false, nil
	}
	ids, err := m.index.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list persisted sessions: %w", err)
	}
	return slices.Contains(ids, sessionID), nil
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	// Distributed Locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
