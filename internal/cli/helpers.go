package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/minibot/internal/logging"
	"github.com/aretw0/minibot/pkg/adapters/memory"
	"github.com/aretw0/minibot/pkg/adapters/redis"
	"github.com/aretw0/minibot/pkg/domain"
	"github.com/aretw0/minibot/pkg/intents"
	"github.com/aretw0/minibot/pkg/observability"
	"github.com/aretw0/minibot/pkg/ports"
	"github.com/aretw0/minibot/pkg/session"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from the conversation on Stdout).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// loadCatalog returns the built-in catalog, overridden by the YAML file at path if set.
func loadCatalog(path string, logger *slog.Logger) (*intents.Catalog, error) {
	catalog, err := intents.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}
	if path != "" {
		logger.Info("Replies loaded", "path", path)
	}
	return catalog, nil
}

// backend is where task lists live: one in-memory list per session,
// or Redis shared between processes.
type backend struct {
	Tasks  ports.TaskStoreFactory
	Locker ports.DistributedLocker
	Index  ports.SessionIndex
	close  func() error
}

// sessionOptions shares the backend's locker and session index with a Manager.
func (b *backend) sessionOptions() []session.Option {
	var opts []session.Option
	if b.Locker != nil {
		opts = append(opts, session.WithLocker(b.Locker))
	}
	if b.Index != nil {
		opts = append(opts, session.WithSessionIndex(b.Index))
	}
	return opts
}

func (b *backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// openBackend connects to Redis when redisURL is set and falls back to memory otherwise.
func openBackend(ctx context.Context, redisURL string, logger *slog.Logger) (*backend, error) {
	if redisURL == "" {
		logger.Debug("Using in-memory task store")
		return &backend{Tasks: memory.Factory()}, nil
	}

	store, err := redis.NewFromURL(redisURL)
	if err != nil {
		return nil, err
	}
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("Using redis task store", "prefix", store.Prefix())

	return &backend{
		Tasks:  store.Factory(),
		Locker: redis.NewLocker(store.Client(), store.Prefix()),
		Index:  store,
		close:  store.Close,
	}, nil
}

// createHooks logs every bot event and feeds metrics when set.
func createHooks(logger *slog.Logger, metrics *observability.Metrics) domain.LifecycleHooks {
	hooks := observability.LogHooks(logger)
	if metrics != nil {
		hooks = hooks.Merge(metrics.Hooks())
	}
	return hooks
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil // Exit 0 for interruptions
	}
	return err
}
