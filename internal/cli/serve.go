package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/minibot"
	httpAdapter "github.com/aretw0/minibot/pkg/adapters/http"
	"github.com/aretw0/minibot/pkg/observability"
	"github.com/aretw0/minibot/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds how long in-flight requests get after a signal.
const ShutdownTimeout = 5 * time.Second

// ServeOptions contains the configuration for the Serve command.
type ServeOptions struct {
	Port        int
	Debug       bool
	Metrics     bool
	RepliesPath string
	RedisURL    string

	// Stdout receives the startup and shutdown messages. Defaults to os.Stdout.
	Stdout io.Writer

	// Ready, when set, is called once the listener address is known.
	Ready func(addr string)
}

// Serve runs the HTTP API until ctx is done or a signal arrives.
func Serve(ctx context.Context, opts ServeOptions) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	logger := createLogger(opts.Debug)

	catalog, err := loadCatalog(opts.RepliesPath, logger)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	store, err := openBackend(sigCtx, opts.RedisURL, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	var metrics *observability.Metrics
	if opts.Metrics {
		metrics, err = observability.NewMetrics(prometheus.NewRegistry())
		if err != nil {
			return err
		}
	}
	hooks := createHooks(logger, metrics)

	mgrOpts := []session.Option{
		session.WithLogger(logger),
		session.WithBotOptions(
			minibot.WithCatalog(catalog),
			minibot.WithLogger(logger),
			minibot.WithLifecycleHooks(hooks),
		),
	}
	mgrOpts = append(mgrOpts, store.sessionOptions()...)
	mgr := session.NewManager(store.Tasks, mgrOpts...)

	srvOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithLifecycleHooks(hooks),
	}
	if metrics != nil {
		srvOpts = append(srvOpts, httpAdapter.WithMetricsHandler(metrics.Handler()))
	}
	handler, err := httpAdapter.NewHandler(sigCtx, mgr, srvOpts...)
	if err != nil {
		return fmt.Errorf("failed to build http handler: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		printSystemMessage(opts.Stdout, "Starting minibot server on %s", ln.Addr())
		if opts.Ready != nil {
			opts.Ready(ln.Addr().String())
		}
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if sig := sigCtx.Signal(); sig != nil {
			printSystemMessage(opts.Stdout, "Start shutdown... Signal: %v", sig)
		}

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			return srv.Close()
		}
		printSystemMessage(opts.Stdout, "minibot server stopped gracefully")
		return nil
	})
	return g.Wait()
}
