package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/minibot"
	"github.com/aretw0/minibot/internal/logging"
	"github.com/aretw0/minibot/pkg/adapters/mcp"
	"github.com/aretw0/minibot/pkg/session"
)

// Supported MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// MCPOptions contains the configuration for the MCP command.
type MCPOptions struct {
	Transport   string
	Port        int
	Debug       bool
	RepliesPath string
	RedisURL    string
}

// ServeMCP exposes the bot as an MCP server on the chosen transport.
// Logs always go to Stderr so they never corrupt JSON-RPC on Stdout.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	logger := logging.New(slog.LevelInfo)
	if opts.Debug {
		logger = logging.New(slog.LevelDebug)
	}

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

	mgrOpts := []session.Option{
		session.WithLogger(logger),
		session.WithBotOptions(minibot.WithCatalog(catalog), minibot.WithLogger(logger)),
	}
	mgrOpts = append(mgrOpts, store.sessionOptions()...)
	mgr := session.NewManager(store.Tasks, mgrOpts...)

	srv := mcp.NewServer(mgr,
		mcp.WithLogger(logger),
		mcp.WithEvaluator(minibot.New(minibot.WithCatalog(catalog), minibot.WithLogger(logger))),
	)

	switch opts.Transport {
	case "", TransportStdio:
		logger.Info("Starting minibot MCP Server (Stdio)...")
		return srv.ServeStdio()
	case TransportSSE:
		logger.Info("Starting minibot MCP Server (SSE)", "port", opts.Port)
		if err := srv.ServeSSE(sigCtx, opts.Port); err != nil {
			return err
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
	}
}
