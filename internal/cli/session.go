package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/aretw0/minibot"
	"github.com/aretw0/minibot/internal/presentation/tui"
	"github.com/aretw0/minibot/pkg/intents"
	"github.com/aretw0/minibot/pkg/runner"
)

// RunSession executes a single console conversation.
func RunSession(ctx context.Context, opts RunOptions) error {
	logger := createLogger(opts.Debug)

	catalog, err := loadCatalog(opts.RepliesPath, logger)
	if err != nil {
		return err
	}

	// Setup signal handling
	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	store, err := openBackend(sigCtx, opts.RedisURL, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	interactive := !opts.JSON && !opts.Headless && !opts.Plain && stdoutIsTerminal(opts)
	if interactive {
		tui.PrintBanner(opts.Stdout)
	}

	botOpts := []minibot.Option{
		minibot.WithCatalog(catalog),
		minibot.WithTaskStore(store.Tasks(opts.SessionID)),
		minibot.WithName(opts.SessionID),
	}
	if opts.Debug {
		botOpts = append(botOpts,
			minibot.WithLogger(logger),
			minibot.WithLifecycleHooks(createHooks(logger, nil)),
		)
	}
	bot := minibot.New(botOpts...)

	r := runner.NewRunner(createRunnerOptions(opts, catalog, interactive, logger)...)
	logger.Info("Session started", "session_id", opts.SessionID)

	runErr := r.Run(sigCtx, bot)
	if sig := sigCtx.Signal(); sig != nil && !opts.JSON && !opts.Headless {
		printSystemMessage(opts.Stdout, "Interrupted (%s).", sig)
	}
	return handleExecutionError(runErr)
}

// createRunnerOptions prepares the functional options for the Runner.
func createRunnerOptions(opts RunOptions, catalog *intents.Catalog, interactive bool, logger *slog.Logger) []runner.Option {
	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithHeadless(opts.Headless),
		runner.WithCatalog(catalog),
	}

	switch {
	case opts.JSON:
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewJSONHandler(opts.Stdin, opts.Stdout)))
	case interactive:
		var handlerOpts []runner.TextHandlerOption
		if render, err := tui.NewRenderer(); err == nil {
			handlerOpts = append(handlerOpts, runner.WithTextHandlerRenderer(render))
		} else {
			logger.Warn("Markdown rendering disabled", "err", err)
		}
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewTextHandler(opts.Stdin, opts.Stdout, handlerOpts...)))
	default:
		var handlerOpts []runner.TextHandlerOption
		if opts.Headless {
			handlerOpts = append(handlerOpts, runner.WithPrompt(""))
		}
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewTextHandler(opts.Stdin, opts.Stdout, handlerOpts...)))
	}
	return runnerOpts
}

func stdoutIsTerminal(opts RunOptions) bool {
	f, ok := opts.Stdout.(*os.File)
	return ok && tui.IsInteractive(f)
}
