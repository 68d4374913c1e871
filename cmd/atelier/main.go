package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/atelier/adapter/cli"
	"github.com/felixgeelhaar/atelier/adapter/cli/mcp"
	"github.com/felixgeelhaar/atelier/adapter/cli/task"
	"github.com/felixgeelhaar/atelier/adapter/cli/template"
	"github.com/felixgeelhaar/atelier/internal/app"
	"github.com/felixgeelhaar/atelier/pkg/config"
	"github.com/felixgeelhaar/atelier/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := observability.NewLogger(observability.LogConfig{
		Level:       observability.LogLevelWarn,
		Format:      observability.LogFormatText,
		Output:      os.Stderr,
		ServiceName: observability.ServiceName,
	})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// Command output goes to stdout, so the CLI only logs warnings unless
	// LOG_LEVEL=debug.
	if cfg.LogLevel == "debug" {
		logger = observability.NewLogger(observability.LogConfig{
			Level:          observability.LogLevelDebug,
			Format:         observability.LogFormatText,
			Output:         os.Stderr,
			ServiceName:    observability.ServiceName,
			ServiceVersion: cli.Version,
		})
	}
	cli.SetLogger(logger)

	// The mcp command builds its own container, so a broken database only
	// disables the commands that need it.
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()
		cliApp = cli.NewApp(container)
	}
	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(task.Cmd)
	cli.AddCommand(template.Cmd)
	cli.AddCommand(mcp.Cmd)

	cli.Execute(ctx)
}
