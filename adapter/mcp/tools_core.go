package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/atelier/adapter/cli"
)

func registerCoreTools(srv *mcp.Server, t *tools) {
	srv.Tool("cli.health").
		Description("Check CLI wiring health").
		Handler(t.health)

	srv.Tool("cli.version").
		Description("Get CLI version information").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{
				"version":   cli.Version,
				"commit":    cli.Commit,
				"buildDate": cli.BuildDate,
			}, nil
		})
}

func (t *tools) health(ctx context.Context, input struct{}) (map[string]string, error) {
	if t.app.QuickAddTaskHandler == nil {
		return map[string]string{"status": "degraded", "reason": errNoDatabase.Error()}, nil
	}
	return map[string]string{"status": "ok"}, nil
}
