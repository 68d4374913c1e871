package mcp

import (
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/atelier/adapter/cli"
)

// ActorMCP is recorded on events raised through MCP tools.
const ActorMCP = "mcp"

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	t := &tools{app: deps.App}
	registerCoreTools(srv, t)
	registerTaskTools(srv, t)
	registerTimerTools(srv, t)
	registerTemplateTools(srv, t)
	registerPlanTools(srv, t)
	return nil
}

// tools holds the handlers behind every registered tool.
type tools struct {
	app *cli.App
}

var errNoDatabase = errors.New("requires database connection")
