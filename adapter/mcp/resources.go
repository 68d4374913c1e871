package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/atelier/internal/work/application/commands"
	"github.com/felixgeelhaar/atelier/internal/work/application/queries"
)

// RegisterResources registers MCP resources that expose atelier data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	if deps.App == nil {
		return fmt.Errorf("app is required")
	}
	t := &tools{app: deps.App}

	srv.Resource("atelier://tasks").
		Name("Tasks").
		Description("Every task, highest score first").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return t.readJSON(ctx, uri, func(ctx context.Context) (any, error) {
				return t.listTasks(ctx, taskListInput{IncludeAll: true, Limit: 100})
			})
		})

	srv.Resource("atelier://tasks/open").
		Name("Open Tasks").
		Description("Tasks that are not started, in progress or on hold").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return t.readJSON(ctx, uri, func(ctx context.Context) (any, error) {
				return t.listTasks(ctx, taskListInput{Limit: 50})
			})
		})

	srv.Resource("atelier://plan/today").
		Name("Today's Plan").
		Description("The daily plan of three focus tasks for today").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return t.readJSON(ctx, uri, func(ctx context.Context) (any, error) {
				return t.todayPlan(ctx)
			})
		})

	srv.Resource("atelier://reviews").
		Name("Weekly Reviews").
		Description("The ten most recent weekly reviews").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return t.readJSON(ctx, uri, func(ctx context.Context) (any, error) {
				if t.app.ListWeeklyReviewsHandler == nil {
					return nil, fmt.Errorf("review listing %w", errNoDatabase)
				}
				return t.app.ListWeeklyReviewsHandler.Handle(ctx, 10)
			})
		})

	srv.Resource("atelier://templates").
		Name("Templates").
		Description("Task templates").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return t.readJSON(ctx, uri, func(ctx context.Context) (any, error) {
				if t.app.ListTemplatesHandler == nil {
					return nil, fmt.Errorf("template listing %w", errNoDatabase)
				}
				return t.app.ListTemplatesHandler.Handle(ctx)
			})
		})

	return nil
}

func (t *tools) todayPlan(ctx context.Context) (*queries.DailyPlanDTO, error) {
	if t.app.DailyPlanHandler == nil || t.app.GetDailyPlanHandler == nil {
		return nil, fmt.Errorf("daily plan %w", errNoDatabase)
	}
	res, err := t.app.DailyPlanHandler.Handle(ctx, commands.GetOrCreateDailyPlanCommand{
		Date:  t.app.Calendar.Today(),
		Actor: ActorMCP,
	})
	if err != nil {
		return nil, err
	}
	return t.app.GetDailyPlanHandler.Resolve(ctx, res.Plan)
}

func (t *tools) readJSON(ctx context.Context, uri string, load func(context.Context) (any, error)) (*mcp.ResourceContent, error) {
	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
