package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/atelier/internal/work/application/commands"
	"github.com/felixgeelhaar/atelier/internal/work/application/queries"
)

type templateCreateInput struct {
	Name            string `json:"name" jsonschema:"required"`
	Title           string `json:"title" jsonschema:"required"`
	WorkArea        string `json:"work_area,omitempty"`
	Complexity      int    `json:"complexity,omitempty"`
	Collaboration   int    `json:"collaboration,omitempty"`
	Consequence     int    `json:"consequence,omitempty"`
	Theme           string `json:"theme,omitempty"`
	Priority        string `json:"priority,omitempty"`
	EstimateMinutes int    `json:"estimate_minutes,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

type planInput struct {
	Date string `json:"date,omitempty"`
}

type planOutput struct {
	Created bool                  `json:"created"`
	Plan    *queries.DailyPlanDTO `json:"plan"`
}

type reviewLastWeekInput struct {
	Goals string `json:"goals,omitempty"`
}

type reviewCreateInput struct {
	Start string `json:"start" jsonschema:"required"`
	End   string `json:"end" jsonschema:"required"`
	Goals string `json:"goals,omitempty"`
}

type reviewListInput struct {
	Limit int `json:"limit,omitempty"`
}

func registerTemplateTools(srv *mcp.Server, t *tools) {
	srv.Tool("template.create").
		Description("Create a task template. Ratings left at zero use the baseline").
		Handler(t.createTemplate)

	srv.Tool("template.list").
		Description("List task templates").
		Handler(func(ctx context.Context, input struct{}) ([]queries.TemplateDTO, error) {
			if t.app.ListTemplatesHandler == nil {
				return nil, fmt.Errorf("template listing %w", errNoDatabase)
			}
			return t.app.ListTemplatesHandler.Handle(ctx)
		})
}

func registerPlanTools(srv *mcp.Server, t *tools) {
	srv.Tool("plan.today").
		Description("Get the daily plan of three focus tasks, creating it on first request. A stored plan is never recomputed").
		Handler(t.dailyPlan)

	srv.Tool("review.last_week").
		Description("Write a review of the previous Monday to Sunday").
		Handler(t.reviewLastWeek)

	srv.Tool("review.create").
		Description("Write a review of an explicit date range, both ends inclusive").
		Handler(t.createReview)

	srv.Tool("review.list").
		Description("List stored reviews, newest first").
		Handler(func(ctx context.Context, input reviewListInput) ([]queries.WeeklyReviewDTO, error) {
			if t.app.ListWeeklyReviewsHandler == nil {
				return nil, fmt.Errorf("review listing %w", errNoDatabase)
			}
			return t.app.ListWeeklyReviewsHandler.Handle(ctx, input.Limit)
		})
}

func (t *tools) createTemplate(ctx context.Context, input templateCreateInput) (map[string]any, error) {
	if t.app.CreateTemplateHandler == nil {
		return nil, fmt.Errorf("template creation %w", errNoDatabase)
	}
	id, err := t.app.CreateTemplateHandler.Handle(ctx, commands.CreateTemplateCommand{
		Name:            input.Name,
		Title:           input.Title,
		WorkArea:        input.WorkArea,
		Complexity:      input.Complexity,
		Collaboration:   input.Collaboration,
		Consequence:     input.Consequence,
		Theme:           input.Theme,
		Priority:        input.Priority,
		EstimateMinutes: input.EstimateMinutes,
		Notes:           input.Notes,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"template_id": id.String()}, nil
}

func (t *tools) dailyPlan(ctx context.Context, input planInput) (*planOutput, error) {
	if t.app.DailyPlanHandler == nil || t.app.GetDailyPlanHandler == nil {
		return nil, fmt.Errorf("daily plan %w", errNoDatabase)
	}
	date, err := parseDate("date", input.Date)
	if err != nil {
		return nil, err
	}
	res, err := t.app.DailyPlanHandler.Handle(ctx, commands.GetOrCreateDailyPlanCommand{Date: date, Actor: ActorMCP})
	if err != nil {
		return nil, err
	}
	dto, err := t.app.GetDailyPlanHandler.Resolve(ctx, res.Plan)
	if err != nil {
		return nil, err
	}
	return &planOutput{Created: res.Created, Plan: dto}, nil
}

func (t *tools) reviewLastWeek(ctx context.Context, input reviewLastWeekInput) (*queries.WeeklyReviewDTO, error) {
	if t.app.LastWeekReviewHandler == nil {
		return nil, fmt.Errorf("weekly review %w", errNoDatabase)
	}
	r, err := t.app.LastWeekReviewHandler.Handle(ctx, commands.CreateLastWeekReviewCommand{Goals: input.Goals, Actor: ActorMCP})
	if err != nil {
		return nil, err
	}
	dto := queries.ToWeeklyReviewDTO(r)
	return &dto, nil
}

func (t *tools) createReview(ctx context.Context, input reviewCreateInput) (*queries.WeeklyReviewDTO, error) {
	if t.app.WeeklyReviewHandler == nil {
		return nil, fmt.Errorf("weekly review %w", errNoDatabase)
	}
	start, err := parseDate("start", input.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end", input.End)
	if err != nil {
		return nil, err
	}
	r, err := t.app.WeeklyReviewHandler.Handle(ctx, commands.CreateWeeklyReviewCommand{
		Start: start,
		End:   end,
		Goals: input.Goals,
		Actor: ActorMCP,
	})
	if err != nil {
		return nil, err
	}
	dto := queries.ToWeeklyReviewDTO(r)
	return &dto, nil
}
