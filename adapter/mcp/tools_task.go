package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/atelier/internal/work/application/commands"
	"github.com/felixgeelhaar/atelier/internal/work/application/queries"
)

type taskAddInput struct {
	Title           string `json:"title" jsonschema:"required"`
	WorkArea        string `json:"work_area,omitempty"`
	DueDate         string `json:"due_date,omitempty"`
	Theme           string `json:"theme,omitempty"`
	Priority        string `json:"priority,omitempty"`
	EstimateMinutes int    `json:"estimate_minutes,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

type taskFromTemplateInput struct {
	TemplateID string `json:"template_id" jsonschema:"required"`
	DueDate    string `json:"due_date,omitempty"`
}

type taskCreatedOutput struct {
	TaskID  string `json:"task_id"`
	DueDate string `json:"due_date"`
	Score   int    `json:"score"`
	Grade   string `json:"grade"`
}

type taskListInput struct {
	IncludeAll bool `json:"include_all,omitempty"`
	// Status is a comma separated list.
	Status   string `json:"status,omitempty"`
	WorkArea string `json:"work_area,omitempty"`
	DueFrom  string `json:"due_from,omitempty"`
	DueTo    string `json:"due_to,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
}

type taskStatusInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
	Status string `json:"status" jsonschema:"required"`
}

type taskRateInput struct {
	TaskID        string `json:"task_id" jsonschema:"required"`
	Complexity    int    `json:"complexity" jsonschema:"required"`
	Collaboration int    `json:"collaboration" jsonschema:"required"`
	Consequence   int    `json:"consequence" jsonschema:"required"`
}

// taskUpdateInput leaves absent fields untouched.
type taskUpdateInput struct {
	TaskID          string  `json:"task_id" jsonschema:"required"`
	Title           *string `json:"title,omitempty"`
	WorkArea        *string `json:"work_area,omitempty"`
	DueDate         *string `json:"due_date,omitempty"`
	Theme           *string `json:"theme,omitempty"`
	Priority        *string `json:"priority,omitempty"`
	EstimateMinutes *int    `json:"estimate_minutes,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type taskAttachInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
	URL    string `json:"url" jsonschema:"required"`
	Name   string `json:"name" jsonschema:"required"`
	Size   int64  `json:"size,omitempty"`
}

type taskDetachInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
	URL    string `json:"url" jsonschema:"required"`
}

func registerTaskTools(srv *mcp.Server, t *tools) {
	srv.Tool("task.add").
		Description("Quick-add a task with the baseline rating (complexity 3, collaboration 2, consequence 3)").
		Handler(t.addTask)

	srv.Tool("task.from_template").
		Description("Create a task from a template").
		Handler(t.createFromTemplate)

	srv.Tool("task.list").
		Description("List tasks, highest score first. Without filters only open work is returned").
		Handler(t.listTasks)

	srv.Tool("task.get").
		Description("Get a task by id").
		Handler(t.getTask)

	srv.Tool("task.status").
		Description("Change a task's status (not_started, in_progress, done, on_hold)").
		Handler(t.changeStatus)

	srv.Tool("task.rate").
		Description("Rate a task on complexity, collaboration and consequence (1-5 each)").
		Handler(t.rateTask)

	srv.Tool("task.update").
		Description("Change a task's title, work area, due date, theme, priority, estimate or notes").
		Handler(t.updateTask)

	srv.Tool("task.attach").
		Description("Attach a file reference to a task").
		Handler(t.attach)

	srv.Tool("task.detach").
		Description("Remove an attachment from a task").
		Handler(t.detach)
}

func (t *tools) addTask(ctx context.Context, input taskAddInput) (*taskCreatedOutput, error) {
	if t.app.QuickAddTaskHandler == nil {
		return nil, fmt.Errorf("quick add %w", errNoDatabase)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.New("title is required")
	}
	due, err := parseDate("due_date", input.DueDate)
	if err != nil {
		return nil, err
	}

	res, err := t.app.QuickAddTaskHandler.Handle(ctx, commands.QuickAddTaskCommand{
		Title:           input.Title,
		WorkArea:        input.WorkArea,
		DueDate:         due,
		Theme:           input.Theme,
		Priority:        input.Priority,
		EstimateMinutes: input.EstimateMinutes,
		Notes:           input.Notes,
		Actor:           ActorMCP,
	})
	if err != nil {
		return nil, err
	}
	return toCreatedOutput(res), nil
}

func (t *tools) createFromTemplate(ctx context.Context, input taskFromTemplateInput) (*taskCreatedOutput, error) {
	if t.app.CreateFromTemplateHandler == nil {
		return nil, fmt.Errorf("template instantiation %w", errNoDatabase)
	}
	templateID, err := parseUUID(input.TemplateID)
	if err != nil {
		return nil, err
	}
	due, err := parseDate("due_date", input.DueDate)
	if err != nil {
		return nil, err
	}

	res, err := t.app.CreateFromTemplateHandler.Handle(ctx, commands.CreateFromTemplateCommand{
		TemplateID: templateID,
		DueDate:    due,
		Actor:      ActorMCP,
	})
	if err != nil {
		return nil, err
	}
	return toCreatedOutput(res), nil
}

func toCreatedOutput(res *commands.TaskCreatedResult) *taskCreatedOutput {
	return &taskCreatedOutput{
		TaskID:  res.TaskID.String(),
		DueDate: res.DueDate.String(),
		Score:   res.Score,
		Grade:   string(res.Grade),
	}
}

func (t *tools) listTasks(ctx context.Context, input taskListInput) ([]queries.TaskDTO, error) {
	if t.app.ListTasksHandler == nil {
		return nil, fmt.Errorf("task listing %w", errNoDatabase)
	}
	from, err := parseDate("due_from", input.DueFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseDate("due_to", input.DueTo)
	if err != nil {
		return nil, err
	}

	return t.app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
		Statuses:   splitList(input.Status),
		IncludeAll: input.IncludeAll,
		WorkArea:   input.WorkArea,
		DueFrom:    from,
		DueTo:      to,
		Limit:      input.Limit,
	})
}

func (t *tools) getTask(ctx context.Context, input taskIDInput) (*queries.TaskDTO, error) {
	if t.app.GetTaskHandler == nil {
		return nil, fmt.Errorf("task lookup %w", errNoDatabase)
	}
	id, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	return t.app.GetTaskHandler.Handle(ctx, id)
}

func (t *tools) changeStatus(ctx context.Context, input taskStatusInput) (*queries.TaskDTO, error) {
	if t.app.ChangeStatusHandler == nil {
		return nil, fmt.Errorf("status change %w", errNoDatabase)
	}
	id, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	v, err := t.app.ChangeStatusHandler.Handle(ctx, commands.ChangeStatusCommand{
		TaskID: id,
		Status: input.Status,
		Actor:  ActorMCP,
	})
	if err != nil {
		return nil, err
	}
	dto := queries.ToTaskDTO(v)
	return &dto, nil
}

func (t *tools) rateTask(ctx context.Context, input taskRateInput) (*queries.TaskDTO, error) {
	if t.app.RateTaskHandler == nil {
		return nil, fmt.Errorf("rating %w", errNoDatabase)
	}
	id, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	v, err := t.app.RateTaskHandler.Handle(ctx, commands.RateTaskCommand{
		TaskID:        id,
		Complexity:    input.Complexity,
		Collaboration: input.Collaboration,
		Consequence:   input.Consequence,
		Actor:         ActorMCP,
	})
	if err != nil {
		return nil, err
	}
	dto := queries.ToTaskDTO(v)
	return &dto, nil
}

func (t *tools) updateTask(ctx context.Context, input taskUpdateInput) (*queries.TaskDTO, error) {
	if t.app.UpdateTaskHandler == nil {
		return nil, fmt.Errorf("task update %w", errNoDatabase)
	}
	id, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	due, err := parseOptionalDate("due_date", input.DueDate)
	if err != nil {
		return nil, err
	}

	v, err := t.app.UpdateTaskHandler.Handle(ctx, commands.UpdateTaskCommand{
		TaskID:          id,
		Title:           input.Title,
		WorkArea:        input.WorkArea,
		DueDate:         due,
		Theme:           input.Theme,
		Priority:        input.Priority,
		EstimateMinutes: input.EstimateMinutes,
		Notes:           input.Notes,
		Actor:           ActorMCP,
	})
	if err != nil {
		return nil, err
	}
	dto := queries.ToTaskDTO(v)
	return &dto, nil
}

func (t *tools) attach(ctx context.Context, input taskAttachInput) (*queries.TaskDTO, error) {
	if t.app.AttachmentHandler == nil {
		return nil, fmt.Errorf("attachments %w", errNoDatabase)
	}
	id, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	v, err := t.app.AttachmentHandler.Add(ctx, commands.AddAttachmentCommand{
		TaskID: id,
		URL:    input.URL,
		Name:   input.Name,
		Size:   input.Size,
		Actor:  ActorMCP,
	})
	if err != nil {
		return nil, err
	}
	dto := queries.ToTaskDTO(v)
	return &dto, nil
}

func (t *tools) detach(ctx context.Context, input taskDetachInput) (*queries.TaskDTO, error) {
	if t.app.AttachmentHandler == nil {
		return nil, fmt.Errorf("attachments %w", errNoDatabase)
	}
	id, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	v, err := t.app.AttachmentHandler.Remove(ctx, commands.RemoveAttachmentCommand{
		TaskID: id,
		URL:    input.URL,
		Actor:  ActorMCP,
	})
	if err != nil {
		return nil, err
	}
	dto := queries.ToTaskDTO(v)
	return &dto, nil
}
