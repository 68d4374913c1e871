package queries

import (
	"context"
	"errors"
	"strings"

	"github.com/felixgeelhaar/atelier/internal/work/domain/plan"
	"github.com/felixgeelhaar/atelier/internal/work/domain/review"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/google/uuid"
)

// ListTasksQuery contains the parameters for listing tasks.
type ListTasksQuery struct {
	// Statuses filters by status name; empty means open work only
	// (not_started, in_progress, on_hold) unless IncludeAll is set.
	Statuses   []string
	IncludeAll bool
	WorkArea   string
	DueFrom    vo.Date
	DueTo      vo.Date
	Limit      int
}

// ListTasksHandler handles ListTasksQuery. Results come highest score
// first, then by due date.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle executes the query.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	filter := task.Filter{
		WorkArea:      strings.TrimSpace(query.WorkArea),
		DueOnOrAfter:  query.DueFrom,
		DueOnOrBefore: query.DueTo,
		Limit:         query.Limit,
	}

	switch {
	case len(query.Statuses) > 0:
		for _, s := range query.Statuses {
			status, err := task.ParseStatus(s)
			if err != nil {
				return nil, err
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	case !query.IncludeAll:
		filter.Statuses = []task.Status{task.StatusNotStarted, task.StatusInProgress, task.StatusOnHold}
	}

	tasks, err := h.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToTaskDTOs(tasks), nil
}

// GetTaskHandler loads one task.
type GetTaskHandler struct {
	taskRepo task.Repository
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo task.Repository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle returns the task or task.ErrTaskNotFound.
func (h *GetTaskHandler) Handle(ctx context.Context, id uuid.UUID) (*TaskDTO, error) {
	t, err := h.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToTaskDTO(t.Snapshot())
	return &dto, nil
}

// GetDailyPlanHandler reads a stored plan and resolves its tasks. It never
// creates a plan.
type GetDailyPlanHandler struct {
	planRepo plan.Repository
	taskRepo task.Repository
}

// NewGetDailyPlanHandler creates a new GetDailyPlanHandler.
func NewGetDailyPlanHandler(planRepo plan.Repository, taskRepo task.Repository) *GetDailyPlanHandler {
	return &GetDailyPlanHandler{planRepo: planRepo, taskRepo: taskRepo}
}

// Handle returns the plan of date or plan.ErrPlanNotFound.
func (h *GetDailyPlanHandler) Handle(ctx context.Context, date vo.Date) (*DailyPlanDTO, error) {
	p, err := h.planRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return h.Resolve(ctx, p)
}

// Resolve maps p and loads the current state of each of its tasks.
func (h *GetDailyPlanHandler) Resolve(ctx context.Context, p *plan.DailyPlan) (*DailyPlanDTO, error) {
	dto := ToDailyPlanDTO(p)
	for i := range dto.Entries {
		t, err := h.taskRepo.FindByID(ctx, dto.Entries[i].TaskID)
		if err != nil {
			if errors.Is(err, task.ErrTaskNotFound) {
				continue
			}
			return nil, err
		}
		resolved := ToTaskDTO(t.Snapshot())
		dto.Entries[i].Task = &resolved
	}
	return &dto, nil
}

// ListWeeklyReviewsHandler lists stored reviews, newest week first.
type ListWeeklyReviewsHandler struct {
	reviewRepo review.Repository
}

// NewListWeeklyReviewsHandler creates a new ListWeeklyReviewsHandler.
func NewListWeeklyReviewsHandler(reviewRepo review.Repository) *ListWeeklyReviewsHandler {
	return &ListWeeklyReviewsHandler{reviewRepo: reviewRepo}
}

// Handle returns at most limit reviews; limit <= 0 returns all.
func (h *ListWeeklyReviewsHandler) Handle(ctx context.Context, limit int) ([]WeeklyReviewDTO, error) {
	reviews, err := h.reviewRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]WeeklyReviewDTO, len(reviews))
	for i, r := range reviews {
		dtos[i] = ToWeeklyReviewDTO(r)
	}
	return dtos, nil
}

// ListTemplatesHandler lists templates by name.
type ListTemplatesHandler struct {
	templateRepo task.TemplateRepository
}

// NewListTemplatesHandler creates a new ListTemplatesHandler.
func NewListTemplatesHandler(templateRepo task.TemplateRepository) *ListTemplatesHandler {
	return &ListTemplatesHandler{templateRepo: templateRepo}
}

func (h *ListTemplatesHandler) Handle(ctx context.Context) ([]TemplateDTO, error) {
	templates, err := h.templateRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]TemplateDTO, len(templates))
	for i, t := range templates {
		dtos[i] = ToTemplateDTO(t)
	}
	return dtos, nil
}
