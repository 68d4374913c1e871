package commands

import (
	"context"
	"log/slog"

	sharedApplication "github.com/felixgeelhaar/atelier/internal/shared/application"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/felixgeelhaar/atelier/pkg/observability"
	"github.com/google/uuid"
)

// CreateTemplateCommand stores a reusable task recipe. A zero rating uses
// the quick-add baseline.
type CreateTemplateCommand struct {
	Name            string
	Title           string
	WorkArea        string
	Complexity      int
	Collaboration   int
	Consequence     int
	Theme           string
	Priority        string
	EstimateMinutes int
	Notes           string
}

// CreateTemplateHandler handles CreateTemplateCommand.
type CreateTemplateHandler struct {
	templateRepo task.TemplateRepository
	calendar     Calendar
}

// NewCreateTemplateHandler creates a CreateTemplateHandler.
func NewCreateTemplateHandler(templateRepo task.TemplateRepository, calendar Calendar) *CreateTemplateHandler {
	return &CreateTemplateHandler{templateRepo: templateRepo, calendar: calendar}
}

// Handle executes the command and returns the template id.
func (h *CreateTemplateHandler) Handle(ctx context.Context, cmd CreateTemplateCommand) (uuid.UUID, error) {
	var rating vo.Rating
	if cmd.Complexity != 0 || cmd.Collaboration != 0 || cmd.Consequence != 0 {
		r, err := vo.NewRating(cmd.Complexity, cmd.Collaboration, cmd.Consequence)
		if err != nil {
			return uuid.Nil, err
		}
		rating = r
	}

	defaults := task.TemplateDefaults{WorkArea: cmd.WorkArea, Notes: cmd.Notes}
	if cmd.Theme != "" {
		theme, err := vo.ParseWeekday(cmd.Theme)
		if err != nil {
			return uuid.Nil, err
		}
		defaults.Theme = theme
	}
	if cmd.Priority != "" {
		p, err := task.ParsePriorityLabel(cmd.Priority)
		if err != nil {
			return uuid.Nil, err
		}
		defaults.Priority = p
	}
	if cmd.EstimateMinutes != 0 {
		d, err := vo.NewDuration(cmd.EstimateMinutes)
		if err != nil {
			return uuid.Nil, err
		}
		defaults.Estimate = d
	}

	tpl, err := task.NewTemplate(cmd.Name, cmd.Title, rating, defaults, h.calendar.Now())
	if err != nil {
		return uuid.Nil, err
	}
	if err := h.templateRepo.Save(ctx, tpl); err != nil {
		return uuid.Nil, err
	}
	return tpl.ID(), nil
}

// CreateFromTemplateCommand instantiates a template as a new task.
type CreateFromTemplateCommand struct {
	TemplateID uuid.UUID
	// DueDate defaults to today.
	DueDate vo.Date
	Actor   string
}

// CreateFromTemplateHandler handles CreateFromTemplateCommand.
type CreateFromTemplateHandler struct {
	templateRepo task.TemplateRepository
	taskRepo     task.Repository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
	calendar     Calendar
	logger       *slog.Logger
	metrics      observability.Metrics
}

// NewCreateFromTemplateHandler creates a CreateFromTemplateHandler.
func NewCreateFromTemplateHandler(
	templateRepo task.TemplateRepository,
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	calendar Calendar,
	logger *slog.Logger,
) *CreateFromTemplateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateFromTemplateHandler{
		templateRepo: templateRepo,
		taskRepo:     taskRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
		calendar:     calendar,
		logger:       logger,
		metrics:      observability.NoopMetrics{},
	}
}

// WithMetrics sets the metrics recorder.
func (h *CreateFromTemplateHandler) WithMetrics(m observability.Metrics) *CreateFromTemplateHandler {
	if m != nil {
		h.metrics = m
	}
	return h
}

// Handle executes the command.
func (h *CreateFromTemplateHandler) Handle(ctx context.Context, cmd CreateFromTemplateCommand) (*TaskCreatedResult, error) {
	now := h.calendar.Now()
	due := h.calendar.dateOrToday(cmd.DueDate)

	result, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*TaskCreatedResult, error) {
		tpl, err := h.templateRepo.FindByID(txCtx, cmd.TemplateID)
		if err != nil {
			return nil, err
		}
		t, err := task.NewFromTemplate(tpl, due, now)
		if err != nil {
			return nil, err
		}
		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return nil, err
		}
		if err := saveEvents(txCtx, h.outboxRepo, cmd.Actor, t.DomainEvents()); err != nil {
			return nil, err
		}
		return &TaskCreatedResult{TaskID: t.ID(), DueDate: t.DueDate(), Score: t.Score(), Grade: t.Grade()}, nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.Counter(observability.MetricTasksCreated, 1, observability.T("source", "template"))
	h.logger.InfoContext(ctx, "task created from template",
		"task_id", result.TaskID,
		"template_id", cmd.TemplateID,
		"score", result.Score,
	)
	return result, nil
}
