package commands

import (
	"context"
	"log/slog"

	sharedApplication "github.com/felixgeelhaar/atelier/internal/shared/application"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/atelier/internal/work/domain/scoring"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/felixgeelhaar/atelier/pkg/observability"
	"github.com/google/uuid"
)

// QuickAddTaskCommand creates a task with the baseline rating.
type QuickAddTaskCommand struct {
	Title    string
	WorkArea string
	// DueDate defaults to today.
	DueDate         vo.Date
	Theme           string
	Priority        string
	EstimateMinutes int
	Notes           string
	Actor           string
}

// TaskCreatedResult identifies a new task and how it scored.
type TaskCreatedResult struct {
	TaskID  uuid.UUID
	DueDate vo.Date
	Score   int
	Grade   scoring.Grade
}

// QuickAddTaskHandler handles QuickAddTaskCommand.
type QuickAddTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	calendar   Calendar
	logger     *slog.Logger
	metrics    observability.Metrics
}

// NewQuickAddTaskHandler creates a QuickAddTaskHandler.
func NewQuickAddTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, calendar Calendar, logger *slog.Logger) *QuickAddTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuickAddTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		calendar:   calendar,
		logger:     logger,
		metrics:    observability.NoopMetrics{},
	}
}

// WithMetrics sets the metrics recorder.
func (h *QuickAddTaskHandler) WithMetrics(m observability.Metrics) *QuickAddTaskHandler {
	if m != nil {
		h.metrics = m
	}
	return h
}

// Handle executes the command.
func (h *QuickAddTaskHandler) Handle(ctx context.Context, cmd QuickAddTaskCommand) (*TaskCreatedResult, error) {
	now := h.calendar.Now()
	due := h.calendar.dateOrToday(cmd.DueDate)

	result, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*TaskCreatedResult, error) {
		t, err := task.QuickAdd(cmd.Title, cmd.WorkArea, due, now)
		if err != nil {
			return nil, err
		}
		if err := applyOptional(t, optionalFields{
			Theme:           cmd.Theme,
			Priority:        cmd.Priority,
			EstimateMinutes: cmd.EstimateMinutes,
			Notes:           cmd.Notes,
		}); err != nil {
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

	h.metrics.Counter(observability.MetricTasksCreated, 1, observability.T("source", "quick_add"))
	h.logger.InfoContext(ctx, "task added", "task_id", result.TaskID, "due_date", result.DueDate.String(), "score", result.Score)
	return result, nil
}

// optionalFields are the settable extras shared by create commands. Empty
// values leave the task's current value alone.
type optionalFields struct {
	Theme           string
	Priority        string
	EstimateMinutes int
	Notes           string
}

// applyOptional sets the fields on a freshly created task and replaces the
// recorded events with a single creation event describing the final state.
func applyOptional(t *task.Task, f optionalFields) error {
	now := t.CreatedAt()
	defer func() {
		t.ClearDomainEvents()
		t.AddDomainEvent(task.NewTaskCreated(t, now))
	}()
	if f.Theme != "" {
		theme, err := vo.ParseWeekday(f.Theme)
		if err != nil {
			return err
		}
		if err := t.SetTheme(theme, now); err != nil {
			return err
		}
	}
	if f.Priority != "" {
		p, err := task.ParsePriorityLabel(f.Priority)
		if err != nil {
			return err
		}
		if err := t.SetPriorityLabel(p, now); err != nil {
			return err
		}
	}
	if f.EstimateMinutes != 0 {
		d, err := vo.NewDuration(f.EstimateMinutes)
		if err != nil {
			return err
		}
		t.SetEstimate(d, now)
	}
	if f.Notes != "" {
		t.SetNotes(f.Notes, now)
	}
	return nil
}
