package commands

import (
	"context"
	"log/slog"
	"time"

	sharedApplication "github.com/felixgeelhaar/atelier/internal/shared/application"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/felixgeelhaar/atelier/pkg/observability"
	"github.com/google/uuid"
)

// taskMutator loads a task, applies a change and saves it together with
// the events the change recorded.
type taskMutator struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	calendar   Calendar
}

func (m taskMutator) mutate(ctx context.Context, id uuid.UUID, actor string, fn func(t *task.Task, now time.Time) error) (task.View, error) {
	now := m.calendar.Now()
	return sharedApplication.WithUnitOfWorkResult(ctx, m.uow, func(txCtx context.Context) (task.View, error) {
		t, err := m.taskRepo.FindByID(txCtx, id)
		if err != nil {
			return task.View{}, err
		}
		if err := fn(t, now); err != nil {
			return task.View{}, err
		}
		events := t.DomainEvents()
		if len(events) == 0 {
			return t.Snapshot(), nil
		}
		if err := m.taskRepo.Save(txCtx, t); err != nil {
			return task.View{}, err
		}
		if err := saveEvents(txCtx, m.outboxRepo, actor, events); err != nil {
			return task.View{}, err
		}
		return t.Snapshot(), nil
	})
}

// ChangeStatusCommand moves a task to another status.
type ChangeStatusCommand struct {
	TaskID uuid.UUID
	Status string
	Actor  string
}

// ChangeStatusHandler handles ChangeStatusCommand.
type ChangeStatusHandler struct {
	mutator taskMutator
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewChangeStatusHandler creates a ChangeStatusHandler.
func NewChangeStatusHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, calendar Calendar, logger *slog.Logger) *ChangeStatusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeStatusHandler{
		mutator: taskMutator{taskRepo: taskRepo, outboxRepo: outboxRepo, uow: uow, calendar: calendar},
		logger:  logger,
		metrics: observability.NoopMetrics{},
	}
}

// WithMetrics sets the metrics recorder.
func (h *ChangeStatusHandler) WithMetrics(m observability.Metrics) *ChangeStatusHandler {
	if m != nil {
		h.metrics = m
	}
	return h
}

// Handle executes the command and returns the task's new state.
func (h *ChangeStatusHandler) Handle(ctx context.Context, cmd ChangeStatusCommand) (task.View, error) {
	status, err := task.ParseStatus(cmd.Status)
	if err != nil {
		return task.View{}, err
	}

	var from task.Status
	view, err := h.mutator.mutate(ctx, cmd.TaskID, cmd.Actor, func(t *task.Task, now time.Time) error {
		from = t.Status()
		return t.ChangeStatus(status, now)
	})
	if err != nil {
		return task.View{}, err
	}

	if from != status {
		if status == task.StatusDone {
			h.metrics.Counter(observability.MetricTasksCompleted, 1)
		}
		h.logger.InfoContext(ctx, "task status changed", "task_id", cmd.TaskID, "from", from, "to", status)
	}
	return view, nil
}

// RateTaskCommand replaces a task's 3C rating. Values outside [1,5] are
// rejected.
type RateTaskCommand struct {
	TaskID        uuid.UUID
	Complexity    int
	Collaboration int
	Consequence   int
	Actor         string
}

// RateTaskHandler handles RateTaskCommand.
type RateTaskHandler struct {
	mutator taskMutator
	logger  *slog.Logger
}

// NewRateTaskHandler creates a RateTaskHandler.
func NewRateTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, calendar Calendar, logger *slog.Logger) *RateTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateTaskHandler{
		mutator: taskMutator{taskRepo: taskRepo, outboxRepo: outboxRepo, uow: uow, calendar: calendar},
		logger:  logger,
	}
}

// Handle executes the command and returns the rescored task.
func (h *RateTaskHandler) Handle(ctx context.Context, cmd RateTaskCommand) (task.View, error) {
	rating, err := vo.NewRating(cmd.Complexity, cmd.Collaboration, cmd.Consequence)
	if err != nil {
		return task.View{}, err
	}

	view, err := h.mutator.mutate(ctx, cmd.TaskID, cmd.Actor, func(t *task.Task, now time.Time) error {
		t.Rate(rating, now)
		return nil
	})
	if err != nil {
		return task.View{}, err
	}

	h.logger.InfoContext(ctx, "task rated", "task_id", cmd.TaskID, "score", view.Score, "grade", view.Rating.Grade())
	return view, nil
}

// UpdateTaskCommand edits task fields. Nil fields are left unchanged.
type UpdateTaskCommand struct {
	TaskID          uuid.UUID
	Title           *string
	WorkArea        *string
	DueDate         *vo.Date
	Theme           *string
	Priority        *string
	EstimateMinutes *int
	Notes           *string
	Actor           string
}

// UpdateTaskHandler handles UpdateTaskCommand.
type UpdateTaskHandler struct {
	mutator taskMutator
}

// NewUpdateTaskHandler creates an UpdateTaskHandler.
func NewUpdateTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, calendar Calendar) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		mutator: taskMutator{taskRepo: taskRepo, outboxRepo: outboxRepo, uow: uow, calendar: calendar},
	}
}

// Handle executes the command and returns the updated task.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (task.View, error) {
	return h.mutator.mutate(ctx, cmd.TaskID, cmd.Actor, func(t *task.Task, now time.Time) error {
		if cmd.Title != nil {
			if err := t.SetTitle(*cmd.Title, now); err != nil {
				return err
			}
		}
		if cmd.WorkArea != nil {
			t.SetWorkArea(*cmd.WorkArea, now)
		}
		if cmd.DueDate != nil {
			if err := t.SetDueDate(*cmd.DueDate, now); err != nil {
				return err
			}
		}
		if cmd.Theme != nil {
			theme, err := vo.ParseWeekday(*cmd.Theme)
			if err != nil {
				return err
			}
			if err := t.SetTheme(theme, now); err != nil {
				return err
			}
		}
		if cmd.Priority != nil {
			p, err := task.ParsePriorityLabel(*cmd.Priority)
			if err != nil {
				return err
			}
			if err := t.SetPriorityLabel(p, now); err != nil {
				return err
			}
		}
		if cmd.EstimateMinutes != nil {
			d, err := vo.NewDuration(*cmd.EstimateMinutes)
			if err != nil {
				return err
			}
			t.SetEstimate(d, now)
		}
		if cmd.Notes != nil {
			t.SetNotes(*cmd.Notes, now)
		}
		return nil
	})
}

// AddAttachmentCommand attaches an externally stored file to a task.
type AddAttachmentCommand struct {
	TaskID uuid.UUID
	URL    string
	Name   string
	Size   int64
	Actor  string
}

// RemoveAttachmentCommand detaches the file with URL.
type RemoveAttachmentCommand struct {
	TaskID uuid.UUID
	URL    string
	Actor  string
}

// AttachmentHandler handles both attachment commands.
type AttachmentHandler struct {
	mutator taskMutator
}

// NewAttachmentHandler creates an AttachmentHandler.
func NewAttachmentHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, calendar Calendar) *AttachmentHandler {
	return &AttachmentHandler{
		mutator: taskMutator{taskRepo: taskRepo, outboxRepo: outboxRepo, uow: uow, calendar: calendar},
	}
}

// Add executes AddAttachmentCommand.
func (h *AttachmentHandler) Add(ctx context.Context, cmd AddAttachmentCommand) (task.View, error) {
	return h.mutator.mutate(ctx, cmd.TaskID, cmd.Actor, func(t *task.Task, now time.Time) error {
		a, err := task.NewAttachment(cmd.URL, cmd.Name, cmd.Size, now)
		if err != nil {
			return err
		}
		return t.AddAttachment(a, now)
	})
}

// Remove executes RemoveAttachmentCommand.
func (h *AttachmentHandler) Remove(ctx context.Context, cmd RemoveAttachmentCommand) (task.View, error) {
	return h.mutator.mutate(ctx, cmd.TaskID, cmd.Actor, func(t *task.Task, now time.Time) error {
		return t.RemoveAttachment(cmd.URL, now)
	})
}
