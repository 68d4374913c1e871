package commands

import (
	"context"
	"log/slog"
	"time"

	sharedApplication "github.com/felixgeelhaar/atelier/internal/shared/application"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	"github.com/felixgeelhaar/atelier/internal/work/domain/timer"
	"github.com/google/uuid"
)

// TimerCommand addresses the open timer of a task.
type TimerCommand struct {
	TaskID uuid.UUID
	Actor  string
}

// TimerResult describes a session after a timer command.
type TimerResult struct {
	SessionID uuid.UUID
	TaskID    uuid.UUID
	State     timer.State
	// Elapsed is the session's tracked time so far.
	Elapsed time.Duration
	// TaskTracked is the task's total tracked time; set by Stop only.
	TaskTracked time.Duration
}

// TimerHandler starts, pauses, resumes and stops timer sessions.
type TimerHandler struct {
	sessionRepo timer.SessionRepository
	taskRepo    task.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	calendar    Calendar
	logger      *slog.Logger
}

// NewTimerHandler creates a TimerHandler.
func NewTimerHandler(
	sessionRepo timer.SessionRepository,
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	calendar Calendar,
	logger *slog.Logger,
) *TimerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimerHandler{
		sessionRepo: sessionRepo,
		taskRepo:    taskRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
		calendar:    calendar,
		logger:      logger,
	}
}

func resultOf(s *timer.Session, now time.Time) *TimerResult {
	return &TimerResult{SessionID: s.ID(), TaskID: s.TaskID(), State: s.State(), Elapsed: s.Elapsed(now)}
}

// Start opens a session for the task. A task has at most one open session.
func (h *TimerHandler) Start(ctx context.Context, cmd TimerCommand) (*TimerResult, error) {
	now := h.calendar.Now()
	result, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*TimerResult, error) {
		if _, err := h.taskRepo.FindByID(txCtx, cmd.TaskID); err != nil {
			return nil, err
		}
		s := timer.Start(cmd.TaskID, now)
		if err := h.sessionRepo.Save(txCtx, s); err != nil {
			return nil, err
		}
		return resultOf(s, now), nil
	})
	if err != nil {
		return nil, err
	}
	h.logger.InfoContext(ctx, "timer started", "task_id", cmd.TaskID, "session_id", result.SessionID)
	return result, nil
}

// Pause closes the running interval of the task's session.
func (h *TimerHandler) Pause(ctx context.Context, cmd TimerCommand) (*TimerResult, error) {
	return h.transition(ctx, cmd, (*timer.Session).Pause)
}

// Resume opens a new interval on a paused session.
func (h *TimerHandler) Resume(ctx context.Context, cmd TimerCommand) (*TimerResult, error) {
	return h.transition(ctx, cmd, (*timer.Session).Resume)
}

func (h *TimerHandler) transition(ctx context.Context, cmd TimerCommand, fn func(*timer.Session, time.Time) error) (*TimerResult, error) {
	now := h.calendar.Now()
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*TimerResult, error) {
		s, err := h.sessionRepo.FindActive(txCtx, cmd.TaskID)
		if err != nil {
			return nil, err
		}
		if err := fn(s, now); err != nil {
			return nil, err
		}
		if err := h.sessionRepo.Save(txCtx, s); err != nil {
			return nil, err
		}
		return resultOf(s, now), nil
	})
}

// Stop closes the session and adds its duration to the task's tracked
// time in the same transaction.
func (h *TimerHandler) Stop(ctx context.Context, cmd TimerCommand) (*TimerResult, error) {
	now := h.calendar.Now()
	result, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*TimerResult, error) {
		s, err := h.sessionRepo.FindActive(txCtx, cmd.TaskID)
		if err != nil {
			return nil, err
		}
		elapsed, err := s.Stop(now)
		if err != nil {
			return nil, err
		}
		if err := h.sessionRepo.Save(txCtx, s); err != nil {
			return nil, err
		}

		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return nil, err
		}
		if err := t.AddTrackedTime(elapsed, now); err != nil {
			return nil, err
		}
		if events := t.DomainEvents(); len(events) > 0 {
			if err := h.taskRepo.Save(txCtx, t); err != nil {
				return nil, err
			}
			if err := saveEvents(txCtx, h.outboxRepo, cmd.Actor, events); err != nil {
				return nil, err
			}
		}

		r := resultOf(s, now)
		r.Elapsed = elapsed
		r.TaskTracked = t.TrackedTime()
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	h.logger.InfoContext(ctx, "timer stopped",
		"task_id", cmd.TaskID,
		"session_id", result.SessionID,
		"elapsed", result.Elapsed,
	)
	return result, nil
}
