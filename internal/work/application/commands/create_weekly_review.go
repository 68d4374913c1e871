package commands

import (
	"context"
	"log/slog"

	sharedApplication "github.com/felixgeelhaar/atelier/internal/shared/application"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/atelier/internal/work/application/services"
	"github.com/felixgeelhaar/atelier/internal/work/domain/review"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/felixgeelhaar/atelier/pkg/observability"
)

// CreateWeeklyReviewCommand reviews an explicit inclusive date range.
type CreateWeeklyReviewCommand struct {
	Start vo.Date
	End   vo.Date
	Goals string
	Actor string
}

// CreateWeeklyReviewHandler aggregates the tasks due in a range and stores
// the result as a new review. Every call produces a new record.
type CreateWeeklyReviewHandler struct {
	taskRepo   task.Repository
	reviewRepo review.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	aggregator *services.WeeklyAggregator
	calendar   Calendar
	logger     *slog.Logger
	metrics    observability.Metrics
}

// NewCreateWeeklyReviewHandler creates a CreateWeeklyReviewHandler.
func NewCreateWeeklyReviewHandler(
	taskRepo task.Repository,
	reviewRepo review.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	calendar Calendar,
	logger *slog.Logger,
) *CreateWeeklyReviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateWeeklyReviewHandler{
		taskRepo:   taskRepo,
		reviewRepo: reviewRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		aggregator: services.NewWeeklyAggregator(),
		calendar:   calendar,
		logger:     logger,
		metrics:    observability.NoopMetrics{},
	}
}

// WithMetrics sets the metrics recorder.
func (h *CreateWeeklyReviewHandler) WithMetrics(m observability.Metrics) *CreateWeeklyReviewHandler {
	if m != nil {
		h.metrics = m
	}
	return h
}

// Handle executes the command.
func (h *CreateWeeklyReviewHandler) Handle(ctx context.Context, cmd CreateWeeklyReviewCommand) (*review.WeeklyReview, error) {
	if cmd.Start.IsZero() || cmd.End.IsZero() || cmd.Start.After(cmd.End) {
		return nil, review.ErrInvalidRange
	}

	now := h.calendar.Now()
	r, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*review.WeeklyReview, error) {
		tasks, err := h.taskRepo.FindDueInRange(txCtx, cmd.Start, cmd.End)
		if err != nil {
			return nil, err
		}
		summary := h.aggregator.Aggregate(task.Snapshots(tasks), cmd.Start, cmd.End)

		r, err := review.New(cmd.Start, cmd.End, summary, cmd.Goals, now)
		if err != nil {
			return nil, err
		}
		if err := h.reviewRepo.Save(txCtx, r); err != nil {
			return nil, err
		}
		if err := saveEvents(txCtx, h.outboxRepo, cmd.Actor, r.DomainEvents()); err != nil {
			return nil, err
		}
		return r, nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.Counter(observability.MetricReviewCreated, 1)
	h.logger.InfoContext(ctx, "weekly review created",
		"review_id", r.ID(),
		"week_start", r.WeekStart().String(),
		"week_end", r.WeekEnd().String(),
		"completion_rate", r.Summary().CompletionRate,
	)
	return r, nil
}

// CreateLastWeekReviewCommand reviews the Monday..Sunday week before
// today.
type CreateLastWeekReviewCommand struct {
	Goals string
	Actor string
}

// CreateLastWeekReviewHandler resolves last week and delegates to
// CreateWeeklyReviewHandler. Manual and scheduled triggers both land here.
type CreateLastWeekReviewHandler struct {
	inner    *CreateWeeklyReviewHandler
	calendar Calendar
}

// NewCreateLastWeekReviewHandler creates a CreateLastWeekReviewHandler.
func NewCreateLastWeekReviewHandler(inner *CreateWeeklyReviewHandler, calendar Calendar) *CreateLastWeekReviewHandler {
	return &CreateLastWeekReviewHandler{inner: inner, calendar: calendar}
}

// LastWeek returns the range the handler would review now.
func (h *CreateLastWeekReviewHandler) LastWeek() (start, end vo.Date) {
	return vo.LastWeekRange(h.calendar.Today())
}

// Handle executes the command.
func (h *CreateLastWeekReviewHandler) Handle(ctx context.Context, cmd CreateLastWeekReviewCommand) (*review.WeeklyReview, error) {
	start, end := h.LastWeek()
	return h.inner.Handle(ctx, CreateWeeklyReviewCommand{
		Start: start,
		End:   end,
		Goals: cmd.Goals,
		Actor: cmd.Actor,
	})
}
