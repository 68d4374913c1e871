package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	sharedApplication "github.com/felixgeelhaar/atelier/internal/shared/application"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/atelier/internal/work/application/services"
	"github.com/felixgeelhaar/atelier/internal/work/domain/plan"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/felixgeelhaar/atelier/pkg/observability"
)

// GetOrCreateDailyPlanCommand asks for the plan of a date.
type GetOrCreateDailyPlanCommand struct {
	// Date defaults to today.
	Date  vo.Date
	Actor string
}

// DailyPlanResult is the stored plan and whether this call created it.
type DailyPlanResult struct {
	Plan    *plan.DailyPlan
	Created bool
}

// GetOrCreateDailyPlanHandler returns the plan of a date, computing and
// storing it on first request. Once stored a plan is never recomputed.
type GetOrCreateDailyPlanHandler struct {
	planRepo   plan.Repository
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	selector   *services.DailySelector
	calendar   Calendar
	logger     *slog.Logger
	metrics    observability.Metrics
}

// NewGetOrCreateDailyPlanHandler creates a GetOrCreateDailyPlanHandler.
func NewGetOrCreateDailyPlanHandler(
	planRepo plan.Repository,
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	calendar Calendar,
	logger *slog.Logger,
) *GetOrCreateDailyPlanHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetOrCreateDailyPlanHandler{
		planRepo:   planRepo,
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		selector:   services.NewDailySelector(),
		calendar:   calendar,
		logger:     logger,
		metrics:    observability.NoopMetrics{},
	}
}

// WithMetrics sets the metrics recorder.
func (h *GetOrCreateDailyPlanHandler) WithMetrics(m observability.Metrics) *GetOrCreateDailyPlanHandler {
	if m != nil {
		h.metrics = m
	}
	return h
}

// Handle executes the command.
func (h *GetOrCreateDailyPlanHandler) Handle(ctx context.Context, cmd GetOrCreateDailyPlanCommand) (*DailyPlanResult, error) {
	date := h.calendar.dateOrToday(cmd.Date)

	existing, err := h.planRepo.FindByDate(ctx, date)
	if err == nil {
		return &DailyPlanResult{Plan: existing}, nil
	}
	if !errors.Is(err, plan.ErrPlanNotFound) {
		return nil, err
	}

	now := h.calendar.Now()
	result, err := observability.TimeOperationResult(ctx, h.logger, h.metrics, "plan.generate", func(ctx context.Context) (*DailyPlanResult, error) {
		return h.generate(ctx, date, now, cmd.Actor)
	})
	if err != nil {
		return nil, err
	}

	if result.Created {
		h.metrics.Counter(observability.MetricPlanGenerated, 1)
		h.logger.InfoContext(ctx, "daily plan created",
			"date", date.String(),
			"theme", result.Plan.Theme().String(),
			"tasks", len(result.Plan.Entries()),
		)
	}
	return result, nil
}

// generate selects and stores the plan in one unit of work. A concurrent
// caller that stored first wins and its plan is returned instead.
func (h *GetOrCreateDailyPlanHandler) generate(ctx context.Context, date vo.Date, now time.Time, actor string) (*DailyPlanResult, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*DailyPlanResult, error) {
		eligible, err := h.taskRepo.FindEligible(txCtx, date)
		if err != nil {
			return nil, err
		}
		selections := h.selector.SelectDailyTop(task.Snapshots(eligible), date, date.Weekday())

		entries := make([]plan.Entry, len(selections))
		for i, s := range selections {
			entries[i] = plan.Entry{TaskID: s.TaskID, BaseScore: s.BaseScore, AdjustedScore: s.AdjustedScore}
		}
		candidate, err := plan.New(date, entries, now)
		if err != nil {
			return nil, err
		}

		stored, created, err := h.planRepo.CreateIfAbsent(txCtx, candidate)
		if err != nil {
			return nil, err
		}
		if created {
			if err := saveEvents(txCtx, h.outboxRepo, actor, candidate.DomainEvents()); err != nil {
				return nil, err
			}
		}
		return &DailyPlanResult{Plan: stored, Created: created}, nil
	})
}
