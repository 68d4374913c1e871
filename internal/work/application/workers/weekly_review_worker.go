// Package workers holds the background jobs of the work context.
package workers

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/atelier/internal/work/application/commands"
	"github.com/felixgeelhaar/atelier/internal/work/domain/review"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
)

// DefaultReviewInterval is the default interval between review checks.
const DefaultReviewInterval = time.Hour

// ReviewActor is recorded on events emitted by scheduled reviews.
const ReviewActor = "worker"

// LastWeekReviewer creates the review of the week before today.
// *commands.CreateLastWeekReviewHandler satisfies it.
type LastWeekReviewer interface {
	LastWeek() (start, end vo.Date)
	Handle(ctx context.Context, cmd commands.CreateLastWeekReviewCommand) (*review.WeeklyReview, error)
}

// ReviewFinder looks up an existing review for a week.
type ReviewFinder interface {
	FindLatestForWeek(ctx context.Context, start vo.Date) (*review.WeeklyReview, error)
}

// WeeklyReviewWorkerConfig configures the review worker.
type WeeklyReviewWorkerConfig struct {
	Interval       time.Duration
	TriggerWeekday vo.Weekday
}

// DefaultWeeklyReviewWorkerConfig returns the default configuration.
func DefaultWeeklyReviewWorkerConfig() WeeklyReviewWorkerConfig {
	return WeeklyReviewWorkerConfig{
		Interval:       DefaultReviewInterval,
		TriggerWeekday: vo.Monday,
	}
}

// WeeklyReviewWorker writes last week's review on the trigger weekday. A
// week that already has a review is skipped, so repeated ticks on the same
// day create at most one record.
type WeeklyReviewWorker struct {
	reviewer LastWeekReviewer
	reviews  ReviewFinder
	calendar commands.Calendar
	config   WeeklyReviewWorkerConfig
	logger   *slog.Logger
	running  atomic.Bool
	stopCh   chan struct{}
}

// NewWeeklyReviewWorker creates a new weekly review worker.
func NewWeeklyReviewWorker(
	reviewer LastWeekReviewer,
	reviews ReviewFinder,
	calendar commands.Calendar,
	config WeeklyReviewWorkerConfig,
	logger *slog.Logger,
) *WeeklyReviewWorker {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Interval <= 0 {
		config.Interval = DefaultReviewInterval
	}
	if config.TriggerWeekday.IsNone() {
		config.TriggerWeekday = vo.Monday
	}
	return &WeeklyReviewWorker{
		reviewer: reviewer,
		reviews:  reviews,
		calendar: calendar,
		config:   config,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Run checks once immediately, then on every tick, until ctx is cancelled
// or Stop is called.
func (w *WeeklyReviewWorker) Run(ctx context.Context) error {
	w.running.Store(true)
	defer w.running.Store(false)
	w.logger.Info("weekly review worker started",
		"interval", w.config.Interval,
		"trigger_weekday", w.config.TriggerWeekday.String(),
	)

	w.tick(ctx)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("weekly review worker stopped (context cancelled)")
			return ctx.Err()
		case <-w.stopCh:
			w.logger.Info("weekly review worker stopped (stop signal)")
			return nil
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// Stop signals the worker to stop gracefully.
func (w *WeeklyReviewWorker) Stop() {
	if w.running.Load() {
		close(w.stopCh)
	}
}

// IsRunning returns true if the worker is currently running.
func (w *WeeklyReviewWorker) IsRunning() bool {
	return w.running.Load()
}

func (w *WeeklyReviewWorker) tick(ctx context.Context) {
	if _, err := w.RunOnce(ctx); err != nil {
		w.logger.ErrorContext(ctx, "weekly review check failed", "error", err)
	}
}

// RunOnce creates last week's review when today is the trigger weekday and
// none exists yet. It returns the new review, or nil when it skipped.
func (w *WeeklyReviewWorker) RunOnce(ctx context.Context) (*review.WeeklyReview, error) {
	today := w.calendar.Today()
	if today.Weekday() != w.config.TriggerWeekday {
		w.logger.Debug("not a review day", "today", today.String())
		return nil, nil
	}

	start, end := w.reviewer.LastWeek()
	existing, err := w.reviews.FindLatestForWeek(ctx, start)
	switch {
	case err == nil:
		w.logger.Debug("weekly review already exists",
			"week_start", start.String(),
			"review_id", existing.ID(),
		)
		return nil, nil
	case !errors.Is(err, review.ErrReviewNotFound):
		return nil, err
	}

	r, err := w.reviewer.Handle(ctx, commands.CreateLastWeekReviewCommand{Actor: ReviewActor})
	if err != nil {
		return nil, err
	}
	w.logger.InfoContext(ctx, "scheduled weekly review created",
		"review_id", r.ID(),
		"week_start", start.String(),
		"week_end", end.String(),
	)
	return r, nil
}
