// Package review holds WeeklyReview, an immutable summary of one week.
package review

import (
	"context"
	"errors"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/atelier/internal/shared/domain"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/google/uuid"
)

var (
	ErrReviewNotFound = errors.New("weekly review not found")
	ErrInvalidRange   = errors.New("review start must not be after its end")
)

// Summary is the computed part of a review.
type Summary struct {
	TotalTasks     int
	CompletedTasks int
	// CompletionRate is an integer percent in [0,100].
	CompletionRate int
	TotalMinutes   int
	Breakdown      string
	Achievements   string
}

// WeeklyReview is created once and never recomputed in place.
type WeeklyReview struct {
	sharedDomain.BaseAggregateRoot
	weekStart vo.Date
	weekEnd   vo.Date
	summary   Summary
	goals     string
}

// New records a review of [start, end].
func New(start, end vo.Date, summary Summary, goals string, now time.Time) (*WeeklyReview, error) {
	if start.IsZero() || end.IsZero() || start.After(end) {
		return nil, ErrInvalidRange
	}
	r := &WeeklyReview{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		weekStart:         start,
		weekEnd:           end,
		summary:           summary,
		goals:             strings.TrimSpace(goals),
	}
	r.AddDomainEvent(NewReviewCreated(r, now))
	return r, nil
}

// Rehydrate rebuilds a stored review.
func Rehydrate(id uuid.UUID, start, end vo.Date, summary Summary, goals string, createdAt time.Time) *WeeklyReview {
	return &WeeklyReview{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(id, createdAt, createdAt, 0),
		weekStart:         start,
		weekEnd:           end,
		summary:           summary,
		goals:             goals,
	}
}

func (r *WeeklyReview) WeekStart() vo.Date { return r.weekStart }
func (r *WeeklyReview) WeekEnd() vo.Date   { return r.weekEnd }
func (r *WeeklyReview) Summary() Summary   { return r.summary }
func (r *WeeklyReview) Goals() string      { return r.goals }

// Repository stores reviews. Reviews are inserted, never updated.
type Repository interface {
	Save(ctx context.Context, r *WeeklyReview) error
	FindByID(ctx context.Context, id uuid.UUID) (*WeeklyReview, error)
	// ListRecent returns reviews newest week first.
	ListRecent(ctx context.Context, limit int) ([]*WeeklyReview, error)
	// FindLatestForWeek returns the newest review starting on start.
	FindLatestForWeek(ctx context.Context, start vo.Date) (*WeeklyReview, error)
}
