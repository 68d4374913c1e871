// Package plan holds DailyPlan: the frozen top-N working set for one date.
package plan

import (
	"context"
	"errors"
	"slices"
	"time"

	sharedDomain "github.com/felixgeelhaar/atelier/internal/shared/domain"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/google/uuid"
)

// MaxEntries bounds the working set of a day.
const MaxEntries = 3

var (
	ErrPlanNotFound   = errors.New("daily plan not found")
	ErrTooManyEntries = errors.New("a daily plan holds at most 3 tasks")
	ErrMissingDate    = errors.New("daily plan requires a date")
)

// Entry is one selected task with the scores it was ranked by.
type Entry struct {
	TaskID        uuid.UUID `json:"task_id"`
	BaseScore     int       `json:"base_score"`
	AdjustedScore int       `json:"adjusted_score"`
}

// DailyPlan is immutable once built.
type DailyPlan struct {
	sharedDomain.BaseAggregateRoot
	date    vo.Date
	theme   vo.Weekday
	entries []Entry
}

// New builds the plan for date. Entries keep their order; an empty list is
// a valid plan.
func New(date vo.Date, entries []Entry, now time.Time) (*DailyPlan, error) {
	if date.IsZero() {
		return nil, ErrMissingDate
	}
	if len(entries) > MaxEntries {
		return nil, ErrTooManyEntries
	}
	p := &DailyPlan{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		date:              date,
		theme:             date.Weekday(),
		entries:           slices.Clone(entries),
	}
	p.AddDomainEvent(NewPlanCreated(p, now))
	return p, nil
}

// Rehydrate rebuilds a stored plan.
func Rehydrate(id uuid.UUID, date vo.Date, theme vo.Weekday, entries []Entry, createdAt time.Time) *DailyPlan {
	return &DailyPlan{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(id, createdAt, createdAt, 0),
		date:              date,
		theme:             theme,
		entries:           slices.Clone(entries),
	}
}

func (p *DailyPlan) Date() vo.Date     { return p.date }
func (p *DailyPlan) Theme() vo.Weekday { return p.theme }
func (p *DailyPlan) Entries() []Entry  { return slices.Clone(p.entries) }
func (p *DailyPlan) IsEmpty() bool     { return len(p.entries) == 0 }

// TaskIDs returns the selected task ids in rank order.
func (p *DailyPlan) TaskIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(p.entries))
	for i, e := range p.entries {
		ids[i] = e.TaskID
	}
	return ids
}

// Repository stores at most one plan per date.
type Repository interface {
	FindByDate(ctx context.Context, date vo.Date) (*DailyPlan, error)
	// CreateIfAbsent inserts p unless a plan for its date exists. It returns
	// the stored plan and whether p was the one inserted; a caller that
	// loses a race gets the winner's plan back.
	CreateIfAbsent(ctx context.Context, p *DailyPlan) (*DailyPlan, bool, error)
}
