package task

import (
	"slices"
	"time"

	sharedDomain "github.com/felixgeelhaar/atelier/internal/shared/domain"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/google/uuid"
)

// View is a detached copy of a task's state. The selector and aggregator
// work on views so they never touch the aggregate.
type View struct {
	ID          uuid.UUID
	Title       string
	WorkArea    string
	DueDate     vo.Date
	Status      Status
	Priority    PriorityLabel
	Rating      vo.Rating
	Score       int
	Theme       vo.Weekday
	Notes       string
	Attachments []Attachment
	Estimate    vo.Duration
	TrackedTime time.Duration
	CompletedAt *time.Time
	TemplateID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
}

// Snapshot returns a copy of the task's current state.
func (t *Task) Snapshot() View {
	v := View{
		ID:          t.ID(),
		Title:       t.title,
		WorkArea:    t.workArea,
		DueDate:     t.dueDate,
		Status:      t.status,
		Priority:    t.priority,
		Rating:      t.rating,
		Score:       t.rating.Score(),
		Theme:       t.theme,
		Notes:       t.notes,
		Attachments: slices.Clone(t.attachments),
		Estimate:    t.estimate,
		TrackedTime: t.trackedTime,
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
		Version:     t.Version(),
	}
	if t.completedAt != nil {
		at := *t.completedAt
		v.CompletedAt = &at
	}
	if t.templateID != nil {
		id := *t.templateID
		v.TemplateID = &id
	}
	return v
}

// Snapshots maps tasks to views.
func Snapshots(tasks []*Task) []View {
	views := make([]View, len(tasks))
	for i, t := range tasks {
		views[i] = t.Snapshot()
	}
	return views
}

// Rehydrate rebuilds a task from stored state. The stored score is ignored
// and recomputed from the rating.
func Rehydrate(v View) *Task {
	t := &Task{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(v.ID, v.CreatedAt, v.UpdatedAt, v.Version),
		title:             v.Title,
		workArea:          v.WorkArea,
		dueDate:           v.DueDate,
		status:            v.Status,
		priority:          v.Priority,
		rating:            v.Rating,
		theme:             v.Theme,
		notes:             v.Notes,
		attachments:       slices.Clone(v.Attachments),
		estimate:          v.Estimate,
		trackedTime:       v.TrackedTime,
		completedAt:       v.CompletedAt,
		templateID:        v.TemplateID,
	}
	if t.rating.IsZero() {
		t.rating = vo.DefaultRating()
	}
	return t
}
