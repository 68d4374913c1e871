package review

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/atelier/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType     = "WeeklyReview"
	RoutingKeyCreated = "work.review.created"
)

// ReviewCreated is emitted when a weekly review is stored.
type ReviewCreated struct {
	sharedDomain.BaseEvent
	ReviewID       uuid.UUID `json:"review_id"`
	WeekStart      string    `json:"week_start"`
	WeekEnd        string    `json:"week_end"`
	TotalTasks     int       `json:"total_tasks"`
	CompletedTasks int       `json:"completed_tasks"`
	CompletionRate int       `json:"completion_rate"`
}

func NewReviewCreated(r *WeeklyReview, now time.Time) *ReviewCreated {
	return &ReviewCreated{
		BaseEvent:      sharedDomain.NewBaseEvent(r.ID(), AggregateType, RoutingKeyCreated, now),
		ReviewID:       r.ID(),
		WeekStart:      r.weekStart.String(),
		WeekEnd:        r.weekEnd.String(),
		TotalTasks:     r.summary.TotalTasks,
		CompletedTasks: r.summary.CompletedTasks,
		CompletionRate: r.summary.CompletionRate,
	}
}
