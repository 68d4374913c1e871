package plan

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/atelier/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType     = "DailyPlan"
	RoutingKeyCreated = "work.plan.created"
)

// PlanCreated is emitted when a new plan is stored for a date.
type PlanCreated struct {
	sharedDomain.BaseEvent
	PlanID  uuid.UUID   `json:"plan_id"`
	Date    string      `json:"date"`
	Theme   string      `json:"theme"`
	TaskIDs []uuid.UUID `json:"task_ids"`
}

func NewPlanCreated(p *DailyPlan, now time.Time) *PlanCreated {
	return &PlanCreated{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), AggregateType, RoutingKeyCreated, now),
		PlanID:    p.ID(),
		Date:      p.date.String(),
		Theme:     p.theme.String(),
		TaskIDs:   p.TaskIDs(),
	}
}
