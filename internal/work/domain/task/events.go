package task

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/atelier/internal/shared/domain"
	"github.com/google/uuid"
)

const AggregateType = "Task"

// Routing keys published to the broker.
const (
	RoutingKeyCreated       = "work.task.created"
	RoutingKeyRated         = "work.task.rated"
	RoutingKeyStatusChanged = "work.task.status_changed"
	RoutingKeyTimeTracked   = "work.task.time_tracked"
	RoutingKeyUpdated       = "work.task.updated"
)

// TaskCreated is emitted when a task is quick-added or instantiated from a template.
type TaskCreated struct {
	sharedDomain.BaseEvent
	TaskID     uuid.UUID  `json:"task_id"`
	Title      string     `json:"title"`
	WorkArea   string     `json:"work_area,omitempty"`
	DueDate    string     `json:"due_date"`
	Score      int        `json:"score"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
}

func NewTaskCreated(t *Task, now time.Time) *TaskCreated {
	return &TaskCreated{
		BaseEvent:  sharedDomain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyCreated, now),
		TaskID:     t.ID(),
		Title:      t.title,
		WorkArea:   t.workArea,
		DueDate:    t.dueDate.String(),
		Score:      t.Score(),
		TemplateID: t.templateID,
	}
}

// TaskRated is emitted when the 3C rating, and so the score, changes.
type TaskRated struct {
	sharedDomain.BaseEvent
	TaskID        uuid.UUID `json:"task_id"`
	Complexity    int       `json:"complexity"`
	Collaboration int       `json:"collaboration"`
	Consequence   int       `json:"consequence"`
	Score         int       `json:"score"`
	Grade         string    `json:"grade"`
}

func NewTaskRated(t *Task, now time.Time) *TaskRated {
	return &TaskRated{
		BaseEvent:     sharedDomain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyRated, now),
		TaskID:        t.ID(),
		Complexity:    t.rating.Complexity(),
		Collaboration: t.rating.Collaboration(),
		Consequence:   t.rating.Consequence(),
		Score:         t.Score(),
		Grade:         t.Grade().String(),
	}
}

// TaskStatusChanged is emitted on every effective status transition.
type TaskStatusChanged struct {
	sharedDomain.BaseEvent
	TaskID uuid.UUID `json:"task_id"`
	From   Status    `json:"from"`
	To     Status    `json:"to"`
}

func NewTaskStatusChanged(t *Task, from Status, now time.Time) *TaskStatusChanged {
	return &TaskStatusChanged{
		BaseEvent: sharedDomain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyStatusChanged, now),
		TaskID:    t.ID(),
		From:      from,
		To:        t.status,
	}
}

// TaskTimeTracked is emitted when tracked time is added.
type TaskTimeTracked struct {
	sharedDomain.BaseEvent
	TaskID       uuid.UUID `json:"task_id"`
	AddedSeconds int64     `json:"added_seconds"`
	TotalSeconds int64     `json:"total_seconds"`
}

func NewTaskTimeTracked(t *Task, added time.Duration, now time.Time) *TaskTimeTracked {
	return &TaskTimeTracked{
		BaseEvent:    sharedDomain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyTimeTracked, now),
		TaskID:       t.ID(),
		AddedSeconds: int64(added / time.Second),
		TotalSeconds: int64(t.trackedTime / time.Second),
	}
}

// TaskUpdated is emitted when a descriptive field changes.
type TaskUpdated struct {
	sharedDomain.BaseEvent
	TaskID uuid.UUID `json:"task_id"`
	Field  string    `json:"field"`
}

func NewTaskUpdated(t *Task, field string, now time.Time) *TaskUpdated {
	return &TaskUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyUpdated, now),
		TaskID:    t.ID(),
		Field:     field,
	}
}
