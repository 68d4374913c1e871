package task

import (
	"context"

	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/google/uuid"
)

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	Statuses      []Status
	WorkArea      string
	DueOnOrBefore vo.Date
	DueOnOrAfter  vo.Date
	Limit         int
}

// Repository persists tasks. Deletion belongs to the external store and is
// not offered here.
type Repository interface {
	Save(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	List(ctx context.Context, filter Filter) ([]*Task, error)
	// FindDueInRange returns tasks due within [start, end].
	FindDueInRange(ctx context.Context, start, end vo.Date) ([]*Task, error)
	// FindEligible returns NotStarted tasks due on or before the date.
	FindEligible(ctx context.Context, onOrBefore vo.Date) ([]*Task, error)
}

// TemplateRepository persists task templates.
type TemplateRepository interface {
	Save(ctx context.Context, t *Template) error
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
}
