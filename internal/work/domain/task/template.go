package task

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/atelier/internal/shared/domain"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/google/uuid"
)

// Template is a reusable recipe for creating tasks.
type Template struct {
	sharedDomain.BaseEntity
	name     string
	title    string
	workArea string
	rating   vo.Rating
	theme    vo.Weekday
	priority PriorityLabel
	estimate vo.Duration
	notes    string
}

// TemplateDefaults carries the optional parts of a template.
type TemplateDefaults struct {
	WorkArea string
	Theme    vo.Weekday
	Priority PriorityLabel
	Estimate vo.Duration
	Notes    string
}

// NewTemplate creates a template. Name falls back to the title.
func NewTemplate(name, title string, rating vo.Rating, defaults TemplateDefaults, now time.Time) (*Template, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = title
	}
	if defaults.Priority == "" {
		defaults.Priority = PriorityNormal
	}
	if !defaults.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if !defaults.Theme.IsValid() {
		return nil, ErrInvalidTheme
	}
	if rating.IsZero() {
		rating = vo.DefaultRating()
	}
	return &Template{
		BaseEntity: sharedDomain.NewBaseEntity(now),
		name:       name,
		title:      title,
		workArea:   strings.TrimSpace(defaults.WorkArea),
		rating:     rating,
		theme:      defaults.Theme,
		priority:   defaults.Priority,
		estimate:   defaults.Estimate,
		notes:      strings.TrimSpace(defaults.Notes),
	}, nil
}

// RehydrateTemplate rebuilds a template from stored state.
func RehydrateTemplate(id uuid.UUID, name, title string, rating vo.Rating, defaults TemplateDefaults, createdAt, updatedAt time.Time) *Template {
	return &Template{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		name:       name,
		title:      title,
		workArea:   defaults.WorkArea,
		rating:     rating,
		theme:      defaults.Theme,
		priority:   defaults.Priority,
		estimate:   defaults.Estimate,
		notes:      defaults.Notes,
	}
}

func (t *Template) Name() string            { return t.name }
func (t *Template) Title() string           { return t.title }
func (t *Template) WorkArea() string        { return t.workArea }
func (t *Template) Rating() vo.Rating       { return t.rating }
func (t *Template) Theme() vo.Weekday       { return t.theme }
func (t *Template) Priority() PriorityLabel { return t.priority }
func (t *Template) Estimate() vo.Duration   { return t.estimate }
func (t *Template) Notes() string           { return t.notes }

// Defaults returns the optional parts of the template.
func (t *Template) Defaults() TemplateDefaults {
	return TemplateDefaults{
		WorkArea: t.workArea,
		Theme:    t.theme,
		Priority: t.priority,
		Estimate: t.estimate,
		Notes:    t.notes,
	}
}
