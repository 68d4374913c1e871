// Package task holds the Task aggregate: a titled unit of work scored on
// its 3C rating.
package task

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	sharedDomain "github.com/felixgeelhaar/atelier/internal/shared/domain"
	"github.com/felixgeelhaar/atelier/internal/work/domain/scoring"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/google/uuid"
)

// MaxTitleLength is measured in runes.
const MaxTitleLength = 100

// Task is a unit of work. Its score is always derived from its rating.
type Task struct {
	sharedDomain.BaseAggregateRoot
	title       string
	workArea    string
	dueDate     vo.Date
	status      Status
	priority    PriorityLabel
	rating      vo.Rating
	theme       vo.Weekday
	notes       string
	attachments []Attachment
	estimate    vo.Duration
	trackedTime time.Duration
	completedAt *time.Time
	templateID  *uuid.UUID
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func newTask(title, workArea string, due vo.Date, rating vo.Rating, now time.Time) (*Task, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	if due.IsZero() {
		return nil, ErrMissingDueDate
	}
	return &Task{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		title:             title,
		workArea:          strings.TrimSpace(workArea),
		dueDate:           due,
		status:            StatusNotStarted,
		priority:          PriorityNormal,
		rating:            rating,
	}, nil
}

// QuickAdd creates a NotStarted task with the baseline rating.
func QuickAdd(title, workArea string, due vo.Date, now time.Time) (*Task, error) {
	t, err := newTask(title, workArea, due, vo.DefaultRating(), now)
	if err != nil {
		return nil, err
	}
	t.AddDomainEvent(NewTaskCreated(t, now))
	return t, nil
}

// NewFromTemplate creates a NotStarted task from a template's recipe.
func NewFromTemplate(tpl *Template, due vo.Date, now time.Time) (*Task, error) {
	t, err := newTask(tpl.Title(), tpl.WorkArea(), due, tpl.Rating(), now)
	if err != nil {
		return nil, err
	}
	t.theme = tpl.Theme()
	t.priority = tpl.Priority()
	t.estimate = tpl.Estimate()
	t.notes = tpl.Notes()
	id := tpl.ID()
	t.templateID = &id
	t.AddDomainEvent(NewTaskCreated(t, now))
	return t, nil
}

func (t *Task) Title() string                { return t.title }
func (t *Task) WorkArea() string             { return t.workArea }
func (t *Task) DueDate() vo.Date             { return t.dueDate }
func (t *Task) Status() Status               { return t.status }
func (t *Task) Priority() PriorityLabel      { return t.priority }
func (t *Task) Rating() vo.Rating            { return t.rating }
func (t *Task) Score() int                   { return t.rating.Score() }
func (t *Task) Grade() scoring.Grade         { return t.rating.Grade() }
func (t *Task) Theme() vo.Weekday            { return t.theme }
func (t *Task) Notes() string                { return t.notes }
func (t *Task) Estimate() vo.Duration        { return t.estimate }
func (t *Task) TrackedTime() time.Duration   { return t.trackedTime }
func (t *Task) CompletedAt() *time.Time      { return t.completedAt }
func (t *Task) TemplateID() *uuid.UUID       { return t.templateID }
func (t *Task) Attachments() []Attachment    { return slices.Clone(t.attachments) }
func (t *Task) IsDone() bool                 { return t.status == StatusDone }

// Rate replaces all three ratings, and with them the score.
func (t *Task) Rate(rating vo.Rating, now time.Time) {
	if rating == t.rating {
		return
	}
	t.rating = rating
	t.Touch(now)
	t.AddDomainEvent(NewTaskRated(t, now))
}

// ChangeStatus moves the task to s. Moving to the current status is a no-op.
func (t *Task) ChangeStatus(s Status, now time.Time) error {
	if !s.IsValid() {
		return ErrInvalidStatus
	}
	if s == t.status {
		return nil
	}
	from := t.status
	t.status = s
	if s == StatusDone {
		at := now.UTC()
		t.completedAt = &at
	} else {
		t.completedAt = nil
	}
	t.Touch(now)
	t.AddDomainEvent(NewTaskStatusChanged(t, from, now))
	return nil
}

// SetTitle renames the task.
func (t *Task) SetTitle(title string, now time.Time) error {
	title, err := validateTitle(title)
	if err != nil {
		return err
	}
	if title != t.title {
		t.title = title
		t.updated(now, "title")
	}
	return nil
}

func (t *Task) SetNotes(notes string, now time.Time) {
	notes = strings.TrimSpace(notes)
	if notes != t.notes {
		t.notes = notes
		t.updated(now, "notes")
	}
}

func (t *Task) SetTheme(theme vo.Weekday, now time.Time) error {
	if !theme.IsValid() {
		return ErrInvalidTheme
	}
	if theme != t.theme {
		t.theme = theme
		t.updated(now, "theme")
	}
	return nil
}

func (t *Task) SetPriorityLabel(p PriorityLabel, now time.Time) error {
	if !p.IsValid() {
		return ErrInvalidPriority
	}
	if p != t.priority {
		t.priority = p
		t.updated(now, "priority")
	}
	return nil
}

func (t *Task) SetEstimate(d vo.Duration, now time.Time) {
	if d != t.estimate {
		t.estimate = d
		t.updated(now, "estimate")
	}
}

func (t *Task) SetDueDate(due vo.Date, now time.Time) error {
	if due.IsZero() {
		return ErrMissingDueDate
	}
	if !due.Equal(t.dueDate) {
		t.dueDate = due
		t.updated(now, "due_date")
	}
	return nil
}

func (t *Task) SetWorkArea(area string, now time.Time) {
	area = strings.TrimSpace(area)
	if area != t.workArea {
		t.workArea = area
		t.updated(now, "work_area")
	}
}

// AddAttachment attaches a file. URLs are unique per task.
func (t *Task) AddAttachment(a Attachment, now time.Time) error {
	if a.URL == "" || a.Name == "" || a.Size < 0 {
		return ErrInvalidAttachment
	}
	if slices.ContainsFunc(t.attachments, func(existing Attachment) bool { return existing.URL == a.URL }) {
		return ErrDuplicateAttachment
	}
	t.attachments = append(t.attachments, a)
	t.updated(now, "attachments")
	return nil
}

// RemoveAttachment detaches the file with the given url.
func (t *Task) RemoveAttachment(url string, now time.Time) error {
	i := slices.IndexFunc(t.attachments, func(a Attachment) bool { return a.URL == url })
	if i < 0 {
		return ErrAttachmentNotFound
	}
	t.attachments = slices.Delete(t.attachments, i, i+1)
	t.updated(now, "attachments")
	return nil
}

// AddTrackedTime accumulates time spent, truncated to whole seconds.
func (t *Task) AddTrackedTime(d time.Duration, now time.Time) error {
	if d < 0 {
		return ErrNegativeDuration
	}
	d = d.Truncate(time.Second)
	if d == 0 {
		return nil
	}
	t.trackedTime += d
	t.Touch(now)
	t.AddDomainEvent(NewTaskTimeTracked(t, d, now))
	return nil
}

func (t *Task) updated(now time.Time, field string) {
	t.Touch(now)
	t.AddDomainEvent(NewTaskUpdated(t, field, now))
}
