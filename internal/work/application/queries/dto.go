// Package queries holds the read-side handlers of the work context.
package queries

import (
	"time"

	"github.com/felixgeelhaar/atelier/internal/work/domain/plan"
	"github.com/felixgeelhaar/atelier/internal/work/domain/review"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	"github.com/google/uuid"
)

// AttachmentDTO is a data transfer object for task attachments.
type AttachmentDTO struct {
	URL        string    `json:"url"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	WorkArea        string          `json:"work_area,omitempty"`
	DueDate         string          `json:"due_date"`
	Status          string          `json:"status"`
	Priority        string          `json:"priority"`
	Complexity      int             `json:"complexity"`
	Collaboration   int             `json:"collaboration"`
	Consequence     int             `json:"consequence"`
	Score           int             `json:"score"`
	Grade           string          `json:"grade"`
	Theme           string          `json:"theme,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Attachments     []AttachmentDTO `json:"attachments,omitempty"`
	EstimateMinutes int             `json:"estimate_minutes,omitempty"`
	TrackedSeconds  int64           `json:"tracked_seconds"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	TemplateID      *uuid.UUID      `json:"template_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToTaskDTO maps a task view.
func ToTaskDTO(v task.View) TaskDTO {
	dto := TaskDTO{
		ID:              v.ID,
		Title:           v.Title,
		WorkArea:        v.WorkArea,
		DueDate:         v.DueDate.String(),
		Status:          v.Status.String(),
		Priority:        v.Priority.String(),
		Complexity:      v.Rating.Complexity(),
		Collaboration:   v.Rating.Collaboration(),
		Consequence:     v.Rating.Consequence(),
		Score:           v.Score,
		Grade:           v.Rating.Grade().String(),
		Theme:           v.Theme.String(),
		Notes:           v.Notes,
		EstimateMinutes: v.Estimate.Minutes(),
		TrackedSeconds:  int64(v.TrackedTime / time.Second),
		CompletedAt:     v.CompletedAt,
		TemplateID:      v.TemplateID,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
	for _, a := range v.Attachments {
		dto.Attachments = append(dto.Attachments, AttachmentDTO(a))
	}
	return dto
}

// ToTaskDTOs maps tasks.
func ToTaskDTOs(tasks []*task.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t.Snapshot())
	}
	return dtos
}

// PlanEntryDTO is one ranked task of a daily plan. Task is nil when the
// referenced task no longer exists in the store.
type PlanEntryDTO struct {
	Rank          int       `json:"rank"`
	TaskID        uuid.UUID `json:"task_id"`
	BaseScore     int       `json:"base_score"`
	AdjustedScore int       `json:"adjusted_score"`
	Task          *TaskDTO  `json:"task,omitempty"`
}

// DailyPlanDTO is a data transfer object for daily plans.
type DailyPlanDTO struct {
	ID        uuid.UUID      `json:"id"`
	Date      string         `json:"date"`
	Theme     string         `json:"theme"`
	Entries   []PlanEntryDTO `json:"entries"`
	CreatedAt time.Time      `json:"created_at"`
}

// ToDailyPlanDTO maps a plan without resolving its tasks.
func ToDailyPlanDTO(p *plan.DailyPlan) DailyPlanDTO {
	dto := DailyPlanDTO{
		ID:        p.ID(),
		Date:      p.Date().String(),
		Theme:     p.Theme().String(),
		Entries:   []PlanEntryDTO{},
		CreatedAt: p.CreatedAt(),
	}
	for i, e := range p.Entries() {
		dto.Entries = append(dto.Entries, PlanEntryDTO{
			Rank:          i + 1,
			TaskID:        e.TaskID,
			BaseScore:     e.BaseScore,
			AdjustedScore: e.AdjustedScore,
		})
	}
	return dto
}

// WeeklyReviewDTO is a data transfer object for weekly reviews.
type WeeklyReviewDTO struct {
	ID             uuid.UUID `json:"id"`
	WeekStart      string    `json:"week_start"`
	WeekEnd        string    `json:"week_end"`
	TotalTasks     int       `json:"total_tasks"`
	CompletedTasks int       `json:"completed_tasks"`
	CompletionRate int       `json:"completion_rate"`
	TotalMinutes   int       `json:"total_minutes"`
	Breakdown      string    `json:"breakdown"`
	Achievements   string    `json:"achievements"`
	Goals          string    `json:"goals,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToWeeklyReviewDTO maps a review.
func ToWeeklyReviewDTO(r *review.WeeklyReview) WeeklyReviewDTO {
	s := r.Summary()
	return WeeklyReviewDTO{
		ID:             r.ID(),
		WeekStart:      r.WeekStart().String(),
		WeekEnd:        r.WeekEnd().String(),
		TotalTasks:     s.TotalTasks,
		CompletedTasks: s.CompletedTasks,
		CompletionRate: s.CompletionRate,
		TotalMinutes:   s.TotalMinutes,
		Breakdown:      s.Breakdown,
		Achievements:   s.Achievements,
		Goals:          r.Goals(),
		CreatedAt:      r.CreatedAt(),
	}
}

// TemplateDTO is a data transfer object for task templates.
type TemplateDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Title           string    `json:"title"`
	WorkArea        string    `json:"work_area,omitempty"`
	Complexity      int       `json:"complexity"`
	Collaboration   int       `json:"collaboration"`
	Consequence     int       `json:"consequence"`
	Score           int       `json:"score"`
	Theme           string    `json:"theme,omitempty"`
	Priority        string    `json:"priority"`
	EstimateMinutes int       `json:"estimate_minutes,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// ToTemplateDTO maps a template.
func ToTemplateDTO(t *task.Template) TemplateDTO {
	r := t.Rating()
	return TemplateDTO{
		ID:              t.ID(),
		Name:            t.Name(),
		Title:           t.Title(),
		WorkArea:        t.WorkArea(),
		Complexity:      r.Complexity(),
		Collaboration:   r.Collaboration(),
		Consequence:     r.Consequence(),
		Score:           r.Score(),
		Theme:           t.Theme().String(),
		Priority:        t.Priority().String(),
		EstimateMinutes: t.Estimate().Minutes(),
		Notes:           t.Notes(),
	}
}
