// Package persistence implements the work repositories on the shared SQL
// executor. The same statements run on SQLite and PostgreSQL.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/google/uuid"
)

const taskColumns = `id, title, work_area, due_date, status, priority,
	complexity, collaboration, consequence, theme, notes, attachments,
	estimate_minutes, tracked_seconds, completed_at, template_id,
	created_at, updated_at, version`

// TaskRepository implements task.Repository.
type TaskRepository struct {
	conn database.Connection
}

// NewTaskRepository creates a task repository on conn.
func NewTaskRepository(conn database.Connection) *TaskRepository {
	return &TaskRepository{conn: conn}
}

func (r *TaskRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts or updates a task. Updates only apply when the stored
// version still matches the one the task was loaded at.
func (r *TaskRepository) Save(ctx context.Context, t *task.Task) error {
	attachments, err := json.Marshal(t.Attachments())
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	var templateID any
	if id := t.TemplateID(); id != nil {
		templateID = id.String()
	}

	rating := t.Rating()
	result, err := r.executor(ctx).Exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`, score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			work_area = excluded.work_area,
			due_date = excluded.due_date,
			status = excluded.status,
			priority = excluded.priority,
			complexity = excluded.complexity,
			collaboration = excluded.collaboration,
			consequence = excluded.consequence,
			score = excluded.score,
			theme = excluded.theme,
			notes = excluded.notes,
			attachments = excluded.attachments,
			estimate_minutes = excluded.estimate_minutes,
			tracked_seconds = excluded.tracked_seconds,
			completed_at = excluded.completed_at,
			template_id = excluded.template_id,
			updated_at = excluded.updated_at,
			version = excluded.version
		WHERE tasks.version = excluded.version - 1`,
		t.ID().String(),
		t.Title(),
		t.WorkArea(),
		t.DueDate().String(),
		t.Status().String(),
		t.Priority().String(),
		rating.Complexity(),
		rating.Collaboration(),
		rating.Consequence(),
		t.Theme().String(),
		t.Notes(),
		string(attachments),
		t.Estimate().Minutes(),
		int64(t.TrackedTime()/time.Second),
		database.FormatNullTime(t.CompletedAt()),
		templateID,
		database.FormatTime(t.CreatedAt()),
		database.FormatTime(t.UpdatedAt()),
		t.Version()+1,
		t.Score(),
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrVersionConflict
	}

	t.IncrementVersion()
	return nil
}

// FindByID returns the task or task.ErrTaskNotFound.
func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row := r.executor(ctx).QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id.String())

	t, err := scanTask(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, task.ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns tasks matching filter, highest score first, then by due date.
func (r *TaskRepository) List(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	var (
		where []string
		args  []any
	)
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, s.String())
		}
		where = append(where, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.WorkArea != "" {
		where = append(where, "work_area = ?")
		args = append(args, filter.WorkArea)
	}
	if !filter.DueOnOrAfter.IsZero() {
		where = append(where, "due_date >= ?")
		args = append(args, filter.DueOnOrAfter.String())
	}
	if !filter.DueOnOrBefore.IsZero() {
		where = append(where, "due_date <= ?")
		args = append(args, filter.DueOnOrBefore.String())
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY score DESC, due_date ASC, created_at ASC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return r.query(ctx, query, args...)
}

// FindDueInRange returns tasks due within [start, end] in due-date order.
func (r *TaskRepository) FindDueInRange(ctx context.Context, start, end vo.Date) ([]*task.Task, error) {
	return r.query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE due_date >= ? AND due_date <= ?
		ORDER BY due_date ASC, created_at ASC, id ASC`,
		start.String(), end.String(),
	)
}

// FindEligible returns NotStarted tasks due on or before the date, oldest
// due date first so ties in the selector favour overdue work.
func (r *TaskRepository) FindEligible(ctx context.Context, onOrBefore vo.Date) ([]*task.Task, error) {
	return r.query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE status = ? AND due_date <= ?
		ORDER BY due_date ASC, created_at ASC, id ASC`,
		task.StatusNotStarted.String(), onOrBefore.String(),
	)
}

func (r *TaskRepository) query(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := r.executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// scanTask maps a row into a task. Ratings outside [1,5] are clamped
// rather than rejected so legacy rows stay readable.
func scanTask(row database.Row) (*task.Task, error) {
	var (
		id, title, workArea, due, status, priority string
		complexity, collaboration, consequence     int
		theme, notes, attachments                  string
		estimateMinutes                            int
		trackedSeconds                             int64
		completedAt, templateID                    *string
		createdAt, updatedAt                       string
		version                                    int
	)
	if err := row.Scan(
		&id, &title, &workArea, &due, &status, &priority,
		&complexity, &collaboration, &consequence, &theme, &notes, &attachments,
		&estimateMinutes, &trackedSeconds, &completedAt, &templateID,
		&createdAt, &updatedAt, &version,
	); err != nil {
		return nil, err
	}

	v := task.View{
		Title:       title,
		WorkArea:    workArea,
		Rating:      vo.ClampedRating(complexity, collaboration, consequence),
		Notes:       notes,
		TrackedTime: time.Duration(trackedSeconds) * time.Second,
		Version:     version,
	}

	var err error
	if v.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid task id %q: %w", id, err)
	}
	if v.DueDate, err = vo.ParseDate(due); err != nil {
		return nil, err
	}
	if v.Status, err = task.ParseStatus(status); err != nil {
		return nil, err
	}
	if v.Priority, err = task.ParsePriorityLabel(priority); err != nil {
		return nil, err
	}
	if v.Theme, err = vo.ParseWeekday(theme); err != nil {
		return nil, err
	}
	if v.Estimate, err = vo.NewDuration(estimateMinutes); err != nil {
		return nil, err
	}
	if attachments != "" {
		if err := json.Unmarshal([]byte(attachments), &v.Attachments); err != nil {
			return nil, fmt.Errorf("failed to decode attachments: %w", err)
		}
	}
	if v.CompletedAt, err = database.ParseNullTime(completedAt); err != nil {
		return nil, err
	}
	if templateID != nil && *templateID != "" {
		tplID, err := uuid.Parse(*templateID)
		if err != nil {
			return nil, fmt.Errorf("invalid template id %q: %w", *templateID, err)
		}
		v.TemplateID = &tplID
	}
	if v.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if v.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}

	return task.Rehydrate(v), nil
}

var _ task.Repository = (*TaskRepository)(nil)
