package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/google/uuid"
)

const templateColumns = `id, name, title, work_area, complexity, collaboration, consequence,
	theme, priority, estimate_minutes, notes, created_at, updated_at`

// TemplateRepository implements task.TemplateRepository.
type TemplateRepository struct {
	conn database.Connection
}

// NewTemplateRepository creates a template repository on conn.
func NewTemplateRepository(conn database.Connection) *TemplateRepository {
	return &TemplateRepository{conn: conn}
}

// Save inserts or replaces a template.
func (r *TemplateRepository) Save(ctx context.Context, t *task.Template) error {
	rating := t.Rating()
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO task_templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			title = excluded.title,
			work_area = excluded.work_area,
			complexity = excluded.complexity,
			collaboration = excluded.collaboration,
			consequence = excluded.consequence,
			theme = excluded.theme,
			priority = excluded.priority,
			estimate_minutes = excluded.estimate_minutes,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		t.ID().String(),
		t.Name(),
		t.Title(),
		t.WorkArea(),
		rating.Complexity(),
		rating.Collaboration(),
		rating.Consequence(),
		t.Theme().String(),
		t.Priority().String(),
		t.Estimate().Minutes(),
		t.Notes(),
		database.FormatTime(t.CreatedAt()),
		database.FormatTime(t.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}

// FindByID returns the template or task.ErrTemplateNotFound.
func (r *TemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Template, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT `+templateColumns+` FROM task_templates WHERE id = ?`, id.String())

	t, err := scanTemplate(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, task.ErrTemplateNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns all templates ordered by name.
func (r *TemplateRepository) List(ctx context.Context) ([]*task.Template, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx,
		`SELECT `+templateColumns+` FROM task_templates ORDER BY name ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	templates := make([]*task.Template, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func scanTemplate(row database.Row) (*task.Template, error) {
	var (
		id, name, title, workArea              string
		complexity, collaboration, consequence int
		theme, priority                        string
		estimateMinutes                        int
		notes, createdAt, updatedAt            string
	)
	if err := row.Scan(
		&id, &name, &title, &workArea, &complexity, &collaboration, &consequence,
		&theme, &priority, &estimateMinutes, &notes, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	tplID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid template id %q: %w", id, err)
	}

	defaults := task.TemplateDefaults{WorkArea: workArea, Notes: notes}
	if defaults.Theme, err = vo.ParseWeekday(theme); err != nil {
		return nil, err
	}
	if defaults.Priority, err = task.ParsePriorityLabel(priority); err != nil {
		return nil, err
	}
	if defaults.Estimate, err = vo.NewDuration(estimateMinutes); err != nil {
		return nil, err
	}

	created, err := database.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := database.ParseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	rating := vo.ClampedRating(complexity, collaboration, consequence)
	return task.RehydrateTemplate(tplID, name, title, rating, defaults, created, updated), nil
}

var _ task.TemplateRepository = (*TemplateRepository)(nil)
