package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/atelier/internal/work/domain/plan"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/google/uuid"
)

// PlanRepository implements plan.Repository. The unique plan_date column
// is what makes "one plan per date" hold across processes.
type PlanRepository struct {
	conn database.Connection
}

// NewPlanRepository creates a plan repository on conn.
func NewPlanRepository(conn database.Connection) *PlanRepository {
	return &PlanRepository{conn: conn}
}

// FindByDate returns the plan for date or plan.ErrPlanNotFound.
func (r *PlanRepository) FindByDate(ctx context.Context, date vo.Date) (*plan.DailyPlan, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT id, plan_date, theme, entries, created_at FROM daily_plans WHERE plan_date = ?`,
		date.String(),
	)

	var id, planDate, theme, entries, createdAt string
	if err := row.Scan(&id, &planDate, &theme, &entries, &createdAt); err != nil {
		if database.IsNoRows(err) {
			return nil, plan.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	return decodePlan(id, planDate, theme, entries, createdAt)
}

// CreateIfAbsent inserts p unless its date is taken, then reads back
// whichever plan holds the date.
func (r *PlanRepository) CreateIfAbsent(ctx context.Context, p *plan.DailyPlan) (*plan.DailyPlan, bool, error) {
	entries := p.Entries()
	if entries == nil {
		entries = []plan.Entry{}
	}
	encoded, err := json.Marshal(entries)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode plan entries: %w", err)
	}

	result, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO daily_plans (id, plan_date, theme, entries, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(plan_date) DO NOTHING`,
		p.ID().String(),
		p.Date().String(),
		p.Theme().String(),
		string(encoded),
		database.FormatTime(p.CreatedAt()),
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert plan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	stored, err := r.FindByDate(ctx, p.Date())
	if err != nil {
		return nil, false, err
	}
	return stored, affected == 1, nil
}

func decodePlan(id, planDate, theme, entries, createdAt string) (*plan.DailyPlan, error) {
	planID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid plan id %q: %w", id, err)
	}
	date, err := vo.ParseDate(planDate)
	if err != nil {
		return nil, err
	}
	weekday, err := vo.ParseWeekday(theme)
	if err != nil {
		return nil, err
	}
	var decoded []plan.Entry
	if err := json.Unmarshal([]byte(entries), &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode plan entries: %w", err)
	}
	created, err := database.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return plan.Rehydrate(planID, date, weekday, decoded, created), nil
}

var _ plan.Repository = (*PlanRepository)(nil)
