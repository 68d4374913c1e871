package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/atelier/internal/work/domain/review"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/google/uuid"
)

const reviewColumns = `id, week_start, week_end, total_tasks, completed_tasks, completion_rate,
	total_minutes, breakdown, achievements, goals, created_at`

// ReviewRepository implements review.Repository.
type ReviewRepository struct {
	conn database.Connection
}

// NewReviewRepository creates a review repository on conn.
func NewReviewRepository(conn database.Connection) *ReviewRepository {
	return &ReviewRepository{conn: conn}
}

// Save inserts a review.
func (r *ReviewRepository) Save(ctx context.Context, rv *review.WeeklyReview) error {
	s := rv.Summary()
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO weekly_reviews (`+reviewColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rv.ID().String(),
		rv.WeekStart().String(),
		rv.WeekEnd().String(),
		s.TotalTasks,
		s.CompletedTasks,
		s.CompletionRate,
		s.TotalMinutes,
		s.Breakdown,
		s.Achievements,
		rv.Goals(),
		database.FormatTime(rv.CreatedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// FindByID returns the review or review.ErrReviewNotFound.
func (r *ReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.WeeklyReview, error) {
	return r.findOne(ctx, `SELECT `+reviewColumns+` FROM weekly_reviews WHERE id = ?`, id.String())
}

// FindLatestForWeek returns the newest review starting on start.
func (r *ReviewRepository) FindLatestForWeek(ctx context.Context, start vo.Date) (*review.WeeklyReview, error) {
	return r.findOne(ctx, `
		SELECT `+reviewColumns+` FROM weekly_reviews
		WHERE week_start = ?
		ORDER BY created_at DESC
		LIMIT 1`,
		start.String(),
	)
}

// ListRecent returns reviews newest week first. A non-positive limit
// returns all of them.
func (r *ReviewRepository) ListRecent(ctx context.Context, limit int) ([]*review.WeeklyReview, error) {
	query := `SELECT ` + reviewColumns + ` FROM weekly_reviews ORDER BY week_start DESC, created_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer func() { _ = rows.Close() }()

	reviews := make([]*review.WeeklyReview, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) findOne(ctx context.Context, query string, args ...any) (*review.WeeklyReview, error) {
	rv, err := scanReview(database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, query, args...))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, review.ErrReviewNotFound
		}
		return nil, err
	}
	return rv, nil
}

func scanReview(row database.Row) (*review.WeeklyReview, error) {
	var (
		id, weekStart, weekEnd string
		s                      review.Summary
		goals, createdAt       string
	)
	if err := row.Scan(
		&id, &weekStart, &weekEnd, &s.TotalTasks, &s.CompletedTasks, &s.CompletionRate,
		&s.TotalMinutes, &s.Breakdown, &s.Achievements, &goals, &createdAt,
	); err != nil {
		return nil, err
	}

	reviewID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid review id %q: %w", id, err)
	}
	start, err := vo.ParseDate(weekStart)
	if err != nil {
		return nil, err
	}
	end, err := vo.ParseDate(weekEnd)
	if err != nil {
		return nil, err
	}
	created, err := database.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return review.Rehydrate(reviewID, start, end, s, goals, created), nil
}

var _ review.Repository = (*ReviewRepository)(nil)
