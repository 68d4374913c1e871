package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/atelier/internal/work/domain/timer"
	"github.com/google/uuid"
)

// SessionRepository implements timer.SessionRepository. A partial unique
// index on open sessions enforces one running or paused session per task.
type SessionRepository struct {
	conn database.Connection
}

// NewSessionRepository creates a session repository on conn.
func NewSessionRepository(conn database.Connection) *SessionRepository {
	return &SessionRepository{conn: conn}
}

// Save inserts or updates a session.
func (r *SessionRepository) Save(ctx context.Context, s *timer.Session) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO timer_sessions (id, task_id, state, started_at, interval_start, accumulated_ms, stopped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			interval_start = excluded.interval_start,
			accumulated_ms = excluded.accumulated_ms,
			stopped_at = excluded.stopped_at`,
		s.ID().String(),
		s.TaskID().String(),
		string(s.State()),
		database.FormatTime(s.StartedAt()),
		database.FormatTime(s.IntervalStart()),
		s.Accumulated().Milliseconds(),
		database.FormatNullTime(s.StoppedAt()),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return timer.ErrSessionAlreadyActive
		}
		return fmt.Errorf("failed to save timer session: %w", err)
	}
	return nil
}

// FindActive returns the open session of a task or timer.ErrSessionNotFound.
func (r *SessionRepository) FindActive(ctx context.Context, taskID uuid.UUID) (*timer.Session, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		SELECT id, task_id, state, started_at, interval_start, accumulated_ms, stopped_at
		FROM timer_sessions
		WHERE task_id = ? AND state <> ?`,
		taskID.String(), string(timer.StateStopped),
	)

	var (
		id, task, state, startedAt, intervalStart string
		accumulatedMS                             int64
		stoppedAt                                 *string
	)
	if err := row.Scan(&id, &task, &state, &startedAt, &intervalStart, &accumulatedMS, &stoppedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, timer.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load timer session: %w", err)
	}

	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", id, err)
	}
	owner, err := uuid.Parse(task)
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q: %w", task, err)
	}
	started, err := database.ParseTime(startedAt)
	if err != nil {
		return nil, err
	}
	interval, err := database.ParseTime(intervalStart)
	if err != nil {
		return nil, err
	}
	stopped, err := database.ParseNullTime(stoppedAt)
	if err != nil {
		return nil, err
	}

	accumulated := time.Duration(accumulatedMS) * time.Millisecond
	return timer.Rehydrate(sessionID, owner, timer.State(state), started, interval, accumulated, stopped), nil
}

var _ timer.SessionRepository = (*SessionRepository)(nil)
