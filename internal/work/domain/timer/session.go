// Package timer models time tracking as an explicit session: it is opened,
// may be paused and resumed, and hands back a single duration when stopped.
package timer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionStopped       = errors.New("timer session is already stopped")
	ErrSessionNotRunning    = errors.New("timer session is not running")
	ErrSessionAlreadyActive = errors.New("task already has an active timer session")
	ErrSessionRunning       = errors.New("timer session is already running")
	ErrSessionNotFound      = errors.New("no active timer session for task")
)

// State of a session.
type State string

const (
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateStopped State = "stopped"
)

// Session is one tracked stretch of work on a task.
type Session struct {
	id            uuid.UUID
	taskID        uuid.UUID
	state         State
	startedAt     time.Time
	intervalStart time.Time
	accumulated   time.Duration
	stoppedAt     *time.Time
}

// Start opens a running session.
func Start(taskID uuid.UUID, now time.Time) *Session {
	now = now.UTC()
	return &Session{
		id:            uuid.New(),
		taskID:        taskID,
		state:         StateRunning,
		startedAt:     now,
		intervalStart: now,
	}
}

// Rehydrate rebuilds a session from stored state.
func Rehydrate(id, taskID uuid.UUID, state State, startedAt, intervalStart time.Time, accumulated time.Duration, stoppedAt *time.Time) *Session {
	return &Session{
		id:            id,
		taskID:        taskID,
		state:         state,
		startedAt:     startedAt,
		intervalStart: intervalStart,
		accumulated:   accumulated,
		stoppedAt:     stoppedAt,
	}
}

func (s *Session) ID() uuid.UUID              { return s.id }
func (s *Session) TaskID() uuid.UUID          { return s.taskID }
func (s *Session) State() State               { return s.state }
func (s *Session) StartedAt() time.Time       { return s.startedAt }
func (s *Session) IntervalStart() time.Time   { return s.intervalStart }
func (s *Session) Accumulated() time.Duration { return s.accumulated }
func (s *Session) StoppedAt() *time.Time      { return s.stoppedAt }

// Elapsed is the accumulated time plus the open interval, if any.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.state == StateRunning {
		return s.accumulated + since(s.intervalStart, now)
	}
	return s.accumulated
}

// Pause closes the running interval.
func (s *Session) Pause(now time.Time) error {
	switch s.state {
	case StateStopped:
		return ErrSessionStopped
	case StatePaused:
		return ErrSessionNotRunning
	}
	s.accumulated += since(s.intervalStart, now)
	s.state = StatePaused
	return nil
}

// Resume opens a new interval on a paused session.
func (s *Session) Resume(now time.Time) error {
	switch s.state {
	case StateStopped:
		return ErrSessionStopped
	case StateRunning:
		return ErrSessionRunning
	}
	s.intervalStart = now.UTC()
	s.state = StateRunning
	return nil
}

// Stop closes the session and returns the total tracked duration.
func (s *Session) Stop(now time.Time) (time.Duration, error) {
	if s.state == StateStopped {
		return 0, ErrSessionStopped
	}
	if s.state == StateRunning {
		s.accumulated += since(s.intervalStart, now)
	}
	at := now.UTC()
	s.stoppedAt = &at
	s.state = StateStopped
	return s.accumulated, nil
}

// since never goes negative, so a clock step backwards cannot subtract time.
func since(start, now time.Time) time.Duration {
	return max(now.Sub(start), 0)
}

// SessionRepository keeps at most one open (running or paused) session per task.
type SessionRepository interface {
	// Save inserts or updates; inserting a second open session for a task
	// fails with ErrSessionAlreadyActive.
	Save(ctx context.Context, s *Session) error
	// FindActive returns the open session of a task or ErrSessionNotFound.
	FindActive(ctx context.Context, taskID uuid.UUID) (*Session, error)
}
