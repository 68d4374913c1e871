package commands

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	"github.com/felixgeelhaar/atelier/internal/work/domain/timer"
)

func (e *testEnv) timerHandler() *TimerHandler {
	return NewTimerHandler(e.sessions, e.tasks, e.outbox, e.uow, e.calendar, e.logger)
}

func TestTimerHandler_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.addTask(t, "Focus block", "2024-06-05")
	h := env.timerHandler()
	cmd := TimerCommand{TaskID: created.TaskID}

	started, err := h.Start(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, timer.StateRunning, started.State)

	env.clock.Advance(10 * time.Minute)
	paused, err := h.Pause(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, timer.StatePaused, paused.State)
	assert.Equal(t, 10*time.Minute, paused.Elapsed)

	env.clock.Advance(5 * time.Minute)
	resumed, err := h.Resume(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, resumed.Elapsed, "paused time is not tracked")

	env.clock.Advance(20 * time.Minute)
	stopped, err := h.Stop(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, started.SessionID, stopped.SessionID)
	assert.Equal(t, timer.StateStopped, stopped.State)
	assert.Equal(t, 30*time.Minute, stopped.Elapsed)
	assert.Equal(t, 30*time.Minute, stopped.TaskTracked)

	stored, err := env.tasks.FindByID(ctx, created.TaskID)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, stored.TrackedTime())
	assert.Equal(t, []string{task.RoutingKeyCreated, task.RoutingKeyTimeTracked}, env.routingKeys(t))

	_, err = env.sessions.FindActive(ctx, created.TaskID)
	assert.ErrorIs(t, err, timer.ErrSessionNotFound)

	t.Run("a second session accumulates", func(t *testing.T) {
		_, err := h.Start(ctx, cmd)
		require.NoError(t, err)
		env.clock.Advance(90 * time.Second)
		res, err := h.Stop(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, 31*time.Minute+30*time.Second, res.TaskTracked)
	})
}

func TestTimerHandler_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.addTask(t, "Focus block", "2024-06-05")
	h := env.timerHandler()
	cmd := TimerCommand{TaskID: created.TaskID}

	_, err := h.Start(ctx, TimerCommand{TaskID: uuid.New()})
	assert.ErrorIs(t, err, task.ErrTaskNotFound)

	_, err = h.Stop(ctx, cmd)
	assert.ErrorIs(t, err, timer.ErrSessionNotFound)

	_, err = h.Start(ctx, cmd)
	require.NoError(t, err)

	_, err = h.Start(ctx, cmd)
	assert.ErrorIs(t, err, timer.ErrSessionAlreadyActive)

	_, err = h.Resume(ctx, cmd)
	assert.ErrorIs(t, err, timer.ErrSessionRunning)

	_, err = h.Pause(ctx, cmd)
	require.NoError(t, err)
	_, err = h.Pause(ctx, cmd)
	assert.ErrorIs(t, err, timer.ErrSessionNotRunning)
}

func TestTimerHandler_StopWithoutElapsedTime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.addTask(t, "Quick check", "2024-06-05")
	h := env.timerHandler()
	cmd := TimerCommand{TaskID: created.TaskID}

	_, err := h.Start(ctx, cmd)
	require.NoError(t, err)
	res, err := h.Stop(ctx, cmd)
	require.NoError(t, err)

	assert.Zero(t, res.Elapsed)
	assert.Equal(t, []string{task.RoutingKeyCreated}, env.routingKeys(t), "nothing tracked, nothing emitted")
}
