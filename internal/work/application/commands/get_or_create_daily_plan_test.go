package commands

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/atelier/internal/work/domain/plan"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/felixgeelhaar/atelier/pkg/observability"
)

func (e *testEnv) planHandler() *GetOrCreateDailyPlanHandler {
	return NewGetOrCreateDailyPlanHandler(e.plans, e.tasks, e.outbox, e.uow, e.calendar, e.logger).WithMetrics(e.metrics)
}

func (e *testEnv) setTheme(t *testing.T, id uuid.UUID, theme string) {
	t.Helper()
	_, err := NewUpdateTaskHandler(e.tasks, e.outbox, e.uow, e.calendar).Handle(context.Background(), UpdateTaskCommand{TaskID: id, Theme: &theme})
	require.NoError(t, err)
}

func (e *testEnv) setStatus(t *testing.T, id uuid.UUID, status string) {
	t.Helper()
	_, err := NewChangeStatusHandler(e.tasks, e.outbox, e.uow, e.calendar, e.logger).Handle(context.Background(), ChangeStatusCommand{TaskID: id, Status: status})
	require.NoError(t, err)
}

func countKey(keys []string, key string) int {
	n := 0
	for _, k := range keys {
		if k == key {
			n++
		}
	}
	return n
}

func TestGetOrCreateDailyPlan_SelectsTopThree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s300 := env.addTask(t, "s300", "2024-06-05", 5, 5, 5)
	s240 := env.addTask(t, "s240", "2024-06-04", 4, 4, 4)
	s180 := env.addTask(t, "s180", "2024-06-05", 3, 3, 3)
	s120 := env.addTask(t, "s120", "2024-06-05", 2, 2, 2)
	env.addTask(t, "s60", "2024-06-01", 1, 1, 1)
	env.setTheme(t, s120.TaskID, "wednesday")

	future := env.addTask(t, "future", "2024-06-06", 5, 5, 5)
	started := env.addTask(t, "started", "2024-06-05", 5, 5, 5)
	env.setStatus(t, started.TaskID, "in_progress")

	res, err := env.planHandler().Handle(ctx, GetOrCreateDailyPlanCommand{})
	require.NoError(t, err)
	require.True(t, res.Created)

	p := res.Plan
	assert.Equal(t, "2024-06-05", p.Date().String())
	assert.Equal(t, vo.Wednesday, p.Theme())
	assert.Equal(t, []uuid.UUID{s300.TaskID, s240.TaskID, s180.TaskID}, p.TaskIDs())
	assert.NotContains(t, p.TaskIDs(), future.TaskID)
	assert.NotContains(t, p.TaskIDs(), started.TaskID)

	assert.Equal(t, 1, countKey(env.routingKeys(t), plan.RoutingKeyCreated))
	assert.Equal(t, int64(1), env.metrics.GetCounter(observability.MetricPlanGenerated))
}

func TestGetOrCreateDailyPlan_ThemeBonusBreaksTie(t *testing.T) {
	env := newTestEnv(t)
	plain := env.addTask(t, "plain", "2024-06-05", 3, 3, 3)
	themed := env.addTask(t, "themed", "2024-06-05", 3, 3, 3)
	env.setTheme(t, themed.TaskID, "wed")

	res, err := env.planHandler().Handle(context.Background(), GetOrCreateDailyPlanCommand{})
	require.NoError(t, err)

	entries := res.Plan.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, themed.TaskID, entries[0].TaskID)
	assert.Equal(t, 190, entries[0].AdjustedScore)
	assert.Equal(t, 180, entries[0].BaseScore)
	assert.Equal(t, plain.TaskID, entries[1].TaskID)
	assert.Equal(t, 180, entries[1].AdjustedScore)
}

func TestGetOrCreateDailyPlan_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.addTask(t, "first", "2024-06-05")

	created, err := env.planHandler().Handle(ctx, GetOrCreateDailyPlanCommand{})
	require.NoError(t, err)
	require.True(t, created.Created)

	better := env.addTask(t, "better", "2024-06-05", 5, 5, 5)
	env.setStatus(t, first.TaskID, "done")

	again, err := env.planHandler().Handle(ctx, GetOrCreateDailyPlanCommand{Date: vo.MustParseDate("2024-06-05")})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, created.Plan.ID(), again.Plan.ID())
	assert.Equal(t, []uuid.UUID{first.TaskID}, again.Plan.TaskIDs(), "a stored plan is never recomputed")
	assert.NotContains(t, again.Plan.TaskIDs(), better.TaskID)

	assert.Equal(t, 1, countKey(env.routingKeys(t), plan.RoutingKeyCreated))
}

func TestGetOrCreateDailyPlan_EmptyIsAPlan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addTask(t, "next week", "2024-06-12")

	res, err := env.planHandler().Handle(ctx, GetOrCreateDailyPlanCommand{})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.True(t, res.Plan.IsEmpty())

	stored, err := env.plans.FindByDate(ctx, vo.MustParseDate("2024-06-05"))
	require.NoError(t, err)
	assert.Equal(t, res.Plan.ID(), stored.ID())
	assert.True(t, stored.IsEmpty())
}

func TestGetOrCreateDailyPlan_ExplicitDate(t *testing.T) {
	env := newTestEnv(t)
	friday := env.addTask(t, "friday", "2024-06-07")

	res, err := env.planHandler().Handle(context.Background(), GetOrCreateDailyPlanCommand{Date: vo.MustParseDate("2024-06-07")})
	require.NoError(t, err)
	assert.Equal(t, vo.Friday, res.Plan.Theme())
	assert.Equal(t, []uuid.UUID{friday.TaskID}, res.Plan.TaskIDs())
}

func TestGetOrCreateDailyPlan_ConcurrentCallersAgree(t *testing.T) {
	env := newTestEnv(t)
	env.addTask(t, "a", "2024-06-05", 5, 5, 5)
	env.addTask(t, "b", "2024-06-05", 1, 1, 1)
	handler := env.planHandler()

	const callers = 6
	ids := make(map[uuid.UUID]int)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		errs    []error
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := handler.Handle(context.Background(), GetOrCreateDailyPlanCommand{})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			ids[res.Plan.ID()]++
			if res.Created {
				created++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, ids, 1, "every caller sees the same plan")
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, countKey(env.routingKeys(t), plan.RoutingKeyCreated))
}

func TestGetOrCreateDailyPlan_TaskStatusChangeDoesNotAffectOtherDays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tk := env.addTask(t, "carry over", "2024-06-04")

	today, err := env.planHandler().Handle(ctx, GetOrCreateDailyPlanCommand{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{tk.TaskID}, today.Plan.TaskIDs())

	env.setStatus(t, tk.TaskID, string(task.StatusDone))
	tomorrow, err := env.planHandler().Handle(ctx, GetOrCreateDailyPlanCommand{Date: vo.MustParseDate("2024-06-06")})
	require.NoError(t, err)
	assert.True(t, tomorrow.Plan.IsEmpty())
	assert.NotEqual(t, today.Plan.ID(), tomorrow.Plan.ID())
}
