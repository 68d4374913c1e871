package commands

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/atelier/internal/work/application/services"
	"github.com/felixgeelhaar/atelier/internal/work/domain/review"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/felixgeelhaar/atelier/pkg/observability"
)

func (e *testEnv) reviewHandler() *CreateWeeklyReviewHandler {
	return NewCreateWeeklyReviewHandler(e.tasks, e.reviews, e.outbox, e.uow, e.calendar, e.logger).WithMetrics(e.metrics)
}

func (e *testEnv) track(t *testing.T, id uuid.UUID, d time.Duration) {
	t.Helper()
	ctx := context.Background()
	tk, err := e.tasks.FindByID(ctx, id)
	require.NoError(t, err)
	require.NoError(t, tk.AddTrackedTime(d, testNow))
	require.NoError(t, e.tasks.Save(ctx, tk))
}

func (e *testEnv) setArea(t *testing.T, id uuid.UUID, area string) {
	t.Helper()
	_, err := NewUpdateTaskHandler(e.tasks, e.outbox, e.uow, e.calendar).Handle(context.Background(), UpdateTaskCommand{TaskID: id, WorkArea: &area})
	require.NoError(t, err)
}

func TestCreateLastWeekReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Last week relative to Wednesday 2024-06-05 is 2024-05-27..2024-06-02.
	days := []string{"2024-05-27", "2024-05-28", "2024-05-29", "2024-05-30", "2024-05-31", "2024-06-01", "2024-06-02"}
	var inScope []*TaskCreatedResult
	for i := range 10 {
		rating := min(5, 1+i/2)
		res := env.addTask(t, fmt.Sprintf("task %02d", i), days[i%len(days)], rating, rating, rating)
		inScope = append(inScope, res)
	}
	for i, res := range inScope {
		if i < 4 {
			env.setArea(t, res.TaskID, "design")
		} else if i < 7 {
			env.setArea(t, res.TaskID, "sales")
		}
		if i >= 4 {
			env.setStatus(t, res.TaskID, "done")
		}
	}
	env.track(t, inScope[0].TaskID, 50*time.Minute)
	env.track(t, inScope[5].TaskID, 70*time.Minute+59*time.Second)

	outside := env.addTask(t, "before", "2024-05-26")
	env.setStatus(t, outside.TaskID, "done")
	env.track(t, outside.TaskID, 3*time.Hour)
	env.addTask(t, "after", "2024-06-03")

	handler := NewCreateLastWeekReviewHandler(env.reviewHandler(), env.calendar)
	start, end := handler.LastWeek()
	assert.Equal(t, "2024-05-27", start.String())
	assert.Equal(t, "2024-06-02", end.String())

	r, err := handler.Handle(ctx, CreateLastWeekReviewCommand{Goals: " ship v2 ", Actor: "worker"})
	require.NoError(t, err)

	s := r.Summary()
	assert.Equal(t, 10, s.TotalTasks)
	assert.Equal(t, 6, s.CompletedTasks)
	assert.Equal(t, 60, s.CompletionRate)
	assert.Equal(t, 120, s.TotalMinutes, "floor of 120m59s")
	assert.Equal(t, "design: 0/4 done\n(unassigned): 3/3 done\nsales: 3/3 done", s.Breakdown)
	assert.Len(t, strings.Split(s.Achievements, "\n"), services.AchievementLimit)
	assert.True(t, strings.HasPrefix(s.Achievements, "- task 08 (A)"), s.Achievements)
	assert.Equal(t, "ship v2", r.Goals())

	stored, err := env.reviews.FindLatestForWeek(ctx, start)
	require.NoError(t, err)
	assert.Equal(t, r.ID(), stored.ID())
	assert.Equal(t, s, stored.Summary())

	assert.Equal(t, review.RoutingKeyCreated, env.lastMessage(t).RoutingKey)
	assert.Equal(t, int64(1), env.metrics.GetCounter(observability.MetricReviewCreated))
}

func TestCreateWeeklyReview_EmptyWindow(t *testing.T) {
	env := newTestEnv(t)
	r, err := env.reviewHandler().Handle(context.Background(), CreateWeeklyReviewCommand{
		Start: vo.MustParseDate("2024-01-01"),
		End:   vo.MustParseDate("2024-01-07"),
	})
	require.NoError(t, err)

	s := r.Summary()
	assert.Zero(t, s.TotalTasks)
	assert.Zero(t, s.CompletionRate)
	assert.Equal(t, services.NoTasksPlaceholder, s.Breakdown)
	assert.Equal(t, services.NoAchievementsPlaceholder, s.Achievements)
}

func TestCreateWeeklyReview_EachCallIsANewRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cmd := CreateWeeklyReviewCommand{Start: vo.MustParseDate("2024-06-03"), End: vo.MustParseDate("2024-06-09")}

	first, err := env.reviewHandler().Handle(ctx, cmd)
	require.NoError(t, err)
	env.addTask(t, "late addition", "2024-06-05")
	second, err := env.reviewHandler().Handle(ctx, cmd)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID(), second.ID())
	assert.Zero(t, first.Summary().TotalTasks)
	assert.Equal(t, 1, second.Summary().TotalTasks)

	recent, err := env.reviews.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestCreateWeeklyReview_InvalidRange(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		cmd  CreateWeeklyReviewCommand
	}{
		{name: "missing start", cmd: CreateWeeklyReviewCommand{End: vo.MustParseDate("2024-06-09")}},
		{name: "missing end", cmd: CreateWeeklyReviewCommand{Start: vo.MustParseDate("2024-06-03")}},
		{name: "reversed", cmd: CreateWeeklyReviewCommand{Start: vo.MustParseDate("2024-06-09"), End: vo.MustParseDate("2024-06-03")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.reviewHandler().Handle(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, review.ErrInvalidRange)
		})
	}
}
