package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
)

var (
	weekStart = vo.MustParseDate("2024-03-04")
	weekEnd   = vo.MustParseDate("2024-03-10")
)

func weekTask(title, area string, score int, status task.Status, due vo.Date, tracked time.Duration) task.View {
	return task.View{
		ID:          uuid.New(),
		Title:       title,
		WorkArea:    area,
		Score:       score,
		Status:      status,
		DueDate:     due,
		TrackedTime: tracked,
	}
}

func TestAggregate_Scenario(t *testing.T) {
	var tasks []task.View
	for i := range 10 {
		status := task.StatusNotStarted
		if i < 6 {
			status = task.StatusDone
		}
		tasks = append(tasks, weekTask(fmt.Sprintf("task %02d", i), "studio", 60+i*20, status, weekStart.AddDays(i%7), 0))
	}

	got := NewWeeklyAggregator().Aggregate(tasks, weekStart, weekEnd)

	assert.Equal(t, 10, got.TotalTasks)
	assert.Equal(t, 6, got.CompletedTasks)
	assert.Equal(t, 60, got.CompletionRate)
	assert.Equal(t, "studio: 6/10 done", got.Breakdown)

	lines := strings.Split(got.Achievements, "\n")
	assert.Len(t, lines, AchievementLimit)
	assert.Equal(t, "- task 05 (C)", lines[0])
	assert.Equal(t, "- task 01 (D)", lines[4])
}

func TestAggregate_Empty(t *testing.T) {
	got := NewWeeklyAggregator().Aggregate(nil, weekStart, weekEnd)

	assert.Zero(t, got.TotalTasks)
	assert.Zero(t, got.CompletionRate)
	assert.Zero(t, got.TotalMinutes)
	assert.Equal(t, NoTasksPlaceholder, got.Breakdown)
	assert.Equal(t, NoAchievementsPlaceholder, got.Achievements)
}

func TestAggregate_NoCompletedTasks(t *testing.T) {
	tasks := []task.View{weekTask("a", "shop", 100, task.StatusInProgress, weekStart, 0)}

	got := NewWeeklyAggregator().Aggregate(tasks, weekStart, weekEnd)

	assert.Equal(t, 1, got.TotalTasks)
	assert.Zero(t, got.CompletionRate)
	assert.Equal(t, NoAchievementsPlaceholder, got.Achievements)
}

func TestAggregate_ScopeIsInclusive(t *testing.T) {
	tasks := []task.View{
		weekTask("before", "x", 300, task.StatusDone, weekStart.AddDays(-1), time.Hour),
		weekTask("first day", "x", 100, task.StatusDone, weekStart, 10*time.Minute),
		weekTask("last day", "x", 100, task.StatusNotStarted, weekEnd, 5*time.Minute),
		weekTask("after", "x", 300, task.StatusDone, weekEnd.AddDays(1), time.Hour),
	}

	got := NewWeeklyAggregator().Aggregate(tasks, weekStart, weekEnd)

	assert.Equal(t, 2, got.TotalTasks)
	assert.Equal(t, 1, got.CompletedTasks)
	assert.Equal(t, 50, got.CompletionRate)
	assert.Equal(t, 15, got.TotalMinutes)
	assert.Equal(t, "- first day (D)", got.Achievements)
}

func TestAggregate_TotalMinutesFloorsTheSum(t *testing.T) {
	tasks := []task.View{
		weekTask("a", "", 100, task.StatusDone, weekStart, 40*time.Second),
		weekTask("b", "", 100, task.StatusDone, weekStart, 50*time.Second),
		weekTask("c", "", 100, task.StatusDone, weekStart, 0),
	}

	got := NewWeeklyAggregator().Aggregate(tasks, weekStart, weekEnd)
	assert.Equal(t, 1, got.TotalMinutes)
}

func TestAggregate_Breakdown(t *testing.T) {
	tasks := []task.View{
		weekTask("1", "shop", 100, task.StatusDone, weekStart, 0),
		weekTask("2", "studio", 100, task.StatusDone, weekStart, 0),
		weekTask("3", "studio", 100, task.StatusNotStarted, weekStart, 0),
		weekTask("4", "", 100, task.StatusNotStarted, weekStart, 0),
		weekTask("5", "admin", 100, task.StatusNotStarted, weekStart, 0),
	}

	got := NewWeeklyAggregator().Aggregate(tasks, weekStart, weekEnd)

	assert.Equal(t, strings.Join([]string{
		"studio: 1/2 done",
		"(unassigned): 0/1 done",
		"admin: 0/1 done",
		"shop: 1/1 done",
	}, "\n"), got.Breakdown)
}

func TestAggregate_AchievementTiesByTitle(t *testing.T) {
	tasks := []task.View{
		weekTask("Zine layout", "", 200, task.StatusDone, weekStart, 0),
		weekTask("Apron restock", "", 200, task.StatusDone, weekStart, 0),
		weekTask("Kiln repair", "", 260, task.StatusDone, weekStart, 0),
	}

	got := NewWeeklyAggregator().Aggregate(tasks, weekStart, weekEnd)

	assert.Equal(t, "- Kiln repair (A)\n- Apron restock (B)\n- Zine layout (B)", got.Achievements)
	assert.Equal(t, "Zine layout", tasks[0].Title, "input order is untouched")
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{1, 200, 1},
		{1, 201, 0},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompletionRate(tt.completed, tt.total), "%d/%d", tt.completed, tt.total)
	}
}
