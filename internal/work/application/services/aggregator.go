package services

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/felixgeelhaar/atelier/internal/work/domain/review"
	"github.com/felixgeelhaar/atelier/internal/work/domain/scoring"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
)

const (
	// AchievementLimit caps the achievement list.
	AchievementLimit = 5

	UnassignedArea            = "(unassigned)"
	NoTasksPlaceholder        = "No tasks this week"
	NoAchievementsPlaceholder = "No achievements this week"
)

// WeeklyAggregator summarizes the tasks due in a date window.
type WeeklyAggregator struct{}

// NewWeeklyAggregator creates a WeeklyAggregator.
func NewWeeklyAggregator() *WeeklyAggregator {
	return &WeeklyAggregator{}
}

type areaCount struct {
	label string
	total int
	done  int
}

// Aggregate computes the review summary for tasks due in [start, end].
// Tasks outside the window are ignored.
func (a *WeeklyAggregator) Aggregate(tasks []task.View, start, end vo.Date) review.Summary {
	var (
		summary  review.Summary
		tracked  time.Duration
		finished []task.View
	)
	areas := map[string]*areaCount{}

	for _, t := range tasks {
		if !t.DueDate.Between(start, end) {
			continue
		}
		summary.TotalTasks++
		tracked += max(t.TrackedTime, 0)

		label := t.WorkArea
		if label == "" {
			label = UnassignedArea
		}
		ac, ok := areas[label]
		if !ok {
			ac = &areaCount{label: label}
			areas[label] = ac
		}
		ac.total++

		if t.Status == task.StatusDone {
			summary.CompletedTasks++
			ac.done++
			finished = append(finished, t)
		}
	}

	summary.CompletionRate = CompletionRate(summary.CompletedTasks, summary.TotalTasks)
	summary.TotalMinutes = int(tracked / time.Minute)
	summary.Breakdown = formatBreakdown(areas)
	summary.Achievements = formatAchievements(finished)
	return summary
}

// CompletionRate returns round(100*completed/total), or 0 when total is 0.
func CompletionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}

func formatBreakdown(areas map[string]*areaCount) string {
	if len(areas) == 0 {
		return NoTasksPlaceholder
	}
	counts := make([]*areaCount, 0, len(areas))
	for _, ac := range areas {
		counts = append(counts, ac)
	}
	slices.SortFunc(counts, func(a, b *areaCount) int {
		if c := cmp.Compare(b.total, a.total); c != 0 {
			return c
		}
		return cmp.Compare(a.label, b.label)
	})

	lines := make([]string, len(counts))
	for i, ac := range counts {
		lines[i] = fmt.Sprintf("%s: %d/%d done", ac.label, ac.done, ac.total)
	}
	return strings.Join(lines, "\n")
}

func formatAchievements(done []task.View) string {
	if len(done) == 0 {
		return NoAchievementsPlaceholder
	}
	slices.SortStableFunc(done, func(a, b task.View) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
	if len(done) > AchievementLimit {
		done = done[:AchievementLimit]
	}

	lines := make([]string, len(done))
	for i, t := range done {
		lines[i] = fmt.Sprintf("- %s (%s)", t.Title, scoring.ClassifyGrade(t.Score))
	}
	return strings.Join(lines, "\n")
}
