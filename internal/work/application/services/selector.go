// Package services holds the pure planning and review computations of the
// work context. Nothing here performs I/O.
package services

import (
	"cmp"
	"slices"

	"github.com/felixgeelhaar/atelier/internal/work/domain/scoring"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/google/uuid"
)

// DailyTopLimit is the size of the daily working set.
const DailyTopLimit = 3

// Selection is one task picked for a day.
type Selection struct {
	TaskID        uuid.UUID
	BaseScore     int
	AdjustedScore int
	// Rank starts at 1.
	Rank int
}

// DailySelector picks the day's top tasks.
type DailySelector struct{}

// NewDailySelector creates a DailySelector.
func NewDailySelector() *DailySelector {
	return &DailySelector{}
}

// IsEligible reports whether a task can be planned for target: it has not
// been started and is due on or before target.
func IsEligible(t task.View, target vo.Date) bool {
	return t.Status == task.StatusNotStarted && !t.DueDate.After(target)
}

// AdjustedScore adds the theme bonus when the task's theme is the day's theme.
func AdjustedScore(t task.View, theme vo.Weekday) int {
	if !theme.IsNone() && t.Theme == theme {
		return t.Score + scoring.ThemeBonus
	}
	return t.Score
}

// SelectDailyTop returns at most DailyTopLimit eligible tasks ordered by
// adjusted score, highest first. Ties keep their input order. The input
// slice is not modified.
func (s *DailySelector) SelectDailyTop(tasks []task.View, target vo.Date, theme vo.Weekday) []Selection {
	candidates := make([]Selection, 0, len(tasks))
	for _, t := range tasks {
		if !IsEligible(t, target) {
			continue
		}
		candidates = append(candidates, Selection{
			TaskID:        t.ID,
			BaseScore:     t.Score,
			AdjustedScore: AdjustedScore(t, theme),
		})
	}

	slices.SortStableFunc(candidates, func(a, b Selection) int {
		return cmp.Compare(b.AdjustedScore, a.AdjustedScore)
	})

	if len(candidates) > DailyTopLimit {
		candidates = candidates[:DailyTopLimit]
	}
	for i := range candidates {
		candidates[i].Rank = i + 1
	}
	return slices.Clip(candidates)
}
