// Package scoring turns a task's 3C rating (complexity, collaboration,
// consequence) into a priority score and a letter grade.
package scoring

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MinRating and MaxRating bound every rating axis.
	MinRating = 1
	MaxRating = 5

	// AxisWeight is the score contributed by one rating point.
	AxisWeight = 20

	MinScore = 3 * MinRating * AxisWeight // 60
	MaxScore = 3 * MaxRating * AxisWeight // 300

	// ThemeBonus is added when a task's theme matches the planned weekday.
	ThemeBonus = 10
)

// ErrInvalidRating is returned when a rating is outside [1,5].
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// ComputeScore returns 20*(complexity+collaboration+consequence).
func ComputeScore(complexity, collaboration, consequence int) (int, error) {
	for _, v := range [...]int{complexity, collaboration, consequence} {
		if v < MinRating || v > MaxRating {
			return 0, fmt.Errorf("%w: got %d", ErrInvalidRating, v)
		}
	}
	return (complexity + collaboration + consequence) * AxisWeight, nil
}

// MustComputeScore is ComputeScore for ratings already validated by the caller.
func MustComputeScore(complexity, collaboration, consequence int) int {
	score, err := ComputeScore(complexity, collaboration, consequence)
	if err != nil {
		panic(err)
	}
	return score
}

// ClampRating pulls v into [1,5].
func ClampRating(v int) int {
	return min(max(v, MinRating), MaxRating)
}

// Grade is a coarse classification of a priority score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Lower bounds of each band; everything under the C bound is D.
const (
	gradeAFloor = 240
	gradeBFloor = 180
	gradeCFloor = 120
)

// ClassifyGrade maps a score to its band. It is total over int: scores
// below the domain are D, scores above it are A.
func ClassifyGrade(score int) Grade {
	switch {
	case score >= gradeAFloor:
		return GradeA
	case score >= gradeBFloor:
		return GradeB
	case score >= gradeCFloor:
		return GradeC
	default:
		return GradeD
	}
}

func (g Grade) String() string { return string(g) }

// IsValid reports whether g is one of A-D.
func (g Grade) IsValid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD:
		return true
	}
	return false
}

// ParseGrade parses a grade letter, case-insensitively.
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(s)))
	if !g.IsValid() {
		return "", fmt.Errorf("invalid grade %q", s)
	}
	return g, nil
}
