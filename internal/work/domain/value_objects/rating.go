package value_objects

import (
	"github.com/felixgeelhaar/atelier/internal/work/domain/scoring"
)

// Rating is the 3C triple a task is scored on.
type Rating struct {
	complexity    int
	collaboration int
	consequence   int
}

// NewRating validates each axis is in [1,5].
func NewRating(complexity, collaboration, consequence int) (Rating, error) {
	if _, err := scoring.ComputeScore(complexity, collaboration, consequence); err != nil {
		return Rating{}, err
	}
	return Rating{complexity: complexity, collaboration: collaboration, consequence: consequence}, nil
}

// ClampedRating pulls each axis into range instead of failing. It is used
// when mapping stored rows, which may predate validation.
func ClampedRating(complexity, collaboration, consequence int) Rating {
	return Rating{
		complexity:    scoring.ClampRating(complexity),
		collaboration: scoring.ClampRating(collaboration),
		consequence:   scoring.ClampRating(consequence),
	}
}

// DefaultRating is the quick-add baseline: complexity 3, collaboration 2,
// consequence 3.
func DefaultRating() Rating {
	return Rating{complexity: 3, collaboration: 2, consequence: 3}
}

func (r Rating) Complexity() int    { return r.complexity }
func (r Rating) Collaboration() int { return r.collaboration }
func (r Rating) Consequence() int   { return r.consequence }

// IsZero reports whether the rating was never set.
func (r Rating) IsZero() bool { return r == Rating{} }

// Score returns the priority score. A zero Rating scores as the default.
func (r Rating) Score() int {
	if r.IsZero() {
		r = DefaultRating()
	}
	return scoring.MustComputeScore(r.complexity, r.collaboration, r.consequence)
}

// Grade returns the letter grade of the score.
func (r Rating) Grade() scoring.Grade {
	return scoring.ClassifyGrade(r.Score())
}
