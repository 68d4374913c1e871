package value_objects

import (
	"errors"
	"time"
)

// MaxEstimateMinutes caps an estimate at one day.
const MaxEstimateMinutes = 24 * 60

// ErrInvalidDuration is returned for negative or over-long estimates.
var ErrInvalidDuration = errors.New("estimate must be between 0 and 1440 minutes")

// Duration is an estimated effort in whole minutes. Zero means no estimate.
type Duration struct {
	minutes int
}

// NewDuration validates an estimate in minutes.
func NewDuration(minutes int) (Duration, error) {
	if minutes < 0 || minutes > MaxEstimateMinutes {
		return Duration{}, ErrInvalidDuration
	}
	return Duration{minutes: minutes}, nil
}

func (d Duration) Minutes() int { return d.minutes }

func (d Duration) IsZero() bool { return d.minutes == 0 }

// Std converts the estimate to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d.minutes) * time.Minute
}

func (d Duration) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Std().String()
}
