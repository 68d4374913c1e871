// Package value_objects holds the immutable calendar and rating types shared
// by the work context.
package value_objects

import (
	"errors"
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/atelier/internal/shared/domain"
)

// DateLayout is the ISO calendar date format used on every boundary.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned for strings that are not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// Date is a civil calendar date with no time of day and no zone. It is
// stored as midnight UTC so day arithmetic never crosses a DST shift.
type Date struct {
	t time.Time
}

// NewDate builds a date, normalizing out-of-range days and months the way
// time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current date in loc. A nil loc means time.Local.
func Today(clock sharedDomain.Clock, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return DateOf(clock.Now().In(loc))
}

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int { return d.t.Compare(other.t) }

// Between reports whether d lies in [start, end].
func (d Date) Between(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

// DaysUntil returns the number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// Weekday returns the day of the week.
func (d Date) Weekday() Weekday { return fromTimeWeekday(d.t.Weekday()) }

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// WeekRange returns the Monday..Sunday week containing d.
func WeekRange(d Date) (start, end Date) {
	offset := int(d.Weekday()) - int(Monday)
	start = d.AddDays(-offset)
	return start, start.AddDays(6)
}

// LastWeekRange returns the Monday..Sunday week before the one containing d.
func LastWeekRange(d Date) (start, end Date) {
	return WeekRange(d.AddDays(-7))
}
