package value_objects

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a closed enumeration of the seven days, Monday first.
// WeekdayNone is used for tasks without a theme.
type Weekday int

const (
	WeekdayNone Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	WeekdayNone: "",
	Monday:      "monday",
	Tuesday:     "tuesday",
	Wednesday:   "wednesday",
	Thursday:    "thursday",
	Friday:      "friday",
	Saturday:    "saturday",
	Sunday:      "sunday",
}

// Weekdays lists Monday..Sunday.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// ParseWeekday accepts English day names or their three-letter
// abbreviations in any case. "" and "none" yield WeekdayNone.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return WeekdayNone, nil
	}
	for _, w := range Weekdays() {
		name := weekdayNames[w]
		if s == name || s == name[:3] {
			return w, nil
		}
	}
	return WeekdayNone, fmt.Errorf("invalid weekday %q", s)
}

// WeekdayOf returns the weekday of a date.
func WeekdayOf(d Date) Weekday { return d.Weekday() }

func fromTimeWeekday(w time.Weekday) Weekday {
	if w == time.Sunday {
		return Sunday
	}
	return Weekday(w)
}

// IsValid reports whether w is a day or WeekdayNone.
func (w Weekday) IsValid() bool { return w >= WeekdayNone && w <= Sunday }

// IsNone reports whether no weekday is set.
func (w Weekday) IsNone() bool { return w == WeekdayNone }

// String returns the lowercase English name, or "" for WeekdayNone.
func (w Weekday) String() string {
	if !w.IsValid() {
		return ""
	}
	return weekdayNames[w]
}

func (w Weekday) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Weekday) UnmarshalText(b []byte) error {
	parsed, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
