// engine/day.go - calendar-day arithmetic in the reference timezone
package engine

import (
	"time"
)

// DayLayout is the day-key format used everywhere a calendar day is stored.
const DayLayout = "2006-01-02"

// All day-boundary rules run in UTC, regardless of where the server or the
// learner's browser sits. Both adapters share these functions so the rollover
// rule has exactly one definition.

// DayKey returns the calendar-day string for t.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}

// PrevDayKey returns the day key of the calendar day before the given one.
// An unparseable key returns an empty string, which matches no stored day.
func PrevDayKey(day string) string {
	t, err := time.ParseInLocation(DayLayout, day, time.UTC)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DayLayout)
}
