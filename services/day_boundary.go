package services

import "time"

// SameCalendarDay reports whether two instants fall on the same local calendar date.
func SameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// HasRolledOver reports whether a day boundary has passed since lastCheck.
// A nil lastCheck means no prior record exists; first run initializes state
// but does not count as a rollover.
func HasRolledOver(lastCheck *time.Time, now time.Time) bool {
	if lastCheck == nil {
		return false
	}
	return !SameCalendarDay(*lastCheck, now)
}

// IsYesterday reports whether last falls on the calendar day immediately
// before today.
func IsYesterday(last, today time.Time) bool {
	return SameCalendarDay(last.AddDate(0, 0, 1), today)
}

// Midnight truncates an instant to the start of its local calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
