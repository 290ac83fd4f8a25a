// Package timeutil provides the canonical week-window arithmetic for the
// BiteBurst league engine. League weeks run Monday 00:00 through Sunday
// 23:59:59.999 and are computed in UTC so that every server produces the
// same boundaries for the same wall-clock instant.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// ReferenceZone is the timezone all week boundaries are computed in.
// UTC-uniform keeps rankings deterministic across deployments; per-user
// timezones would make "this week" mean different things for members of
// the same roster.
var ReferenceZone = time.UTC

// WeekWindow describes the current competition week.
type WeekWindow struct {
	// Start is Monday 00:00:00.000 UTC.
	Start time.Time

	// End is Sunday 23:59:59.999 UTC of the same week.
	End time.Time

	// SecondsRemaining is the whole seconds left until End, never negative.
	SecondsRemaining int64
}

// CurrentWeekWindow computes the week window containing now.
// Sundays belong to the week that started six days earlier, not the week
// starting the following day.
func CurrentWeekWindow(now time.Time) WeekWindow {
	start := StartOfWeek(now)
	end := EndOfWeek(now)

	remaining := int64(end.Sub(now) / time.Second)
	if remaining < 0 {
		remaining = 0
	}

	return WeekWindow{
		Start:            start,
		End:              end,
		SecondsRemaining: remaining,
	}
}

// Contains reports whether t falls inside the window, boundaries included.
func (w WeekWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// StartOfDay returns the start of the day (00:00:00) in UTC.
func StartOfDay(t time.Time) time.Time {
	utc := t.In(ReferenceZone)
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, ReferenceZone)
}

// StartOfWeek returns the most recent Monday 00:00:00 UTC at or before t.
func StartOfWeek(t time.Time) time.Time {
	utc := t.In(ReferenceZone)
	weekday := int(utc.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the week, it does not open the next one
	}
	daysToSubtract := weekday - 1 // Monday = 1
	return StartOfDay(utc.AddDate(0, 0, -daysToSubtract))
}

// EndOfWeek returns Sunday 23:59:59.999 UTC of the week containing t.
func EndOfWeek(t time.Time) time.Time {
	start := StartOfWeek(t)
	last := start.AddDate(0, 0, 6)
	return time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, int(999*time.Millisecond), ReferenceZone)
}

// IsSameWeek reports whether two instants fall in the same league week.
func IsSameWeek(t1, t2 time.Time) bool {
	return StartOfWeek(t1).Equal(StartOfWeek(t2))
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatDateTimeSeconds is the standard datetime format with seconds.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
)

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in UTC.
func FormatDateStr(t time.Time) string {
	return t.In(ReferenceZone).Format(FormatDate)
}

// ParseDate parses a date string (YYYY-MM-DD) as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(FormatDate, value, ReferenceZone)
}
