package domain

import "time"

// DayKeyFormat is the canonical calendar-day key used for per-day uniqueness.
const DayKeyFormat = "2006-01-02"

// DayKey returns the calendar-day key of an instant in the business timezone.
// Day and week boundaries are always computed server-side in one configured
// location so clients cannot move them by adjusting their own clocks.
func DayKey(at time.Time, loc *time.Location) string {
	return at.In(loc).Format(DayKeyFormat)
}

// StartOfDay returns midnight of the calendar day containing at.
func StartOfDay(at time.Time, loc *time.Location) time.Time {
	local := at.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// StartOfWeek returns Sunday 00:00 of the calendar week containing at.
// Weeks run Sunday through Saturday.
func StartOfWeek(at time.Time, loc *time.Location) time.Time {
	day := StartOfDay(at, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// NextWeekStart returns the upcoming Sunday 00:00 strictly after at.
func NextWeekStart(at time.Time, loc *time.Location) time.Time {
	return StartOfWeek(at, loc).AddDate(0, 0, 7)
}

// SameCalendarDay reports whether two instants fall on the same business day.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	return DayKey(a, loc) == DayKey(b, loc)
}
