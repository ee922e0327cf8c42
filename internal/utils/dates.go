package utils

import "time"

// Calendar checks compare in now's location.

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func IsToday(t, now time.Time) bool {
	t = t.In(now.Location())
	return startOfDay(t).Equal(startOfDay(now))
}

func IsThisWeek(t, now time.Time) bool {
	t = t.In(now.Location())
	return StartOfWeek(t).Equal(StartOfWeek(now))
}

func IsThisMonth(t, now time.Time) bool {
	t = t.In(now.Location())
	return t.Year() == now.Year() && t.Month() == now.Month()
}

// DaysBetween returns the number of whole days from start to end, truncated
// toward zero.
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}
