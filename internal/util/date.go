package util

import "time"

// DateOf returns the calendar date of t as midnight UTC.
// The wall-clock date in t's own location is kept, so a local evening time
// never rolls over into the next UTC day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date in the local time zone, as midnight UTC
func Today() time.Time {
	return DateOf(time.Now())
}

// DaysBetween returns the number of calendar days from a to b.
// The result is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	from := DateOf(a)
	to := DateOf(b)
	return int(to.Sub(from).Hours() / 24)
}

// AddDays returns the calendar date n days after t
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// FormatDate formats a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return DateOf(t).Format(time.DateOnly)
}
