package utils

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the calendar day as
// midnight UTC. RFC3339 values keep the day as written in their own offset.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return CalendarDay(t, t.Location()), nil
}

// CalendarDay truncates t to its date in loc, stored as midnight UTC.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InclusiveDays counts the days of [start, end], both ends included.
func InclusiveDays(start, end time.Time) int {
	if end.Before(start) {
		start, end = end, start
	}
	return int(end.Sub(start).Hours()/24) + 1
}
