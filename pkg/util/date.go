package util

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used on every external surface.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseDateRange parses both ends of an inclusive date range.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	from, err := ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// EachDay calls fn for every calendar day from start to end inclusive.
func EachDay(start, end time.Time, fn func(time.Time)) {
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}
