package utils

import "time"

// DateLayout is the wire format for calendar dates (no time-of-day).
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date into a date-only UTC value.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// DateOnly drops any time-of-day component, keeping the calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
