package domain

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day in ISO "2006-01-02" form. The zero value is "no date".
type Date string

// ParseDate parses input into a normalized calendar date.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return "", ErrInvalidDate
	}
	return Date(t.Format(dateLayout)), nil
}

// DateOf truncates a timestamp to its calendar day.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return strings.TrimSpace(string(d)) == ""
}

// Time resolves the date to midnight of that day; ok is false for unset or
// malformed values.
func (d Date) Time() (time.Time, bool) {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Valid reports whether the date is unset or a well-formed calendar day.
func (d Date) Valid() bool {
	if d.IsZero() {
		return true
	}
	_, ok := d.Time()
	return ok
}

// DaysFrom returns the calendar-day difference between the date and now,
// negative when the date is in the past. Malformed dates count as 0 so a bad
// deadline never reads as overdue.
func (d Date) DaysFrom(now time.Time) int {
	t, ok := d.Time()
	if !ok {
		return 0
	}
	target := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	anchor := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(target.Sub(anchor).Hours() / 24)
}

// String returns the ISO form of the date.
func (d Date) String() string {
	return string(d)
}
