package utils

import (
	"fmt"
	"time"
)

// DateLayout is the canonical layout for dates in input and output tables.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order when parsing input dates.
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// ParseDate returns a calendar date (midnight UTC) from the provided string
// or an error.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
}

// FormatDate renders a date using the canonical layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsWeekend reports whether the weekday falls on Saturday or Sunday.
func IsWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}
