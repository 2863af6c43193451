package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the day/month/year form dates take at the CLI and config boundary.
const DateLayout = "02/01/2006"

// isoLayout is accepted as a fallback, mostly for CSV files.
const isoLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a dd/mm/yyyy (or yyyy-mm-dd) string into a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, isoLayout} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q, expected dd/mm/yyyy", ErrInvalidDate, s)
}

// FormatDate renders t as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the number of whole calendar days from start to end.
// It is negative when end is before start.
func DaysBetween(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)).Hours() / 24)
}
