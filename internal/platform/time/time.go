// Package time contains time helpers for snapshot dates and nullable instants
package time

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date form used in snapshot keys
const DateLayout = "2006-01-02"

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Today returns the current UTC calendar date as YYYY-MM-DD
func Today() string { return time.Now().UTC().Format(DateLayout) }

// ParseDate validates a YYYY-MM-DD date and returns it normalised; "" means today
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Today(), nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", err
	}
	return d.Format(DateLayout), nil
}
