package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// DateLayout is the wire format of a calendar date.
const DateLayout = "2006-01-02"

var ErrEmptyDate = errors.New("empty date")

// ParseCalendarDate turns a date or timestamp string into a calendar date.
// Timestamps keep the day as written in their own offset; the time of day is dropped.
func ParseCalendarDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, ErrEmptyDate
	}
	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("invalid calendar date %q", s)
}

// FormatCalendarDate renders d in DateLayout, or "" for an invalid date.
func FormatCalendarDate(d civil.Date) string {
	if !d.IsValid() {
		return ""
	}
	return d.String()
}

// Today is the calendar date of now in the local zone.
func Today(now func() time.Time) civil.Date {
	if now == nil {
		now = time.Now
	}
	return civil.DateOf(now())
}
