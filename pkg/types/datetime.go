package types

import (
	"fmt"
	"time"
)

// Wire formats shared by the API and persistence layers: calendar dates are
// YYYY-MM-DD and bare clock times are 24-hour HH:MM.
const (
	DateFormat  = "2006-01-02"
	ClockFormat = "15:04"
)

// ParseDate validates a YYYY-MM-DD string and returns its canonical form.
func ParseDate(value string) (string, error) {
	parsed, err := time.Parse(DateFormat, value)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", value, err)
	}
	return parsed.Format(DateFormat), nil
}

// ParseClock validates an HH:MM string and returns its canonical form.
func ParseClock(value string) (string, error) {
	parsed, err := time.Parse(ClockFormat, value)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: %w", value, err)
	}
	return parsed.Format(ClockFormat), nil
}

// AddDays shifts a canonical date string by the provided number of days.
func AddDays(date string, days int) (string, error) {
	parsed, err := time.Parse(DateFormat, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return parsed.AddDate(0, 0, days).Format(DateFormat), nil
}
