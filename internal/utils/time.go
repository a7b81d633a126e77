package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/standup/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name. Empty
// and "Local" are rejected so the calendar never follows the host's zone.
func LoadLocation(timezone string) (*time.Location, error) {
	switch strings.TrimSpace(timezone) {
	case "":
		return nil, fmt.Errorf("timezone is required (an IANA name such as America/Chicago)")
	case "Local":
		return nil, fmt.Errorf("timezone %q follows the host; use an IANA name such as America/Chicago", timezone)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// Day returns midnight of t's calendar date in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayString returns t's calendar date in loc as YYYY-MM-DD.
func DayString(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.DateFormat)
}

// DaysBetween returns the number of calendar days from a to b, both taken in loc.
// It counts dates, not 24h periods, so DST transitions do not skew it.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	a, b = a.In(loc), b.In(loc)
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// AddDays moves a calendar date by n days, keeping it at midnight in loc.
func AddDays(day time.Time, n int, loc *time.Location) time.Time {
	day = day.In(loc)
	return time.Date(day.Year(), day.Month(), day.Day()+n, 0, 0, 0, 0, loc)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
