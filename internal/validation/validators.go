package validation

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order by ParseDateTime
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// ParseDateTime parses a DATE/DATETIME/TIMESTAMP literal into a UTC time.
// Accepted: YYYY-MM-DD, YYYY-MM-DD HH:MM[:SS], RFC3339.
func ParseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format, expected YYYY-MM-DD or YYYY-MM-DD HH:MM:SS (e.g., '2024-01-13')")
}

// ParseTimeOfDay parses a TIME literal in HH:MM:SS or HH:MM format.
// The result is anchored on the zero date.
func ParseTimeOfDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse("15:04:05", value)
	if err != nil {
		t, err = time.Parse("15:04", value)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time format, expected HH:MM:SS or HH:MM (e.g., '14:30:00' or '14:30')")
		}
	}
	return t.UTC(), nil
}

// LooksLikeTimestamp is the rehydration heuristic for stored JSON strings:
// a serialized time always contains both 'T' and 'Z'.
func LooksLikeTimestamp(s string) bool {
	return strings.Contains(s, "T") && strings.Contains(s, "Z")
}
