package validation

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-13", time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)},
		{"2024/01/13", time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)},
		{"2024-01-13 08:15", time.Date(2024, 1, 13, 8, 15, 0, 0, time.UTC)},
		{"2024-01-13 08:15:30", time.Date(2024, 1, 13, 8, 15, 30, 0, time.UTC)},
		{"2024-01-13T08:15:30", time.Date(2024, 1, 13, 8, 15, 30, 0, time.UTC)},
		{"2024-01-13T08:15:30+02:00", time.Date(2024, 1, 13, 6, 15, 30, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDateTime(tt.in)
		assert.NilError(t, err, tt.in)
		assert.Assert(t, got.Equal(tt.want), "%s: got %s", tt.in, got)
	}

	_, err := ParseDateTime("13/01/2024")
	assert.ErrorContains(t, err, "invalid date format")
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("14:30")
	assert.NilError(t, err)
	assert.Equal(t, "14:30:00", got.Format("15:04:05"))

	_, err = ParseTimeOfDay("2pm")
	assert.ErrorContains(t, err, "invalid time format")
}

func TestLooksLikeTimestamp(t *testing.T) {
	assert.Check(t, LooksLikeTimestamp("2024-01-15T10:00:00Z"))
	assert.Check(t, !LooksLikeTimestamp("Tokyo"))
	assert.Check(t, !LooksLikeTimestamp("2024-01-15"))
}
