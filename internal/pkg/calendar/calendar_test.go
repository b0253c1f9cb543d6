package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestWorkingDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{"monday to friday", "2025-03-10", "2025-03-14", 5},
		{"friday to monday", "2025-03-14", "2025-03-17", 2},
		{"single weekday", "2025-03-12", "2025-03-12", 1},
		{"weekend only", "2025-03-15", "2025-03-16", 0},
		{"two full weeks", "2025-03-10", "2025-03-23", 10},
		{"end before start", "2025-03-14", "2025-03-10", 0},
		{"across month end", "2025-02-27", "2025-03-04", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorkingDays(mustDate(t, tt.start), mustDate(t, tt.end)))
		})
	}
}

func TestNextWorkingDay(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{"2025-03-14", "2025-03-17"}, // friday
		{"2025-03-15", "2025-03-17"}, // saturday
		{"2025-03-16", "2025-03-17"}, // sunday
		{"2025-03-10", "2025-03-11"},
	}

	for _, tt := range tests {
		got := NextWorkingDay(mustDate(t, tt.from))
		assert.Equal(t, tt.want, got.Format(DateLayout), "from %s", tt.from)
	}
}

func TestOverlaps(t *testing.T) {
	existingStart := mustDate(t, "2025-03-10")
	existingEnd := mustDate(t, "2025-03-14")

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"fully inside", "2025-03-11", "2025-03-12", true},
		{"fully containing", "2025-03-07", "2025-03-18", true},
		{"overlapping start", "2025-03-06", "2025-03-10", true},
		{"overlapping end", "2025-03-14", "2025-03-20", true},
		{"identical", "2025-03-10", "2025-03-14", true},
		{"before", "2025-03-03", "2025-03-07", false},
		{"after", "2025-03-17", "2025-03-18", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(mustDate(t, tt.start), mustDate(t, tt.end), existingStart, existingEnd)
			assert.Equal(t, tt.want, got)
		})
	}
}
