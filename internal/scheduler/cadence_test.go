package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCadence_Next(t *testing.T) {
	// Monday 2025-06-02
	monday := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		cadence  Cadence
		after    time.Time
		expected time.Time
	}{
		{
			name:     "weekly later same day",
			cadence:  Weekly(time.Monday, 9, 0),
			after:    monday,
			expected: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "weekly already passed rolls a week",
			cadence:  Weekly(time.Monday, 9, 0),
			after:    time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "weekly other weekday",
			cadence:  Weekly(time.Friday, 12, 0),
			after:    monday,
			expected: time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "daily later same day",
			cadence:  Daily(10, 0),
			after:    monday,
			expected: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "daily already passed rolls a day",
			cadence:  Daily(7, 0),
			after:    monday,
			expected: time.Date(2025, 6, 3, 7, 0, 0, 0, time.UTC),
		},
		{
			name:     "hourly later same hour",
			cadence:  Hourly(45),
			after:    monday,
			expected: time.Date(2025, 6, 2, 8, 45, 0, 0, time.UTC),
		},
		{
			name:     "hourly already passed rolls an hour",
			cadence:  Hourly(0),
			after:    monday,
			expected: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "exact match is strictly after",
			cadence:  Hourly(30),
			after:    monday,
			expected: time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := tt.cadence.Next(tt.after)
			assert.Equal(t, tt.expected, next)
			assert.True(t, next.After(tt.after), "Next must be strictly after the reference time")
		})
	}
}
