package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRange(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantLower time.Time
		wantUpper time.Time
	}{
		{
			name:      "spans multiple days",
			start:     time.Date(2024, 6, 1, 14, 30, 0, 0, loc),
			end:       time.Date(2024, 6, 3, 9, 0, 0, 0, loc),
			wantLower: time.Date(2024, 6, 1, 0, 0, 0, 0, loc),
			wantUpper: time.Date(2024, 6, 3, 23, 59, 59, 0, loc),
		},
		{
			name:      "same day",
			start:     time.Date(2024, 6, 1, 12, 0, 0, 0, loc),
			end:       time.Date(2024, 6, 1, 12, 0, 0, 0, loc),
			wantLower: time.Date(2024, 6, 1, 0, 0, 0, 0, loc),
			wantUpper: time.Date(2024, 6, 1, 23, 59, 59, 0, loc),
		},
		{
			name:      "start after end is allowed",
			start:     time.Date(2024, 6, 5, 0, 0, 0, 0, loc),
			end:       time.Date(2024, 6, 1, 0, 0, 0, 0, loc),
			wantLower: time.Date(2024, 6, 5, 0, 0, 0, 0, loc),
			wantUpper: time.Date(2024, 6, 1, 23, 59, 59, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NormalizeRange(tt.start, tt.end)
			assert.True(t, w.Lower.Equal(tt.wantLower), "lower bound: got %v", w.Lower)
			assert.True(t, w.Upper.Equal(tt.wantUpper), "upper bound: got %v", w.Upper)
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := NormalizeRange(
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	)

	assert.True(t, w.Contains(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)), "lower bound is inclusive")
	assert.True(t, w.Contains(time.Date(2024, 6, 3, 23, 59, 59, 0, time.UTC)), "upper bound is inclusive")
	assert.True(t, w.Contains(time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)))
}

func TestWindowContains_InvertedRange(t *testing.T) {
	// start after end: nothing can satisfy both bounds
	w := NormalizeRange(
		time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	)

	for d := 1; d <= 6; d++ {
		assert.False(t, w.Contains(time.Date(2024, 6, d, 12, 0, 0, 0, time.UTC)))
	}
}
