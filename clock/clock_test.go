package clock

import (
	"testing"
	"time"

	"wingo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrent_PeriodBoundaries(t *testing.T) {
	// 2024-06-01 00:00:00 UTC is divisible by every discrete mode duration
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name              string
		mode              models.GameMode
		offset            time.Duration
		wantRemaining     int
		wantSameAsBase    bool
	}{
		{"30s period start", models.Mode30s, 0, 30, true},
		{"30s mid period", models.Mode30s, 12 * time.Second, 18, true},
		{"30s last second", models.Mode30s, 29 * time.Second, 1, true},
		{"30s next period", models.Mode30s, 30 * time.Second, 30, false},
		{"1m mid period", models.Mode1m, 45 * time.Second, 15, true},
		{"3m period start", models.Mode3m, 0, 180, true},
		{"5m last second", models.Mode5m, 299 * time.Second, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atBase := Current(tt.mode, base)
			got := Current(tt.mode, base.Add(tt.offset))

			assert.Equal(t, tt.wantRemaining, got.SecondsRemaining)
			if tt.wantSameAsBase {
				assert.Equal(t, atBase.PeriodID, got.PeriodID)
			} else {
				assert.NotEqual(t, atBase.PeriodID, got.PeriodID)
				assert.Equal(t, atBase.Index+1, got.Index)
			}
		})
	}
}

func TestCurrent_RemainingStrictlyDecreasesWithinPeriod(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	prev := Current(models.Mode30s, base)
	for s := 1; s < 30; s++ {
		info := Current(models.Mode30s, base.Add(time.Duration(s)*time.Second))
		assert.Equal(t, prev.PeriodID, info.PeriodID)
		assert.Less(t, info.SecondsRemaining, prev.SecondsRemaining)
		prev = info
	}

	// The instant the next period begins, the countdown resets to the full duration
	next := Current(models.Mode30s, base.Add(30*time.Second))
	assert.Equal(t, 30, next.SecondsRemaining)
}

func TestCurrent_DeterministicAcrossCallers(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 41, 7, 250_000_000, time.UTC)

	a := Current(models.Mode1m, now)
	b := Current(models.Mode1m, now.Add(400*time.Millisecond)) // same second
	assert.Equal(t, a.PeriodID, b.PeriodID)
	assert.Equal(t, a.SecondsRemaining, b.SecondsRemaining)
}

func TestCurrent_InjectiveAcrossModes(t *testing.T) {
	// Modes closing at the same wall-clock second still produce distinct ids
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	seen := map[string]bool{}
	for _, mode := range models.DiscreteModes {
		id := Current(mode, now).PeriodID
		assert.False(t, seen[id], "duplicate period id %s", id)
		seen[id] = true
	}
}

func TestCurrent_PanicsOnNonDiscreteMode(t *testing.T) {
	assert.Panics(t, func() {
		Current(models.ModeAviator, time.Now())
	})
}

func TestPrevious(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 15, 0, time.UTC)

	cur := Current(models.Mode30s, now)
	prev := Previous(models.Mode30s, now)

	assert.Equal(t, cur.Index-1, prev.Index)
	assert.Equal(t, cur.StartsAt, prev.ClosesAt)
}

func TestParsePeriodID(t *testing.T) {
	id := FormatPeriodID(models.Mode3m, 9544321)

	mode, index, err := ParsePeriodID(id)
	require.NoError(t, err)
	assert.Equal(t, models.Mode3m, mode)
	assert.Equal(t, int64(9544321), index)

	_, _, err = ParsePeriodID("garbage")
	assert.Error(t, err)

	_, _, err = ParsePeriodID("7m-123")
	assert.Error(t, err)
}
