// Package clock partitions wall-clock time into the non-overlapping round
// periods of each game mode. All computations are pure: any two processes
// sharing a clock derive the same period identifier with no coordination.
package clock

import (
	"fmt"
	"strconv"
	"strings"

	"time"

	"wingo/models"
)

// PeriodInfo describes the period containing a given instant
type PeriodInfo struct {
	PeriodID         string
	Mode             models.GameMode
	Index            int64
	StartsAt         time.Time
	ClosesAt         time.Time
	SecondsRemaining int
}

// Current returns the period containing now for a discrete mode.
// Calling it with a non-discrete mode is a programmer error and panics.
func Current(mode models.GameMode, now time.Time) PeriodInfo {
	durMillis := mode.Duration().Milliseconds()
	if durMillis == 0 {
		panic(fmt.Sprintf("clock: mode %q has no fixed period duration", mode))
	}

	ms := now.UnixMilli()
	index := ms / durMillis
	elapsed := ms % durMillis
	secondsElapsed := int(elapsed / 1000)

	return PeriodInfo{
		PeriodID:         FormatPeriodID(mode, index),
		Mode:             mode,
		Index:            index,
		StartsAt:         time.UnixMilli(index * durMillis).UTC(),
		ClosesAt:         time.UnixMilli((index + 1) * durMillis).UTC(),
		SecondsRemaining: int(mode.Duration().Seconds()) - secondsElapsed,
	}
}

// Previous returns the period immediately before the one containing now
func Previous(mode models.GameMode, now time.Time) PeriodInfo {
	return Current(mode, now.Add(-mode.Duration()))
}

// FormatPeriodID builds the globally-agreed period key for a mode and
// period index. The mode prefix keeps identifiers collision-free across
// modes whose periods share boundaries.
func FormatPeriodID(mode models.GameMode, index int64) string {
	return fmt.Sprintf("%s-%d", mode, index)
}

// ParsePeriodID splits a period identifier back into mode and index
func ParsePeriodID(periodID string) (models.GameMode, int64, error) {
	i := strings.LastIndexByte(periodID, '-')
	if i < 0 {
		return "", 0, fmt.Errorf("malformed period id %q", periodID)
	}
	mode := models.GameMode(periodID[:i])
	if !mode.IsDiscrete() {
		return "", 0, fmt.Errorf("period id %q has unknown mode", periodID)
	}
	index, err := strconv.ParseInt(periodID[i+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("period id %q has malformed index: %w", periodID, err)
	}
	return mode, index, nil
}
