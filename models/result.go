package models

import "time"

// BetColor is one of the three drawable colors
type BetColor string

const (
	ColorRed    BetColor = "RED"
	ColorGreen  BetColor = "GREEN"
	ColorViolet BetColor = "VIOLET"
)

// BetSize classifies a drawn number as big (5-9) or small (0-4)
type BetSize string

const (
	SizeBig   BetSize = "BIG"
	SizeSmall BetSize = "SMALL"
)

// Result is the authoritative outcome for one closed period.
// At most one result ever exists per (mode, period id); it is created once
// by the outcome resolver and never mutated.
type Result struct {
	ID        int64      `db:"id"`
	PeriodID  string     `db:"period_id"`
	Mode      GameMode   `db:"mode"`
	Number    int        `db:"number"`
	Colors    []BetColor `db:"colors"`
	Size      BetSize    `db:"size"`
	Timestamp time.Time  `db:"timestamp"`
}

// ColorsForNumber returns the color set for a drawn digit:
// 0 is red+violet, 5 is green+violet, other even digits are red,
// other odd digits are green.
func ColorsForNumber(n int) []BetColor {
	switch {
	case n == 0:
		return []BetColor{ColorRed, ColorViolet}
	case n == 5:
		return []BetColor{ColorGreen, ColorViolet}
	case n%2 == 0:
		return []BetColor{ColorRed}
	default:
		return []BetColor{ColorGreen}
	}
}

// SizeForNumber returns SMALL for 0-4 and BIG for 5-9
func SizeForNumber(n int) BetSize {
	if n >= 5 {
		return SizeBig
	}
	return SizeSmall
}

// NewResult builds a result for a drawn number, deriving its classifications
func NewResult(mode GameMode, periodID string, number int, at time.Time) *Result {
	return &Result{
		PeriodID:  periodID,
		Mode:      mode,
		Number:    number,
		Colors:    ColorsForNumber(number),
		Size:      SizeForNumber(number),
		Timestamp: at,
	}
}

// HasColor reports whether the drawn color set contains c
func (r *Result) HasColor(c BetColor) bool {
	for _, rc := range r.Colors {
		if rc == c {
			return true
		}
	}
	return false
}
