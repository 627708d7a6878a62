package models

import "time"

// GameMode identifies one of the betting game variants
type GameMode string

const (
	Mode30s     GameMode = "30s"
	Mode1m      GameMode = "1m"
	Mode3m      GameMode = "3m"
	Mode5m      GameMode = "5m"
	ModeAviator GameMode = "aviator"
)

// DiscreteModes lists the fixed-duration modes driven by the round scheduler.
// ModeAviator uses a continuous crash settlement model owned by an external
// collaborator and is never scheduled here.
var DiscreteModes = []GameMode{Mode30s, Mode1m, Mode3m, Mode5m}

// Duration returns the round length of a discrete mode, or 0 for modes
// without a fixed period.
func (m GameMode) Duration() time.Duration {
	switch m {
	case Mode30s:
		return 30 * time.Second
	case Mode1m:
		return time.Minute
	case Mode3m:
		return 3 * time.Minute
	case Mode5m:
		return 5 * time.Minute
	}
	return 0
}

// IsDiscrete reports whether the mode runs on fixed-duration periods
func (m GameMode) IsDiscrete() bool {
	return m.Duration() > 0
}

// IsValid reports whether the mode is a known game variant
func (m GameMode) IsValid() bool {
	return m.IsDiscrete() || m == ModeAviator
}
