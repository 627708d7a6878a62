package models

import (
	"fmt"
	"time"
)

// GameConfig is the single operator-managed configuration row. The round
// scheduler reads the emergency stop flag before closing a period, and the
// outcome resolver consumes per-mode overrides at resolve time.
type GameConfig struct {
	ID                  int               `db:"id" json:"id"`
	HouseEdge           float64           `db:"house_edge" json:"houseEdge"`
	AutoResult          bool              `db:"auto_result" json:"autoResult"`
	EmergencyStop       bool              `db:"emergency_stop" json:"emergencyStop"`
	MinRecharge         float64           `db:"min_recharge" json:"minRecharge"`
	MinWithdraw         float64           `db:"min_withdraw" json:"minWithdraw"`
	PlatformProfit      float64           `db:"platform_profit" json:"platformProfit"`
	NextResultOverrides map[GameMode]*int `db:"next_result_overrides" json:"nextResultOverrides"`
	UpdatedAt           time.Time         `db:"updated_at" json:"updatedAt"`
}

// ValidateOverride rejects forced outcomes outside the drawable range.
// Overrides are validated when written, never at resolve time.
func ValidateOverride(number int) error {
	if number < 0 || number > 9 {
		return fmt.Errorf("override must be a digit 0-9, got %d", number)
	}
	return nil
}
