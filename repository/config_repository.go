package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"wingo/database"
	"wingo/models"
)

// ConfigRepository implements the service.ConfigRepository interface
// against the single game_config row.
type ConfigRepository struct {
	q queryable
}

// NewConfigRepository creates a new config repository
func NewConfigRepository(db *database.DB) *ConfigRepository {
	return &ConfigRepository{q: db.Pool}
}

// newConfigRepositoryWithTx creates a new config repository with a transaction
func newConfigRepositoryWithTx(tx queryable) *ConfigRepository {
	return &ConfigRepository{q: tx}
}

const configColumns = `
	id, house_edge, auto_result, emergency_stop, min_recharge, min_withdraw,
	platform_profit, next_result_overrides, updated_at`

// Get retrieves the game configuration
func (r *ConfigRepository) Get(ctx context.Context) (*models.GameConfig, error) {
	query := `SELECT` + configColumns + ` FROM game_config WHERE id = 1`

	var cfg models.GameConfig
	var overridesRaw []byte
	err := r.q.QueryRow(ctx, query).Scan(
		&cfg.ID,
		&cfg.HouseEdge,
		&cfg.AutoResult,
		&cfg.EmergencyStop,
		&cfg.MinRecharge,
		&cfg.MinWithdraw,
		&cfg.PlatformProfit,
		&overridesRaw,
		&cfg.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get game config: %w", err)
	}

	if err := json.Unmarshal(overridesRaw, &cfg.NextResultOverrides); err != nil {
		return nil, fmt.Errorf("failed to decode result overrides: %w", err)
	}
	if cfg.NextResultOverrides == nil {
		cfg.NextResultOverrides = make(map[models.GameMode]*int)
	}

	return &cfg, nil
}

// IsEmergencyStopped reports the circuit-breaker flag
func (r *ConfigRepository) IsEmergencyStopped(ctx context.Context) (bool, error) {
	var stopped bool
	err := r.q.QueryRow(ctx, `SELECT emergency_stop FROM game_config WHERE id = 1`).Scan(&stopped)
	if err != nil {
		return false, fmt.Errorf("failed to read emergency stop flag: %w", err)
	}
	return stopped, nil
}

// SetEmergencyStop flips the circuit-breaker flag
func (r *ConfigRepository) SetEmergencyStop(ctx context.Context, stopped bool) error {
	_, err := r.q.Exec(ctx,
		`UPDATE game_config SET emergency_stop = $1, updated_at = NOW() WHERE id = 1`, stopped)
	if err != nil {
		return fmt.Errorf("failed to set emergency stop: %w", err)
	}
	return nil
}

// SetOverride stores a forced outcome for a mode's next period close.
// Values outside 0-9 are rejected here, at write time.
func (r *ConfigRepository) SetOverride(ctx context.Context, mode models.GameMode, number int) error {
	if !mode.IsDiscrete() {
		return fmt.Errorf("mode %q has no scheduled periods to override", mode)
	}
	if err := models.ValidateOverride(number); err != nil {
		return err
	}

	query := `
		UPDATE game_config
		SET next_result_overrides = jsonb_set(next_result_overrides, ARRAY[$1::text], $2::jsonb),
		    updated_at = NOW()
		WHERE id = 1
	`
	_, err := r.q.Exec(ctx, query, string(mode), strconv.Itoa(number))
	if err != nil {
		return fmt.Errorf("failed to set override for mode %s: %w", mode, err)
	}
	return nil
}

// ClearOverride removes a pending forced outcome for a mode
func (r *ConfigRepository) ClearOverride(ctx context.Context, mode models.GameMode) error {
	query := `
		UPDATE game_config
		SET next_result_overrides = next_result_overrides - $1::text, updated_at = NOW()
		WHERE id = 1
	`
	_, err := r.q.Exec(ctx, query, string(mode))
	if err != nil {
		return fmt.Errorf("failed to clear override for mode %s: %w", mode, err)
	}
	return nil
}

// ConsumeOverride atomically takes the forced outcome for a mode, clearing
// it so it applies to exactly one period close. Returns nil if no override
// is set. Must run inside the resolve transaction: the row lock serializes
// concurrent resolvers so only one of them sees the override.
func (r *ConfigRepository) ConsumeOverride(ctx context.Context, mode models.GameMode) (*int, error) {
	var overridesRaw []byte
	err := r.q.QueryRow(ctx,
		`SELECT next_result_overrides FROM game_config WHERE id = 1 FOR UPDATE`).Scan(&overridesRaw)
	if err != nil {
		return nil, fmt.Errorf("failed to read result overrides: %w", err)
	}

	var overrides map[models.GameMode]*int
	if err := json.Unmarshal(overridesRaw, &overrides); err != nil {
		return nil, fmt.Errorf("failed to decode result overrides: %w", err)
	}

	number := overrides[mode]
	if number == nil {
		return nil, nil
	}

	if err := r.ClearOverride(ctx, mode); err != nil {
		return nil, err
	}

	return number, nil
}

// AddPlatformProfit accumulates the house result of a settlement batch
// (wagered minus paid out). The delta may be negative.
func (r *ConfigRepository) AddPlatformProfit(ctx context.Context, delta float64) error {
	_, err := r.q.Exec(ctx,
		`UPDATE game_config SET platform_profit = platform_profit + $1, updated_at = NOW() WHERE id = 1`, delta)
	if err != nil {
		return fmt.Errorf("failed to add platform profit: %w", err)
	}
	return nil
}
