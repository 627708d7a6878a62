package repository

import (
	"context"
	"fmt"

	"wingo/database"
	"wingo/models"

	"github.com/jackc/pgx/v5"
)

// ResultRepository implements the service.ResultRepository interface
type ResultRepository struct {
	q queryable
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *database.DB) *ResultRepository {
	return &ResultRepository{q: db.Pool}
}

// newResultRepositoryWithTx creates a new result repository with a transaction
func newResultRepositoryWithTx(tx queryable) *ResultRepository {
	return &ResultRepository{q: tx}
}

func scanResult(row pgx.Row) (*models.Result, error) {
	var result models.Result
	var colors []string
	err := row.Scan(
		&result.ID,
		&result.PeriodID,
		&result.Mode,
		&result.Number,
		&colors,
		&result.Size,
		&result.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	for _, c := range colors {
		result.Colors = append(result.Colors, models.BetColor(c))
	}
	return &result, nil
}

// CreateOnce persists a result if no result exists yet for its
// (mode, period id) and returns the stored row either way. Concurrent
// callers racing on the same period all converge on one stored result.
func (r *ResultRepository) CreateOnce(ctx context.Context, result *models.Result) (*models.Result, bool, error) {
	colors := make([]string, len(result.Colors))
	for i, c := range result.Colors {
		colors[i] = string(c)
	}

	insert := `
		INSERT INTO results (period_id, mode, number, colors, size, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT results_mode_period_unique DO NOTHING
		RETURNING id, period_id, mode, number, colors, size, timestamp
	`

	stored, err := scanResult(r.q.QueryRow(ctx, insert,
		result.PeriodID, result.Mode, result.Number, colors, result.Size, result.Timestamp))
	if err == nil {
		return stored, true, nil
	}
	if err != pgx.ErrNoRows {
		return nil, false, fmt.Errorf("failed to insert result for %s: %w", result.PeriodID, err)
	}

	// Lost the race: another resolver already recorded this period
	existing, err := r.GetByPeriod(ctx, result.Mode, result.PeriodID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("result for %s neither inserted nor found", result.PeriodID)
	}
	return existing, false, nil
}

// GetByPeriod retrieves the result for one period, or nil if the period
// has not been resolved.
func (r *ResultRepository) GetByPeriod(ctx context.Context, mode models.GameMode, periodID string) (*models.Result, error) {
	query := `
		SELECT id, period_id, mode, number, colors, size, timestamp
		FROM results
		WHERE mode = $1 AND period_id = $2
	`

	result, err := scanResult(r.q.QueryRow(ctx, query, mode, periodID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result for %s: %w", periodID, err)
	}
	return result, nil
}

// GetRecentByMode returns the newest results for a mode, newest first
func (r *ResultRepository) GetRecentByMode(ctx context.Context, mode models.GameMode, limit int) ([]*models.Result, error) {
	query := `
		SELECT id, period_id, mode, number, colors, size, timestamp
		FROM results
		WHERE mode = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent results for mode %s: %w", mode, err)
	}
	defer rows.Close()

	var results []*models.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}

	return results, nil
}

// GetRecent returns the newest results across all modes, newest first
func (r *ResultRepository) GetRecent(ctx context.Context, limit int) ([]*models.Result, error) {
	query := `
		SELECT id, period_id, mode, number, colors, size, timestamp
		FROM results
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent results: %w", err)
	}
	defer rows.Close()

	var results []*models.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}

	return results, nil
}
