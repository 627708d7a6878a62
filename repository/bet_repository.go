package repository

import (
	"context"
	"fmt"

	"wingo/database"
	"wingo/models"

	"github.com/jackc/pgx/v5"
)

// BetRepository implements the service.BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

const betColumns = `id, user_id, amount, type, value, mode, period_id, status, payout, multiplier, created_at`

func scanBet(row pgx.Row) (*models.Bet, error) {
	var bet models.Bet
	err := row.Scan(
		&bet.ID,
		&bet.UserID,
		&bet.Amount,
		&bet.Type,
		&bet.Value,
		&bet.Mode,
		&bet.PeriodID,
		&bet.Status,
		&bet.Payout,
		&bet.Multiplier,
		&bet.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

// Create persists a new pending bet and fills in its generated fields
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (user_id, amount, type, value, mode, period_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.UserID, bet.Amount, bet.Type, bet.Value, bet.Mode, bet.PeriodID,
	).Scan(&bet.ID, &bet.Status, &bet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet for user %d: %w", bet.UserID, err)
	}

	return nil
}

// GetByID retrieves a bet by its ID
func (r *BetRepository) GetByID(ctx context.Context, id int64) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", id, err)
	}
	return bet, nil
}

// GetPendingByPeriod returns all pending bets for one period, locked for
// the duration of the enclosing transaction so concurrent settlement
// passes for the same period serialize.
func (r *BetRepository) GetPendingByPeriod(ctx context.Context, mode models.GameMode, periodID string) ([]*models.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE mode = $1 AND period_id = $2 AND status = 'PENDING'
		ORDER BY id
		FOR UPDATE
	`

	rows, err := r.q.Query(ctx, query, mode, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending bets for %s: %w", periodID, err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}

	return bets, nil
}

// Settle moves a bet to its terminal state. The status guard makes the
// write idempotent: a bet already settled is left untouched and false is
// returned so the caller can skip double-crediting.
func (r *BetRepository) Settle(ctx context.Context, betID int64, status models.BetStatus, payout, multiplier float64) (bool, error) {
	if status != models.BetStatusWin && status != models.BetStatusLoss {
		return false, fmt.Errorf("settle status must be terminal, got %q", status)
	}

	query := `
		UPDATE bets
		SET status = $1, payout = $2, multiplier = $3
		WHERE id = $4 AND status = 'PENDING'
	`

	result, err := r.q.Exec(ctx, query, status, payout, multiplier, betID)
	if err != nil {
		return false, fmt.Errorf("failed to settle bet %d: %w", betID, err)
	}

	return result.RowsAffected() > 0, nil
}

// GetByUser returns the newest bets for a user
func (r *BetRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets for user %d: %w", userID, err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}

	return bets, nil
}

// GetPendingByUser returns a user's unsettled bets, oldest first
func (r *BetRepository) GetPendingByUser(ctx context.Context, userID int64) ([]*models.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE user_id = $1 AND status = 'PENDING'
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending bets for user %d: %w", userID, err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}

	return bets, nil
}
