package repository

import (
	"context"
	"fmt"

	"wingo/database"
	"wingo/models"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `
	id, name, mobile, deposit_balance, withdraw_balance, referral_earnings,
	referral_code, referred_by, is_blocked, block_reason, has_recharged,
	kyc_status, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Mobile,
		&user.DepositBalance,
		&user.WithdrawBalance,
		&user.ReferralEarnings,
		&user.ReferralCode,
		&user.ReferredBy,
		&user.IsBlocked,
		&user.BlockReason,
		&user.HasRecharged,
		&user.KYCStatus,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

// Create creates a new user with an initial deposit balance
func (r *UserRepository) Create(ctx context.Context, name, mobile string, initialDeposit float64) (*models.User, error) {
	query := `
		INSERT INTO users (name, mobile, deposit_balance)
		VALUES ($1, $2, $3)
		RETURNING` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, name, mobile, initialDeposit))
	if err != nil {
		return nil, fmt.Errorf("failed to create user %q: %w", mobile, err)
	}
	return user, nil
}

// CreditWinnings adds a payout to a user's withdrawable balance atomically.
// This is the only balance credit path the settlement engine uses.
func (r *UserRepository) CreditWinnings(ctx context.Context, userID int64, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET withdraw_balance = withdraw_balance + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to credit winnings for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", userID)
	}

	return nil
}

// DeductForBet debits a wager atomically, taking from the deposit balance
// first and the withdraw balance for the remainder. Fails without mutating
// anything if the user is blocked or the combined balance is insufficient.
func (r *UserRepository) DeductForBet(ctx context.Context, userID int64, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET deposit_balance = GREATEST(deposit_balance - $1, 0),
		    withdraw_balance = withdraw_balance - GREATEST($1 - deposit_balance, 0),
		    updated_at = NOW()
		WHERE id = $2
		  AND NOT is_blocked
		  AND deposit_balance + withdraw_balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to deduct bet amount for user %d: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		user, err := r.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("user %d not found", userID)
		}
		if user.IsBlocked {
			return fmt.Errorf("user %d is blocked", userID)
		}
		return fmt.Errorf("insufficient balance: have %.2f, need %.2f", user.TotalBalance(), amount)
	}

	return nil
}
