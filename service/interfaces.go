package service

import (
	"context"

	"wingo/events"
	"wingo/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by id, or nil if none exists
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Create creates a new user with an initial deposit balance
	Create(ctx context.Context, name, mobile string, initialDeposit float64) (*models.User, error)

	// CreditWinnings adds a payout to a user's withdrawable balance atomically
	CreditWinnings(ctx context.Context, userID int64, amount float64) error

	// DeductForBet debits a wager from deposit then withdraw balance,
	// failing without mutation if blocked or insufficient
	DeductForBet(ctx context.Context, userID int64, amount float64) error
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create persists a new pending bet
	Create(ctx context.Context, bet *models.Bet) error

	// GetByID retrieves a bet by its ID, or nil if none exists
	GetByID(ctx context.Context, id int64) (*models.Bet, error)

	// GetPendingByPeriod returns all pending bets for one period, locked
	// for the enclosing transaction
	GetPendingByPeriod(ctx context.Context, mode models.GameMode, periodID string) ([]*models.Bet, error)

	// Settle moves a bet to a terminal state; returns false if the bet
	// was already settled
	Settle(ctx context.Context, betID int64, status models.BetStatus, payout, multiplier float64) (bool, error)

	// GetByUser returns the newest bets for a user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Bet, error)

	// GetPendingByUser returns a user's unsettled bets
	GetPendingByUser(ctx context.Context, userID int64) ([]*models.Bet, error)
}

// ResultRepository defines the interface for result data access
type ResultRepository interface {
	// CreateOnce persists a result unless one already exists for its
	// period; returns the stored row and whether this call created it
	CreateOnce(ctx context.Context, result *models.Result) (*models.Result, bool, error)

	// GetByPeriod retrieves the result for one period, or nil if unresolved
	GetByPeriod(ctx context.Context, mode models.GameMode, periodID string) (*models.Result, error)

	// GetRecentByMode returns the newest results for a mode
	GetRecentByMode(ctx context.Context, mode models.GameMode, limit int) ([]*models.Result, error)

	// GetRecent returns the newest results across all modes
	GetRecent(ctx context.Context, limit int) ([]*models.Result, error)
}

// ConfigRepository defines the interface for game config access
type ConfigRepository interface {
	// Get retrieves the game configuration
	Get(ctx context.Context) (*models.GameConfig, error)

	// IsEmergencyStopped reports the circuit-breaker flag
	IsEmergencyStopped(ctx context.Context) (bool, error)

	// SetEmergencyStop flips the circuit-breaker flag
	SetEmergencyStop(ctx context.Context, stopped bool) error

	// SetOverride stores a forced outcome for a mode's next close,
	// rejecting values outside 0-9
	SetOverride(ctx context.Context, mode models.GameMode, number int) error

	// ClearOverride removes a pending forced outcome
	ClearOverride(ctx context.Context, mode models.GameMode) error

	// ConsumeOverride atomically takes and clears the forced outcome for
	// a mode, or returns nil if none is set
	ConsumeOverride(ctx context.Context, mode models.GameMode) (*int, error)

	// AddPlatformProfit accumulates the house result of a settlement batch
	AddPlatformProfit(ctx context.Context, delta float64) error
}

// BalanceHistoryRepository defines the interface for balance ledger access
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns balance history for a specific user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error)
}

// ResolverService produces the authoritative outcome for a closed period
type ResolverService interface {
	// Resolve draws (or applies an operator override to) the outcome of a
	// period and persists it exactly once; resolving an already-resolved
	// period returns the stored result unchanged
	Resolve(ctx context.Context, mode models.GameMode, periodID string) (*models.Result, error)
}

// SettlementService settles pending bets against recorded results
type SettlementService interface {
	// Settle processes every pending bet for the result's period exactly
	// once and returns the per-bet outcomes
	Settle(ctx context.Context, result *models.Result) ([]*SettledBet, error)
}

// SettledBet describes the outcome of one bet in a settlement batch
type SettledBet struct {
	BetID  int64
	UserID int64
	Status models.BetStatus
	Payout float64
}

// BettingService accepts wagers on open periods
type BettingService interface {
	// PlaceBet validates and records a wager against the mode's currently
	// open period, debiting the stake. A non-empty periodID is compared
	// against the clock's current period and rejected if it has closed.
	PlaceBet(ctx context.Context, userID int64, mode models.GameMode, periodID string, betType models.BetType, value string, amount float64) (*models.Bet, error)
}

// SyncService assembles authoritative snapshots for observers
type SyncService interface {
	// Snapshot returns recent results plus the user's bets and balances
	// in one consistent view
	Snapshot(ctx context.Context, userID int64, resultLimit, betLimit int) (*StateSnapshot, error)

	// RecentResults returns the newest results for one mode
	RecentResults(ctx context.Context, mode models.GameMode, limit int) ([]*models.Result, error)
}

// StateSnapshot is a full re-fetch of an observer's authoritative state.
// Results are read before bets, so a terminal bet always appears together
// with the result that settled it.
type StateSnapshot struct {
	User        *models.User
	Results     []*models.Result
	Bets        []*models.Bet
	PendingBets []*models.Bet
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	BetRepository() BetRepository
	ResultRepository() ResultRepository
	ConfigRepository() ConfigRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
