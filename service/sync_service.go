package service

import (
	"context"
	"fmt"

	"wingo/models"
)

type syncService struct {
	uowFactory UnitOfWorkFactory
}

// NewSyncService creates the state synchronizer's read side. Observers
// reconcile by full re-fetch, never by applying diffs to assumed prior
// state; a reconnecting client calls Snapshot and replaces its view.
func NewSyncService(uowFactory UnitOfWorkFactory) SyncService {
	return &syncService{
		uowFactory: uowFactory,
	}
}

// Snapshot reads the observer's authoritative state in one transaction.
// Results are loaded before bets: within the snapshot a bet can only be
// terminal if the result that settled it is present, because settlement
// writes both atomically.
func (s *syncService) Snapshot(ctx context.Context, userID int64, resultLimit, betLimit int) (*StateSnapshot, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // Read-only, never committed

	results, err := uow.ResultRepository().GetRecent(ctx, resultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent results: %w", err)
	}

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	bets, err := uow.BetRepository().GetByUser(ctx, userID, betLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load bets: %w", err)
	}

	pending, err := uow.BetRepository().GetPendingByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending bets: %w", err)
	}

	return &StateSnapshot{
		User:        user,
		Results:     results,
		Bets:        bets,
		PendingBets: pending,
	}, nil
}

// RecentResults returns the newest results for one mode, for observers
// polling a single game board.
func (s *syncService) RecentResults(ctx context.Context, mode models.GameMode, limit int) ([]*models.Result, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // Read-only, never committed

	results, err := uow.ResultRepository().GetRecentByMode(ctx, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for mode %s: %w", mode, err)
	}

	return results, nil
}
