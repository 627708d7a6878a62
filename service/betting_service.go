package service

import (
	"context"
	"fmt"
	"time"

	"wingo/clock"
	"wingo/events"
	"wingo/models"
)

type bettingService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewBettingService creates the bet acceptance service
func NewBettingService(uowFactory UnitOfWorkFactory) BettingService {
	return &bettingService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

func (s *bettingService) PlaceBet(ctx context.Context, userID int64, mode models.GameMode, periodID string, betType models.BetType, value string, amount float64) (*models.Bet, error) {
	if !mode.IsDiscrete() {
		return nil, fmt.Errorf("bets on mode %q are not accepted here", mode)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("bet amount must be positive")
	}

	// The open period is recomputed from the clock at acceptance time; a
	// client targeting a period that has since closed is rejected rather
	// than rolled into the next one.
	current := clock.Current(mode, s.now())
	if periodID != "" && periodID != current.PeriodID {
		return nil, fmt.Errorf("period %s is closed for betting", periodID)
	}

	bet := &models.Bet{
		UserID:   userID,
		Amount:   amount,
		Type:     betType,
		Value:    value,
		Mode:     mode,
		PeriodID: current.PeriodID,
	}
	if err := bet.ValidateValue(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	if user.IsBlocked {
		return nil, fmt.Errorf("account is blocked")
	}

	if err := uow.UserRepository().DeductForBet(ctx, userID, amount); err != nil {
		return nil, err
	}

	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	balanceBefore := user.TotalBalance()
	history := &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceBefore - amount,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeBetPlace,
		Metadata: map[string]any{
			"period_id": bet.PeriodID,
			"mode":      bet.Mode,
			"bet_type":  bet.Type,
			"bet_value": bet.Value,
		},
		RelatedBetID: &bet.ID,
	}
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	uow.EventBus().Publish(events.BetPlacedEvent{
		UserID:   userID,
		BetID:    bet.ID,
		Mode:     bet.Mode,
		PeriodID: bet.PeriodID,
		Amount:   amount,
	})
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		OldBalance:      balanceBefore,
		NewBalance:      balanceBefore - amount,
		TransactionType: models.TransactionTypeBetPlace,
		ChangeAmount:    -amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return bet, nil
}
