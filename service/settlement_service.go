package service

import (
	"context"
	"fmt"

	"wingo/events"
	"wingo/models"

	log "github.com/sirupsen/logrus"
)

type settlementService struct {
	uowFactory UnitOfWorkFactory
}

// NewSettlementService creates the settlement engine
func NewSettlementService(uowFactory UnitOfWorkFactory) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
	}
}

// Settle processes every pending bet for the result's period in one
// transaction. The pending-status guard on each bet write plus the row
// locks taken when reading the batch make re-invocation a no-op, so a
// duplicate settlement pass can never double-credit.
func (s *settlementService) Settle(ctx context.Context, result *models.Result) ([]*SettledBet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	bets, err := uow.BetRepository().GetPendingByPeriod(ctx, result.Mode, result.PeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending bets: %w", err)
	}
	if len(bets) == 0 {
		return nil, nil
	}

	var settled []*SettledBet
	var totalWagered, totalPaid float64

	for _, bet := range bets {
		won, multiplier := bet.Evaluate(result)

		status := models.BetStatusLoss
		var payout float64
		if won {
			status = models.BetStatusWin
			payout = bet.Amount * multiplier
		}

		updated, err := uow.BetRepository().Settle(ctx, bet.ID, status, payout, multiplier)
		if err != nil {
			return nil, fmt.Errorf("failed to settle bet %d: %w", bet.ID, err)
		}
		if !updated {
			// Should be unreachable given the batch row locks; treat as
			// a race bug, skip the bet rather than abort the period.
			log.WithFields(log.Fields{
				"betId":    bet.ID,
				"periodId": result.PeriodID,
			}).Error("Bet already terminal during settlement pass, skipping")
			continue
		}

		totalWagered += bet.Amount

		if won {
			user, err := uow.UserRepository().GetByID(ctx, bet.UserID)
			if err != nil {
				return nil, fmt.Errorf("failed to load user %d: %w", bet.UserID, err)
			}
			if user == nil {
				return nil, fmt.Errorf("bet %d references missing user %d", bet.ID, bet.UserID)
			}

			if err := uow.UserRepository().CreditWinnings(ctx, bet.UserID, payout); err != nil {
				return nil, fmt.Errorf("failed to credit winnings: %w", err)
			}
			totalPaid += payout

			balanceBefore := user.TotalBalance()
			history := &models.BalanceHistory{
				UserID:          bet.UserID,
				BalanceBefore:   balanceBefore,
				BalanceAfter:    balanceBefore + payout,
				ChangeAmount:    payout,
				TransactionType: models.TransactionTypeBetWin,
				Metadata: map[string]any{
					"period_id":  result.PeriodID,
					"mode":       result.Mode,
					"multiplier": multiplier,
				},
				RelatedBetID: &bet.ID,
			}
			if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
				return nil, fmt.Errorf("failed to record balance change: %w", err)
			}

			uow.EventBus().Publish(events.BalanceChangeEvent{
				UserID:          bet.UserID,
				OldBalance:      balanceBefore,
				NewBalance:      balanceBefore + payout,
				TransactionType: models.TransactionTypeBetWin,
				ChangeAmount:    payout,
			})
		}

		uow.EventBus().Publish(events.BetSettledEvent{
			UserID:   bet.UserID,
			BetID:    bet.ID,
			Mode:     bet.Mode,
			PeriodID: bet.PeriodID,
			Status:   status,
			Payout:   payout,
		})

		settled = append(settled, &SettledBet{
			BetID:  bet.ID,
			UserID: bet.UserID,
			Status: status,
			Payout: payout,
		})
	}

	// The running house total; a generous period may push it negative.
	if err := uow.ConfigRepository().AddPlatformProfit(ctx, totalWagered-totalPaid); err != nil {
		return nil, fmt.Errorf("failed to update platform profit: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"mode":     result.Mode,
		"periodId": result.PeriodID,
		"number":   result.Number,
		"bets":     len(settled),
		"wagered":  totalWagered,
		"paid":     totalPaid,
	}).Info("Period settled")

	return settled, nil
}
