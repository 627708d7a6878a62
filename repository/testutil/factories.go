package testutil

import (
	"time"

	"wingo/models"
)

// CreateTestBet creates a pending test bet with default values
func CreateTestBet(userID int64, mode models.GameMode, periodID string) *models.Bet {
	return &models.Bet{
		UserID:   userID,
		Amount:   100,
		Type:     models.BetTypeColor,
		Value:    string(models.ColorRed),
		Mode:     mode,
		PeriodID: periodID,
		Status:   models.BetStatusPending,
	}
}

// CreateTestBetWithTarget creates a pending test bet targeting a specific value
func CreateTestBetWithTarget(userID int64, mode models.GameMode, periodID string, betType models.BetType, value string, amount float64) *models.Bet {
	bet := CreateTestBet(userID, mode, periodID)
	bet.Type = betType
	bet.Value = value
	bet.Amount = amount
	return bet
}

// CreateTestResult creates a result for a period with the given digit
func CreateTestResult(mode models.GameMode, periodID string, number int) *models.Result {
	return models.NewResult(mode, periodID, number, time.Now().UTC())
}

// CreateTestBalanceHistory creates a balance history entry with default values
func CreateTestBalanceHistory(userID int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   1000,
		BalanceAfter:    900,
		ChangeAmount:    -100,
		TransactionType: transactionType,
		Metadata: map[string]any{
			"test": true,
		},
	}
}
