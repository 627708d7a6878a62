package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeBetPlace TransactionType = "bet_place"
	TransactionTypeBetWin   TransactionType = "bet_win"
	TransactionTypeRecharge TransactionType = "recharge"
	TransactionTypeWithdraw TransactionType = "withdraw"
	TransactionTypeReferral TransactionType = "referral"
)

// BalanceHistory is an immutable ledger row recorded for every balance
// mutation; the sum of change amounts per user reconciles against
// (payouts received - amounts wagered) plus external wallet movements.
type BalanceHistory struct {
	ID              int64           `db:"id"`
	UserID          int64           `db:"user_id"`
	BalanceBefore   float64         `db:"balance_before"`
	BalanceAfter    float64         `db:"balance_after"`
	ChangeAmount    float64         `db:"change_amount"`
	TransactionType TransactionType `db:"transaction_type"`
	Metadata        map[string]any  `db:"metadata"`
	RelatedBetID    *int64          `db:"related_bet_id"`
	CreatedAt       time.Time       `db:"created_at"`
}
