package models

import (
	"time"
)

// KYCStatus represents the verification state of a user's account
type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "PENDING"
	KYCStatusApproved KYCStatus = "APPROVED"
	KYCStatusRejected KYCStatus = "REJECTED"
)

// User represents a player account. The balance is split into a deposit
// pool (topped up externally) and a withdraw pool (winnings); settlement
// only ever credits the withdraw pool.
type User struct {
	ID               int64     `db:"id"`
	Name             string    `db:"name"`
	Mobile           string    `db:"mobile"`
	DepositBalance   float64   `db:"deposit_balance"`
	WithdrawBalance  float64   `db:"withdraw_balance"`
	ReferralEarnings float64   `db:"referral_earnings"`
	ReferralCode     string    `db:"referral_code"`
	ReferredBy       *int64    `db:"referred_by"`
	IsBlocked        bool      `db:"is_blocked"`
	BlockReason      *string   `db:"block_reason"`
	HasRecharged     bool      `db:"has_recharged"`
	KYCStatus        KYCStatus `db:"kyc_status"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// TotalBalance is the amount available for betting
func (u *User) TotalBalance() float64 {
	return u.DepositBalance + u.WithdrawBalance
}
