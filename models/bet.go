package models

import (
	"fmt"
	"strconv"
	"time"
)

// BetType represents what aspect of the outcome a bet targets
type BetType string

const (
	BetTypeColor    BetType = "COLOR"
	BetTypeNumber   BetType = "NUMBER"
	BetTypeBigSmall BetType = "BIG_SMALL"
)

// BetStatus represents the lifecycle state of a bet. A bet transitions
// exactly once, from pending to a terminal state, when its period settles.
type BetStatus string

const (
	BetStatusPending BetStatus = "PENDING"
	BetStatusWin     BetStatus = "WIN"
	BetStatusLoss    BetStatus = "LOSS"
)

// Payout multipliers per bet type. A bet targeting VIOLET pays the violet
// multiplier even when the digit also belongs to red or green.
const (
	MultiplierNumber   = 9.0
	MultiplierColor    = 2.0
	MultiplierViolet   = 4.5
	MultiplierBigSmall = 2.0
)

// Bet is a wager placed on a period before it closes
type Bet struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	Amount     float64   `db:"amount"`
	Type       BetType   `db:"type"`
	Value      string    `db:"value"`
	Mode       GameMode  `db:"mode"`
	PeriodID   string    `db:"period_id"`
	Status     BetStatus `db:"status"`
	Payout     float64   `db:"payout"`
	Multiplier float64   `db:"multiplier"`
	CreatedAt  time.Time `db:"created_at"`
}

// IsTerminal reports whether the bet has been settled
func (b *Bet) IsTerminal() bool {
	return b.Status == BetStatusWin || b.Status == BetStatusLoss
}

// ValidateValue checks that the bet value is consistent with its type
func (b *Bet) ValidateValue() error {
	switch b.Type {
	case BetTypeNumber:
		n, err := strconv.Atoi(b.Value)
		if err != nil || n < 0 || n > 9 {
			return fmt.Errorf("number bet value must be a digit 0-9, got %q", b.Value)
		}
	case BetTypeColor:
		switch BetColor(b.Value) {
		case ColorRed, ColorGreen, ColorViolet:
		default:
			return fmt.Errorf("color bet value must be RED, GREEN or VIOLET, got %q", b.Value)
		}
	case BetTypeBigSmall:
		switch BetSize(b.Value) {
		case SizeBig, SizeSmall:
		default:
			return fmt.Errorf("big/small bet value must be BIG or SMALL, got %q", b.Value)
		}
	default:
		return fmt.Errorf("unknown bet type %q", b.Type)
	}
	return nil
}

// Evaluate determines whether the bet wins against a result and which
// multiplier applies. The bet and result must target the same period.
func (b *Bet) Evaluate(r *Result) (won bool, multiplier float64) {
	switch b.Type {
	case BetTypeNumber:
		n, err := strconv.Atoi(b.Value)
		return err == nil && n == r.Number, MultiplierNumber
	case BetTypeColor:
		color := BetColor(b.Value)
		multiplier = MultiplierColor
		if color == ColorViolet {
			multiplier = MultiplierViolet
		}
		return r.HasColor(color), multiplier
	case BetTypeBigSmall:
		return BetSize(b.Value) == r.Size, MultiplierBigSmall
	}
	return false, 0
}
