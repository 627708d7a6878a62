package api

import (
	"time"

	"wingo/clock"
	"wingo/models"
	"wingo/service"
)

// PeriodResponse describes the currently open period of one mode
type PeriodResponse struct {
	Mode             models.GameMode `json:"mode"`
	PeriodID         string          `json:"periodId"`
	StartsAt         time.Time       `json:"startsAt"`
	ClosesAt         time.Time       `json:"closesAt"`
	SecondsRemaining int             `json:"secondsRemaining"`
}

// ResultResponse is one recorded period outcome
type ResultResponse struct {
	PeriodID  string            `json:"periodId"`
	Mode      models.GameMode   `json:"mode"`
	Number    int               `json:"number"`
	Colors    []models.BetColor `json:"colors"`
	Size      models.BetSize    `json:"size"`
	Timestamp time.Time         `json:"timestamp"`
}

// BetResponse is one wager with its settlement state
type BetResponse struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"userId"`
	Amount     float64          `json:"amount"`
	Type       models.BetType   `json:"type"`
	Value      string           `json:"value"`
	Mode       models.GameMode  `json:"mode"`
	PeriodID   string           `json:"periodId"`
	Status     models.BetStatus `json:"status"`
	Payout     float64          `json:"payout"`
	Multiplier float64          `json:"multiplier"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// UserResponse is the balance view of a player account
type UserResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	DepositBalance  float64 `json:"depositBalance"`
	WithdrawBalance float64 `json:"withdrawBalance"`
	TotalBalance    float64 `json:"totalBalance"`
}

// SnapshotResponse is a full observer state re-fetch
type SnapshotResponse struct {
	User        UserResponse     `json:"user"`
	Results     []ResultResponse `json:"results"`
	Bets        []BetResponse    `json:"bets"`
	PendingBets []BetResponse    `json:"pendingBets"`
}

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

// PlaceBetRequest is the body of POST /bets
type PlaceBetRequest struct {
	UserID   int64           `json:"userId"`
	Mode     models.GameMode `json:"mode"`
	PeriodID string          `json:"periodId,omitempty"`
	Type     models.BetType  `json:"type"`
	Value    string          `json:"value"`
	Amount   float64         `json:"amount"`
}

// OverrideRequest is the body of POST /admin/override
type OverrideRequest struct {
	Mode   models.GameMode `json:"mode"`
	Number int             `json:"number"`
}

// EmergencyStopRequest is the body of POST /admin/emergency-stop
type EmergencyStopRequest struct {
	Stopped bool `json:"stopped"`
}

func toPeriodResponse(p clock.PeriodInfo) PeriodResponse {
	return PeriodResponse{
		Mode:             p.Mode,
		PeriodID:         p.PeriodID,
		StartsAt:         p.StartsAt,
		ClosesAt:         p.ClosesAt,
		SecondsRemaining: p.SecondsRemaining,
	}
}

func toResultResponse(r *models.Result) ResultResponse {
	return ResultResponse{
		PeriodID:  r.PeriodID,
		Mode:      r.Mode,
		Number:    r.Number,
		Colors:    r.Colors,
		Size:      r.Size,
		Timestamp: r.Timestamp,
	}
}

func toResultResponses(results []*models.Result) []ResultResponse {
	out := make([]ResultResponse, len(results))
	for i, r := range results {
		out[i] = toResultResponse(r)
	}
	return out
}

func toBetResponse(b *models.Bet) BetResponse {
	return BetResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		Amount:     b.Amount,
		Type:       b.Type,
		Value:      b.Value,
		Mode:       b.Mode,
		PeriodID:   b.PeriodID,
		Status:     b.Status,
		Payout:     b.Payout,
		Multiplier: b.Multiplier,
		CreatedAt:  b.CreatedAt,
	}
}

func toBetResponses(bets []*models.Bet) []BetResponse {
	out := make([]BetResponse, len(bets))
	for i, b := range bets {
		out[i] = toBetResponse(b)
	}
	return out
}

func toSnapshotResponse(s *service.StateSnapshot) SnapshotResponse {
	return SnapshotResponse{
		User: UserResponse{
			ID:              s.User.ID,
			Name:            s.User.Name,
			DepositBalance:  s.User.DepositBalance,
			WithdrawBalance: s.User.WithdrawBalance,
			TotalBalance:    s.User.TotalBalance(),
		},
		Results:     toResultResponses(s.Results),
		Bets:        toBetResponses(s.Bets),
		PendingBets: toBetResponses(s.PendingBets),
	}
}
