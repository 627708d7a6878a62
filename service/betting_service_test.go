package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"wingo/clock"
	"wingo/events"
	"wingo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupBettingTest(now time.Time) (*bettingService, *MockUnitOfWork, *MockUserRepository, *MockBetRepository, *MockBalanceHistoryRepository) {
	mockUserRepo := new(MockUserRepository)
	mockBetRepo := new(MockBetRepository)
	mockResultRepo := new(MockResultRepository)
	mockConfigRepo := new(MockConfigRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)

	mockUoW := new(MockUnitOfWork)
	mockUoW.SetRepositories(mockUserRepo, mockBetRepo, mockResultRepo, mockConfigRepo, mockHistoryRepo)

	mockFactory := new(MockUnitOfWorkFactory)
	mockFactory.On("Create").Return(mockUoW)

	svc := &bettingService{
		uowFactory: mockFactory,
		now:        func() time.Time { return now },
	}
	return svc, mockUoW, mockUserRepo, mockBetRepo, mockHistoryRepo
}

func TestPlaceBet_Success(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 10, 0, time.UTC)
	svc, mockUoW, mockUserRepo, mockBetRepo, mockHistoryRepo := setupBettingTest(now)
	ctx := context.Background()

	current := clock.Current(models.Mode1m, now)
	user := &models.User{ID: 10, DepositBalance: 80, WithdrawBalance: 20}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(10)).Return(user, nil)
	mockUserRepo.On("DeductForBet", ctx, int64(10), 50.0).Return(nil)
	mockBetRepo.On("Create", ctx, mock.MatchedBy(func(b *models.Bet) bool {
		return b.UserID == 10 && b.Amount == 50 && b.Type == models.BetTypeColor &&
			b.Value == "GREEN" && b.PeriodID == current.PeriodID
	})).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.UserID == 10 && h.ChangeAmount == -50 && h.BalanceBefore == 100 && h.BalanceAfter == 50 &&
			h.TransactionType == models.TransactionTypeBetPlace
	})).Return(nil)

	bet, err := svc.PlaceBet(ctx, 10, models.Mode1m, "", models.BetTypeColor, "GREEN", 50)
	require.NoError(t, err)
	assert.Equal(t, current.PeriodID, bet.PeriodID)

	assert.Equal(t, []events.EventType{
		events.EventTypeBetPlaced,
		events.EventTypeBalanceChange,
	}, mockUoW.Published().Types())

	mockUserRepo.AssertExpectations(t)
	mockBetRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestPlaceBet_RejectsClosedPeriod(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 10, 0, time.UTC)
	svc, mockUoW, _, _, _ := setupBettingTest(now)

	stale := clock.Previous(models.Mode1m, now)

	bet, err := svc.PlaceBet(context.Background(), 10, models.Mode1m, stale.PeriodID, models.BetTypeColor, "RED", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed for betting")
	assert.Nil(t, bet)
	mockUoW.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestPlaceBet_AcceptsExplicitCurrentPeriod(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 10, 0, time.UTC)
	svc, mockUoW, mockUserRepo, mockBetRepo, mockHistoryRepo := setupBettingTest(now)
	ctx := context.Background()

	current := clock.Current(models.Mode30s, now)
	user := &models.User{ID: 10, DepositBalance: 100}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByID", ctx, int64(10)).Return(user, nil)
	mockUserRepo.On("DeductForBet", ctx, int64(10), 10.0).Return(nil)
	mockBetRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)

	bet, err := svc.PlaceBet(ctx, 10, models.Mode30s, current.PeriodID, models.BetTypeNumber, "8", 10)
	require.NoError(t, err)
	assert.Equal(t, current.PeriodID, bet.PeriodID)
}

func TestPlaceBet_Validation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 10, 0, time.UTC)

	tests := []struct {
		name    string
		mode    models.GameMode
		betType models.BetType
		value   string
		amount  float64
	}{
		{"zero amount", models.Mode1m, models.BetTypeColor, "RED", 0},
		{"negative amount", models.Mode1m, models.BetTypeColor, "RED", -5},
		{"aviator mode", models.ModeAviator, models.BetTypeColor, "RED", 10},
		{"number out of range", models.Mode1m, models.BetTypeNumber, "10", 10},
		{"bad color", models.Mode1m, models.BetTypeColor, "BLUE", 10},
		{"bad size", models.Mode1m, models.BetTypeBigSmall, "MEDIUM", 10},
		{"unknown type", models.Mode1m, models.BetType("PARITY"), "ODD", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockUoW, _, _, _ := setupBettingTest(now)
			bet, err := svc.PlaceBet(context.Background(), 10, tt.mode, "", tt.betType, tt.value, tt.amount)
			require.Error(t, err)
			assert.Nil(t, bet)
			mockUoW.AssertNotCalled(t, "Begin", mock.Anything)
		})
	}
}

func TestPlaceBet_BlockedUser(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 10, 0, time.UTC)
	svc, mockUoW, mockUserRepo, mockBetRepo, _ := setupBettingTest(now)
	ctx := context.Background()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByID", ctx, int64(10)).Return(&models.User{ID: 10, IsBlocked: true, DepositBalance: 500}, nil)

	bet, err := svc.PlaceBet(ctx, 10, models.Mode1m, "", models.BetTypeColor, "RED", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
	assert.Nil(t, bet)
	mockBetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestPlaceBet_InsufficientBalance(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 10, 0, time.UTC)
	svc, mockUoW, mockUserRepo, mockBetRepo, _ := setupBettingTest(now)
	ctx := context.Background()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByID", ctx, int64(10)).Return(&models.User{ID: 10, DepositBalance: 5}, nil)
	mockUserRepo.On("DeductForBet", ctx, int64(10), 50.0).Return(errors.New("insufficient balance"))

	bet, err := svc.PlaceBet(ctx, 10, models.Mode1m, "", models.BetTypeColor, "RED", 50)
	require.Error(t, err)
	assert.Nil(t, bet)
	mockBetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
	assert.Empty(t, mockUoW.Published().Events)
}
