package service

import (
	"context"
	"testing"
	"time"

	"wingo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSyncTest() (SyncService, *MockUnitOfWork, *MockUserRepository, *MockBetRepository, *MockResultRepository) {
	mockUserRepo := new(MockUserRepository)
	mockBetRepo := new(MockBetRepository)
	mockResultRepo := new(MockResultRepository)
	mockConfigRepo := new(MockConfigRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)

	mockUoW := new(MockUnitOfWork)
	mockUoW.SetRepositories(mockUserRepo, mockBetRepo, mockResultRepo, mockConfigRepo, mockHistoryRepo)

	mockFactory := new(MockUnitOfWorkFactory)
	mockFactory.On("Create").Return(mockUoW)

	return NewSyncService(mockFactory), mockUoW, mockUserRepo, mockBetRepo, mockResultRepo
}

func TestSnapshot_AssemblesConsistentView(t *testing.T) {
	svc, mockUoW, mockUserRepo, mockBetRepo, mockResultRepo := setupSyncTest()
	ctx := context.Background()

	user := &models.User{ID: 10, DepositBalance: 100, WithdrawBalance: 40}
	results := []*models.Result{
		models.NewResult(models.Mode1m, "1m-101", 5, time.Now().UTC()),
		models.NewResult(models.Mode1m, "1m-100", 2, time.Now().UTC()),
	}
	bets := []*models.Bet{
		{ID: 1, UserID: 10, Status: models.BetStatusWin, PeriodID: "1m-100"},
		{ID: 2, UserID: 10, Status: models.BetStatusPending, PeriodID: "1m-102"},
	}
	pending := []*models.Bet{bets[1]}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockResultRepo.On("GetRecent", ctx, 20).Return(results, nil)
	mockUserRepo.On("GetByID", ctx, int64(10)).Return(user, nil)
	mockBetRepo.On("GetByUser", ctx, int64(10), 50).Return(bets, nil)
	mockBetRepo.On("GetPendingByUser", ctx, int64(10)).Return(pending, nil)

	snap, err := svc.Snapshot(ctx, 10, 20, 50)
	require.NoError(t, err)

	assert.Equal(t, user, snap.User)
	assert.Len(t, snap.Results, 2)
	assert.Len(t, snap.Bets, 2)
	assert.Len(t, snap.PendingBets, 1)

	// Read-only pass; the transaction is always rolled back
	mockUoW.AssertNotCalled(t, "Commit")
	mockUoW.AssertCalled(t, "Rollback")
}

func TestSnapshot_UnknownUser(t *testing.T) {
	svc, mockUoW, mockUserRepo, _, mockResultRepo := setupSyncTest()
	ctx := context.Background()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockResultRepo.On("GetRecent", ctx, 20).Return([]*models.Result{}, nil)
	mockUserRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

	snap, err := svc.Snapshot(ctx, 99, 20, 50)
	require.Error(t, err)
	assert.Nil(t, snap)
}

func TestRecentResults_SingleMode(t *testing.T) {
	svc, mockUoW, _, _, mockResultRepo := setupSyncTest()
	ctx := context.Background()

	results := []*models.Result{
		models.NewResult(models.Mode3m, "3m-55", 9, time.Now().UTC()),
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockResultRepo.On("GetRecentByMode", ctx, models.Mode3m, 10).Return(results, nil)

	got, err := svc.RecentResults(ctx, models.Mode3m, 10)
	require.NoError(t, err)
	assert.Equal(t, results, got)
	mockUoW.AssertNotCalled(t, "Commit")
}
