package repository

import (
	"context"
	"errors"
	"testing"

	"wingo/models"
	"wingo/repository/testutil"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceHistoryRepository_Record(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "Asha", "9200000001", 1000)
	require.NoError(t, err)

	entry := testutil.CreateTestBalanceHistory(user.ID, models.TransactionTypeBetPlace)
	require.NoError(t, repo.Record(ctx, entry))
	assert.NotZero(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	entries, err := repo.GetByUser(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.TransactionTypeBetPlace, entries[0].TransactionType)
	assert.Equal(t, -100.0, entries[0].ChangeAmount)
	assert.Equal(t, true, entries[0].Metadata["test"])
}

func TestBalanceHistoryRepository_RollbackDiscardsEntries(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "Ravi", "9200000002", 1000)
	require.NoError(t, err)

	failure := errors.New("boom")
	err = testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
		txRepo := newBalanceHistoryRepositoryWithTx(tx)
		if err := txRepo.Record(ctx, testutil.CreateTestBalanceHistory(user.ID, models.TransactionTypeBetWin)); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	entries, err := repo.GetByUser(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
