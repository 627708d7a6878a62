package repository

import (
	"context"
	"testing"
	"time"

	"wingo/models"
	"wingo/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultRepository_CreateOnce(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewResultRepository(testDB.DB)
	ctx := context.Background()

	t.Run("first write creates", func(t *testing.T) {
		result := testutil.CreateTestResult(models.Mode1m, "1m-1000", 5)

		stored, created, err := repo.CreateOnce(ctx, result)
		require.NoError(t, err)
		assert.True(t, created)
		require.NotNil(t, stored)

		assert.Equal(t, "1m-1000", stored.PeriodID)
		assert.Equal(t, 5, stored.Number)
		assert.ElementsMatch(t, []models.BetColor{models.ColorGreen, models.ColorViolet}, stored.Colors)
		assert.Equal(t, models.SizeBig, stored.Size)
	})

	t.Run("second write converges on the stored row", func(t *testing.T) {
		duplicate := testutil.CreateTestResult(models.Mode1m, "1m-1000", 8)

		stored, created, err := repo.CreateOnce(ctx, duplicate)
		require.NoError(t, err)
		assert.False(t, created)
		require.NotNil(t, stored)

		// The first outcome stands; the losing write is discarded
		assert.Equal(t, 5, stored.Number)
	})

	t.Run("same index in another mode is a distinct period", func(t *testing.T) {
		other := testutil.CreateTestResult(models.Mode3m, "3m-1000", 2)

		stored, created, err := repo.CreateOnce(ctx, other)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 2, stored.Number)
	})
}

func TestResultRepository_GetByPeriod(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewResultRepository(testDB.DB)
	ctx := context.Background()

	t.Run("unresolved period returns nil", func(t *testing.T) {
		result, err := repo.GetByPeriod(ctx, models.Mode1m, "1m-404")
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("round trips colors and size", func(t *testing.T) {
		// 0 maps to RED and VIOLET, SMALL
		_, _, err := repo.CreateOnce(ctx, testutil.CreateTestResult(models.Mode30s, "30s-7", 0))
		require.NoError(t, err)

		result, err := repo.GetByPeriod(ctx, models.Mode30s, "30s-7")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.ElementsMatch(t, []models.BetColor{models.ColorRed, models.ColorViolet}, result.Colors)
		assert.Equal(t, models.SizeSmall, result.Size)
	})
}

func TestResultRepository_GetRecentByMode(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewResultRepository(testDB.DB)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		result := models.NewResult(models.Mode1m, "1m-"+string(rune('a'+i)), i, base.Add(time.Duration(i)*time.Minute))
		_, _, err := repo.CreateOnce(ctx, result)
		require.NoError(t, err)
	}
	_, _, err := repo.CreateOnce(ctx, models.NewResult(models.Mode3m, "3m-x", 9, base.Add(time.Hour)))
	require.NoError(t, err)

	results, err := repo.GetRecentByMode(ctx, models.Mode1m, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Newest first, single mode only
	assert.Equal(t, 4, results[0].Number)
	assert.Equal(t, 3, results[1].Number)
	assert.Equal(t, 2, results[2].Number)

	all, err := repo.GetRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, models.Mode3m, all[0].Mode)
}
