package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colafan/alfred/internal/model"
)

func TestSaveTransaction(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	txn := testTransaction(1, 10, 42.50, model.TransactionKindExpense, date)
	txn.Description = "lunch"

	saved, err := store.SaveTransaction(ctx, txn)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	_, err = store.SaveTransaction(ctx, &model.Transaction{OwnerID: 1, CategoryID: 10, Kind: "mystery", Date: date, IsActive: true})
	assert.ErrorIs(t, err, ErrInvalidTransaction)
}

func TestHasActiveTransactions(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	has, err := store.HasActiveTransactions(ctx, 10)
	require.NoError(t, err)
	assert.False(t, has)

	// A soft-deleted transaction does not count as a reference
	deleted := testTransaction(1, 10, 5, model.TransactionKindExpense, date)
	deleted.IsActive = false
	_, err = store.SaveTransaction(ctx, deleted)
	require.NoError(t, err)

	has, err = store.HasActiveTransactions(ctx, 10)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = store.SaveTransaction(ctx, testTransaction(1, 10, 5, model.TransactionKindExpense, date))
	require.NoError(t, err)

	has, err = store.HasActiveTransactions(ctx, 10)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestGetTransactionsByCategory(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }

	_, err := store.SaveTransaction(ctx, testTransaction(1, 10, 10, model.TransactionKindExpense, day(1)))
	require.NoError(t, err)
	_, err = store.SaveTransaction(ctx, testTransaction(1, 10, 20, model.TransactionKindExpense, day(5)))
	require.NoError(t, err)

	inactive := testTransaction(1, 10, 99, model.TransactionKindExpense, day(3))
	inactive.IsActive = false
	_, err = store.SaveTransaction(ctx, inactive)
	require.NoError(t, err)

	_, err = store.SaveTransaction(ctx, testTransaction(1, 11, 30, model.TransactionKindExpense, day(2)))
	require.NoError(t, err)

	txns, err := store.GetTransactionsByCategory(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	// Newest first
	assert.Equal(t, 20.0, txns[0].Amount)
	assert.Equal(t, 10.0, txns[1].Amount)
}

func TestGetTransactionsByCategoryAndDateRange(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }

	for d, amount := range map[int]float64{1: 10, 10: 20, 20: 30, 31: 40} {
		_, err := store.SaveTransaction(ctx, testTransaction(1, 10, amount, model.TransactionKindExpense, day(d)))
		require.NoError(t, err)
	}

	t.Run("boundaries are inclusive", func(t *testing.T) {
		txns, err := store.GetTransactionsByCategoryAndDateRange(ctx, 1, 10, day(10), day(20))
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.Equal(t, 30.0, txns[0].Amount)
		assert.Equal(t, 20.0, txns[1].Amount)
	})

	t.Run("full range returns everything", func(t *testing.T) {
		txns, err := store.GetTransactionsByCategoryAndDateRange(ctx, 1, 10, day(1), day(31))
		require.NoError(t, err)
		assert.Len(t, txns, 4)
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		_, err := store.GetTransactionsByCategoryAndDateRange(ctx, 1, 10, day(20), day(10))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
}
