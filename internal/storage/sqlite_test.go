package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colafan/alfred/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func testCategory(ownerID int64, name string) *model.Category {
	return &model.Category{
		OwnerID:  ownerID,
		Name:     name,
		Kind:     model.CategoryKindExpense,
		IsActive: true,
	}
}

func testSystemCategory(ownerID, configID int64, name string) *model.Category {
	return &model.Category{
		OwnerID:  ownerID,
		Name:     name,
		Kind:     model.CategoryKindExpense,
		IsSystem: true,
		ConfigID: &configID,
		IsActive: true,
	}
}

func testTransaction(ownerID, categoryID int64, amount float64, kind model.TransactionKind, date time.Time) *model.Transaction {
	return &model.Transaction{
		OwnerID:    ownerID,
		CategoryID: categoryID,
		Amount:     amount,
		Kind:       kind,
		Date:       date,
		IsActive:   true,
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// A second migrate on an up-to-date database is a no-op
	require.NoError(t, store.Migrate(context.Background()))
}

func TestTransactionCommitAndRollback(t *testing.T) {
	ctx := context.Background()

	t.Run("commit persists writes", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)

		_, err = tx.SaveCategory(ctx, testCategory(1, "Pets"))
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		categories, err := store.ListCategories(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, categories, 1)
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)

		_, err = tx.SaveCategory(ctx, testCategory(1, "Pets"))
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		categories, err := store.ListCategories(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, categories)
	})

	t.Run("nested transactions are rejected", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()

		_, err = tx.BeginTx(ctx)
		assert.Error(t, err)
	})
}
