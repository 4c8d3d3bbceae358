package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/colafan/alfred/internal/catalog"
	"github.com/colafan/alfred/internal/model"
	"github.com/colafan/alfred/internal/storage"
)

// testCatalog returns a small fixed catalog: two expense parents with
// subcategories and one income parent.
func testCatalog() *catalog.Static {
	return &catalog.Static{
		Ver: "test-1",
		Expense: []catalog.Entry{
			{
				ConfigID:  1,
				Name:      "Food",
				Icon:      "fork",
				Color:     "#FF8800",
				SortOrder: 1,
				Subcategories: []catalog.Subentry{
					{ConfigID: 101, Name: "Dining Out", Icon: "plate", Color: "#FF8800"},
					{ConfigID: 102, Name: "Groceries", Icon: "cart", Color: "#FF8800"},
				},
			},
			{
				ConfigID:  2,
				Name:      "Transport",
				Icon:      "bus",
				Color:     "#0088FF",
				SortOrder: 2,
				Subcategories: []catalog.Subentry{
					{ConfigID: 201, Name: "Fuel", Icon: "pump", Color: "#0088FF"},
				},
			},
		},
		Income: []catalog.Entry{
			{ConfigID: 51, Name: "Salary", Icon: "coins", Color: "#00AA44", SortOrder: 1},
		},
	}
}

func createTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return store
}

func createTestEngine(t *testing.T) (*Engine, *storage.SQLiteStorage) {
	t.Helper()
	store := createTestStore(t)
	return New(store, testCatalog()), store
}

// categoryByConfig finds the row carrying the given config id, failing the
// test when it is absent.
func categoryByConfig(t *testing.T, categories []model.Category, configID int64) *model.Category {
	t.Helper()
	for i := range categories {
		if categories[i].ConfigID != nil && *categories[i].ConfigID == configID {
			return &categories[i]
		}
	}
	t.Fatalf("no category with config id %d", configID)
	return nil
}

func expenseOn(ownerID, categoryID int64, amount float64, date time.Time) *model.Transaction {
	return &model.Transaction{
		OwnerID:    ownerID,
		CategoryID: categoryID,
		Amount:     amount,
		Kind:       model.TransactionKindExpense,
		Date:       date,
		IsActive:   true,
	}
}
