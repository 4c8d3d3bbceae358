// Package service defines the interfaces for the persistence layer consumed
// by the engine.
package service

import (
	"context"
	"time"

	"github.com/colafan/alfred/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Category operations
	ListCategories(ctx context.Context, ownerID int64) ([]model.Category, error)
	ListCategoriesByKind(ctx context.Context, ownerID int64, kind model.CategoryKind) ([]model.Category, error)
	GetAllCategories(ctx context.Context, ownerID int64) ([]model.Category, error)
	GetSystemCategories(ctx context.Context, ownerID int64) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*model.Category, error)
	GetCategoryByConfigID(ctx context.Context, ownerID, configID int64) (*model.Category, error)
	SaveCategory(ctx context.Context, category *model.Category) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ReactivateSystemCategories(ctx context.Context, ownerID int64) (int64, error)

	// Budget operations
	ListBudgets(ctx context.Context, ownerID int64) ([]model.Budget, error)
	GetBudgetByID(ctx context.Context, id int64) (*model.Budget, error)
	GetActiveBudgetByCategory(ctx context.Context, ownerID, categoryID int64) (*model.Budget, error)
	GetBudgetsByCategory(ctx context.Context, ownerID, categoryID int64) ([]model.Budget, error)
	SaveBudget(ctx context.Context, budget *model.Budget) (*model.Budget, error)
	DeleteBudget(ctx context.Context, id int64) error

	// Transaction operations (read side; ingestion is an external concern)
	SaveTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	HasActiveTransactions(ctx context.Context, categoryID int64) (bool, error)
	GetTransactionsByCategory(ctx context.Context, ownerID, categoryID int64) ([]model.Transaction, error)
	GetTransactionsByCategoryAndDateRange(ctx context.Context, ownerID, categoryID int64, start, end time.Time) ([]model.Transaction, error)

	// System config operations
	GetConfigValue(ctx context.Context, key string) (string, error)
	SetConfigValue(ctx context.Context, key, value string) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}
