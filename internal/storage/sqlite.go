package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/colafan/alfred/internal/model"
	"github.com/colafan/alfred/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// executor abstracts *sql.DB and *sql.Tx so every query helper can run both
// standalone and inside a transaction.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStorage implements the service.Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{tx: tx}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx *sql.Tx
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}

// Category operations.

func (s *SQLiteStorage) ListCategories(ctx context.Context, ownerID int64) ([]model.Category, error) {
	return listCategories(ctx, s.db, ownerID)
}

func (t *sqliteTransaction) ListCategories(ctx context.Context, ownerID int64) ([]model.Category, error) {
	return listCategories(ctx, t.tx, ownerID)
}

func (s *SQLiteStorage) ListCategoriesByKind(ctx context.Context, ownerID int64, kind model.CategoryKind) ([]model.Category, error) {
	return listCategoriesByKind(ctx, s.db, ownerID, kind)
}

func (t *sqliteTransaction) ListCategoriesByKind(ctx context.Context, ownerID int64, kind model.CategoryKind) ([]model.Category, error) {
	return listCategoriesByKind(ctx, t.tx, ownerID, kind)
}

func (s *SQLiteStorage) GetAllCategories(ctx context.Context, ownerID int64) ([]model.Category, error) {
	return getAllCategories(ctx, s.db, ownerID)
}

func (t *sqliteTransaction) GetAllCategories(ctx context.Context, ownerID int64) ([]model.Category, error) {
	return getAllCategories(ctx, t.tx, ownerID)
}

func (s *SQLiteStorage) GetSystemCategories(ctx context.Context, ownerID int64) ([]model.Category, error) {
	return getSystemCategories(ctx, s.db, ownerID)
}

func (t *sqliteTransaction) GetSystemCategories(ctx context.Context, ownerID int64) ([]model.Category, error) {
	return getSystemCategories(ctx, t.tx, ownerID)
}

func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	return getCategoryByID(ctx, s.db, id)
}

func (t *sqliteTransaction) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	return getCategoryByID(ctx, t.tx, id)
}

func (s *SQLiteStorage) GetCategoryByConfigID(ctx context.Context, ownerID, configID int64) (*model.Category, error) {
	return getCategoryByConfigID(ctx, s.db, ownerID, configID)
}

func (t *sqliteTransaction) GetCategoryByConfigID(ctx context.Context, ownerID, configID int64) (*model.Category, error) {
	return getCategoryByConfigID(ctx, t.tx, ownerID, configID)
}

func (s *SQLiteStorage) SaveCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	return saveCategory(ctx, s.db, category)
}

func (t *sqliteTransaction) SaveCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	return saveCategory(ctx, t.tx, category)
}

func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int64) error {
	return deleteCategory(ctx, s.db, id)
}

func (t *sqliteTransaction) DeleteCategory(ctx context.Context, id int64) error {
	return deleteCategory(ctx, t.tx, id)
}

func (s *SQLiteStorage) ReactivateSystemCategories(ctx context.Context, ownerID int64) (int64, error) {
	return reactivateSystemCategories(ctx, s.db, ownerID)
}

func (t *sqliteTransaction) ReactivateSystemCategories(ctx context.Context, ownerID int64) (int64, error) {
	return reactivateSystemCategories(ctx, t.tx, ownerID)
}

// Budget operations.

func (s *SQLiteStorage) ListBudgets(ctx context.Context, ownerID int64) ([]model.Budget, error) {
	return listBudgets(ctx, s.db, ownerID)
}

func (t *sqliteTransaction) ListBudgets(ctx context.Context, ownerID int64) ([]model.Budget, error) {
	return listBudgets(ctx, t.tx, ownerID)
}

func (s *SQLiteStorage) GetBudgetByID(ctx context.Context, id int64) (*model.Budget, error) {
	return getBudgetByID(ctx, s.db, id)
}

func (t *sqliteTransaction) GetBudgetByID(ctx context.Context, id int64) (*model.Budget, error) {
	return getBudgetByID(ctx, t.tx, id)
}

func (s *SQLiteStorage) GetActiveBudgetByCategory(ctx context.Context, ownerID, categoryID int64) (*model.Budget, error) {
	return getActiveBudgetByCategory(ctx, s.db, ownerID, categoryID)
}

func (t *sqliteTransaction) GetActiveBudgetByCategory(ctx context.Context, ownerID, categoryID int64) (*model.Budget, error) {
	return getActiveBudgetByCategory(ctx, t.tx, ownerID, categoryID)
}

func (s *SQLiteStorage) GetBudgetsByCategory(ctx context.Context, ownerID, categoryID int64) ([]model.Budget, error) {
	return getBudgetsByCategory(ctx, s.db, ownerID, categoryID)
}

func (t *sqliteTransaction) GetBudgetsByCategory(ctx context.Context, ownerID, categoryID int64) ([]model.Budget, error) {
	return getBudgetsByCategory(ctx, t.tx, ownerID, categoryID)
}

func (s *SQLiteStorage) SaveBudget(ctx context.Context, budget *model.Budget) (*model.Budget, error) {
	return saveBudget(ctx, s.db, budget)
}

func (t *sqliteTransaction) SaveBudget(ctx context.Context, budget *model.Budget) (*model.Budget, error) {
	return saveBudget(ctx, t.tx, budget)
}

func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id int64) error {
	return deleteBudget(ctx, s.db, id)
}

func (t *sqliteTransaction) DeleteBudget(ctx context.Context, id int64) error {
	return deleteBudget(ctx, t.tx, id)
}

// Transaction record operations.

func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	return saveTransaction(ctx, s.db, txn)
}

func (t *sqliteTransaction) SaveTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	return saveTransaction(ctx, t.tx, txn)
}

func (s *SQLiteStorage) HasActiveTransactions(ctx context.Context, categoryID int64) (bool, error) {
	return hasActiveTransactions(ctx, s.db, categoryID)
}

func (t *sqliteTransaction) HasActiveTransactions(ctx context.Context, categoryID int64) (bool, error) {
	return hasActiveTransactions(ctx, t.tx, categoryID)
}

func (s *SQLiteStorage) GetTransactionsByCategory(ctx context.Context, ownerID, categoryID int64) ([]model.Transaction, error) {
	return getTransactionsByCategory(ctx, s.db, ownerID, categoryID)
}

func (t *sqliteTransaction) GetTransactionsByCategory(ctx context.Context, ownerID, categoryID int64) ([]model.Transaction, error) {
	return getTransactionsByCategory(ctx, t.tx, ownerID, categoryID)
}

func (s *SQLiteStorage) GetTransactionsByCategoryAndDateRange(ctx context.Context, ownerID, categoryID int64, start, end time.Time) ([]model.Transaction, error) {
	return getTransactionsByCategoryAndDateRange(ctx, s.db, ownerID, categoryID, start, end)
}

func (t *sqliteTransaction) GetTransactionsByCategoryAndDateRange(ctx context.Context, ownerID, categoryID int64, start, end time.Time) ([]model.Transaction, error) {
	return getTransactionsByCategoryAndDateRange(ctx, t.tx, ownerID, categoryID, start, end)
}

// System config operations.

func (s *SQLiteStorage) GetConfigValue(ctx context.Context, key string) (string, error) {
	return getConfigValue(ctx, s.db, key)
}

func (t *sqliteTransaction) GetConfigValue(ctx context.Context, key string) (string, error) {
	return getConfigValue(ctx, t.tx, key)
}

func (s *SQLiteStorage) SetConfigValue(ctx context.Context, key, value string) error {
	return setConfigValue(ctx, s.db, key, value)
}

func (t *sqliteTransaction) SetConfigValue(ctx context.Context, key, value string) error {
	return setConfigValue(ctx, t.tx, key, value)
}
