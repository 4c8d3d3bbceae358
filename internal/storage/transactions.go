package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colafan/alfred/internal/model"
)

const transactionColumns = `id, user_id, category_id, amount, kind, description, transaction_date, is_active, created_at`

func scanTransaction(row scanner) (*model.Transaction, error) {
	var (
		txn         model.Transaction
		description sql.NullString
	)

	err := row.Scan(
		&txn.ID, &txn.OwnerID, &txn.CategoryID,
		&txn.Amount, &txn.Kind, &description,
		&txn.Date, &txn.IsActive, &txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Description = description.String
	return &txn, nil
}

func queryTransactions(ctx context.Context, q executor, query string, args ...any) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", scanErr)
		}
		transactions = append(transactions, *txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

func saveTransaction(ctx context.Context, q executor, txn *model.Transaction) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTransaction(txn); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	insertQuery := `
		INSERT INTO transactions (user_id, category_id, amount, kind, description, transaction_date, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := q.ExecContext(ctx, insertQuery,
		txn.OwnerID, txn.CategoryID, txn.Amount,
		string(txn.Kind), nullableString(txn.Description),
		txn.Date, txn.IsActive, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction ID: %w", err)
	}

	txn.ID = id
	txn.CreatedAt = now
	return txn, nil
}

// hasActiveTransactions reports whether any active transaction still
// references the category. Categories with references are never physically
// deleted or retired.
func hasActiveTransactions(ctx context.Context, q executor, categoryID int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateID(categoryID, "categoryID"); err != nil {
		return false, err
	}

	query := `SELECT EXISTS(SELECT 1 FROM transactions WHERE category_id = ? AND is_active = 1)`

	var exists bool
	if err := q.QueryRowContext(ctx, query, categoryID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check transaction references: %w", err)
	}
	return exists, nil
}

func getTransactionsByCategory(ctx context.Context, q executor, ownerID, categoryID int64) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	if err := validateID(categoryID, "categoryID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = ? AND category_id = ? AND is_active = 1
		ORDER BY transaction_date DESC`

	return queryTransactions(ctx, q, query, ownerID, categoryID)
}

func getTransactionsByCategoryAndDateRange(ctx context.Context, q executor, ownerID, categoryID int64, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	if err := validateID(categoryID, "categoryID"); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, end, start)
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = ? AND category_id = ? AND transaction_date >= ? AND transaction_date <= ? AND is_active = 1
		ORDER BY transaction_date DESC`

	return queryTransactions(ctx, q, query, ownerID, categoryID, start, end)
}
