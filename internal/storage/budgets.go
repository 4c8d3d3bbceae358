package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/colafan/alfred/internal/common"
	"github.com/colafan/alfred/internal/model"
)

const budgetColumns = `id, user_id, category_id, amount, period, alert_threshold, start_date, end_date, is_active, created_at, updated_at`

func scanBudget(row scanner) (*model.Budget, error) {
	var (
		budget  model.Budget
		endDate sql.NullTime
	)

	err := row.Scan(
		&budget.ID, &budget.OwnerID, &budget.CategoryID,
		&budget.Amount, &budget.Period, &budget.AlertThreshold,
		&budget.StartDate, &endDate, &budget.IsActive,
		&budget.CreatedAt, &budget.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endDate.Valid {
		budget.EndDate = &endDate.Time
	}
	return &budget, nil
}

func queryBudgets(ctx context.Context, q executor, query string, args ...any) ([]model.Budget, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		budget, scanErr := scanBudget(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", scanErr)
		}
		budgets = append(budgets, *budget)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}

// listBudgets returns a user's active budgets, newest first.
func listBudgets(ctx context.Context, q executor, ownerID int64) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = ? AND is_active = 1
		ORDER BY created_at DESC`

	return queryBudgets(ctx, q, query, ownerID)
}

func getBudgetByID(ctx context.Context, q executor, id int64) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE id = ?`

	budget, err := scanBudget(q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Budget not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}
	return budget, nil
}

func getActiveBudgetByCategory(ctx context.Context, q executor, ownerID, categoryID int64) (*model.Budget, error) {
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
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = ? AND category_id = ? AND is_active = 1`

	budget, err := scanBudget(q.QueryRowContext(ctx, query, ownerID, categoryID))
	if err == sql.ErrNoRows {
		return nil, nil // No active budget for this category
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query budget by category: %w", err)
	}
	return budget, nil
}

// getBudgetsByCategory returns every budget row for the pair, active or not.
// The delete path uses this to purge soft-deleted rows.
func getBudgetsByCategory(ctx context.Context, q executor, ownerID, categoryID int64) ([]model.Budget, error) {
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
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = ? AND category_id = ?
		ORDER BY id`

	return queryBudgets(ctx, q, query, ownerID, categoryID)
}

func saveBudget(ctx context.Context, q executor, budget *model.Budget) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateBudget(budget); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if budget.ID == 0 {
		insertQuery := `
			INSERT INTO budgets (user_id, category_id, amount, period, alert_threshold, start_date, end_date, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		result, err := q.ExecContext(ctx, insertQuery,
			budget.OwnerID, budget.CategoryID, budget.Amount,
			string(budget.Period), budget.AlertThreshold,
			budget.StartDate, nullableTime(budget.EndDate),
			budget.IsActive, now, now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, common.ConflictError("category already has a budget")
			}
			return nil, fmt.Errorf("failed to insert budget: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get budget ID: %w", err)
		}

		budget.ID = id
		budget.CreatedAt = now
		budget.UpdatedAt = now
		slog.Debug("created budget", "id", id, "owner", budget.OwnerID, "category", budget.CategoryID)
		return budget, nil
	}

	updateQuery := `
		UPDATE budgets
		SET amount = ?, period = ?, alert_threshold = ?, start_date = ?, end_date = ?, is_active = ?, updated_at = ?
		WHERE id = ?`

	result, err := q.ExecContext(ctx, updateQuery,
		budget.Amount, string(budget.Period), budget.AlertThreshold,
		budget.StartDate, nullableTime(budget.EndDate),
		budget.IsActive, now, budget.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ConflictError("category already has a budget")
		}
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("budget %d does not exist", budget.ID)
	}

	budget.UpdatedAt = now
	return budget, nil
}

// deleteBudget physically removes a row. Used to purge soft-deleted rows
// before re-inserting an active budget for the same pair.
func deleteBudget(ctx context.Context, q executor, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether the error is the unique active-pair index
// firing. Two writers can race past the engine's existence check; the index is
// the backstop, and the loser must see a conflict, not a raw driver error.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
