package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/colafan/alfred/internal/model"
)

const categoryColumns = `id, user_id, name, kind, parent_id, icon, color, sort_order, is_system, config_id, is_active, created_at, updated_at`

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (*model.Category, error) {
	var (
		cat      model.Category
		parentID sql.NullInt64
		configID sql.NullInt64
		icon     sql.NullString
		color    sql.NullString
	)

	err := row.Scan(
		&cat.ID, &cat.OwnerID, &cat.Name, &cat.Kind,
		&parentID, &icon, &color, &cat.SortOrder,
		&cat.IsSystem, &configID, &cat.IsActive,
		&cat.CreatedAt, &cat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		cat.ParentID = &parentID.Int64
	}
	if configID.Valid {
		cat.ConfigID = &configID.Int64
	}
	cat.Icon = icon.String
	cat.Color = color.String
	return &cat, nil
}

func queryCategories(ctx context.Context, q executor, query string, args ...any) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		cat, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan category: %w", scanErr)
		}
		categories = append(categories, *cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// listCategories returns a user's active categories ordered the way the UI
// presents them.
func listCategories(ctx context.Context, q executor, ownerID int64) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = ? AND is_active = 1
		ORDER BY kind, sort_order, name`

	return queryCategories(ctx, q, query, ownerID)
}

func listCategoriesByKind(ctx context.Context, q executor, ownerID int64, kind model.CategoryKind) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = ? AND kind = ? AND is_active = 1
		ORDER BY sort_order, name`

	return queryCategories(ctx, q, query, ownerID, string(kind))
}

// getAllCategories returns every category row for a user, active or not. The
// sync engine's repair passes need the full set.
func getAllCategories(ctx context.Context, q executor, ownerID int64) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = ?
		ORDER BY id`

	return queryCategories(ctx, q, query, ownerID)
}

// getSystemCategories returns every catalog-linked row for a user, active or
// not.
func getSystemCategories(ctx context.Context, q executor, ownerID int64) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = ? AND is_system = 1
		ORDER BY id`

	return queryCategories(ctx, q, query, ownerID)
}

func getCategoryByID(ctx context.Context, q executor, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = ?`

	cat, err := scanCategory(q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return cat, nil
}

// getCategoryByConfigID looks up a user's row by catalog config id,
// including soft-deleted rows. After duplicate repair at most one row exists
// per (user, config) pair; the smallest id wins if several remain.
func getCategoryByConfigID(ctx context.Context, q executor, ownerID, configID int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	if err := validateID(configID, "configID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = ? AND config_id = ?
		ORDER BY id
		LIMIT 1`

	cat, err := scanCategory(q.QueryRowContext(ctx, query, ownerID, configID))
	if err == sql.ErrNoRows {
		return nil, nil // No row for this config id
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category by config id: %w", err)
	}
	return cat, nil
}

// saveCategory inserts the category when it has no id yet and updates it in
// place otherwise. Timestamps are managed here.
func saveCategory(ctx context.Context, q executor, category *model.Category) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if category.ID == 0 {
		insertQuery := `
			INSERT INTO categories (user_id, name, kind, parent_id, icon, color, sort_order, is_system, config_id, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		result, err := q.ExecContext(ctx, insertQuery,
			category.OwnerID, category.Name, string(category.Kind),
			nullableID(category.ParentID), nullableString(category.Icon), nullableString(category.Color),
			category.SortOrder, category.IsSystem, nullableID(category.ConfigID),
			category.IsActive, now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert category: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get category ID: %w", err)
		}

		category.ID = id
		category.CreatedAt = now
		category.UpdatedAt = now
		slog.Debug("created category", "id", id, "owner", category.OwnerID, "name", category.Name)
		return category, nil
	}

	updateQuery := `
		UPDATE categories
		SET name = ?, kind = ?, parent_id = ?, icon = ?, color = ?, sort_order = ?, is_system = ?, config_id = ?, is_active = ?, updated_at = ?
		WHERE id = ?`

	result, err := q.ExecContext(ctx, updateQuery,
		category.Name, string(category.Kind),
		nullableID(category.ParentID), nullableString(category.Icon), nullableString(category.Color),
		category.SortOrder, category.IsSystem, nullableID(category.ConfigID),
		category.IsActive, now, category.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("category %d does not exist", category.ID)
	}

	category.UpdatedAt = now
	return category, nil
}

// reactivateSystemCategories flips every soft-deleted system row of the user
// back to active in one statement and returns how many rows changed.
func reactivateSystemCategories(ctx context.Context, q executor, ownerID int64) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateID(ownerID, "ownerID"); err != nil {
		return 0, err
	}

	query := `
		UPDATE categories
		SET is_active = 1, updated_at = ?
		WHERE user_id = ? AND is_system = 1 AND is_active = 0`

	result, err := q.ExecContext(ctx, query, time.Now().UTC(), ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to reactivate system categories: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check reactivation result: %w", err)
	}
	return affected, nil
}

// deleteCategory physically removes a row. Used only by the sync engine's
// duplicate and conflict cleanup.
func deleteCategory(ctx context.Context, q executor, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
