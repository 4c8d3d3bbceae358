package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/colafan/alfred/internal/common"
	"github.com/colafan/alfred/internal/model"
	"github.com/colafan/alfred/internal/service"
)

// CreateCategoryParams carries the fields of a new custom category.
type CreateCategoryParams struct {
	Name      string
	Icon      string
	Color     string
	Kind      model.CategoryKind
	ParentID  *int64
	SortOrder int
}

// CategoryPatch is a partial update. Nil fields are absent from the patch.
type CategoryPatch struct {
	Name      *string
	Icon      *string
	Color     *string
	ParentID  *int64
	SortOrder *int
}

// ListCategories returns the user's active categories in display order.
func (e *Engine) ListCategories(ctx context.Context, ownerID int64) ([]model.Category, error) {
	return e.store.ListCategories(ctx, ownerID)
}

// ListCategoriesByKind returns the user's active categories of one kind.
func (e *Engine) ListCategoriesByKind(ctx context.Context, ownerID int64, kind model.CategoryKind) ([]model.Category, error) {
	return e.store.ListCategoriesByKind(ctx, ownerID, kind)
}

// GetCategory returns a single category visible to the caller.
func (e *Engine) GetCategory(ctx context.Context, ownerID, categoryID int64) (*model.Category, error) {
	return getOwnedCategory(ctx, e.store, ownerID, categoryID)
}

// getOwnedCategory loads a category and enforces visibility: inactive or
// missing rows read as NotFound, other users' rows as Forbidden.
func getOwnedCategory(ctx context.Context, s service.Storage, ownerID, categoryID int64) (*model.Category, error) {
	cat, err := s.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if cat == nil || !cat.IsActive {
		return nil, common.NotFoundError("category")
	}
	if cat.OwnerID != ownerID {
		return nil, common.ForbiddenError("category belongs to another user")
	}
	return cat, nil
}

// CreateCustom creates a user-defined category. The parent, when given, must
// exist, belong to the same user, and be a top-level category.
func (e *Engine) CreateCustom(ctx context.Context, ownerID int64, params CreateCategoryParams) (*model.Category, error) {
	if params.Name == "" {
		return nil, common.InvalidRequestError("category name is required")
	}
	switch params.Kind {
	case model.CategoryKindExpense, model.CategoryKindIncome:
	default:
		return nil, common.InvalidRequestError(fmt.Sprintf("unknown category kind %q", params.Kind))
	}

	if params.ParentID != nil {
		parent, err := e.store.GetCategoryByID(ctx, *params.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent category: %w", err)
		}
		if parent == nil || !parent.IsActive {
			return nil, common.NotFoundError("parent category")
		}
		if parent.OwnerID != ownerID {
			return nil, common.ForbiddenError("parent category belongs to another user")
		}
		if parent.ParentID != nil {
			return nil, common.InvalidRequestError("categories nest at most one level deep")
		}
	}

	created, err := e.store.SaveCategory(ctx, &model.Category{
		OwnerID:   ownerID,
		Name:      params.Name,
		Kind:      params.Kind,
		Icon:      params.Icon,
		Color:     params.Color,
		SortOrder: params.SortOrder,
		ParentID:  params.ParentID,
		IsSystem:  false,
		IsActive:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("created custom category", "owner", ownerID, "id", created.ID, "name", created.Name)
	return created, nil
}

// Update applies a patch to a category. System categories accept sort order
// changes only; a patch field carrying the current value does not count as a
// change.
func (e *Engine) Update(ctx context.Context, ownerID, categoryID int64, patch CategoryPatch) (*model.Category, error) {
	cat, err := getOwnedCategory(ctx, e.store, ownerID, categoryID)
	if err != nil {
		return nil, err
	}

	if cat.IsSystem {
		return e.updateSystem(ctx, cat, patch)
	}
	return e.updateCustom(ctx, ownerID, cat, patch)
}

func (e *Engine) updateSystem(ctx context.Context, cat *model.Category, patch CategoryPatch) (*model.Category, error) {
	if patchChangesSystemFields(cat, patch) {
		return nil, common.InvalidRequestError("system category immutable except ordering")
	}

	if patch.SortOrder == nil || *patch.SortOrder == cat.SortOrder {
		// No-op patch
		return cat, nil
	}

	cat.SortOrder = *patch.SortOrder
	saved, err := e.store.SaveCategory(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("failed to reorder system category: %w", err)
	}
	return saved, nil
}

// patchChangesSystemFields reports whether the patch would alter anything a
// system category forbids.
func patchChangesSystemFields(cat *model.Category, patch CategoryPatch) bool {
	if patch.Name != nil && *patch.Name != cat.Name {
		return true
	}
	if patch.Icon != nil && *patch.Icon != cat.Icon {
		return true
	}
	if patch.Color != nil && *patch.Color != cat.Color {
		return true
	}
	if patch.ParentID != nil && (cat.ParentID == nil || *patch.ParentID != *cat.ParentID) {
		return true
	}
	return false
}

func (e *Engine) updateCustom(ctx context.Context, ownerID int64, cat *model.Category, patch CategoryPatch) (*model.Category, error) {
	if patch.ParentID != nil && (cat.ParentID == nil || *patch.ParentID != *cat.ParentID) {
		if *patch.ParentID == cat.ID {
			return nil, common.InvalidRequestError("category cannot be its own parent")
		}
		parent, err := e.store.GetCategoryByID(ctx, *patch.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent category: %w", err)
		}
		if parent == nil || !parent.IsActive {
			return nil, common.NotFoundError("parent category")
		}
		if parent.OwnerID != ownerID {
			return nil, common.ForbiddenError("parent category belongs to another user")
		}
		if parent.ParentID != nil {
			return nil, common.InvalidRequestError("categories nest at most one level deep")
		}
		cat.ParentID = patch.ParentID
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, common.InvalidRequestError("category name is required")
		}
		cat.Name = *patch.Name
	}
	if patch.Icon != nil {
		cat.Icon = *patch.Icon
	}
	if patch.Color != nil {
		cat.Color = *patch.Color
	}
	if patch.SortOrder != nil {
		cat.SortOrder = *patch.SortOrder
	}

	saved, err := e.store.SaveCategory(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return saved, nil
}

// Delete soft-deletes a custom category. System categories, categories with
// active children, and categories referenced by active transactions cannot
// be deleted.
func (e *Engine) Delete(ctx context.Context, ownerID, categoryID int64) error {
	cat, err := getOwnedCategory(ctx, e.store, ownerID, categoryID)
	if err != nil {
		return err
	}

	if cat.IsSystem {
		return common.InvalidRequestError("system categories cannot be deleted")
	}

	active, err := e.store.ListCategories(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	for _, other := range active {
		if other.ParentID != nil && *other.ParentID == cat.ID {
			return common.InvalidRequestError("category has subcategories, delete them first")
		}
	}

	referenced, err := e.store.HasActiveTransactions(ctx, cat.ID)
	if err != nil {
		return fmt.Errorf("failed to check transaction references: %w", err)
	}
	if referenced {
		return common.InvalidRequestError("category is referenced by transactions")
	}

	cat.IsActive = false
	if _, err := e.store.SaveCategory(ctx, cat); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	slog.Info("deleted custom category", "owner", ownerID, "id", cat.ID, "name", cat.Name)
	return nil
}
