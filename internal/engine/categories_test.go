package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colafan/alfred/internal/common"
	"github.com/colafan/alfred/internal/model"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateCustom(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a top-level category", func(t *testing.T) {
		eng, _ := createTestEngine(t)

		created, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{
			Name: "Hobbies",
			Kind: model.CategoryKindExpense,
			Icon: "dice",
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, created.IsSystem)
		assert.Nil(t, created.ConfigID)
	})

	t.Run("creates a subcategory", func(t *testing.T) {
		eng, _ := createTestEngine(t)

		parent, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{Name: "Hobbies", Kind: model.CategoryKindExpense})
		require.NoError(t, err)

		child, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{
			Name:     "Board Games",
			Kind:     model.CategoryKindExpense,
			ParentID: &parent.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, child.ParentID)
		assert.Equal(t, parent.ID, *child.ParentID)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		eng, _ := createTestEngine(t)

		_, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{Kind: model.CategoryKindExpense})
		assert.ErrorIs(t, err, common.ErrInvalidRequest)

		_, err = eng.CreateCustom(ctx, 1, CreateCategoryParams{Name: "Stuff", Kind: "mystery"})
		assert.ErrorIs(t, err, common.ErrInvalidRequest)
	})

	t.Run("parent must exist and be visible", func(t *testing.T) {
		eng, _ := createTestEngine(t)

		missing := int64(9999)
		_, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{
			Name: "Board Games", Kind: model.CategoryKindExpense, ParentID: &missing,
		})
		assert.ErrorIs(t, err, common.ErrNotFound)

		other, err := eng.CreateCustom(ctx, 2, CreateCategoryParams{Name: "Hobbies", Kind: model.CategoryKindExpense})
		require.NoError(t, err)

		_, err = eng.CreateCustom(ctx, 1, CreateCategoryParams{
			Name: "Board Games", Kind: model.CategoryKindExpense, ParentID: &other.ID,
		})
		assert.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("nesting stops at one level", func(t *testing.T) {
		eng, _ := createTestEngine(t)

		parent, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{Name: "Hobbies", Kind: model.CategoryKindExpense})
		require.NoError(t, err)
		child, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{
			Name: "Board Games", Kind: model.CategoryKindExpense, ParentID: &parent.ID,
		})
		require.NoError(t, err)

		_, err = eng.CreateCustom(ctx, 1, CreateCategoryParams{
			Name: "Eurogames", Kind: model.CategoryKindExpense, ParentID: &child.ID,
		})
		assert.ErrorIs(t, err, common.ErrInvalidRequest)
	})
}

func TestUpdateSystemCategory(t *testing.T) {
	ctx := context.Background()
	eng, store := createTestEngine(t)

	_, err := eng.Sync(ctx, 1)
	require.NoError(t, err)

	food, err := store.GetCategoryByConfigID(ctx, 1, 1)
	require.NoError(t, err)

	t.Run("renaming is rejected", func(t *testing.T) {
		_, err := eng.Update(ctx, 1, food.ID, CategoryPatch{Name: strPtr("Sustenance")})
		assert.ErrorIs(t, err, common.ErrInvalidRequest)
	})

	t.Run("icon change is rejected", func(t *testing.T) {
		_, err := eng.Update(ctx, 1, food.ID, CategoryPatch{Icon: strPtr("spoon")})
		assert.ErrorIs(t, err, common.ErrInvalidRequest)
	})

	t.Run("patch carrying current values is a no-op", func(t *testing.T) {
		got, err := eng.Update(ctx, 1, food.ID, CategoryPatch{
			Name: strPtr(food.Name),
			Icon: strPtr(food.Icon),
		})
		require.NoError(t, err)
		assert.Equal(t, food.Name, got.Name)
	})

	t.Run("sort order change is allowed", func(t *testing.T) {
		got, err := eng.Update(ctx, 1, food.ID, CategoryPatch{SortOrder: intPtr(42)})
		require.NoError(t, err)
		assert.Equal(t, 42, got.SortOrder)
		assert.Equal(t, food.Name, got.Name)
	})
}

func TestUpdateCustomCategory(t *testing.T) {
	ctx := context.Background()
	eng, _ := createTestEngine(t)

	cat, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{Name: "Hobbies", Kind: model.CategoryKindExpense})
	require.NoError(t, err)

	t.Run("applies present fields only", func(t *testing.T) {
		got, err := eng.Update(ctx, 1, cat.ID, CategoryPatch{
			Name:  strPtr("Leisure"),
			Color: strPtr("#AA00AA"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Leisure", got.Name)
		assert.Equal(t, "#AA00AA", got.Color)
		assert.Equal(t, cat.Icon, got.Icon)
	})

	t.Run("cannot be its own parent", func(t *testing.T) {
		_, err := eng.Update(ctx, 1, cat.ID, CategoryPatch{ParentID: &cat.ID})
		assert.ErrorIs(t, err, common.ErrInvalidRequest)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := eng.Update(ctx, 1, cat.ID, CategoryPatch{Name: strPtr("")})
		assert.ErrorIs(t, err, common.ErrInvalidRequest)
	})

	t.Run("reparenting validates the new parent", func(t *testing.T) {
		missing := int64(9999)
		_, err := eng.Update(ctx, 1, cat.ID, CategoryPatch{ParentID: &missing})
		assert.ErrorIs(t, err, common.ErrNotFound)

		parent, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{Name: "Life", Kind: model.CategoryKindExpense})
		require.NoError(t, err)

		got, err := eng.Update(ctx, 1, cat.ID, CategoryPatch{ParentID: &parent.ID})
		require.NoError(t, err)
		require.NotNil(t, got.ParentID)
		assert.Equal(t, parent.ID, *got.ParentID)
	})
}

func TestCategoryVisibility(t *testing.T) {
	ctx := context.Background()
	eng, _ := createTestEngine(t)

	cat, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{Name: "Hobbies", Kind: model.CategoryKindExpense})
	require.NoError(t, err)

	t.Run("owner can read", func(t *testing.T) {
		got, err := eng.GetCategory(ctx, 1, cat.ID)
		require.NoError(t, err)
		assert.Equal(t, cat.ID, got.ID)
	})

	t.Run("other users get forbidden", func(t *testing.T) {
		_, err := eng.GetCategory(ctx, 2, cat.ID)
		assert.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("missing rows read as not found", func(t *testing.T) {
		_, err := eng.GetCategory(ctx, 1, 9999)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("deleted rows read as not found", func(t *testing.T) {
		require.NoError(t, eng.Delete(ctx, 1, cat.ID))

		_, err := eng.GetCategory(ctx, 1, cat.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("system categories cannot be deleted", func(t *testing.T) {
		eng, store := createTestEngine(t)
		_, err := eng.Sync(ctx, 1)
		require.NoError(t, err)

		food, err := store.GetCategoryByConfigID(ctx, 1, 1)
		require.NoError(t, err)

		err = eng.Delete(ctx, 1, food.ID)
		assert.ErrorIs(t, err, common.ErrInvalidRequest)
	})

	t.Run("categories with subcategories cannot be deleted", func(t *testing.T) {
		eng, _ := createTestEngine(t)

		parent, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{Name: "Hobbies", Kind: model.CategoryKindExpense})
		require.NoError(t, err)
		child, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{
			Name: "Board Games", Kind: model.CategoryKindExpense, ParentID: &parent.ID,
		})
		require.NoError(t, err)

		err = eng.Delete(ctx, 1, parent.ID)
		assert.ErrorIs(t, err, common.ErrInvalidRequest)

		// Deleting the child first unblocks the parent
		require.NoError(t, eng.Delete(ctx, 1, child.ID))
		require.NoError(t, eng.Delete(ctx, 1, parent.ID))
	})

	t.Run("referenced categories cannot be deleted", func(t *testing.T) {
		eng, store := createTestEngine(t)

		cat, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{Name: "Hobbies", Kind: model.CategoryKindExpense})
		require.NoError(t, err)

		_, err = store.SaveTransaction(ctx, expenseOn(1, cat.ID, 30, cat.CreatedAt))
		require.NoError(t, err)

		err = eng.Delete(ctx, 1, cat.ID)
		assert.ErrorIs(t, err, common.ErrInvalidRequest)
	})

	t.Run("delete is soft", func(t *testing.T) {
		eng, store := createTestEngine(t)

		cat, err := eng.CreateCustom(ctx, 1, CreateCategoryParams{Name: "Hobbies", Kind: model.CategoryKindExpense})
		require.NoError(t, err)
		require.NoError(t, eng.Delete(ctx, 1, cat.ID))

		row, err := store.GetCategoryByID(ctx, cat.ID)
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.False(t, row.IsActive)
	})
}
