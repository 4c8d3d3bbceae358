// Package engine implements the category synchronization engine and the
// budget usage calculator.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/colafan/alfred/internal/catalog"
	"github.com/colafan/alfred/internal/common"
	"github.com/colafan/alfred/internal/model"
	"github.com/colafan/alfred/internal/service"
)

// categoryVersionKey is the system config key holding the last-synced
// catalog version. Advisory only; sync never short-circuits on it because
// the duplicate repair pass must always run.
const categoryVersionKey = "category_config_version"

// Engine reconciles user category trees against the catalog without
// discarding user data or breaking transaction references.
type Engine struct {
	store   service.Storage
	catalog catalog.Catalog
}

// New creates a new sync engine.
func New(store service.Storage, cat catalog.Catalog) *Engine {
	return &Engine{
		store:   store,
		catalog: cat,
	}
}

// kindedEntry pairs a catalog entry with the kind it was listed under.
type kindedEntry struct {
	entry catalog.Entry
	kind  model.CategoryKind
}

func (e *Engine) catalogEntries() []kindedEntry {
	var entries []kindedEntry
	for _, entry := range e.catalog.Categories(model.CategoryKindExpense) {
		entries = append(entries, kindedEntry{entry: entry, kind: model.CategoryKindExpense})
	}
	for _, entry := range e.catalog.Categories(model.CategoryKindIncome) {
		entries = append(entries, kindedEntry{entry: entry, kind: model.CategoryKindIncome})
	}
	return entries
}

// Sync reconciles the user's category set with the catalog. It always runs
// every pass and returns true when reconciliation completed; earlier
// versions gated on the stored catalog version, but the duplicate repair
// must run regardless, so the version is persisted purely as a record.
func (e *Engine) Sync(ctx context.Context, ownerID int64) (bool, error) {
	if ownerID <= 0 {
		return false, common.InvalidRequestError("owner id must be positive")
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin sync transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	slog.Info("starting category sync", "owner", ownerID, "catalog_version", e.catalog.Version())

	if err := e.repairDuplicates(ctx, tx, ownerID); err != nil {
		return false, err
	}

	entries := e.catalogEntries()

	// Parent upsert; a failure on one entry must not abort the others.
	for _, ke := range entries {
		if upsertErr := e.upsertParentTree(ctx, tx, ownerID, ke.kind, ke.entry); upsertErr != nil {
			slog.Error("skipping catalog entry",
				"owner", ownerID,
				"config_id", ke.entry.ConfigID,
				"name", ke.entry.Name,
				"error", upsertErr)
		}
	}

	if err := e.upsertSubcategories(ctx, tx, ownerID, entries); err != nil {
		return false, err
	}

	if err := e.repairSubcategoryParents(ctx, tx, ownerID, entries); err != nil {
		return false, err
	}

	if err := e.retireRemovedCategories(ctx, tx, ownerID, entries); err != nil {
		return false, err
	}

	if err := tx.SetConfigValue(ctx, categoryVersionKey, e.catalog.Version()); err != nil {
		return false, fmt.Errorf("failed to persist catalog version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit sync: %w", err)
	}
	committed = true

	slog.Info("category sync complete", "owner", ownerID, "catalog_version", e.catalog.Version())
	return true, nil
}

// ForceSync unconditionally re-applies the parent upsert pass. Used for
// administrative repair when catalog data changed shape. Returns the number
// of parent categories touched.
func (e *Engine) ForceSync(ctx context.Context, ownerID int64) (int, error) {
	if ownerID <= 0 {
		return 0, common.InvalidRequestError("owner id must be positive")
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin force sync transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	slog.Info("starting forced category sync", "owner", ownerID)

	touched := 0
	for _, ke := range e.catalogEntries() {
		if upsertErr := e.upsertParentTree(ctx, tx, ownerID, ke.kind, ke.entry); upsertErr != nil {
			slog.Error("skipping catalog entry",
				"owner", ownerID,
				"config_id", ke.entry.ConfigID,
				"error", upsertErr)
			continue
		}
		touched++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit force sync: %w", err)
	}
	committed = true

	slog.Info("forced category sync complete", "owner", ownerID, "touched", touched)
	return touched, nil
}

// RestoreSystemCategories reactivates every soft-deleted system category the
// user has, in bulk. Recovery path for users who retired catalog categories
// they want back. Returns how many rows were restored.
func (e *Engine) RestoreSystemCategories(ctx context.Context, ownerID int64) (int64, error) {
	if ownerID <= 0 {
		return 0, common.InvalidRequestError("owner id must be positive")
	}

	restored, err := e.store.ReactivateSystemCategories(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to restore system categories: %w", err)
	}

	if restored > 0 {
		slog.Info("restored system categories", "owner", ownerID, "count", restored)
	}
	return restored, nil
}

// InitializeDefaults resets a user's category set to the catalog defaults:
// every active category is soft-deleted (history survives), then each
// catalog entry is created or reactivated by config id. Re-running never
// produces duplicate config id rows.
func (e *Engine) InitializeDefaults(ctx context.Context, ownerID int64) ([]model.Category, error) {
	if ownerID <= 0 {
		return nil, common.InvalidRequestError("owner id must be positive")
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin initialize transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	active, err := tx.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	for i := range active {
		active[i].IsActive = false
		if _, err := tx.SaveCategory(ctx, &active[i]); err != nil {
			return nil, fmt.Errorf("failed to soft-delete category %d: %w", active[i].ID, err)
		}
	}
	slog.Info("soft-deleted existing categories", "owner", ownerID, "count", len(active))

	var result []model.Category
	for _, ke := range e.catalogEntries() {
		parent, parentErr := e.createOrUpdate(ctx, tx, ownerID, ke.kind, ke.entry.Name, ke.entry.Icon, ke.entry.Color, ke.entry.SortOrder, ke.entry.ConfigID, nil)
		if parentErr != nil {
			slog.Error("skipping catalog entry",
				"owner", ownerID,
				"config_id", ke.entry.ConfigID,
				"error", parentErr)
			continue
		}
		result = append(result, *parent)

		for _, sub := range ke.entry.Subcategories {
			// Subcategories keep a fixed sort order
			child, subErr := e.createOrUpdate(ctx, tx, ownerID, ke.kind, sub.Name, sub.Icon, sub.Color, 0, sub.ConfigID, &parent.ID)
			if subErr != nil {
				slog.Error("skipping catalog subentry",
					"owner", ownerID,
					"config_id", sub.ConfigID,
					"error", subErr)
				continue
			}
			result = append(result, *child)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit initialize: %w", err)
	}
	committed = true

	slog.Info("initialized default categories", "owner", ownerID, "count", len(result))
	return result, nil
}

// repairDuplicates keeps the smallest-id row for every (owner, config id)
// group and physically deletes the rest. Concurrent syncs can race new rows
// into existence, so this self-healing pass runs first on every sync.
func (e *Engine) repairDuplicates(ctx context.Context, s service.Storage, ownerID int64) error {
	all, err := s.GetAllCategories(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load categories for duplicate repair: %w", err)
	}

	byConfig := make(map[int64][]model.Category)
	for _, cat := range all {
		if cat.ConfigID == nil {
			continue
		}
		byConfig[*cat.ConfigID] = append(byConfig[*cat.ConfigID], cat)
	}

	cleaned := 0
	for configID, group := range byConfig {
		if len(group) <= 1 {
			continue
		}
		keep := group[0]
		for _, cat := range group[1:] {
			if cat.ID < keep.ID {
				keep = cat
			}
		}
		for _, cat := range group {
			if cat.ID == keep.ID {
				continue
			}
			slog.Warn("removing duplicate category row",
				"owner", ownerID,
				"config_id", configID,
				"id", cat.ID,
				"kept_id", keep.ID,
				"name", cat.Name)
			if err := s.DeleteCategory(ctx, cat.ID); err != nil {
				return fmt.Errorf("failed to delete duplicate category %d: %w", cat.ID, err)
			}
			cleaned++
		}
	}

	if cleaned > 0 {
		slog.Warn("repaired duplicate category rows", "owner", ownerID, "count", cleaned)
	}
	return nil
}

// upsertParent creates or updates-in-place the parent category for a catalog
// entry. The second return value reports whether a new row was inserted.
func (e *Engine) upsertParent(ctx context.Context, s service.Storage, ownerID int64, kind model.CategoryKind, entry catalog.Entry) (*model.Category, bool, error) {
	existing, err := s.GetCategoryByConfigID(ctx, ownerID, entry.ConfigID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up category by config id: %w", err)
	}

	if existing != nil && existing.IsSystem {
		// Same row, same id: update, never replace.
		existing.Name = entry.Name
		existing.Icon = entry.Icon
		existing.Color = entry.Color
		existing.SortOrder = entry.SortOrder
		existing.IsActive = true
		saved, saveErr := s.SaveCategory(ctx, existing)
		if saveErr != nil {
			return nil, false, fmt.Errorf("failed to update system category: %w", saveErr)
		}
		return saved, false, nil
	}

	if existing != nil {
		// A non-system row occupies this config id; that's a corruption
		// state, the catalog owns the id.
		slog.Warn("removing non-system category conflicting with catalog entry",
			"owner", ownerID,
			"config_id", entry.ConfigID,
			"id", existing.ID,
			"name", existing.Name)
		if err := s.DeleteCategory(ctx, existing.ID); err != nil {
			return nil, false, fmt.Errorf("failed to delete conflicting category: %w", err)
		}
	}

	configID := entry.ConfigID
	created, err := s.SaveCategory(ctx, &model.Category{
		OwnerID:   ownerID,
		Name:      entry.Name,
		Kind:      kind,
		Icon:      entry.Icon,
		Color:     entry.Color,
		SortOrder: entry.SortOrder,
		IsSystem:  true,
		ConfigID:  &configID,
		IsActive:  true,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to create system category: %w", err)
	}
	slog.Debug("created system category", "owner", ownerID, "config_id", entry.ConfigID, "name", entry.Name)
	return created, true, nil
}

// upsertParentTree upserts a parent and, when the parent is newly created,
// immediately creates its subcategories under it.
func (e *Engine) upsertParentTree(ctx context.Context, s service.Storage, ownerID int64, kind model.CategoryKind, entry catalog.Entry) error {
	parent, created, err := e.upsertParent(ctx, s, ownerID, kind, entry)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	for _, sub := range entry.Subcategories {
		if err := e.upsertSub(ctx, s, ownerID, kind, sub, parent, true); err != nil {
			return err
		}
	}
	return nil
}

// upsertSub creates or updates-in-place a subcategory. When adoptParent is
// false an existing row keeps whatever parent it has; the orphan repair pass
// corrects drift afterwards.
func (e *Engine) upsertSub(ctx context.Context, s service.Storage, ownerID int64, kind model.CategoryKind, sub catalog.Subentry, parent *model.Category, adoptParent bool) error {
	existing, err := s.GetCategoryByConfigID(ctx, ownerID, sub.ConfigID)
	if err != nil {
		return fmt.Errorf("failed to look up subcategory by config id: %w", err)
	}

	if existing != nil && existing.IsSystem {
		existing.Name = sub.Name
		existing.Icon = sub.Icon
		existing.Color = sub.Color
		existing.IsActive = true
		if adoptParent && parent != nil {
			existing.ParentID = &parent.ID
		}
		if _, err := s.SaveCategory(ctx, existing); err != nil {
			return fmt.Errorf("failed to update system subcategory: %w", err)
		}
		return nil
	}

	if parent == nil {
		slog.Warn("skipping subcategory, parent not present",
			"owner", ownerID,
			"config_id", sub.ConfigID,
			"name", sub.Name)
		return nil
	}

	if existing != nil {
		slog.Warn("removing non-system category conflicting with catalog subentry",
			"owner", ownerID,
			"config_id", sub.ConfigID,
			"id", existing.ID)
		if err := s.DeleteCategory(ctx, existing.ID); err != nil {
			return fmt.Errorf("failed to delete conflicting subcategory: %w", err)
		}
	}

	configID := sub.ConfigID
	if _, err := s.SaveCategory(ctx, &model.Category{
		OwnerID:   ownerID,
		Name:      sub.Name,
		Kind:      kind,
		Icon:      sub.Icon,
		Color:     sub.Color,
		IsSystem:  true,
		ConfigID:  &configID,
		ParentID:  &parent.ID,
		IsActive:  true,
	}); err != nil {
		return fmt.Errorf("failed to create system subcategory: %w", err)
	}
	slog.Debug("created system subcategory", "owner", ownerID, "config_id", sub.ConfigID, "name", sub.Name)
	return nil
}

// upsertSubcategories handles subentries whose parents already existed
// before this sync. Parents are resolved by config id, never by name.
func (e *Engine) upsertSubcategories(ctx context.Context, s service.Storage, ownerID int64, entries []kindedEntry) error {
	system, err := s.GetSystemCategories(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load system categories: %w", err)
	}

	parents := make(map[int64]*model.Category)
	for i := range system {
		cat := &system[i]
		if cat.ParentID == nil && cat.ConfigID != nil {
			parents[*cat.ConfigID] = cat
		}
	}

	for _, ke := range entries {
		parent := parents[ke.entry.ConfigID]
		for _, sub := range ke.entry.Subcategories {
			if err := e.upsertSub(ctx, s, ownerID, ke.kind, sub, parent, false); err != nil {
				slog.Error("skipping catalog subentry",
					"owner", ownerID,
					"config_id", sub.ConfigID,
					"error", err)
			}
		}
	}
	return nil
}

// repairSubcategoryParents recomputes which parent each active system
// subcategory should have according to the catalog's current grouping and
// corrects drift. Ids and config ids never change here.
func (e *Engine) repairSubcategoryParents(ctx context.Context, s service.Storage, ownerID int64, entries []kindedEntry) error {
	system, err := s.GetSystemCategories(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load system categories: %w", err)
	}

	parentConfigBySub := make(map[int64]int64)
	for _, ke := range entries {
		for _, sub := range ke.entry.Subcategories {
			parentConfigBySub[sub.ConfigID] = ke.entry.ConfigID
		}
	}

	parents := make(map[int64]*model.Category)
	for i := range system {
		cat := &system[i]
		if cat.ParentID == nil && cat.ConfigID != nil {
			parents[*cat.ConfigID] = cat
		}
	}

	repaired := 0
	for i := range system {
		cat := &system[i]
		if !cat.IsActive || cat.ParentID == nil || cat.ConfigID == nil {
			continue
		}
		parentConfig, ok := parentConfigBySub[*cat.ConfigID]
		if !ok {
			continue
		}
		correct := parents[parentConfig]
		if correct == nil || *cat.ParentID == correct.ID {
			continue
		}

		slog.Warn("repairing subcategory parent",
			"owner", ownerID,
			"config_id", *cat.ConfigID,
			"name", cat.Name,
			"parent_id", *cat.ParentID,
			"correct_parent_id", correct.ID)
		cat.ParentID = &correct.ID
		if _, err := s.SaveCategory(ctx, cat); err != nil {
			return fmt.Errorf("failed to repair subcategory parent: %w", err)
		}
		repaired++
	}

	if repaired > 0 {
		slog.Info("repaired subcategory parents", "owner", ownerID, "count", repaired)
	}
	return nil
}

// retireRemovedCategories soft-deletes active system categories whose config
// id no longer appears in the catalog, unless an active transaction still
// references them.
func (e *Engine) retireRemovedCategories(ctx context.Context, s service.Storage, ownerID int64, entries []kindedEntry) error {
	known := make(map[int64]bool)
	for _, ke := range entries {
		known[ke.entry.ConfigID] = true
		for _, sub := range ke.entry.Subcategories {
			known[sub.ConfigID] = true
		}
	}

	system, err := s.GetSystemCategories(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load system categories: %w", err)
	}

	for i := range system {
		cat := &system[i]
		if !cat.IsActive || cat.ConfigID == nil || known[*cat.ConfigID] {
			continue
		}

		referenced, refErr := s.HasActiveTransactions(ctx, cat.ID)
		if refErr != nil {
			return fmt.Errorf("failed to check transaction references for category %d: %w", cat.ID, refErr)
		}
		if referenced {
			slog.Warn("preserving retired system category still referenced by transactions",
				"owner", ownerID,
				"config_id", *cat.ConfigID,
				"name", cat.Name)
			continue
		}

		cat.IsActive = false
		if _, err := s.SaveCategory(ctx, cat); err != nil {
			return fmt.Errorf("failed to retire category %d: %w", cat.ID, err)
		}
		slog.Info("retired system category",
			"owner", ownerID,
			"config_id", *cat.ConfigID,
			"name", cat.Name)
	}
	return nil
}

// createOrUpdate is the initialize path: find the row by config id
// (including soft-deleted rows), reactivate and update it if present,
// insert it otherwise.
func (e *Engine) createOrUpdate(ctx context.Context, s service.Storage, ownerID int64, kind model.CategoryKind, name, icon, color string, sortOrder int, configID int64, parentID *int64) (*model.Category, error) {
	existing, err := s.GetCategoryByConfigID(ctx, ownerID, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category by config id: %w", err)
	}

	if existing != nil {
		existing.Name = name
		existing.Icon = icon
		existing.Color = color
		existing.SortOrder = sortOrder
		existing.ParentID = parentID
		existing.IsActive = true
		// A config id row is catalog-owned even if a past bug flagged it
		// custom; restore the invariant.
		existing.IsSystem = true
		saved, saveErr := s.SaveCategory(ctx, existing)
		if saveErr != nil {
			return nil, fmt.Errorf("failed to reactivate category: %w", saveErr)
		}
		slog.Debug("reactivated category", "owner", ownerID, "config_id", configID, "name", name)
		return saved, nil
	}

	id := configID
	created, err := s.SaveCategory(ctx, &model.Category{
		OwnerID:   ownerID,
		Name:      name,
		Kind:      kind,
		Icon:      icon,
		Color:     color,
		SortOrder: sortOrder,
		IsSystem:  true,
		ConfigID:  &id,
		ParentID:  parentID,
		IsActive:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	slog.Debug("created category", "owner", ownerID, "config_id", configID, "name", name)
	return created, nil
}
