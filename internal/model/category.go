package model

import "time"

// CategoryKind indicates whether a category groups income or expense
// transactions.
type CategoryKind string

const (
	// CategoryKindExpense represents categories for expense transactions.
	CategoryKindExpense CategoryKind = "expense"
	// CategoryKindIncome represents categories for income transactions.
	CategoryKindIncome CategoryKind = "income"
)

// Category is a node in a user's two-level category tree. Parent categories
// have a nil ParentID; subcategories point at a parent that itself has no
// parent. System categories are sourced from the catalog and carry the
// catalog's ConfigID; custom categories have a nil ConfigID.
type Category struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Icon      string
	Color     string
	Kind      CategoryKind
	ParentID  *int64
	ConfigID  *int64
	ID        int64
	OwnerID   int64
	SortOrder int
	IsSystem  bool
	IsActive  bool
}

// IsParent reports whether the category is a top-level category.
func (c *Category) IsParent() bool {
	return c.ParentID == nil
}
