// Package catalog provides the versioned, read-only list of canonical
// category definitions that the sync engine reconciles user trees against.
package catalog

import "github.com/colafan/alfred/internal/model"

// Subentry is a canonical subcategory definition.
type Subentry struct {
	Name     string
	Icon     string
	Color    string
	ConfigID int64
}

// Entry is a canonical parent category definition together with its
// subcategories.
type Entry struct {
	Name          string
	Icon          string
	Color         string
	Subcategories []Subentry
	ConfigID      int64
	SortOrder     int
}

// Catalog exposes the canonical category set. Implementations are
// deterministic and side-effect free; the engine never mutates a catalog.
type Catalog interface {
	// Categories returns the ordered parent entries for the given kind.
	Categories(kind model.CategoryKind) []Entry
	// Version returns the catalog's version string.
	Version() string
}

// Static is an in-memory catalog, used in tests and as the backing store for
// the built-in defaults.
type Static struct {
	Ver     string
	Expense []Entry
	Income  []Entry
}

// Categories implements Catalog.
func (s *Static) Categories(kind model.CategoryKind) []Entry {
	switch kind {
	case model.CategoryKindExpense:
		return s.Expense
	case model.CategoryKindIncome:
		return s.Income
	default:
		return nil
	}
}

// Version implements Catalog.
func (s *Static) Version() string {
	return s.Ver
}
