package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// fileFormat mirrors the on-disk categories file.
type fileFormat struct {
	Version           string      `json:"version"`
	ExpenseCategories []fileEntry `json:"expense_categories"`
	IncomeCategories  []fileEntry `json:"income_categories"`
}

type fileEntry struct {
	Name          string         `json:"name"`
	Icon          string         `json:"icon"`
	Color         string         `json:"color"`
	Subcategories []fileSubentry `json:"subcategories"`
	ID            int64          `json:"id"`
	SortOrder     int            `json:"sort_order"`
}

type fileSubentry struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	ID    int64  `json:"id"`
}

// LoadFile reads a catalog from a JSON file.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var cfg fileFormat
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("catalog file %s has no version", path)
	}

	c := &Static{
		Ver:     cfg.Version,
		Expense: convertEntries(cfg.ExpenseCategories),
		Income:  convertEntries(cfg.IncomeCategories),
	}

	slog.Info("loaded category catalog",
		"path", path,
		"version", c.Ver,
		"expense", len(c.Expense),
		"income", len(c.Income))
	return c, nil
}

func convertEntries(entries []fileEntry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		entry := Entry{
			ConfigID:  e.ID,
			Name:      e.Name,
			Icon:      e.Icon,
			Color:     e.Color,
			SortOrder: e.SortOrder,
		}
		for _, sub := range e.Subcategories {
			entry.Subcategories = append(entry.Subcategories, Subentry{
				ConfigID: sub.ID,
				Name:     sub.Name,
				Icon:     sub.Icon,
				Color:    sub.Color,
			})
		}
		out = append(out, entry)
	}
	return out
}
