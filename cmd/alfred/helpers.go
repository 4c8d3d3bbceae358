package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/colafan/alfred/internal/catalog"
	"github.com/colafan/alfred/internal/storage"
	"github.com/spf13/viper"
)

// initStorage opens the configured database and applies pending migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "alfred", "alfred.db")
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// loadCatalog returns the configured catalog file, or the built-in defaults
// when none is configured.
func loadCatalog() (catalog.Catalog, error) {
	path := viper.GetString("catalog.path")
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}
