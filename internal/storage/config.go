package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// getConfigValue returns the stored value for a system config key, or the
// empty string when the key has never been set.
func getConfigValue(ctx context.Context, q executor, key string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(key, "key"); err != nil {
		return "", err
	}

	var value string
	err := q.QueryRowContext(ctx, `SELECT config_value FROM system_configs WHERE config_key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query config value: %w", err)
	}
	return value, nil
}

func setConfigValue(ctx context.Context, q executor, key, value string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO system_configs (config_key, config_value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(config_key) DO UPDATE SET config_value = excluded.config_value, updated_at = excluded.updated_at`

	if _, err := q.ExecContext(ctx, query, key, value, now, now); err != nil {
		return fmt.Errorf("failed to set config value: %w", err)
	}
	return nil
}
