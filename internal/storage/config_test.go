package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValues(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	t.Run("unset key reads as empty", func(t *testing.T) {
		value, err := store.GetConfigValue(ctx, "category_config_version")
		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.SetConfigValue(ctx, "category_config_version", "1.4.0"))

		value, err := store.GetConfigValue(ctx, "category_config_version")
		require.NoError(t, err)
		assert.Equal(t, "1.4.0", value)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, store.SetConfigValue(ctx, "category_config_version", "1.5.0"))

		value, err := store.GetConfigValue(ctx, "category_config_version")
		require.NoError(t, err)
		assert.Equal(t, "1.5.0", value)
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		_, err := store.GetConfigValue(ctx, "  ")
		assert.ErrorIs(t, err, ErrEmptyString)

		err = store.SetConfigValue(ctx, "", "x")
		assert.ErrorIs(t, err, ErrEmptyString)
	})
}
