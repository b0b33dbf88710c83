package client_test

import (
	"path/filepath"
	"testing"

	"studyPaw/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorStore(t *testing.T) {
	store := client.NewCursorStore(filepath.Join(t.TempDir(), "cursor"))

	t.Run("empty before set", func(t *testing.T) {
		got, err := store.Get()
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set("panda-rare"))

		got, err := store.Get()
		require.NoError(t, err)
		assert.Equal(t, "panda-rare", got)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set("duck-common"))

		got, err := store.Get()
		require.NoError(t, err)
		assert.Equal(t, "duck-common", got)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, store.Clear())

		got, err := store.Get()
		require.NoError(t, err)
		assert.Empty(t, got)

		// повторная очистка не ошибка
		require.NoError(t, store.Clear())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		require.NoError(t, store.Set("  owl-secret\n"))

		got, err := store.Get()
		require.NoError(t, err)
		assert.Equal(t, "owl-secret", got)
	})
}
