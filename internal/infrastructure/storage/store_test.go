package storage

import (
	"path/filepath"
	"testing"

	"github.com/snapvalue/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "vision.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	desc := domain.ObjectDescription{
		Name:     "Flower Pot",
		Color:    "Yellow",
		Height:   20,
		Width:    10,
		Depth:    10,
		Material: "Clay Pottery",
	}

	t.Run("round trip", func(t *testing.T) {
		store := newTestStore(t)

		require.NoError(t, store.Put("hash-1", desc))
		got, err := store.Get("hash-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, desc, *got)
	})

	t.Run("unknown hash returns nil without error", func(t *testing.T) {
		store := newTestStore(t)

		got, err := store.Get("never-seen")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("put replaces an existing entry", func(t *testing.T) {
		store := newTestStore(t)

		require.NoError(t, store.Put("hash-1", desc))
		updated := desc
		updated.Color = "Blue"
		require.NoError(t, store.Put("hash-1", updated))

		got, err := store.Get("hash-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Blue", got.Color)
	})

	t.Run("reopening the store keeps entries", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vision.db")

		store, err := NewSQLiteStore(path)
		require.NoError(t, err)
		require.NoError(t, store.Put("hash-1", desc))
		require.NoError(t, store.Close())

		reopened, err := NewSQLiteStore(path)
		require.NoError(t, err)
		defer reopened.Close()

		got, err := reopened.Get("hash-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, desc.Name, got.Name)
	})
}
