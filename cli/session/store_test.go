package session

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(afero.NewMemMapFs(), "/home/test/.config/usersys/credentials.json")
}

func TestStore_GetSet(t *testing.T) {
	t.Run("Should report absent keys before any write", func(t *testing.T) {
		store := newTestStore(t)
		value, ok := store.Get(KeyToken)
		assert.False(t, ok)
		assert.Empty(t, value)
	})
	t.Run("Should round-trip token and role", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Set(KeyToken, "tok-123"))
		require.NoError(t, store.Set(KeyRole, RoleAdmin))
		assert.Equal(t, "tok-123", store.Token())
		assert.Equal(t, RoleAdmin, store.Role())
	})
	t.Run("Should treat empty values as absent", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Set(KeyToken, ""))
		_, ok := store.Get(KeyToken)
		assert.False(t, ok)
	})
	t.Run("Should persist values across store instances on the same filesystem", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		path := "/data/credentials.json"
		first := NewStore(fs, path)
		require.NoError(t, first.Set(KeyToken, "tok-456"))
		second := NewStore(fs, path)
		assert.Equal(t, "tok-456", second.Token())
	})
}

func TestStore_Clear(t *testing.T) {
	t.Run("Should clear a single key and leave the other", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Set(KeyToken, "tok"))
		require.NoError(t, store.Set(KeyRole, RoleEmployee))
		require.NoError(t, store.Clear(KeyToken))
		assert.Empty(t, store.Token())
		assert.Equal(t, RoleEmployee, store.Role())
	})
	t.Run("Should clear everything with ClearAll", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Set(KeyToken, "tok"))
		require.NoError(t, store.Set(KeyRole, RoleAdmin))
		require.NoError(t, store.ClearAll())
		assert.Empty(t, store.Token())
		assert.Empty(t, store.Role())
	})
	t.Run("Should tolerate clearing when nothing is stored", func(t *testing.T) {
		store := newTestStore(t)
		assert.NoError(t, store.ClearAll())
		assert.NoError(t, store.Clear(KeyRole))
	})
}

func TestStore_CorruptFile(t *testing.T) {
	t.Run("Should treat a corrupt credentials file as empty", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		path := "/data/credentials.json"
		require.NoError(t, afero.WriteFile(fs, path, []byte("{not json"), 0o600))
		store := NewStore(fs, path)
		assert.Empty(t, store.Token())
		require.NoError(t, store.Set(KeyToken, "fresh"))
		assert.Equal(t, "fresh", store.Token())
	})
}
