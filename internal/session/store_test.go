package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestStore_SetCredentialsPersists(t *testing.T) {
	store := newTestStore(t)

	err := store.SetCredentials("tok1", &Profile{ID: "1", Email: "admin@x.com"})
	require.NoError(t, err)

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "tok1", store.Token())

	// A fresh store reading the same file sees the same session
	reloaded := NewStore(store.Path())
	require.NoError(t, reloaded.Load())
	assert.True(t, reloaded.IsAuthenticated())
	assert.Equal(t, "tok1", reloaded.Token())
	assert.Equal(t, "admin@x.com", reloaded.Profile().Email)
}

func TestStore_SetCredentialsRequiresBoth(t *testing.T) {
	store := newTestStore(t)

	assert.Error(t, store.SetCredentials("", &Profile{ID: "1"}))
	assert.Error(t, store.SetCredentials("tok", nil))
	assert.False(t, store.IsAuthenticated())
}

func TestStore_ClearRemovesFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetCredentials("tok1", &Profile{ID: "1", Email: "a@b.c"}))

	require.NoError(t, store.Clear())

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.Profile())

	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "session file should be gone after Clear")
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Load())
	assert.False(t, store.IsAuthenticated())
}

func TestStore_LoadCorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o700))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o600))

	require.NoError(t, store.Load())
	assert.False(t, store.IsAuthenticated())
}

func TestStore_LoadRejectsPartialSession(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o700))

	// Token without profile must not count as authenticated
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"token":"tok1","user":null}`), 0o600))
	require.NoError(t, store.Load())
	assert.False(t, store.IsAuthenticated())
}

func TestStore_ProfileReturnsCopy(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetCredentials("tok1", &Profile{ID: "1", Email: "a@b.c"}))

	p := store.Profile()
	p.Email = "mutated@x.com"

	assert.Equal(t, "a@b.c", store.Profile().Email)
}
