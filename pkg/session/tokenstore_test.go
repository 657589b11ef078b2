package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store, err := NewFileTokenStore(path)
	require.NoError(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, store.Save("tok-abc"))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestFileTokenStoreClearIsIdempotent(t *testing.T) {
	store, err := NewFileTokenStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, err)

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Clear())
}

func TestFileTokenStoreTreatsEmptyFileAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0600))

	store, err := NewFileTokenStore(path)
	require.NoError(t, err)
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoToken)
}
