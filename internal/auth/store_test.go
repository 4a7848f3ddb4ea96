package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewFileStore(path, "passphrase")

	_, ok := store.Get(KeyUserSecret)
	assert.False(t, ok)

	require.NoError(t, store.Save(KeyUserSecret, "s3cret"))
	require.NoError(t, store.Save(KeyUserUUID, "uuid-1"))

	value, ok := store.Get(KeyUserSecret)
	assert.True(t, ok)
	assert.Equal(t, "s3cret", value)

	require.NoError(t, store.Delete(KeyUserSecret))
	_, ok = store.Get(KeyUserSecret)
	assert.False(t, ok)

	// The other key survives the delete.
	value, ok = store.Get(KeyUserUUID)
	assert.True(t, ok)
	assert.Equal(t, "uuid-1", value)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store := NewFileStore(path, "passphrase")
	require.NoError(t, store.Save(KeyUserSecret, "s3cret"))

	reopened := NewFileStore(path, "passphrase")
	value, ok := reopened.Get(KeyUserSecret)
	assert.True(t, ok)
	assert.Equal(t, "s3cret", value)
}

func TestFileStoreRejectsWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store := NewFileStore(path, "right")
	require.NoError(t, store.Save(KeyUserSecret, "s3cret"))

	wrong := NewFileStore(path, "wrong")
	_, ok := wrong.Get(KeyUserSecret)
	assert.False(t, ok)

	err := wrong.Save(KeyUserSecret, "other")
	assert.Error(t, err, "must not clobber a file it cannot decrypt")
}
