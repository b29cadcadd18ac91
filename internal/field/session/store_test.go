// internal/field/session/store_test.go
package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	saved := &Session{
		Token:  "opaque-token",
		UserID: "u-1",
		Email:  "agent@tapreview.app",
		Name:   "Agent",
		Role:   "user",
	}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", loaded.Token)
	assert.Equal(t, "agent@tapreview.app", loaded.Email)
	assert.False(t, loaded.SavedAt.IsZero())

	token, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", token)
}

func TestStoreAbsentMeansUnauthenticated(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = store.Token()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStoreClear(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	require.NoError(t, store.Save(&Session{Token: "t", UserID: "u"}))
	require.NoError(t, store.Clear())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	// clearing twice is fine
	assert.NoError(t, store.Clear())
}

func TestStoreRejectsEmptyToken(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	assert.Error(t, store.Save(&Session{UserID: "u"}))
}

func TestStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewStore(path).Load()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}
