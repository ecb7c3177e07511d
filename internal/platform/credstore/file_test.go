package credstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	authmodels "crypto-ramp-backend/internal/features/auth/models"
	usermodels "crypto-ramp-backend/internal/features/user/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestFileStoreSessionRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	loaded, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded, "empty store reads as absent, not as an error")

	session := &authmodels.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(15 * time.Minute).Truncate(time.Second),
	}
	require.NoError(t, store.SaveSession(ctx, session))

	loaded, err = store.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, session.AccessToken, loaded.AccessToken)
	assert.Equal(t, session.RefreshToken, loaded.RefreshToken)
}

func TestFileStoreSessionReplace(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	require.NoError(t, store.SaveSession(ctx, &authmodels.Session{AccessToken: "old"}))
	require.NoError(t, store.SaveSession(ctx, &authmodels.Session{AccessToken: "new"}))

	loaded, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.AccessToken)
}

func TestFileStoreClearSession(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	require.NoError(t, store.SaveSession(ctx, &authmodels.Session{AccessToken: "x"}))
	require.NoError(t, store.ClearSession(ctx))

	loaded, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing an already-empty key is a no-op.
	require.NoError(t, store.ClearSession(ctx))
}

func TestFileStoreUserRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	loaded, err := store.LoadUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	user := &usermodels.User{ID: "u1", Email: "a@b.com", KYCVerified: true}
	require.NoError(t, store.SaveUser(ctx, user))

	loaded, err = store.LoadUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "u1", loaded.ID)
	assert.True(t, loaded.KYCVerified)

	require.NoError(t, store.ClearUser(ctx))
	loaded, err = store.LoadUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileStoreAuthenticatedFlag(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	v, err := store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, v)

	require.NoError(t, store.SetAuthenticated(ctx, true))
	v, err = store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, v)

	require.NoError(t, store.SetAuthenticated(ctx, false))
	v, err = store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestFileStoreKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	require.NoError(t, store.SaveSession(ctx, &authmodels.Session{AccessToken: "x"}))
	require.NoError(t, store.SaveUser(ctx, &usermodels.User{ID: "u1"}))
	require.NoError(t, store.ClearSession(ctx))

	user, err := store.LoadUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.SaveSession(ctx, &authmodels.Session{AccessToken: "x"}))
	require.NoError(t, store.SaveUser(ctx, &usermodels.User{ID: "u1"}))
	require.NoError(t, store.SetAuthenticated(ctx, true))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, filepath.Ext(e.Name()), ".json", "unexpected file %s", e.Name())
	}
	assert.Len(t, entries, 3)
}
