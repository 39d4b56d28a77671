package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsanano/storefront-client/internal/model"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	sess := model.Session{
		User:  model.User{UserID: "u1", Username: "user", Email: "u@example.com"},
		Token: "tok-1",
	}
	require.NoError(t, store.Save(context.Background(), sess))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess, *got)
}

func TestFileStore_EmptyDir(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStore_HalfPairDiscarded(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	// A user record without its token is no session.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), []byte(`{"userId":"u1"}`), 0o600))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStore_ClearIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	sess := model.Session{User: model.User{UserID: "u1"}, Token: "tok"}
	require.NoError(t, store.Save(context.Background(), sess))

	require.NoError(t, store.Clear(context.Background()))
	require.NoError(t, store.Clear(context.Background()))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), model.Session{User: model.User{UserID: "u1"}, Token: "old"}))
	require.NoError(t, store.Save(context.Background(), model.Session{User: model.User{UserID: "u2"}, Token: "new"}))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u2", got.User.UserID)
	assert.Equal(t, "new", got.Token)
}
