package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivajik/gmb-brifecase/internal/client/storage"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "client.db")
	s, err := New(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestAuthStorage_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	auth := &storage.AuthData{
		UserID:    "user-1",
		Email:     "editor@example.com",
		Name:      "Editor",
		Roles:     []string{"editor"},
		Token:     "signed-token",
		ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
	}

	require.NoError(t, s.SaveAuth(ctx, auth))

	got, err := s.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth, got)
}

func TestAuthStorage_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}

func TestAuthStorage_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	require.NoError(t, s.SaveAuth(ctx, &storage.AuthData{UserID: "user-1", Token: "old"}))
	require.NoError(t, s.SaveAuth(ctx, &storage.AuthData{UserID: "user-1", Token: "new"}))

	got, err := s.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Token)
}

func TestAuthStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	require.NoError(t, s.SaveAuth(ctx, &storage.AuthData{UserID: "user-1", Token: "tok"}))
	require.NoError(t, s.DeleteAuth(ctx))

	_, err := s.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	// Повторное удаление идемпотентно
	require.NoError(t, s.DeleteAuth(ctx))
}
