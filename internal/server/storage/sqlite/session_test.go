package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivajik/gmb-brifecase/internal/models"
	"github.com/shivajik/gmb-brifecase/internal/server/storage"
	"github.com/shivajik/gmb-brifecase/internal/server/token"
)

func createTestSession(t *testing.T, ctx context.Context, s *Storage, userID string, ttl time.Duration) *models.Session {
	id, err := token.NewSessionID()
	require.NoError(t, err)

	session := &models.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateSession(ctx, session))
	return session
}

func TestSessionStorage_CreateAndGetLive(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)
	session := createTestSession(t, ctx, s, userID, 24*time.Hour)

	got, err := s.GetLiveSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, userID, got.UserID)
	assert.WithinDuration(t, session.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestSessionStorage_GetLiveSession_ExpiredInvisible(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	// Строка существует, но истекла: live-фильтр ее не видит
	expired := createTestSession(t, ctx, s, userID, -time.Minute)

	_, err := s.GetLiveSession(ctx, expired.ID)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSessionStorage_GetLiveSession_Unknown(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetLiveSession(ctx, "no-such-session")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSessionStorage_DeleteSession(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)
	session := createTestSession(t, ctx, s, userID, 24*time.Hour)

	require.NoError(t, s.DeleteSession(ctx, session.ID))

	_, err := s.GetLiveSession(ctx, session.ID)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	// Повторное удаление сигнализирует отсутствие строки; для best-effort
	// отзыва это не ошибка
	err = s.DeleteSession(ctx, session.ID)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSessionStorage_IndependentSessions(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	// Два логина -> две независимые сессии
	s1 := createTestSession(t, ctx, s, userID, 24*time.Hour)
	s2 := createTestSession(t, ctx, s, userID, 24*time.Hour)
	require.NotEqual(t, s1.ID, s2.ID)

	require.NoError(t, s.DeleteSession(ctx, s1.ID))

	// Отзыв одной не трогает другую
	_, err := s.GetLiveSession(ctx, s2.ID)
	require.NoError(t, err)
}

func TestSessionStorage_DeleteUserSessions(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)
	otherID := createTestUser(t, ctx, s)

	createTestSession(t, ctx, s, userID, 24*time.Hour)
	createTestSession(t, ctx, s, userID, 24*time.Hour)
	other := createTestSession(t, ctx, s, otherID, 24*time.Hour)

	count, err := s.DeleteUserSessions(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Чужие сессии не затронуты
	_, err = s.GetLiveSession(ctx, other.ID)
	require.NoError(t, err)
}

func TestSessionStorage_DeleteExpiredSessions(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	live := createTestSession(t, ctx, s, userID, 24*time.Hour)
	createTestSession(t, ctx, s, userID, -time.Hour)
	createTestSession(t, ctx, s, userID, -time.Minute)

	count, err := s.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = s.GetLiveSession(ctx, live.ID)
	require.NoError(t, err)
}
