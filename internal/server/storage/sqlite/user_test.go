package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivajik/gmb-brifecase/internal/models"
	"github.com/shivajik/gmb-brifecase/internal/server/storage"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	// Используем in-memory database для тестов
	s, err := New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
	}

	return s, cleanup
}

func createTestUser(t *testing.T, ctx context.Context, s *Storage) string {
	userID := uuid.New().String()
	user := &models.User{
		ID:           userID,
		Email:        "user_" + userID[:8] + "@example.com",
		Name:         "Test User",
		PasswordHash: "pbkdf2:100000:aabb:ccdd",
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	err := s.CreateUser(ctx, user)
	require.NoError(t, err)

	return userID
}

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        "editor@example.com",
		Name:         "Editor",
		PasswordHash: "pbkdf2:100000:aabb:ccdd",
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	require.NoError(t, s.CreateUser(ctx, user))

	retrieved, err := s.GetUserByEmail(ctx, "editor@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, retrieved.ID)
	assert.Equal(t, user.Email, retrieved.Email)
	assert.Equal(t, user.Name, retrieved.Name)
	assert.Equal(t, user.PasswordHash, retrieved.PasswordHash)
	assert.True(t, retrieved.IsActive)
	assert.Nil(t, retrieved.LastLogin)

	byID, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
}

func TestUserStorage_CreateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user1 := &models.User{
		ID:           uuid.New().String(),
		Email:        "duplicate@example.com",
		PasswordHash: "hash1",
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.CreateUser(ctx, user1))

	// Та же почта, другой ID -> именованная ошибка конфликта
	user2 := &models.User{
		ID:           uuid.New().String(),
		Email:        "duplicate@example.com",
		PasswordHash: "hash2",
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	err := s.CreateUser(ctx, user2)
	assert.ErrorIs(t, err, storage.ErrEmailExists)
}

func TestUserStorage_GetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.GetUserByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_CountUsers(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	createTestUser(t, ctx, s)
	createTestUser(t, ctx, s)

	count, err = s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUserStorage_SetUserActive(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	require.NoError(t, s.SetUserActive(ctx, userID, false))

	user, err := s.GetUserByID(ctx, userID)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	err = s.SetUserActive(ctx, uuid.New().String(), false)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_UpdateLastLogin(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	now := time.Now()
	require.NoError(t, s.UpdateLastLogin(ctx, userID, now))

	user, err := s.GetUserByID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)
	assert.WithinDuration(t, now, *user.LastLogin, time.Second)
}

func TestUserStorage_Roles_AssignmentOrder(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	roles, err := s.GetUserRoles(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, roles)

	require.NoError(t, s.AddUserRole(ctx, userID, models.RoleEditor))
	require.NoError(t, s.AddUserRole(ctx, userID, models.RoleAdmin))

	// Роли возвращаются в порядке назначения
	roles, err = s.GetUserRoles(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleEditor, models.RoleAdmin}, roles)
}

func TestUserStorage_AddUserRole_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	require.NoError(t, s.AddUserRole(ctx, userID, models.RoleEditor))
	require.NoError(t, s.AddUserRole(ctx, userID, models.RoleEditor))

	roles, err := s.GetUserRoles(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleEditor}, roles)
}

func TestUserStorage_RemoveUserRole(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)
	require.NoError(t, s.AddUserRole(ctx, userID, models.RoleEditor))
	require.NoError(t, s.AddUserRole(ctx, userID, models.RoleViewer))

	require.NoError(t, s.RemoveUserRole(ctx, userID, models.RoleEditor))

	roles, err := s.GetUserRoles(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleViewer}, roles)

	// Повторное удаление не ошибка
	require.NoError(t, s.RemoveUserRole(ctx, userID, models.RoleEditor))
}
