package storage

import (
	"context"
	"time"

	"github.com/shivajik/gmb-brifecase/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage.
	// Returns ErrEmailExists if the normalized email is already taken;
	// the unique constraint is authoritative, callers must not pre-check.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by normalized email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// CountUsers returns total number of users, including deactivated ones.
	// Zero means the bootstrap registration is still open.
	CountUsers(ctx context.Context) (int, error)

	// SetUserActive toggles the soft-deactivation flag
	// Returns ErrUserNotFound if user doesn't exist
	SetUserActive(ctx context.Context, userID string, active bool) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error

	// AddUserRole grants a role to the user.
	// Granting an already-held role is a no-op.
	AddUserRole(ctx context.Context, userID, role string) error

	// RemoveUserRole revokes a role from the user.
	// Roles are never mutated in place: revoke deletes, grant inserts.
	RemoveUserRole(ctx context.Context, userID, role string) error

	// GetUserRoles returns the user's roles in assignment order.
	// Returns empty slice if the user has no roles.
	GetUserRoles(ctx context.Context, userID string) ([]string, error)
}
