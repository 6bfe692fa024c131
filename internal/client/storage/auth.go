package storage

import "context"

// AuthStorage defines interface for storing authentication data on client.
// Stores the signed token as-is: the server re-checks it on every
// privileged call, so local state is a cache, not a source of truth.
type AuthStorage interface {
	// SaveAuth stores authentication data
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves stored authentication data
	// Returns ErrAuthNotFound if no auth data exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored authentication data (logout)
	DeleteAuth(ctx context.Context) error
}

// AuthData represents authentication information in storage
type AuthData struct {
	UserID    string   `json:"user_id"`
	Email     string   `json:"email"`
	Name      string   `json:"name,omitempty"`
	Roles     []string `json:"roles"`
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expires_at"` // unix seconds
}
