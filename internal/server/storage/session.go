package storage

import (
	"context"

	"github.com/shivajik/gmb-brifecase/internal/models"
)

// SessionStorage defines interface for the server-side session ledger.
// Ledger rows make sessions revocable independent of the signed token's
// cryptographic validity.
type SessionStorage interface {
	// CreateSession persists a new session record
	CreateSession(ctx context.Context, session *models.Session) error

	// GetLiveSession retrieves a session that exists AND has not expired.
	// The expiry check is part of the query: expired rows are invisible
	// here even though nothing deletes them eagerly.
	// Returns ErrSessionNotFound otherwise.
	GetLiveSession(ctx context.Context, sessionID string) (*models.Session, error)

	// DeleteSession revokes a session by id.
	// Returns ErrSessionNotFound if no row was deleted; callers doing
	// best-effort revocation treat that as success.
	DeleteSession(ctx context.Context, sessionID string) error

	// DeleteUserSessions revokes all sessions of a user.
	// Returns number of deleted sessions.
	DeleteUserSessions(ctx context.Context, userID string) (int, error)

	// DeleteExpiredSessions removes stale ledger rows.
	// Returns number of deleted sessions. Correctness does not depend on
	// this — GetLiveSession already filters on expiry — it only bounds
	// table growth.
	DeleteExpiredSessions(ctx context.Context) (int, error)
}
