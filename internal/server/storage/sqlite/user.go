package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shivajik/gmb-brifecase/internal/models"
	"github.com/shivajik/gmb-brifecase/internal/server/storage"
)

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO cms_users (id, email, name, password_hash, is_active, created_at, last_login)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.IsActive,
		user.CreatedAt,
		user.LastLogin,
	)

	if err != nil {
		// Конфликт уникальности email маппится в именованную ошибку,
		// чтобы вызывающие не разбирали коды драйвера
		if strings.Contains(err.Error(), "UNIQUE constraint failed: cms_users.email") {
			return storage.ErrEmailExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by normalized email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, is_active, created_at, last_login
		FROM cms_users
		WHERE email = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, is_active, created_at, last_login
		FROM cms_users
		WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, userID))
}

func (s *Storage) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
		&lastLogin,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}

	return user, nil
}

// CountUsers returns total number of users
func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cms_users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// SetUserActive toggles the soft-deactivation flag
func (s *Storage) SetUserActive(ctx context.Context, userID string, active bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE cms_users SET is_active = ? WHERE id = ?`, active, userID)
	if err != nil {
		return fmt.Errorf("failed to update user active flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin updates the last login timestamp
func (s *Storage) UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE cms_users SET last_login = ? WHERE id = ?`, lastLogin, userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

// AddUserRole grants a role to the user, no-op if already granted
func (s *Storage) AddUserRole(ctx context.Context, userID, role string) error {
	query := `
		INSERT OR IGNORE INTO cms_user_roles (user_id, role, created_at)
		VALUES (?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, userID, role, time.Now()); err != nil {
		return fmt.Errorf("failed to add user role: %w", err)
	}

	return nil
}

// RemoveUserRole revokes a role from the user
func (s *Storage) RemoveUserRole(ctx context.Context, userID, role string) error {
	query := `DELETE FROM cms_user_roles WHERE user_id = ? AND role = ?`

	if _, err := s.db.ExecContext(ctx, query, userID, role); err != nil {
		return fmt.Errorf("failed to remove user role: %w", err)
	}

	return nil
}

// GetUserRoles returns the user's roles in assignment order
func (s *Storage) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	// Порядок назначения = порядок автоинкрементного id
	query := `
		SELECT role
		FROM cms_user_roles
		WHERE user_id = ?
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user roles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	roles := []string{}
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return roles, nil
}
