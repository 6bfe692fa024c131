package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shivajik/gmb-brifecase/internal/models"
	"github.com/shivajik/gmb-brifecase/internal/server/storage"
)

// CreateMenu creates a new menu
func (s *Storage) CreateMenu(ctx context.Context, menu *models.Menu) error {
	query := `
		INSERT INTO cms_menus (id, name, location, items, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		menu.ID,
		menu.Name,
		menu.Location,
		string(menu.Items),
		menu.CreatedAt,
		menu.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: cms_menus.location") {
			return storage.ErrLocationExists
		}
		return fmt.Errorf("failed to insert menu: %w", err)
	}

	return nil
}

// GetMenuByLocation retrieves menu by its location slot
func (s *Storage) GetMenuByLocation(ctx context.Context, location string) (*models.Menu, error) {
	query := `
		SELECT id, name, location, items, created_at, updated_at
		FROM cms_menus
		WHERE location = ?
	`

	menu, err := scanMenu(s.db.QueryRowContext(ctx, query, location))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrMenuNotFound
		}
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}

	return menu, nil
}

// ListMenus returns all menus ordered by location
func (s *Storage) ListMenus(ctx context.Context) ([]*models.Menu, error) {
	query := `
		SELECT id, name, location, items, created_at, updated_at
		FROM cms_menus
		ORDER BY location ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query menus: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var menus []*models.Menu
	for rows.Next() {
		menu, err := scanMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu: %w", err)
		}
		menus = append(menus, menu)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return menus, nil
}

// UpdateMenu replaces the stored menu row
func (s *Storage) UpdateMenu(ctx context.Context, menu *models.Menu) error {
	query := `
		UPDATE cms_menus
		SET name = ?, items = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		menu.Name,
		string(menu.Items),
		menu.UpdatedAt,
		menu.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update menu: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrMenuNotFound
	}

	return nil
}

// DeleteMenu deletes menu by ID
func (s *Storage) DeleteMenu(ctx context.Context, menuID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cms_menus WHERE id = ?`, menuID)
	if err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrMenuNotFound
	}

	return nil
}

func scanMenu(row scanner) (*models.Menu, error) {
	menu := &models.Menu{}
	var items string

	err := row.Scan(
		&menu.ID,
		&menu.Name,
		&menu.Location,
		&items,
		&menu.CreatedAt,
		&menu.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	menu.Items = []byte(items)
	return menu, nil
}
