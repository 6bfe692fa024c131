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

// CreatePage creates a new page
func (s *Storage) CreatePage(ctx context.Context, page *models.Page) error {
	query := `
		INSERT INTO cms_pages (id, title, slug, content, status, template, author_id,
			meta_title, meta_description, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		page.ID,
		page.Title,
		page.Slug,
		string(page.Content),
		page.Status,
		page.Template,
		page.AuthorID,
		page.MetaTitle,
		page.MetaDescription,
		page.PublishedAt,
		page.CreatedAt,
		page.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: cms_pages.slug") {
			return storage.ErrSlugExists
		}
		return fmt.Errorf("failed to insert page: %w", err)
	}

	return nil
}

// GetPageByID retrieves page by ID
func (s *Storage) GetPageByID(ctx context.Context, pageID string) (*models.Page, error) {
	query := `
		SELECT id, title, slug, content, status, template, author_id,
			meta_title, meta_description, published_at, created_at, updated_at
		FROM cms_pages
		WHERE id = ?
	`

	page, err := scanPage(s.db.QueryRowContext(ctx, query, pageID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	return page, nil
}

// ListPages returns pages matching the filter, newest update first
func (s *Storage) ListPages(ctx context.Context, filter storage.PageFilter) ([]*models.Page, error) {
	query := `
		SELECT id, title, slug, content, status, template, author_id,
			meta_title, meta_description, published_at, created_at, updated_at
		FROM cms_pages
		WHERE 1=1
	`
	args := []any{}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		query += ` AND (title LIKE ? OR slug LIKE ?)`
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var pages []*models.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return pages, nil
}

// UpdatePage replaces the stored page row
func (s *Storage) UpdatePage(ctx context.Context, page *models.Page) error {
	query := `
		UPDATE cms_pages
		SET title = ?, slug = ?, content = ?, status = ?, template = ?,
			meta_title = ?, meta_description = ?, published_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		page.Title,
		page.Slug,
		string(page.Content),
		page.Status,
		page.Template,
		page.MetaTitle,
		page.MetaDescription,
		page.PublishedAt,
		page.UpdatedAt,
		page.ID,
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: cms_pages.slug") {
			return storage.ErrSlugExists
		}
		return fmt.Errorf("failed to update page: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrPageNotFound
	}

	return nil
}

// DeletePage deletes page by ID
func (s *Storage) DeletePage(ctx context.Context, pageID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cms_pages WHERE id = ?`, pageID)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrPageNotFound
	}

	return nil
}

// scanner покрывает и *sql.Row, и *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (*models.Page, error) {
	page := &models.Page{}
	var content string
	var publishedAt sql.NullTime

	err := row.Scan(
		&page.ID,
		&page.Title,
		&page.Slug,
		&content,
		&page.Status,
		&page.Template,
		&page.AuthorID,
		&page.MetaTitle,
		&page.MetaDescription,
		&publishedAt,
		&page.CreatedAt,
		&page.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	page.Content = []byte(content)
	if publishedAt.Valid {
		page.PublishedAt = &publishedAt.Time
	}

	return page, nil
}
