package storage

import (
	"context"

	"github.com/shivajik/gmb-brifecase/internal/models"
)

// PageFilter narrows ListPages results; zero value lists everything
type PageFilter struct {
	Status string // точное совпадение статуса
	Search string // подстрока в title или slug
}

// PageStorage defines interface for CMS page persistence
type PageStorage interface {
	// CreatePage creates a new page
	// Returns ErrSlugExists on unique-slug violation
	CreatePage(ctx context.Context, page *models.Page) error

	// GetPageByID retrieves page by ID
	// Returns ErrPageNotFound if page doesn't exist
	GetPageByID(ctx context.Context, pageID string) (*models.Page, error)

	// ListPages returns pages matching the filter, newest update first
	ListPages(ctx context.Context, filter PageFilter) ([]*models.Page, error)

	// UpdatePage replaces the stored page row
	// Returns ErrPageNotFound if page doesn't exist, ErrSlugExists on conflict
	UpdatePage(ctx context.Context, page *models.Page) error

	// DeletePage deletes page by ID
	// Returns ErrPageNotFound if page doesn't exist
	DeletePage(ctx context.Context, pageID string) error
}

// MenuStorage defines interface for navigation menu persistence
type MenuStorage interface {
	// CreateMenu creates a new menu
	// Returns ErrLocationExists on unique-location violation
	CreateMenu(ctx context.Context, menu *models.Menu) error

	// GetMenuByLocation retrieves menu by its location slot
	// Returns ErrMenuNotFound if menu doesn't exist
	GetMenuByLocation(ctx context.Context, location string) (*models.Menu, error)

	// ListMenus returns all menus ordered by location
	ListMenus(ctx context.Context) ([]*models.Menu, error)

	// UpdateMenu replaces the stored menu row
	// Returns ErrMenuNotFound if menu doesn't exist
	UpdateMenu(ctx context.Context, menu *models.Menu) error

	// DeleteMenu deletes menu by ID
	// Returns ErrMenuNotFound if menu doesn't exist
	DeleteMenu(ctx context.Context, menuID string) error
}
