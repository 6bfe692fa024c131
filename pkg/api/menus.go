package api

import "encoding/json"

// Menu представляет навигационное меню в API
// Items — дерево пунктов меню, хранится и передается как JSON
type Menu struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Location  string          `json:"location"` // header | footer | sidebar
	Items     json.RawMessage `json:"items"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// CreateMenuRequest представляет запрос на создание меню
type CreateMenuRequest struct {
	Name     string          `json:"name"`
	Location string          `json:"location"`
	Items    json.RawMessage `json:"items,omitempty"`
}

// UpdateMenuRequest представляет запрос на обновление меню
type UpdateMenuRequest struct {
	Name  *string         `json:"name,omitempty"`
	Items json.RawMessage `json:"items,omitempty"`
}

// MenuResponse представляет ответ с одним меню
type MenuResponse struct {
	Menu Menu `json:"menu"`
}

// MenuListResponse представляет ответ со списком меню
type MenuListResponse struct {
	Menus []Menu `json:"menus"`
}
