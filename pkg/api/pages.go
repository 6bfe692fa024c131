package api

import "encoding/json"

// Page представляет страницу CMS в API
type Page struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Content         json.RawMessage `json:"content"` // массив контент-блоков
	Status          string          `json:"status"`  // draft | published
	Template        string          `json:"template"`
	AuthorID        string          `json:"author_id"`
	MetaTitle       string          `json:"meta_title,omitempty"`
	MetaDescription string          `json:"meta_description,omitempty"`
	PublishedAt     string          `json:"published_at,omitempty"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

// CreatePageRequest представляет запрос на создание страницы
// Slug необязателен: пустой slug генерируется из заголовка
type CreatePageRequest struct {
	Title           string          `json:"title"`
	Slug            string          `json:"slug,omitempty"`
	Content         json.RawMessage `json:"content,omitempty"`
	Status          string          `json:"status,omitempty"`
	Template        string          `json:"template,omitempty"`
	MetaTitle       string          `json:"meta_title,omitempty"`
	MetaDescription string          `json:"meta_description,omitempty"`
}

// UpdatePageRequest представляет запрос на обновление страницы
// Nil-поля не изменяются
type UpdatePageRequest struct {
	Title           *string         `json:"title,omitempty"`
	Slug            *string         `json:"slug,omitempty"`
	Content         json.RawMessage `json:"content,omitempty"`
	Status          *string         `json:"status,omitempty"`
	Template        *string         `json:"template,omitempty"`
	MetaTitle       *string         `json:"meta_title,omitempty"`
	MetaDescription *string         `json:"meta_description,omitempty"`
}

// PageResponse представляет ответ с одной страницей
type PageResponse struct {
	Page Page `json:"page"`
}

// PageListResponse представляет ответ со списком страниц
type PageListResponse struct {
	Pages []Page `json:"pages"`
}
