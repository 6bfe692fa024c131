package models

import "time"

// Статусы страницы
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

// Page представляет страницу CMS: контент хранится как JSON-массив блоков,
// рендеринг блоков — забота клиента
type Page struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"` // уникальный
	Content         []byte     `json:"content"`
	Status          string     `json:"status"`
	Template        string     `json:"template"`
	AuthorID        string     `json:"author_id"`
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	PublishedAt     *time.Time `json:"published_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Menu представляет навигационное меню; пункты хранятся единым JSON-деревом
type Menu struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"` // уникальное размещение: header, footer, ...
	Items     []byte    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
