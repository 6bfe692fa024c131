package models

import "time"

// Роли образуют закрытый набор: назначение любой другой строки отклоняется
// на этапе валидации
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// User представляет учетную запись пользователя CMS
type User struct {
	ID           string     `json:"id"`            // UUID пользователя
	Email        string     `json:"email"`         // нормализованный (lowercase, trimmed) email, уникальный
	Name         string     `json:"name"`          // отображаемое имя (может быть пустым)
	PasswordHash string     `json:"-"`             // self-describing строка pbkdf2:<iter>:<salt>:<hash>
	IsActive     bool       `json:"is_active"`     // soft-деактивация вместо удаления
	CreatedAt    time.Time  `json:"created_at"`    // время создания
	LastLogin    *time.Time `json:"last_login"`    // время последнего входа
}

// Session представляет серверную запись о выданной сессии.
// ID сессии — непрозрачный случайный идентификатор, он не совпадает
// с подписанным токеном и не выводится из его claims.
type Session struct {
	ID        string    `json:"id"`         // случайные 32 байта, base64url
	UserID    string    `json:"user_id"`    // владелец сессии
	ExpiresAt time.Time `json:"expires_at"` // абсолютное время истечения
	CreatedAt time.Time `json:"created_at"` // время создания
}
