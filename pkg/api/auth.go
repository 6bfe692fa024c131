package api

// User представляет профиль пользователя CMS, возвращаемый сервером
type User struct {
	ID    string   `json:"id"`             // UUID пользователя
	Email string   `json:"email"`          // нормализованный email
	Name  string   `json:"name,omitempty"` // отображаемое имя (опционально)
	Roles []string `json:"roles"`          // роли в порядке назначения
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse представляет ответ на успешный login
type LoginResponse struct {
	Token     string `json:"token"`      // подписанный токен (header.payload.signature)
	User      User   `json:"user"`       // профиль пользователя
	ExpiresAt string `json:"expires_at"` // абсолютное время истечения сессии (RFC 3339)
}

// RegisterRequest представляет запрос на регистрацию нового пользователя
// Role необязателен: по умолчанию editor, первый пользователь всегда admin
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// RegisterResponse представляет ответ на успешную регистрацию
type RegisterResponse struct {
	User    User   `json:"user"`
	Message string `json:"message"`
}

// VerifyResponse представляет ответ на проверку сессии
type VerifyResponse struct {
	User      User   `json:"user"`       // профиль со свежими ролями из БД
	ExpiresAt string `json:"expires_at"` // время истечения сессии (RFC 3339)
}

// LogoutResponse представляет ответ на logout
type LogoutResponse struct {
	Message string `json:"message"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
