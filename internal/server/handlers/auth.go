package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shivajik/gmb-brifecase/internal/crypto"
	"github.com/shivajik/gmb-brifecase/internal/models"
	"github.com/shivajik/gmb-brifecase/internal/server/storage"
	"github.com/shivajik/gmb-brifecase/internal/server/token"
	"github.com/shivajik/gmb-brifecase/internal/validation"
	"github.com/shivajik/gmb-brifecase/pkg/api"
)

// DefaultSessionTTL — срок жизни сессии и токена по умолчанию
const DefaultSessionTTL = 24 * time.Hour

// AuthHandler обрабатывает login/register/logout/verify.
// Сервис stateless: все изменяемое состояние живет в хранилище
// пользователей и в session ledger.
type AuthHandler struct {
	logger     *slog.Logger
	users      storage.UserStorage
	sessions   storage.SessionStorage
	tokens     *token.Service
	sessionTTL time.Duration
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, users storage.UserStorage, sessions storage.SessionStorage, tokens *token.Service, sessionTTL time.Duration) *AuthHandler {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthHandler{
		logger:     logger,
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
	}
}

// Login обрабатывает POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		h.sendError(w, "email and password required", http.StatusBadRequest)
		return
	}

	email := validation.NormalizeEmail(req.Email)

	user, err := h.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Тот же ответ, что и при неверном пароле: не раскрываем,
			// какие адреса зарегистрированы
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("email", email))
			h.sendError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !user.IsActive {
		h.logger.WarnContext(ctx, "login failed: account deactivated", slog.String("user_id", user.ID))
		h.sendError(w, "account deactivated", http.StatusForbidden)
		return
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("user_id", user.ID))
		h.sendError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	roles, err := h.users.GetUserRoles(ctx, user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user roles", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Новая запись в session ledger; одновременные сессии одного
	// пользователя независимы и отзываются по отдельности
	sessionID, err := token.NewSessionID()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate session id", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expiresAt := time.Now().Add(h.sessionTTL)
	session := &models.Session{
		ID:        sessionID,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := h.sessions.CreateSession(ctx, session); err != nil {
		h.logger.ErrorContext(ctx, "failed to create session", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Токен истекает вместе с сессией
	signed, err := h.tokens.Sign(token.Claims{
		Sub:       user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Roles:     roles,
		Session:   sessionID,
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to sign token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.users.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		// Не критичная ошибка, логируем но не прерываем
		h.logger.WarnContext(ctx, "failed to update last login", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("session_id", sessionID))

	h.sendJSON(w, api.LoginResponse{
		Token:     signed,
		User:      userProfile(user, roles),
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// Register обрабатывает POST /api/v1/auth/register.
// Самый первый пользователь создается без аутентификации и получает
// admin (bootstrap); дальше регистрация доступна только админам.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.users.CountUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count users", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	isFirstUser := count == 0

	if !isFirstUser {
		bearer, ok := bearerToken(r)
		if !ok {
			h.sendError(w, "authorization required", http.StatusUnauthorized)
			return
		}

		claims, err := h.tokens.Verify(bearer)
		if err != nil {
			h.logger.WarnContext(ctx, "register failed: invalid token", slog.Any("error", err))
			h.sendError(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if !claims.HasRole(models.RoleAdmin) {
			h.logger.WarnContext(ctx, "register failed: caller is not admin", slog.String("caller_id", claims.Sub))
			h.sendError(w, "admin access required", http.StatusForbidden)
			return
		}
	}

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		h.sendError(w, "email and password required", http.StatusBadRequest)
		return
	}

	email := validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(email); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Bootstrap всегда дает admin; иначе явная роль или editor
	role := models.RoleEditor
	if isFirstUser {
		role = models.RoleAdmin
	} else if req.Role != "" {
		if err := validation.ValidateRole(req.Role); err != nil {
			h.sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		role = req.Role
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	// Уникальность email решает constraint в БД, не предварительная
	// проверка: между check и insert возможна гонка
	if err := h.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			h.logger.WarnContext(ctx, "register failed: email exists", slog.String("email", email))
			h.sendError(w, "email already exists", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.users.AddUserRole(ctx, user.ID, role); err != nil {
		h.logger.ErrorContext(ctx, "failed to assign role", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("role", role),
		slog.Bool("bootstrap", isFirstUser))

	message := "User created successfully"
	if isFirstUser {
		message = "Admin account created successfully"
	}

	h.sendJSON(w, api.RegisterResponse{
		User:    userProfile(user, []string{role}),
		Message: message,
	}, http.StatusCreated)
}

// Logout обрабатывает POST /api/v1/auth/logout.
// Отзывает только сессию из предъявленного токена; остальные сессии
// пользователя продолжают жить.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bearer, ok := bearerToken(r)
	if !ok {
		h.sendError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.Verify(bearer)
	if err != nil {
		h.logger.WarnContext(ctx, "logout failed: invalid token", slog.Any("error", err))
		h.sendError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	// Best-effort: отсутствие записи не ошибка, logout идемпотентен
	if err := h.sessions.DeleteSession(ctx, claims.Session); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		h.logger.ErrorContext(ctx, "failed to delete session", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", claims.Sub),
		slog.String("session_id", claims.Session))

	h.sendJSON(w, api.LogoutResponse{Message: "Logged out successfully"}, http.StatusOK)
}

// Verify обрабатывает POST /api/v1/auth/verify — повторная проверка
// сессии на каждый привилегированный запрос и при восстановлении
// сессии клиентом.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bearer, ok := bearerToken(r)
	if !ok {
		h.sendError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.Verify(bearer)
	if err != nil {
		h.logger.WarnContext(ctx, "verify failed: invalid token", slog.Any("error", err))
		h.sendError(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	// Подпись валидна, но сессия могла быть отозвана раньше exp.
	// Отдельное сообщение позволяет клиенту различать случаи
	session, err := h.sessions.GetLiveSession(ctx, claims.Session)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			h.logger.WarnContext(ctx, "verify failed: session revoked or expired", slog.String("user_id", claims.Sub))
			h.sendError(w, "session expired", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get session", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Роли перечитываются из БД, не из токена: изменения ролей
	// действуют сразу, без ожидания истечения токена
	roles, err := h.users.GetUserRoles(ctx, claims.Sub)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user roles", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, api.VerifyResponse{
		User: api.User{
			ID:    claims.Sub,
			Email: claims.Email,
			Name:  claims.Name,
			Roles: roles,
		},
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// userProfile собирает публичный профиль из записи пользователя
func userProfile(user *models.User, roles []string) api.User {
	if roles == nil {
		roles = []string{}
	}
	return api.User{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Roles: roles,
	}
}

// bearerToken извлекает токен из заголовка Authorization
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// sendJSON отправляет JSON ответ
func (h *AuthHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	sendJSON(h.logger, w, data, statusCode)
}

// sendError отправляет JSON ответ с ошибкой
func (h *AuthHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(h.logger, w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}

func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}
