package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shivajik/gmb-brifecase/internal/client/api"
	"github.com/shivajik/gmb-brifecase/internal/client/storage"
	pkgapi "github.com/shivajik/gmb-brifecase/pkg/api"
)

// APIClient defines the server operations the auth service depends on
type APIClient interface {
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.LoginResponse, error)
	Register(ctx context.Context, token string, req pkgapi.RegisterRequest) (*pkgapi.RegisterResponse, error)
	Logout(ctx context.Context, token string) (*pkgapi.LogoutResponse, error)
	Verify(ctx context.Context, token string) (*pkgapi.VerifyResponse, error)
}

// Service хранит состояние аутентификации клиента.
// Состояние двухслойное: in-memory копия для быстрых проверок и
// persistent хранилище, переживающее перезапуск процесса.
type Service struct {
	logger    *slog.Logger
	apiClient APIClient
	authStore storage.AuthStorage

	mu   sync.RWMutex
	auth *storage.AuthData // nil, когда пользователь не аутентифицирован
}

// NewService создает новый сервис авторизации
func NewService(logger *slog.Logger, apiClient APIClient, authStore storage.AuthStorage) *Service {
	return &Service{
		logger:    logger,
		apiClient: apiClient,
		authStore: authStore,
	}
}

// LoginResult содержит результат авторизации.
// Success и Error взаимоисключающие: при Success == false в Error
// лежит сообщение для пользователя.
type LoginResult struct {
	Success bool
	Error   string
	User    *pkgapi.User
}

// Restore восстанавливает сессию из локального хранилища при старте.
// Сохраненный токен проверяется на сервере; мертвая сессия молча
// вычищается — Restore никогда не возвращает ошибку пользователю.
func (s *Service) Restore(ctx context.Context) {
	auth, err := s.authStore.GetAuth(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrAuthNotFound) {
			s.logger.Warn("failed to read stored auth", "error", err)
		}
		return
	}

	// Просроченный токен не имеет смысла показывать серверу
	if auth.ExpiresAt <= time.Now().Unix() {
		s.logger.Debug("stored token expired, clearing")
		s.clearLocal(ctx)
		return
	}

	resp, err := s.apiClient.Verify(ctx, auth.Token)
	if err != nil {
		if api.IsUnauthorized(err) {
			// Сессия отозвана или истекла на сервере
			s.logger.Debug("stored session no longer valid, clearing")
			s.clearLocal(ctx)
		} else {
			// Сервер недоступен: локальное состояние не трогаем,
			// но и аутентифицированным пользователя не считаем
			s.logger.Warn("failed to verify stored session", "error", err)
		}
		return
	}

	// Роли берем из ответа verify: они свежее зашитых в токен
	auth.Roles = resp.User.Roles
	auth.Name = resp.User.Name

	s.mu.Lock()
	s.auth = auth
	s.mu.Unlock()

	s.logger.Info("session restored", "user_id", auth.UserID)
}

// Login выполняет аутентификацию пользователя
func (s *Service) Login(ctx context.Context, email, password string) *LoginResult {
	resp, err := s.apiClient.Login(ctx, pkgapi.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		s.logger.Warn("login failed", "error", err)
		return &LoginResult{Error: loginErrorMessage(err)}
	}

	expiresAt, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	if err != nil {
		// Сервер обещает RFC 3339; расхождение — повод не доверять ответу
		s.logger.Error("malformed expires_at in login response", "value", resp.ExpiresAt)
		return &LoginResult{Error: "unexpected server response"}
	}

	auth := &storage.AuthData{
		UserID:    resp.User.ID,
		Email:     resp.User.Email,
		Name:      resp.User.Name,
		Roles:     resp.User.Roles,
		Token:     resp.Token,
		ExpiresAt: expiresAt.Unix(),
	}

	if err := s.authStore.SaveAuth(ctx, auth); err != nil {
		// Сессия создана на сервере, но не переживет перезапуск клиента
		s.logger.Warn("failed to persist auth data", "error", err)
	}

	s.mu.Lock()
	s.auth = auth
	s.mu.Unlock()

	s.logger.Info("logged in", "user_id", auth.UserID)

	user := resp.User
	return &LoginResult{Success: true, User: &user}
}

// Register создает нового пользователя от имени текущего администратора.
// При пустой базе сервер разрешает bootstrap без токена.
func (s *Service) Register(ctx context.Context, email, password, name, role string) (*pkgapi.RegisterResponse, error) {
	resp, err := s.apiClient.Register(ctx, s.Token(), pkgapi.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
		Role:     role,
	})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return resp, nil
}

// Logout завершает сессию. Отзыв на сервере best-effort: локальное
// состояние очищается всегда, даже если сервер недоступен.
func (s *Service) Logout(ctx context.Context) {
	token := s.Token()

	if token != "" {
		if _, err := s.apiClient.Logout(ctx, token); err != nil {
			s.logger.Warn("server logout failed, clearing local state anyway", "error", err)
		}
	}

	s.clearLocal(ctx)
	s.logger.Info("logged out")
}

// IsAuthenticated сообщает, есть ли живая сессия в памяти
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth != nil && s.auth.ExpiresAt > time.Now().Unix()
}

// HasRole проверяет роль текущего пользователя.
// Для неаутентифицированного пользователя всегда false.
func (s *Service) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.auth == nil {
		return false
	}
	for _, r := range s.auth.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CurrentUser возвращает профиль текущего пользователя или nil
func (s *Service) CurrentUser() *pkgapi.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.auth == nil {
		return nil
	}
	return &pkgapi.User{
		ID:    s.auth.UserID,
		Email: s.auth.Email,
		Name:  s.auth.Name,
		Roles: append([]string(nil), s.auth.Roles...),
	}
}

// Token возвращает текущий токен или пустую строку
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.auth == nil {
		return ""
	}
	return s.auth.Token
}

// clearLocal сбрасывает in-memory состояние и persistent копию
func (s *Service) clearLocal(ctx context.Context) {
	s.mu.Lock()
	s.auth = nil
	s.mu.Unlock()

	if err := s.authStore.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		s.logger.Warn("failed to clear stored auth", "error", err)
	}
}

// loginErrorMessage переводит ошибку запроса в сообщение для пользователя
func loginErrorMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "could not reach server"
}
