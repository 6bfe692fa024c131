package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shivajik/gmb-brifecase/internal/server/storage"
	"github.com/shivajik/gmb-brifecase/internal/server/token"
	"github.com/shivajik/gmb-brifecase/pkg/api"
)

type contextKey string

// ClaimsKey — ключ контекста с claims аутентифицированного пользователя
const ClaimsKey contextKey = "authClaims"

// ClaimsFromContext достает claims, положенные AuthMiddleware
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*token.Claims)
	return claims, ok
}

// AuthMiddleware создает middleware для защищенных маршрутов.
// Проверка двухслойная: сначала подпись и exp токена, затем живость
// сессии в ledger — отозванный токен с валидной подписью не проходит.
func AuthMiddleware(logger *slog.Logger, tokens *token.Service, sessions storage.SessionStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("missing Authorization header", "path", r.URL.Path)
				writeAuthError(w, "authorization required", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				logger.Warn("invalid Authorization header format", "path", r.URL.Path)
				writeAuthError(w, "invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				logger.Warn("invalid access token", "error", err)
				writeAuthError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			if _, err := sessions.GetLiveSession(r.Context(), claims.Session); err != nil {
				if errors.Is(err, storage.ErrSessionNotFound) {
					logger.Warn("session revoked or expired", "user_id", claims.Sub)
					writeAuthError(w, "session expired", http.StatusUnauthorized)
					return
				}
				logger.Error("failed to check session", "error", err)
				writeAuthError(w, "internal server error", http.StatusInternalServerError)
				return
			}

			// Добавляем claims в контекст для обработчиков
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)

			logger.Debug("user authenticated", "user_id", claims.Sub)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole создает middleware, пропускающий только пользователей
// с указанной ролью. Ставится после AuthMiddleware.
func RequireRole(logger *slog.Logger, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeAuthError(w, "authorization required", http.StatusUnauthorized)
				return
			}

			if !claims.HasRole(role) {
				logger.Warn("access denied: missing role",
					"user_id", claims.Sub,
					"required_role", role,
				)
				writeAuthError(w, "insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
