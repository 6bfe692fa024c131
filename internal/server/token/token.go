package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Service создает и проверяет подписанные токены сессий.
// Формат JWT-совместимый (HS256), но кодек намеренно свой: выпускает и
// проверяет токены один и тот же сервис, внешний протокол не нужен.
type Service struct {
	secret []byte
}

// Claims represents the signed token payload.
// Roles фиксируют снимок ролей на момент выдачи: verify перечитывает
// роли из БД, поэтому снимок используется только для gate-проверок
// без похода в хранилище.
type Claims struct {
	Sub       string   `json:"sub"`            // ID пользователя
	Email     string   `json:"email"`          // нормализованный email
	Name      string   `json:"name,omitempty"` // отображаемое имя (опционально)
	Roles     []string `json:"roles"`          // снимок ролей в порядке назначения
	Session   string   `json:"session"`        // ID записи в session ledger
	ExpiresAt int64    `json:"exp"`            // абсолютное истечение, Unix seconds
}

// NewService creates a new token service.
// secret is the dedicated signing secret, injected from configuration —
// it is never derived from request data or shared with the database layer.
func NewService(secret []byte) *Service {
	return &Service{secret: secret}
}

// HasRole проверяет наличие роли в снимке claims
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Sign сериализует claims в подписанный токен header.payload.signature
func (s *Service) Sign(claims Claims) (string, error) {
	header := map[string]string{
		"alg": "HS256",
		"typ": "JWT",
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	// base64url без padding
	headerB64 := base64.RawURLEncoding.EncodeToString(headerJSON)
	claimsB64 := base64.RawURLEncoding.EncodeToString(claimsJSON)

	signingInput := headerB64 + "." + claimsB64
	signature := s.sign(signingInput)

	return signingInput + "." + signature, nil
}

// Verify проверяет подпись, формат и срок действия токена.
// Любая проблема — не 3 сегмента, битая подпись, мусор в payload,
// отсутствие обязательных claims, истекший exp — дает ошибку;
// вызывающие трактуют все их одинаково как "не аутентифицирован".
func (s *Service) Verify(tok string) (*Claims, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid token format")
	}

	// Проверяем подпись константно по времени над сырыми байтами
	signingInput := parts[0] + "." + parts[1]
	expected := hmacSHA256([]byte(signingInput), s.secret)

	got, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}
	if !hmac.Equal(expected, got) {
		return nil, fmt.Errorf("invalid token signature")
	}

	claimsJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode claims: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claims: %w", err)
	}

	// Обязательные поля: payload с подписью, но без идентичности бесполезен
	if claims.Sub == "" || claims.Email == "" || claims.Session == "" || claims.ExpiresAt == 0 {
		return nil, fmt.Errorf("missing required claims")
	}
	if claims.Roles == nil {
		claims.Roles = []string{}
	}

	if time.Now().Unix() > claims.ExpiresAt {
		return nil, fmt.Errorf("token expired")
	}

	return &claims, nil
}

// NewSessionID генерирует непрозрачный идентификатор сессии:
// 32 случайных байта в base64url. Значение не выводимо из остальных
// claims токена.
func NewSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// sign создает HMAC-SHA256 подпись в base64url
func (s *Service) sign(data string) string {
	return base64.RawURLEncoding.EncodeToString(hmacSHA256([]byte(data), s.secret))
}

func hmacSHA256(data, secret []byte) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write(data)
	return h.Sum(nil)
}
