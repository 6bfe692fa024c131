package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Параметры PBKDF2 для хеширования паролей
const (
	// PBKDF2Iterations - количество итераций
	PBKDF2Iterations = 100000
	// PBKDF2KeyLen - длина производного ключа в байтах (256 bit)
	PBKDF2KeyLen = 32
	// PasswordSaltSize - размер соли в байтах
	PasswordSaltSize = 16
)

// hashPrefix - тег алгоритма в сериализованном хеше
const hashPrefix = "pbkdf2"

// HashPassword хеширует пароль через PBKDF2-HMAC-SHA256 со случайной солью.
// Формат результата self-describing: pbkdf2:<iterations>:<salt-hex>:<derived-hex>,
// что позволяет менять число итераций без инвалидации старых хешей.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	// Генерируем случайную соль
	salt := make([]byte, PasswordSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	derived := pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, PBKDF2KeyLen, sha256.New)

	return fmt.Sprintf("%s:%d:%s:%s",
		hashPrefix,
		PBKDF2Iterations,
		hex.EncodeToString(salt),
		hex.EncodeToString(derived),
	), nil
}

// VerifyPassword проверяет пароль против сохраненного хеша.
// Любой некорректный формат хеша дает false, не ошибку: для вызывающего
// это неотличимо от неверного пароля.
// Сравнение производных ключей константное по времени.
func VerifyPassword(password, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 4 || parts[0] != hashPrefix {
		return false
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := hex.DecodeString(parts[2])
	if err != nil {
		return false
	}

	storedKey, err := hex.DecodeString(parts[3])
	if err != nil || len(storedKey) == 0 {
		return false
	}

	// Повторная деривация с параметрами из хеша
	derived := pbkdf2.Key([]byte(password), salt, iterations, len(storedKey), sha256.New)

	return subtle.ConstantTimeCompare(derived, storedKey) == 1
}
