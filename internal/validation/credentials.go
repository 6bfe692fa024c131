package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shivajik/gmb-brifecase/internal/models"
)

// EmailPattern определяет допустимый формат email.
// Намеренно нестрогий: local@domain.tld без пробелов
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinPasswordLen минимальная длина пароля
const MinPasswordLen = 8

// NormalizeEmail приводит email к каноническому виду: lowercase + trim.
// Уникальность в БД проверяется по нормализованному значению.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail проверяет, что email непустой и похож на адрес
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
// Минимум 8 символов
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}

// ValidateRole проверяет, что роль входит в закрытый набор
func ValidateRole(role string) error {
	switch role {
	case models.RoleAdmin, models.RoleEditor, models.RoleViewer:
		return nil
	}
	return fmt.Errorf("unknown role %q", role)
}
