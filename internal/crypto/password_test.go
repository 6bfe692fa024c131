package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	parts := strings.Split(hash, ":")
	require.Len(t, parts, 4)
	assert.Equal(t, "pbkdf2", parts[0])
	assert.Equal(t, "100000", parts[1])

	// 16 байт соли и 32 байта ключа в hex
	assert.Len(t, parts[2], 32)
	assert.Len(t, parts[3], 64)
	assert.Regexp(t, "^[a-f0-9]+$", parts[2])
	assert.Regexp(t, "^[a-f0-9]+$", parts[3])
}

func TestHashPassword_EmptyPassword(t *testing.T) {
	hash, err := HashPassword("")
	require.Error(t, err)
	assert.Empty(t, hash)
}

func TestVerifyPassword_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "longenough"},
		{name: "password with spaces", password: "correct horse battery staple"},
		{name: "unicode password", password: "пароль-с-юникодом-🔑"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)

			assert.True(t, VerifyPassword(tt.password, hash))
			assert.False(t, VerifyPassword(tt.password+"x", hash))
		})
	}
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	// Одинаковый пароль дважды -> разные хеши (разные соли), оба проверяются
	const password = "same password twice"

	hash1, err := HashPassword(password)
	require.NoError(t, err)
	hash2, err := HashPassword(password)
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
	assert.True(t, VerifyPassword(password, hash1))
	assert.True(t, VerifyPassword(password, hash2))
}

func TestVerifyPassword_MalformedStored(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{name: "empty string", stored: ""},
		{name: "wrong tag", stored: "bcrypt:100000:aabb:ccdd"},
		{name: "too few fields", stored: "pbkdf2:100000:aabb"},
		{name: "too many fields", stored: "pbkdf2:100000:aabb:ccdd:eeff"},
		{name: "non-numeric iterations", stored: "pbkdf2:lots:aabb:ccdd"},
		{name: "zero iterations", stored: "pbkdf2:0:aabb:ccdd"},
		{name: "invalid salt hex", stored: "pbkdf2:100000:zzzz:ccdd"},
		{name: "invalid key hex", stored: "pbkdf2:100000:aabb:zzzz"},
		{name: "empty key", stored: "pbkdf2:100000:aabb:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Никогда не паникует и не проходит проверку
			assert.False(t, VerifyPassword("whatever", tt.stored))
		})
	}
}

func TestVerifyPassword_EmbeddedIterations(t *testing.T) {
	// Хеш со старым (меньшим) числом итераций продолжает проверяться:
	// параметры деривации берутся из самого хеша, не из констант
	const password = "legacy password"
	salt := []byte("0123456789abcdef")
	derived := pbkdf2.Key([]byte(password), salt, 1000, PBKDF2KeyLen, sha256.New)

	legacy := fmt.Sprintf("pbkdf2:1000:%s:%s",
		hex.EncodeToString(salt), hex.EncodeToString(derived))

	assert.True(t, VerifyPassword(password, legacy))
	assert.False(t, VerifyPassword("wrong password", legacy))
}
