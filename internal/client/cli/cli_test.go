package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivajik/gmb-brifecase/internal/client/api"
	"github.com/shivajik/gmb-brifecase/internal/client/auth"
	"github.com/shivajik/gmb-brifecase/internal/client/storage"
	pkgapi "github.com/shivajik/gmb-brifecase/pkg/api"
)

// fakeIO отдает заранее заданные ответы на prompts и копит вывод
type fakeIO struct {
	inputs    []string
	passwords []string
	output    strings.Builder
}

func (f *fakeIO) Println(a ...any) {
	f.output.WriteString(fmt.Sprintln(a...))
}

func (f *fakeIO) Printf(format string, a ...any) {
	f.output.WriteString(fmt.Sprintf(format, a...))
}

func (f *fakeIO) ReadInput(_ string) (string, error) {
	if len(f.inputs) == 0 {
		return "", io.EOF
	}
	v := f.inputs[0]
	f.inputs = f.inputs[1:]
	return v, nil
}

func (f *fakeIO) ReadPassword(_ string) (string, error) {
	if len(f.passwords) == 0 {
		return "", io.EOF
	}
	v := f.passwords[0]
	f.passwords = f.passwords[1:]
	return v, nil
}

type memAuthStore struct {
	auth *storage.AuthData
}

func (m *memAuthStore) SaveAuth(_ context.Context, auth *storage.AuthData) error {
	clone := *auth
	m.auth = &clone
	return nil
}

func (m *memAuthStore) GetAuth(_ context.Context) (*storage.AuthData, error) {
	if m.auth == nil {
		return nil, storage.ErrAuthNotFound
	}
	clone := *m.auth
	return &clone, nil
}

func (m *memAuthStore) DeleteAuth(_ context.Context) error {
	m.auth = nil
	return nil
}

func newTestCli(serverURL string, fio *fakeIO) *Cli {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authService := auth.NewService(logger, api.NewClient(serverURL), &memAuthStore{})
	return New(fio, authService)
}

func TestCli_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pkgapi.LoginResponse{
			Token: "signed-token",
			User: pkgapi.User{
				ID:    "user-1",
				Email: "admin@example.com",
				Roles: []string{"admin"},
			},
			ExpiresAt: time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		})
	}))
	defer server.Close()

	fio := &fakeIO{
		inputs:    []string{"admin@example.com"},
		passwords: []string{"admin-pass"},
	}
	cli := newTestCli(server.URL, fio)

	err := cli.Run(context.Background(), "login")
	require.NoError(t, err)
	assert.Contains(t, fio.output.String(), "Login successful!")
}

func TestCli_Login_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(pkgapi.ErrorResponse{
			Error:   http.StatusText(http.StatusUnauthorized),
			Message: "invalid credentials",
		})
	}))
	defer server.Close()

	fio := &fakeIO{
		inputs:    []string{"admin@example.com"},
		passwords: []string{"wrong"},
	}
	cli := newTestCli(server.URL, fio)

	err := cli.Run(context.Background(), "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestCli_Register_PasswordMismatch(t *testing.T) {
	fio := &fakeIO{
		inputs:    []string{"new@example.com", "New User", ""},
		passwords: []string{"password-one", "password-two"},
	}
	cli := newTestCli("http://127.0.0.1:1", fio)

	err := cli.Run(context.Background(), "register")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passwords do not match")
}

func TestCli_UnknownCommand(t *testing.T) {
	cli := newTestCli("http://127.0.0.1:1", &fakeIO{})

	err := cli.Run(context.Background(), "frobnicate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestCli_Status_NotAuthenticated(t *testing.T) {
	fio := &fakeIO{}
	cli := newTestCli("http://127.0.0.1:1", fio)

	err := cli.Run(context.Background(), "status")
	require.NoError(t, err)
	assert.Contains(t, fio.output.String(), "not authenticated")
}
