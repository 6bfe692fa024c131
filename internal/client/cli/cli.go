package cli

import (
	"context"
	"fmt"

	"github.com/shivajik/gmb-brifecase/internal/client/auth"
	"github.com/shivajik/gmb-brifecase/internal/client/iocli"
)

// Cli связывает команды администратора с auth сервисом
type Cli struct {
	io          iocli.IO
	authService *auth.Service
}

// New создает новый CLI
func New(io iocli.IO, authService *auth.Service) *Cli {
	return &Cli{
		io:          io,
		authService: authService,
	}
}

// Run выполняет команду по имени.
// Перед командами, требующими аутентификации, восстанавливается
// сохраненная сессия.
func (c *Cli) Run(ctx context.Context, command string) error {
	switch command {
	case "login":
		return c.runLogin(ctx)
	case "register":
		c.authService.Restore(ctx)
		return c.runRegister(ctx)
	case "logout":
		c.authService.Restore(ctx)
		return c.runLogout(ctx)
	case "status":
		c.authService.Restore(ctx)
		return c.runStatus(ctx)
	case "whoami":
		c.authService.Restore(ctx)
		return c.runWhoami(ctx)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// Usage печатает список доступных команд
func (c *Cli) Usage() {
	c.io.Println("Usage: cmsctl <command>")
	c.io.Println("")
	c.io.Println("Commands:")
	c.io.Println("  login     authenticate and save the session")
	c.io.Println("  register  create a new CMS user (requires admin)")
	c.io.Println("  logout    revoke the current session")
	c.io.Println("  status    show authentication status")
	c.io.Println("  whoami    show the current user profile")
}
