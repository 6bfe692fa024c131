package cli

import "context"

func (c *Cli) runLogout(ctx context.Context) error {
	if !c.authService.IsAuthenticated() {
		c.io.Println("Not logged in.")
		return nil
	}

	// Локальный выход гарантирован, даже если сервер недоступен
	c.authService.Logout(ctx)

	c.io.Println("Logged out.")
	return nil
}
