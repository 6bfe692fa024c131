package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runWhoami(_ context.Context) error {
	user := c.authService.CurrentUser()
	if user == nil {
		return fmt.Errorf("not authenticated")
	}

	c.io.Printf("ID:    %s\n", user.ID)
	c.io.Printf("Email: %s\n", user.Email)
	if user.Name != "" {
		c.io.Printf("Name:  %s\n", user.Name)
	}
	c.io.Printf("Roles: %v\n", user.Roles)

	return nil
}
