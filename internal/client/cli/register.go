package cli

import (
	"context"
	"fmt"

	"github.com/shivajik/gmb-brifecase/internal/validation"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Register user ===")
	c.io.Println("")

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	name, err := c.io.ReadInput("Name (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}

	role, err := c.io.ReadInput("Role (admin/editor/viewer, default editor): ")
	if err != nil {
		return fmt.Errorf("failed to read role: %w", err)
	}
	if role != "" {
		if err := validation.ValidateRole(role); err != nil {
			return err
		}
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	resp, err := c.authService.Register(ctx, email, password, name, role)
	if err != nil {
		return err
	}

	c.io.Println("")
	c.io.Printf("%s\n", resp.Message)
	c.io.Printf("Email: %s\n", resp.User.Email)
	c.io.Printf("Roles: %v\n", resp.User.Roles)

	return nil
}
