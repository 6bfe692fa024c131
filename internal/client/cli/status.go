package cli

import "context"

func (c *Cli) runStatus(_ context.Context) error {
	if !c.authService.IsAuthenticated() {
		c.io.Println("Status: not authenticated")
		return nil
	}

	user := c.authService.CurrentUser()
	c.io.Println("Status: authenticated")
	c.io.Printf("Email: %s\n", user.Email)
	return nil
}
