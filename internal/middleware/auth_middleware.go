package middleware

import (
	"errors"
	"strings"

	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth is middleware that validates the bearer token and sets user info in context
func RequireAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		user, err := authService.Authenticate(c.UserContext(), parts[1])
		switch {
		case errors.Is(err, service.ErrSessionReplaced):
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		case service.IsKind(err, service.KindNotFound):
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		case err != nil:
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Set user info in context for downstream handlers
		c.Locals("user_id", user.ID)
		c.Locals("user_email", user.Email)
		c.Locals("user_name", user.Name)

		return c.Next()
	}
}
