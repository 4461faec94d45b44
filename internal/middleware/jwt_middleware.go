package middleware

import (
	"log"
	"strings"

	"ecofinds/internal/services"

	"github.com/gofiber/fiber/v2"
)

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthRequired is a Fiber middleware enforcing a valid bearer token whose
// subject still exists. The resolved account ID and username are stored in
// the request context.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authorization header must be 'Bearer <token>'",
			})
		}

		user, err := authService.ResolveUser(token)
		if err != nil {
			log.Printf("Token rejected: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid or expired token",
			})
		}

		c.Locals("user_id", user.ID)
		c.Locals("username", user.Username)
		return c.Next()
	}
}

// OptionalAuth resolves a bearer token when one is present but lets the
// request through either way. Used on public routes that behave differently
// for the listing owner, like view counting.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c); ok {
			if user, err := authService.ResolveUser(token); err == nil {
				c.Locals("user_id", user.ID)
				c.Locals("username", user.Username)
			}
		}
		return c.Next()
	}
}
