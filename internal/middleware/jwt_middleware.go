package middleware

import (
	"log"
	"strings"

	"agrimarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PrincipalKey is the fiber Locals key under which AuthRequired stores
// the authenticated principal.
const PrincipalKey = "principal"

// AuthRequired is a Fiber middleware to check for a valid JWT token. On
// success the request principal (user id + role) is stored in Locals for
// the handlers.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		tokenString := parts[1]

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		principal, err := services.PrincipalFromClaims(claims)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(PrincipalKey, principal)

		// Continue to the next handler
		return c.Next()
	}
}

// GetPrincipal returns the principal stored by AuthRequired. The bool is
// false on routes that skipped the middleware.
func GetPrincipal(c *fiber.Ctx) (services.Principal, bool) {
	principal, ok := c.Locals(PrincipalKey).(services.Principal)
	return principal, ok
}
