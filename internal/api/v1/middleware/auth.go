// Package middleware provides the HTTP middleware of the API
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
	"github.com/CatDevelop/exchange-tochka/internal/services"
)

// userContextKey is the fiber locals key the authenticated user is stored under
const userContextKey = "currentUser"

// APIKeyAuth returns a middleware that authenticates requests by the API key
// in the Authorization header
func APIKeyAuth(users *services.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if apiKey == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or missing API Key")
		}

		user, err := users.GetUserByAPIKey(c.Context(), apiKey)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or missing API Key")
		}

		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// AdminOnly returns a middleware that rejects non-administrator users.
// Must run after APIKeyAuth.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || user.Role != models.UserRoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Access forbidden: Admins only")
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user of the request, or nil
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userContextKey).(*models.User)
	return user
}
