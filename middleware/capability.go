package middleware

import (
	"github.com/gofiber/fiber/v2"

	"maladireta/models"
)

// RequireCapability rejects the request with 403 unless the
// authenticated user passes the capability check. Must run after
// Protected.
func RequireCapability(cap models.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)
		if !user.HasPermission(cap) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You do not have access to this feature",
			})
		}
		return c.Next()
	}
}

// AdminOnly rejects the request with 403 unless the authenticated user
// holds the admin role. Must run after Protected.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)
		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Administrator access required",
			})
		}
		return c.Next()
	}
}
