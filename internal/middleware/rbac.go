package middleware

import (
	"github.com/gofiber/fiber/v2"

	"servicehub/internal/domain"
)

func RequireRole(role domain.UserRole) fiber.Handler {
	return RequireAnyRole(role)
}

func RequireAnyRole(roles ...domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return Unauthorized("Not authenticated")
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return Forbidden("Insufficient permissions for this operation")
	}
}

// RequirePermission admits admins whose admin role grants perm.
func RequirePermission(perm domain.AdminPermission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return Unauthorized("Not authenticated")
		}
		if !user.IsAdmin() {
			return Forbidden("Admin access required")
		}
		if !user.HasPermission(perm) {
			return Forbidden("Insufficient permissions for this operation")
		}
		return c.Next()
	}
}
