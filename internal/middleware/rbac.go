package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/norte-express/fleet-api/internal/utils"
)

// Role values carried in JWT claims.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// RequireRole ensures that the authenticated user possesses one of the
// allowed roles.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role := normalizeRoleValue(c.Locals("user_role"))
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// RequireUser ensures the request carries an authenticated subject.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals("user_id").(string); !ok || strings.TrimSpace(id) == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

func normalizeRoleValue(value interface{}) string {
	role, _ := value.(string)
	return strings.ToLower(strings.TrimSpace(role))
}
