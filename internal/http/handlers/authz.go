package handlers

import (
	"strings"

	"campgo/internal/apperr"
	"campgo/internal/domain"
	applog "campgo/internal/log"
	"campgo/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "user_id"
	localRole   = "role"
	tokenCookie = "token"
)

// token reads the bearer token, falling back to the cookie the admin page uses.
func token(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return c.Cookies(tokenCookie)
}

// RequireUser rejects requests without a valid token and stores the principal in locals.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := token(c)
		if raw == "" {
			return apperr.Unauthorized("authentication required")
		}
		p, err := auth.Verify(raw)
		if err != nil {
			return err
		}
		c.Locals(localUserID, p.UserID)
		c.Locals(localRole, p.Role)
		return c.Next()
	}
}

// requireRole must run after RequireUser.
func requireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(localRole).(string)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		applog.Security(c, "access.denied.role", map[string]any{"role": role, "need": roles})
		return apperr.Forbidden("insufficient permissions")
	}
}

func RequireAdmin(auth *services.AuthService) []fiber.Handler {
	return []fiber.Handler{RequireUser(auth), requireRole(domain.RoleAdmin)}
}

// RequireOwner admits campsite owners; admins pass too.
func RequireOwner(auth *services.AuthService) []fiber.Handler {
	return []fiber.Handler{RequireUser(auth), requireRole(domain.RoleOwner, domain.RoleAdmin)}
}

func principal(c *fiber.Ctx) services.Principal {
	id, _ := c.Locals(localUserID).(string)
	role, _ := c.Locals(localRole).(string)
	return services.Principal{UserID: id, Role: role}
}

func userID(c *fiber.Ctx) string { return principal(c).UserID }
