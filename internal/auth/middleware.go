package auth

import (
	"errors"
	"strings"

	"github.com/Kyz7/wip/internal/response"
	"github.com/gofiber/fiber/v2"
)

const (
	LocalAdminID  = "admin_id"
	LocalNickname = "nickname"
)

func JWTProtected(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
			return response.Unauthorized(c, "Invalid token format")
		}

		principal, err := m.Authenticate(c.UserContext(), tokenParts[1])
		if errors.Is(err, ErrUnauthorized) {
			return response.Unauthorized(c, "Invalid or expired token")
		}
		if err != nil {
			return response.InternalError(c, "Failed to authenticate")
		}

		c.Locals(LocalAdminID, principal.AdminID)
		c.Locals(LocalNickname, principal.Nickname)
		return c.Next()
	}
}

// CurrentAdmin returns the principal stored by JWTProtected.
func CurrentAdmin(c *fiber.Ctx) (uint, string, bool) {
	id, ok := c.Locals(LocalAdminID).(uint)
	if !ok {
		return 0, "", false
	}
	nickname, _ := c.Locals(LocalNickname).(string)
	return id, nickname, true
}
