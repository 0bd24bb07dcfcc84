package middleware

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

var ErrRoleForbidden = apperr.New(apperr.KindForbidden, "Users are forbidden to access this resource")

// RequireRoles must run after Authenticate. With no roles every
// authenticated identity passes; otherwise the identity's role must be listed.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}
		if len(roles) == 0 || contains(roles, user.Role) {
			return c.Next()
		}
		return ErrRoleForbidden
	}
}

func contains(list []models.Role, val models.Role) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
