package middleware

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenLocalsKey = "jwt"
	userLocalsKey  = "current_user"
)

var ErrUserGone = apperr.WithReason(apperr.KindUnauthenticated, apperr.ReasonUserNotFound, "User not found", "Please login again")

// UserFinder resolves the identity a verified token refers to.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authenticate requires an "Authorization: Bearer <token>" header, verifies
// the token and loads the identity it names into the request locals.
func Authenticate(tokens *services.TokenManager, users UserFinder) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:     tokens.Keyfunc,
		Claims:      &jwt.RegisteredClaims{},
		ContextKey:  tokenLocalsKey,
		TokenLookup: "header:" + fiber.HeaderAuthorization,
		AuthScheme:  "Bearer",
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals(tokenLocalsKey).(*jwt.Token)
			userID, err := services.SubjectOf(token)
			if err != nil {
				return err
			}

			user, err := users.FindByID(c.UserContext(), userID)
			if errors.Is(err, apperr.ErrNotFound) {
				return ErrUserGone
			}
			if err != nil {
				return err
			}

			c.Locals(userLocalsKey, user)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				return services.ErrTokenMissing
			}
			return services.ClassifyTokenError(err)
		},
	})
}

// CurrentUser returns the identity attached by Authenticate.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(userLocalsKey).(*models.User)
	if !ok || user == nil {
		return nil, services.ErrTokenMissing
	}
	return user, nil
}
