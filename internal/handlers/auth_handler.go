package handlers

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.Signup(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UserEnvelope{User: dto.NewUserResponse(user)})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	token, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.TokenResponse{Token: token})
}

// Profile handles GET /auth/profile - the identity behind the bearer token.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UserEnvelope{User: dto.NewUserResponse(user)})
}

func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.UpdatePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	updated, err := h.authService.UpdatePassword(c.UserContext(), user, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.UserEnvelope{User: dto.NewUserResponse(updated)})
}

// ForgotPassword handles POST /auth/forgot-password?email=.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return respondError(c, apperr.Validation("Enter a valid email"))
	}

	baseURL := c.BaseURL() + "/" + h.cfg.APIPrefix
	if err := h.authService.ForgotPassword(c.UserContext(), baseURL, email); err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "Please check your email"})
}

// ResetPassword handles PUT /auth/reset-password?token=.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return respondError(c, services.ErrResetTokenMissing)
	}

	var req dto.ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.ResetPassword(c.UserContext(), token, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.UserEnvelope{User: dto.NewUserResponse(user)})
}
