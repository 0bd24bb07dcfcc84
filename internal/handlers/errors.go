package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ErrInvalidID = apperr.Validation("Invalid ID")

var kindStatus = map[apperr.Kind]int{
	apperr.KindValidation:         fiber.StatusBadRequest,
	apperr.KindConflict:           fiber.StatusConflict,
	apperr.KindNotFound:           fiber.StatusNotFound,
	apperr.KindInvalidCredentials: fiber.StatusBadRequest,
	apperr.KindUnauthenticated:    fiber.StatusUnauthorized,
	apperr.KindForbidden:          fiber.StatusForbidden,
	apperr.KindInvalidToken:       fiber.StatusBadRequest,
	apperr.KindDeliveryFailed:     fiber.StatusInternalServerError,
}

// ErrorHandler is the app-wide Fiber error handler. Classified errors keep
// their messages unless they map to a 5xx status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			return internalError(c, err)
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{
			Error: true, Message: fe.Message, Messages: []string{fe.Message},
		})
	}
	return respondError(c, err)
}

func respondError(c *fiber.Ctx, err error) error {
	e := apperr.As(err)
	status, ok := kindStatus[e.Kind]
	if !ok {
		return internalError(c, err)
	}

	messages := e.Messages
	if len(messages) == 0 {
		messages = []string{e.Error()}
	}
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err.Error(), "request_id", requestID(c))
		capture(c, err)
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error:    true,
		Message:  messages[0],
		Messages: messages,
		Reason:   e.Reason,
	})
}

func internalError(c *fiber.Ctx, err error) error {
	slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error(), "request_id", requestID(c))
	capture(c, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func capture(c *fiber.Ctx, err error) {
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// parseBody decodes the JSON body into req and validates it.
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return dto.Validate(req)
}

func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}
