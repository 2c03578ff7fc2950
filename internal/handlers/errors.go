package handlers

import (
	"errors"
	"log/slog"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/snowpadi/community-backend/internal/dto"
	"github.com/snowpadi/community-backend/internal/services"
	"github.com/snowpadi/community-backend/internal/viewer"
)

// ErrorHandler is the fiber error handler. Details are only exposed for
// client errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		reportServerError(c, "unhandled server error", err)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// respondError maps a service error to its HTTP status. Unknown errors go to
// ErrorHandler.
func respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return writeError(c, fiber.StatusBadRequest, verr.Error())
	case errors.Is(err, services.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		v := viewer.From(c)
		if v.IsAnonymous() {
			return writeError(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		if v.IsBanned {
			return writeError(c, fiber.StatusForbidden, "Account is banned")
		}
		return writeError(c, fiber.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrStoreUnavailable):
		reportServerError(c, "store unavailable", err)
		return writeError(c, fiber.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		return err
	}
}

func writeError(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func reportServerError(c *fiber.Ctx, msg string, err error) {
	attrs := []any{
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
	}
	if v := viewer.From(c); !v.IsAnonymous() {
		attrs = append(attrs, "user_id", v.UserID.String())
	}
	slog.Error(msg, attrs...)

	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
}
