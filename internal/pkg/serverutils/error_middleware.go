package serverutils

import (
	"errors"

	"ai-chatrelay-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps service errors onto HTTP status codes.
// Controllers just return errors; nothing below this layer knows about
// status codes.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return ctx.Status(statusFor(appErr.Kind)).JSON(ErrorResponse{
				Success: false,
				Message: appErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse{
				Success: false,
				Message: fiberErr.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Message: "internal server error",
		})
	}
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperr.KindNotFound:
		// "absent" and "not yours" collapse to one answer so callers
		// cannot probe for foreign session ids.
		return fiber.StatusNotFound
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindOracle:
		return fiber.StatusBadGateway
	case apperr.KindPersistence:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
