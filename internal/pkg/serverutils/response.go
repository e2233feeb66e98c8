package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func SuccessResponse(message string, data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"code":    fiber.StatusOK,
		"message": message,
		"data":    data,
	}
}

func CreatedResponse(message string, data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"code":    fiber.StatusCreated,
		"message": message,
		"data":    data,
	}
}

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// JSON envelope. Unrecognized errors become SERVER without leaking details.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			return ctx.Status(appErr.Status).JSON(fiber.Map{
				"success":    false,
				"code":       appErr.Status,
				"error_type": string(appErr.Kind),
				"message":    appErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"success":    false,
				"code":       fiberErr.Code,
				"error_type": string(KindServer),
				"message":    fiberErr.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success":    false,
			"code":       fiber.StatusInternalServerError,
			"error_type": string(KindServer),
			"message":    "internal server error",
		})
	}
}
