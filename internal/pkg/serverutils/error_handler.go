package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ai-videochat-be/internal/pkg/logger"
)

// NewErrorHandler maps surfaced errors to a generic JSON failure. Pipeline
// and service errors never leak internals to the client.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Something went wrong, please try again."

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if code >= 500 {
			log.Error("http", "request failed", map[string]interface{}{
				"path":  ctx.Path(),
				"error": err.Error(),
			})
		}

		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}
