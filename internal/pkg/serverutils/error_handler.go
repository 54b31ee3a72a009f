package serverutils

import (
	"errors"
	"log"

	"faith-companion-be/pkg/chat/limit"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// API error shape. Unexpected errors get a correlation id for support triage;
// the underlying error text stays in the server log only.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var verr *ValidationError
		if errors.As(err, &verr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Validation failed",
				"issues":  verr.Issues,
			})
		}

		var lerr *limit.LimitExceededError
		if errors.As(err, &lerr) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success":  false,
				"message":  "Daily limit reached",
				"limit":    lerr.Limit,
				"reset_at": lerr.ResetAt,
			})
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return ctx.Status(ferr.Code).JSON(fiber.Map{
				"success": false,
				"message": ferr.Message,
			})
		}

		correlationId := uuid.New().String()
		log.Printf("[ERROR] %s %s correlation_id=%s: %v", ctx.Method(), ctx.Path(), correlationId, err)

		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success":        false,
			"message":        "Something went wrong, please contact support with the correlation id",
			"correlation_id": correlationId,
		})
	}
}
