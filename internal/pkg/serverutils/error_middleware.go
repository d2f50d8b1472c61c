package serverutils

import (
	"errors"

	"ai-tutor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbled up from handlers into JSON
// error responses. Domain sentinels map to their HTTP status; anything
// unrecognized becomes a 500 with a generic message.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		message := "internal server error"
		var details []string

		var validationErr *ValidationError
		var fiberErr *fiber.Error

		switch {
		case errors.As(err, &validationErr):
			status = fiber.StatusBadRequest
			message = "invalid request"
			details = validationErr.Messages
		case errors.Is(err, service.ErrSessionBusy):
			status = fiber.StatusConflict
			message = err.Error()
		case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrMistakeNotFound):
			status = fiber.StatusNotFound
			message = err.Error()
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		}

		return ctx.Status(status).JSON(ErrorResponse{
			Status:  "error",
			Message: message,
			Errors:  details,
		})
	}
}
