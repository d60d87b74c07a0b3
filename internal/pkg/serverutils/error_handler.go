package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ai-notechat-be/pkg/workflow"
)

// ErrorHandlerMiddleware is the safety net under the controllers: anything
// they return unmapped is turned into a JSON error body here.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		var transitionErr *workflow.InvalidTransitionError
		if errors.As(err, &transitionErr) {
			code = fiber.StatusUnprocessableEntity
		}

		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
