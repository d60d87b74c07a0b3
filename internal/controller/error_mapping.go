package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ai-notechat-be/internal/pkg/serverutils"
	"ai-notechat-be/internal/service"
	"ai-notechat-be/pkg/workflow"
)

// writeServiceError maps domain errors onto status codes: missing records
// are 404, an empty edit request is 400, illegal workflow moves are 422,
// anything else is 500.
func writeServiceError(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrNoteNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrConversationNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, service.ErrNoDraft):
		code = fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrEmptyEdit):
		code = fiber.StatusBadRequest
	}

	var transitionErr *workflow.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		code = fiber.StatusUnprocessableEntity
	}
	var statusErr *workflow.UnknownStatusError
	if errors.As(err, &statusErr) {
		code = fiber.StatusUnprocessableEntity
	}

	return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
}
