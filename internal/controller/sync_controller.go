package controller

import (
	"ai-notechat-be/internal/dto"
	"ai-notechat-be/internal/pkg/serverutils"
	"ai-notechat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISyncController interface {
	RegisterRoutes(r fiber.Router)
	SyncNotes(ctx *fiber.Ctx) error
	SyncStatus(ctx *fiber.Ctx) error
	HealthCheck(ctx *fiber.Ctx) error
}

type syncController struct {
	syncService   service.ISyncService
	healthService service.IHealthService
}

func NewSyncController(syncService service.ISyncService, healthService service.IHealthService) ISyncController {
	return &syncController{
		syncService:   syncService,
		healthService: healthService,
	}
}

func (c *syncController) RegisterRoutes(r fiber.Router) {
	r.Post("/sync_notes", c.SyncNotes)
	r.Get("/sync_status", c.SyncStatus)
	r.Get("/health_check", c.HealthCheck)
}

func (c *syncController) SyncNotes(ctx *fiber.Ctx) error {
	// Body is optional; an empty body means a normal (non-forced) run.
	var req dto.SyncNotesRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
		}
	}

	res, err := c.syncService.EnqueueBulk(ctx.Context(), &req)
	if err != nil {
		return writeServiceError(ctx, err)
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Sync started", res))
}

func (c *syncController) SyncStatus(ctx *fiber.Ctx) error {
	res, err := c.syncService.Status(ctx.Context())
	if err != nil {
		return writeServiceError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success sync status", res))
}

func (c *syncController) HealthCheck(ctx *fiber.Ctx) error {
	res := c.healthService.Check(ctx.Context())
	if res.Status != "ok" {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.SuccessResponse("Health check", res))
	}
	return ctx.JSON(serverutils.SuccessResponse("Health check", res))
}
