package service

import (
	"context"
	"time"

	"ai-notechat-be/internal/dto"
	"ai-notechat-be/pkg/llm"
	pkgNats "ai-notechat-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type IHealthService interface {
	Check(ctx context.Context) *dto.HealthCheckResponse
}

type healthService struct {
	db             *gorm.DB
	llmProvider    llm.Provider
	eventPublisher *pkgNats.Publisher
	redisClient    *redis.Client
}

func NewHealthService(
	db *gorm.DB,
	llmProvider llm.Provider,
	eventPublisher *pkgNats.Publisher,
	redisClient *redis.Client,
) IHealthService {
	return &healthService{
		db:             db,
		llmProvider:    llmProvider,
		eventPublisher: eventPublisher,
		redisClient:    redisClient,
	}
}

// Check probes each dependency. The endpoint itself always answers; a
// failing dependency flips the overall status to degraded.
func (s *healthService) Check(ctx context.Context) *dto.HealthCheckResponse {
	services := map[string]string{
		"database":   "ok",
		"ai_backend": "ok",
		"nats":       "ok",
		"redis":      "ok",
	}
	status := "ok"

	if sqlDB, err := s.db.DB(); err != nil {
		services["database"] = err.Error()
		status = "degraded"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		services["database"] = err.Error()
		status = "degraded"
	}

	if err := s.llmProvider.Health(ctx); err != nil {
		services["ai_backend"] = err.Error()
		status = "degraded"
	}

	if s.eventPublisher == nil || !s.eventPublisher.Connected() {
		services["nats"] = "disconnected"
		status = "degraded"
	}

	if s.redisClient == nil {
		services["redis"] = "disabled"
	} else if err := s.redisClient.Ping(ctx).Err(); err != nil {
		services["redis"] = err.Error()
		status = "degraded"
	}

	return &dto.HealthCheckResponse{
		Status:    status,
		Services:  services,
		Timestamp: time.Now(),
	}
}
