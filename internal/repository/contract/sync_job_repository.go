package contract

import (
	"context"

	"ai-notechat-be/internal/entity"
	"ai-notechat-be/internal/repository/specification"
)

type SyncJobRepository interface {
	Create(ctx context.Context, job *entity.SyncJob) error
	Update(ctx context.Context, job *entity.SyncJob) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SyncJob, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyncJob, error)
	// IncrementProcessed atomically bumps processed_notes and returns the new
	// count so the bulk job can be closed out by whichever worker finishes last.
	IncrementProcessed(ctx context.Context, job *entity.SyncJob) (int, error)
}
