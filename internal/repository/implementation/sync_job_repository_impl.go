package implementation

import (
	"context"
	"errors"

	"ai-notechat-be/internal/entity"
	"ai-notechat-be/internal/mapper"
	"ai-notechat-be/internal/model"
	"ai-notechat-be/internal/repository/contract"
	"ai-notechat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type SyncJobRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SyncJobMapper
}

func NewSyncJobRepository(db *gorm.DB) contract.SyncJobRepository {
	return &SyncJobRepositoryImpl{
		db:     db,
		mapper: mapper.NewSyncJobMapper(),
	}
}

func (r *SyncJobRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SyncJobRepositoryImpl) Create(ctx context.Context, job *entity.SyncJob) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *SyncJobRepositoryImpl) Update(ctx context.Context, job *entity.SyncJob) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *SyncJobRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SyncJob, error) {
	var m model.SyncJob
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SyncJobRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyncJob, error) {
	var models []*model.SyncJob
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SyncJobRepositoryImpl) IncrementProcessed(ctx context.Context, job *entity.SyncJob) (int, error) {
	var processed int
	err := r.db.WithContext(ctx).
		Raw("UPDATE sync_jobs SET processed_notes = processed_notes + 1, updated_at = NOW() WHERE id = ? RETURNING processed_notes", job.Id).
		Scan(&processed).Error
	if err != nil {
		return 0, err
	}
	job.ProcessedNotes = processed
	return processed, nil
}
