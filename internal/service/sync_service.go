package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-notechat-be/internal/config"
	"ai-notechat-be/internal/dto"
	"ai-notechat-be/internal/entity"
	"ai-notechat-be/internal/pkg/logger"
	"ai-notechat-be/internal/repository/specification"
	"ai-notechat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const recentJobsLimit = 10

type ISyncService interface {
	EnqueueBulk(ctx context.Context, req *dto.SyncNotesRequest) (*dto.SyncNotesResponse, error)
	Status(ctx context.Context) (*dto.SyncStatusResponse, error)
}

type syncService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	syncConfig       config.SyncConfig
	log              logger.ILogger
}

func NewSyncService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	syncConfig config.SyncConfig,
	log logger.ILogger,
) ISyncService {
	return &syncService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		syncConfig:       syncConfig,
		log:              log,
	}
}

// EnqueueBulk fans one sync task per note out to the queue and returns
// immediately with the job handle. With force_resync every note is queued,
// otherwise only notes without a record or with a stale one.
func (s *syncService) EnqueueBulk(ctx context.Context, req *dto.SyncNotesRequest) (*dto.SyncNotesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	noteIds, err := s.collectNoteIds(ctx, uow, req.ForceResync)
	if err != nil {
		return nil, err
	}

	totalNotes, err := uow.NoteRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	job := entity.SyncJob{
		Id:         uuid.New(),
		Kind:       entity.SyncJobKindBulk,
		Status:     entity.SyncJobStatusRunning,
		TotalNotes: len(noteIds),
		Payload: map[string]interface{}{
			"force_resync": req.ForceResync,
		},
		CreatedAt: time.Now(),
	}
	if len(noteIds) == 0 {
		job.Status = entity.SyncJobStatusCompleted
	}
	if err := uow.SyncJobRepository().Create(ctx, &job); err != nil {
		return nil, err
	}

	for _, noteId := range noteIds {
		jobId := job.Id
		payload, err := json.Marshal(dto.PublishSyncNoteMessage{NoteId: noteId, JobId: &jobId})
		if err != nil {
			return nil, err
		}
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			return nil, err
		}
	}

	// Cleanup runs after the fan-out so a record is never dropped before
	// its replacement job is on the queue.
	if req.ForceResync {
		s.cleanupRecords(ctx, uow)
	}

	s.log.Info("SyncService", "bulk sync enqueued", map[string]interface{}{
		"job_id":      job.Id.String(),
		"total_notes": job.TotalNotes,
		"force":       req.ForceResync,
	})

	return &dto.SyncNotesResponse{
		JobId:         job.Id,
		TotalNotes:    int(totalNotes),
		UnsyncedNotes: len(noteIds),
		Status:        job.Status,
	}, nil
}

// cleanupRecords drops sync records past the retention window and records
// orphaned by deleted notes. Failures only log; the bulk run proceeds.
func (s *syncService) cleanupRecords(ctx context.Context, uow unitofwork.UnitOfWork) {
	cutoff := time.Now().Add(-s.syncConfig.RetentionWindow)
	if removed, err := uow.NoteEmbeddingRepository().DeleteStale(ctx, specification.SyncedBefore{Cutoff: cutoff}); err != nil {
		s.log.Warn("SyncService", "retention cleanup failed", map[string]interface{}{
			"error": err.Error(),
		})
	} else if removed > 0 {
		s.log.Info("SyncService", "removed sync records past retention", map[string]interface{}{
			"count": removed,
		})
	}

	if removed, err := uow.NoteEmbeddingRepository().DeleteStale(ctx, specification.Orphaned{}); err != nil {
		s.log.Warn("SyncService", "orphan cleanup failed", map[string]interface{}{
			"error": err.Error(),
		})
	} else if removed > 0 {
		s.log.Info("SyncService", "removed orphaned sync records", map[string]interface{}{
			"count": removed,
		})
	}
}

// collectNoteIds picks the notes a bulk run should touch.
func (s *syncService) collectNoteIds(ctx context.Context, uow unitofwork.UnitOfWork, force bool) ([]uuid.UUID, error) {
	if force {
		notes, err := uow.NoteRepository().FindAll(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, len(notes))
		for i, n := range notes {
			ids[i] = n.Id
		}
		return ids, nil
	}

	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID

	unsynced, err := uow.NoteRepository().FindAll(ctx, specification.WithoutSyncRecord{})
	if err != nil {
		return nil, err
	}
	for _, n := range unsynced {
		if _, ok := seen[n.Id]; !ok {
			seen[n.Id] = struct{}{}
			ids = append(ids, n.Id)
		}
	}

	cutoff := time.Now().Add(-s.syncConfig.StalenessThreshold)
	stale, err := uow.NoteEmbeddingRepository().FindAll(ctx, specification.SyncedBefore{Cutoff: cutoff})
	if err != nil {
		return nil, err
	}
	for _, record := range stale {
		if _, ok := seen[record.NoteId]; !ok {
			seen[record.NoteId] = struct{}{}
			ids = append(ids, record.NoteId)
		}
	}
	return ids, nil
}

func (s *syncService) Status(ctx context.Context) (*dto.SyncStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	totalNotes, err := uow.NoteRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-s.syncConfig.StalenessThreshold)
	syncedNotes, err := uow.NoteEmbeddingRepository().Count(ctx, specification.Synced{Since: cutoff})
	if err != nil {
		return nil, err
	}

	percentage := 100.0
	if totalNotes > 0 {
		percentage = float64(syncedNotes) / float64(totalNotes) * 100.0
	}

	jobs, err := uow.SyncJobRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: recentJobsLimit},
	)
	if err != nil {
		return nil, err
	}

	res := dto.SyncStatusResponse{
		TotalNotes:     totalNotes,
		SyncedNotes:    syncedNotes,
		SyncPercentage: percentage,
		RecentJobs:     make([]dto.SyncJobSummary, len(jobs)),
	}
	for i, job := range jobs {
		res.RecentJobs[i] = dto.SyncJobSummary{
			Id:             job.Id,
			Kind:           job.Kind,
			Status:         job.Status,
			TotalNotes:     job.TotalNotes,
			ProcessedNotes: job.ProcessedNotes,
			CreatedAt:      job.CreatedAt,
		}
	}
	return &res, nil
}
