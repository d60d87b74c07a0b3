package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-notechat-be/internal/dto"
	"ai-notechat-be/internal/entity"
	"ai-notechat-be/internal/pkg/logger"
	"ai-notechat-be/internal/repository/specification"
	"ai-notechat-be/internal/repository/unitofwork"
	"ai-notechat-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishSyncNoteMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("ConsumerService", "failed to unmarshal sync message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed, retrying will not help
		return
	}

	if err := cs.syncNote(ctx, payload.NoteId); err != nil {
		cs.log.Error("ConsumerService", "note sync failed", map[string]interface{}{
			"note_id": payload.NoteId.String(),
			"error":   err.Error(),
		})
		cs.trackJobProgress(ctx, payload.JobId, false)
		msg.Nack()
		return
	}

	cs.trackJobProgress(ctx, payload.JobId, true)
	msg.Ack()
}

// syncNote re-reads the note at processing time so the embedding always
// reflects the latest content, not the content at enqueue time.
func (cs *consumerService) syncNote(ctx context.Context, noteId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		return err
	}
	if note == nil {
		// Deleted between enqueue and processing. Drop any leftover record.
		cs.log.Info("ConsumerService", "note gone before sync, dropping record", map[string]interface{}{
			"note_id": noteId.String(),
		})
		return uow.NoteEmbeddingRepository().DeleteByNoteId(ctx, noteId)
	}

	text := fmt.Sprintf("%s\n\n%s", note.Title, note.Content)
	vector, err := cs.embeddingProvider.Embed(ctx, text)
	if err != nil {
		return err
	}

	existing, err := uow.NoteEmbeddingRepository().FindOne(ctx,
		specification.FilterBy{Field: "note_id", Value: noteId},
	)
	if err != nil {
		return err
	}

	now := time.Now()
	record := entity.NoteEmbedding{
		Id:             uuid.New(),
		NoteId:         note.Id,
		EmbeddingValue: vector,
		SyncedAt:       &now,
		CreatedAt:      now,
	}
	if existing != nil {
		record.Id = existing.Id
		record.CreatedAt = existing.CreatedAt
	}

	doc := embedding.IndexDocument{
		NoteId:      note.Id,
		Title:       note.Title,
		Content:     note.Content,
		EmbeddingId: record.Id,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
	}
	if err := cs.embeddingProvider.IndexNote(ctx, doc); err != nil {
		return err
	}

	if err := uow.NoteEmbeddingRepository().Upsert(ctx, &record); err != nil {
		return err
	}

	cs.log.Info("ConsumerService", "note synced", map[string]interface{}{
		"note_id": note.Id.String(),
	})
	return nil
}

// trackJobProgress bumps the bulk job counter and closes the job when the
// last note lands. Failures mark the job failed but do not block later tasks.
func (cs *consumerService) trackJobProgress(ctx context.Context, jobId *uuid.UUID, success bool) {
	if jobId == nil {
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	job, err := uow.SyncJobRepository().FindOne(ctx, specification.ByID{ID: *jobId})
	if err != nil || job == nil {
		return
	}

	if !success {
		if job.Status != entity.SyncJobStatusFailed {
			job.Status = entity.SyncJobStatusFailed
			_ = uow.SyncJobRepository().Update(ctx, job)
		}
		return
	}

	processed, err := uow.SyncJobRepository().IncrementProcessed(ctx, job)
	if err != nil {
		return
	}
	if processed >= job.TotalNotes && job.Status == entity.SyncJobStatusRunning {
		job.Status = entity.SyncJobStatusCompleted
		_ = uow.SyncJobRepository().Update(ctx, job)
	}
}
