package service

import (
	"context"
	"fmt"

	"ai-notechat-be/internal/pkg/logger"
	"ai-notechat-be/internal/repository/unitofwork"
	"ai-notechat-be/pkg/embedding"
	"ai-notechat-be/pkg/events"
	pkgNats "ai-notechat-be/pkg/nats"

	"github.com/google/uuid"
)

const indexGCDurableName = "note-index-gc"

// IIndexGCService cleans the external semantic index after note deletions.
// It runs off the durable NOTE_DELETED consumer so removals survive restarts.
type IIndexGCService interface {
	Start() error
}

type indexGCService struct {
	subscriber        *pkgNats.Subscriber
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	log               logger.ILogger
}

func NewIndexGCService(
	subscriber *pkgNats.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	log logger.ILogger,
) IIndexGCService {
	return &indexGCService{
		subscriber:        subscriber,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (s *indexGCService) Start() error {
	if s.subscriber == nil || !s.subscriber.Connected() {
		return fmt.Errorf("nats subscriber unavailable")
	}
	subject := fmt.Sprintf("events.%s", events.NoteDeleted)
	return s.subscriber.Subscribe(subject, indexGCDurableName, s.handleNoteDeleted)
}

func (s *indexGCService) handleNoteDeleted(ctx context.Context, event events.Event) error {
	raw, ok := event.Payload()["note_id"].(string)
	if !ok {
		s.log.Warn("IndexGCService", "note deleted event without note_id", map[string]interface{}{
			"payload": event.Payload(),
		})
		return nil
	}
	noteId, err := uuid.Parse(raw)
	if err != nil {
		s.log.Warn("IndexGCService", "note deleted event with bad note_id", map[string]interface{}{
			"note_id": raw,
		})
		return nil
	}

	if err := s.embeddingProvider.RemoveNote(ctx, noteId); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteEmbeddingRepository().DeleteByNoteId(ctx, noteId); err != nil {
		return err
	}

	s.log.Info("IndexGCService", "note removed from index", map[string]interface{}{
		"note_id": noteId.String(),
	})
	return nil
}
