package unitofwork

import (
	"context"

	"ai-notechat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NoteRepository() contract.NoteRepository
	NoteEmbeddingRepository() contract.NoteEmbeddingRepository
	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
	ChatSessionRepository() contract.ChatSessionRepository
	SyncJobRepository() contract.SyncJobRepository
}
