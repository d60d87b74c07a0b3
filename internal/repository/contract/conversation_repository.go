package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-notechat-be/internal/entity"
	"ai-notechat-be/internal/repository/specification"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// FindByConversation returns messages in chronological order,
	// ties broken by id.
	FindByConversation(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error)
	// FindRecent returns the newest limit messages, oldest first.
	FindRecent(ctx context.Context, conversationId uuid.UUID, limit int) ([]*entity.Message, error)
	DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error
}
