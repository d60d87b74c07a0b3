package mapper

import (
	"ai-notechat-be/internal/entity"
	"ai-notechat-be/internal/model"
	"ai-notechat-be/pkg/workflow"
)

type ChatSessionMapper struct{}

func NewChatSessionMapper() *ChatSessionMapper {
	return &ChatSessionMapper{}
}

func (m *ChatSessionMapper) ToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}
	return &entity.ChatSession{
		Id:               s.Id,
		SessionType:      workflow.SessionType(s.SessionType),
		Status:           workflow.Status(s.Status),
		ConversationId:   s.ConversationId,
		TargetNoteId:     s.TargetNoteId,
		OriginalContent:  s.OriginalContent,
		DraftTitle:       s.DraftTitle,
		DraftContent:     s.DraftContent,
		EditInstructions: s.EditInstructions,
		StartedAt:        s.StartedAt,
		CompletedAt:      s.CompletedAt,
	}
}

func (m *ChatSessionMapper) ToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}
	return &model.ChatSession{
		Id:               s.Id,
		SessionType:      string(s.SessionType),
		Status:           string(s.Status),
		ConversationId:   s.ConversationId,
		TargetNoteId:     s.TargetNoteId,
		OriginalContent:  s.OriginalContent,
		DraftTitle:       s.DraftTitle,
		DraftContent:     s.DraftContent,
		EditInstructions: s.EditInstructions,
		StartedAt:        s.StartedAt,
		CompletedAt:      s.CompletedAt,
	}
}

func (m *ChatSessionMapper) ToEntities(sessions []*model.ChatSession) []*entity.ChatSession {
	entities := make([]*entity.ChatSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
