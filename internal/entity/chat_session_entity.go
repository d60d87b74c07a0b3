package entity

import (
	"time"

	"github.com/google/uuid"

	"ai-notechat-be/pkg/workflow"
)

// ChatSession tracks one edit workflow instance from proposal to commit/abort.
type ChatSession struct {
	Id               uuid.UUID
	SessionType      workflow.SessionType
	Status           workflow.Status
	ConversationId   *uuid.UUID
	TargetNoteId     *uuid.UUID
	OriginalContent  *string // snapshot, set at most once
	DraftTitle       *string
	DraftContent     *string
	EditInstructions string
	StartedAt        time.Time
	CompletedAt      *time.Time
}

// HasDraftChanges reports whether at least one draft field is populated.
func (s *ChatSession) HasDraftChanges() bool {
	return (s.DraftTitle != nil && *s.DraftTitle != "") ||
		(s.DraftContent != nil && *s.DraftContent != "")
}
