package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	// SessionType defaults to "query" when omitted.
	SessionType    string     `json:"session_type" validate:"omitempty,oneof=query create_note edit_note append_note"`
	ConversationId *uuid.UUID `json:"conversation_id"`
}

type CreateSessionResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type StartEditRequest struct {
	Id           uuid.UUID
	NoteId       uuid.UUID `json:"note_id" validate:"required"`
	Instructions string    `json:"instructions"`
}

// ProcessEditRequest must carry at least one of instructions, a proposed
// title, or proposed content. When only instructions arrive, the draft
// content is generated from them.
type ProcessEditRequest struct {
	Id              uuid.UUID
	Instructions    string `json:"instructions"`
	ProposedTitle   string `json:"proposed_title"`
	ProposedContent string `json:"proposed_content"`
}

// DraftPreview shows the proposed change next to the snapshot it replaces.
type DraftPreview struct {
	NoteId          uuid.UUID `json:"note_id"`
	Title           string    `json:"title"`
	DraftTitle      *string   `json:"draft_title,omitempty"`
	OriginalContent string    `json:"original_content"`
	DraftContent    string    `json:"draft_content"`
}

type ProcessEditResponse struct {
	Id      uuid.UUID    `json:"id"`
	Status  string       `json:"status"`
	Preview DraftPreview `json:"preview"`
}

type StartEditResponse struct {
	Session    ShowSessionResponse `json:"session"`
	TargetNote ShowNoteResponse    `json:"target_note"`
}

type ApplyChangesResponse struct {
	Session     ShowSessionResponse `json:"session"`
	UpdatedNote ShowNoteResponse    `json:"updated_note"`
}

type ShowSessionResponse struct {
	Id             uuid.UUID  `json:"id"`
	SessionType    string     `json:"session_type"`
	Status         string     `json:"status"`
	ConversationId *uuid.UUID `json:"conversation_id"`
	TargetNoteId   *uuid.UUID `json:"target_note_id"`
	DraftTitle     *string    `json:"draft_title"`
	DraftContent   *string    `json:"draft_content"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}
