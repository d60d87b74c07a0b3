package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message        string     `json:"message" validate:"required"`
	ConversationId *uuid.UUID `json:"conversation_id"`
	// IncludeSources defaults to true when omitted.
	IncludeSources *bool  `json:"include_sources"`
	Mode           string `json:"mode" validate:"omitempty,oneof=traditional agent"`
}

// SourceNote is one retrieved note backing an answer.
type SourceNote struct {
	NoteId     uuid.UUID `json:"note_id"`
	Title      string    `json:"title"`
	Similarity float64   `json:"similarity"`
}

type ChatResponse struct {
	Response       string       `json:"response"`
	ConversationId uuid.UUID    `json:"conversation_id"`
	Sources        []SourceNote `json:"sources"`
	// SessionId and Preview are set when the message opened an edit session.
	SessionId *uuid.UUID    `json:"session_id,omitempty"`
	Preview   *DraftPreview `json:"preview,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type ConversationMessage struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ShowConversationResponse struct {
	Id        uuid.UUID             `json:"id"`
	Messages  []ConversationMessage `json:"messages"`
	CreatedAt time.Time             `json:"created_at"`
}
