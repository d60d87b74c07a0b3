package embedding

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IndexDocument is the payload pushed to the external semantic index.
type IndexDocument struct {
	NoteId      uuid.UUID  `json:"note_id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	EmbeddingId uuid.UUID  `json:"embedding_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// Provider defines the contract for the embedding backend and its index.
type Provider interface {
	// Embed returns the vector for a piece of text
	Embed(ctx context.Context, text string) ([]float32, error)

	// IndexNote pushes a note document to the external semantic index
	IndexNote(ctx context.Context, doc IndexDocument) error

	// RemoveNote deletes a note's representation from the external index
	RemoveNote(ctx context.Context, noteId uuid.UUID) error
}
