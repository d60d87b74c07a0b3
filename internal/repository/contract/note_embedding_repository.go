package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-notechat-be/internal/entity"
	"ai-notechat-be/internal/repository/specification"
)

// ScoredNote pairs a sync record with its similarity to a query vector.
type ScoredNote struct {
	Embedding  *entity.NoteEmbedding
	Similarity float64
}

type NoteEmbeddingRepository interface {
	// Upsert writes the sync record for a note, inserting or replacing on the
	// unique note_id index. Keeps the one-record-per-note invariant.
	Upsert(ctx context.Context, embedding *entity.NoteEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error
	// DeleteStale removes records matching the given specs (retention cleanup).
	DeleteStale(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns the closest records by cosine similarity,
	// filtered by threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredNote, error)
}
