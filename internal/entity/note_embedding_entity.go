package entity

import (
	"time"

	"github.com/google/uuid"
)

// NoteEmbedding is the sync record linking a note to the external semantic
// index. Id doubles as the opaque embedding reference handed to the index.
// At most one record exists per note.
type NoteEmbedding struct {
	Id             uuid.UUID
	NoteId         uuid.UUID
	EmbeddingValue []float32
	SyncedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// NeedsSync reports whether the record is stale relative to the threshold.
func (e *NoteEmbedding) NeedsSync(staleness time.Duration, now time.Time) bool {
	if e.SyncedAt == nil {
		return true
	}
	return now.Sub(*e.SyncedAt) > staleness
}
