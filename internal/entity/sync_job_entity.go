package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	SyncJobKindNote = "note_sync"
	SyncJobKindBulk = "bulk_sync"

	SyncJobStatusQueued    = "queued"
	SyncJobStatusRunning   = "running"
	SyncJobStatusCompleted = "completed"
	SyncJobStatusFailed    = "failed"
)

type SyncJob struct {
	Id             uuid.UUID
	Kind           string
	Status         string
	TotalNotes     int
	ProcessedNotes int
	Payload        map[string]interface{}
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
