package dto

import (
	"time"

	"github.com/google/uuid"
)

type SyncNotesRequest struct {
	ForceResync bool `json:"force_resync"`
}

type SyncNotesResponse struct {
	JobId         uuid.UUID `json:"job_id"`
	TotalNotes    int       `json:"total_notes"`
	UnsyncedNotes int       `json:"unsynced_notes"`
	Status        string    `json:"status"`
}

type SyncJobSummary struct {
	Id             uuid.UUID `json:"id"`
	Kind           string    `json:"kind"`
	Status         string    `json:"status"`
	TotalNotes     int       `json:"total_notes"`
	ProcessedNotes int       `json:"processed_notes"`
	CreatedAt      time.Time `json:"created_at"`
}

type SyncStatusResponse struct {
	TotalNotes     int64            `json:"total_notes"`
	SyncedNotes    int64            `json:"synced_notes"`
	SyncPercentage float64          `json:"sync_percentage"`
	RecentJobs     []SyncJobSummary `json:"recent_jobs"`
}

type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp time.Time         `json:"timestamp"`
}
