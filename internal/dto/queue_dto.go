package dto

import "github.com/google/uuid"

// PublishSyncNoteMessage is the queue payload for one note sync task.
// JobId is set when the task belongs to a bulk sync job.
type PublishSyncNoteMessage struct {
	NoteId uuid.UUID  `json:"note_id"`
	JobId  *uuid.UUID `json:"job_id,omitempty"`
}
