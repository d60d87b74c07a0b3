package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-notechat-be/pkg/workflow"
)

// ByConversationID filters by owning conversation
type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

// ByTargetNoteID filters sessions by the note under edit
type ByTargetNoteID struct {
	NoteID uuid.UUID
}

func (s ByTargetNoteID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("target_note_id = ?", s.NoteID)
}

// NonTerminal selects sessions still accepting transitions
type NonTerminal struct{}

func (s NonTerminal) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status NOT IN ?", []string{
		string(workflow.StatusCompleted),
		string(workflow.StatusCancelled),
	})
}

// SyncedBefore selects sync records last synced before the cutoff
type SyncedBefore struct {
	Cutoff time.Time
}

func (s SyncedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("synced_at IS NOT NULL AND synced_at < ?", s.Cutoff)
}

// Synced selects records with a non-null synced_at newer than the cutoff
type Synced struct {
	Since time.Time
}

func (s Synced) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("synced_at IS NOT NULL AND synced_at >= ?", s.Since)
}
