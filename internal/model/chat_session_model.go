package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionType      string     `gorm:"type:varchar(32);not null"`
	Status           string     `gorm:"type:varchar(32);not null;index"`
	ConversationId   *uuid.UUID `gorm:"type:uuid;index"`
	TargetNoteId     *uuid.UUID `gorm:"type:uuid;index"`
	OriginalContent  *string    `gorm:"type:text"`
	DraftTitle       *string    `gorm:"type:varchar(255)"`
	DraftContent     *string    `gorm:"type:text"`
	EditInstructions string     `gorm:"type:text"`
	StartedAt        time.Time  `gorm:"autoCreateTime"`
	CompletedAt      *time.Time
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
