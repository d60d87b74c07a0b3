package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SyncJob struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Kind           string         `gorm:"type:varchar(32);not null"`
	Status         string         `gorm:"type:varchar(32);not null;index"`
	TotalNotes     int            `gorm:"default:0"`
	ProcessedNotes int            `gorm:"default:0"`
	Payload        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

func (SyncJob) TableName() string {
	return "sync_jobs"
}
