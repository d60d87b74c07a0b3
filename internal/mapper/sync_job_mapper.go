package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"ai-notechat-be/internal/entity"
	"ai-notechat-be/internal/model"
)

type SyncJobMapper struct{}

func NewSyncJobMapper() *SyncJobMapper {
	return &SyncJobMapper{}
}

func (m *SyncJobMapper) ToEntity(j *model.SyncJob) *entity.SyncJob {
	if j == nil {
		return nil
	}

	var payload map[string]interface{}
	if len(j.Payload) > 0 {
		// Payload is informational; a corrupt blob should not fail a read.
		_ = json.Unmarshal(j.Payload, &payload)
	}

	var updatedAt *time.Time
	if !j.UpdatedAt.IsZero() {
		t := j.UpdatedAt
		updatedAt = &t
	}

	return &entity.SyncJob{
		Id:             j.Id,
		Kind:           j.Kind,
		Status:         j.Status,
		TotalNotes:     j.TotalNotes,
		ProcessedNotes: j.ProcessedNotes,
		Payload:        payload,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *SyncJobMapper) ToModel(j *entity.SyncJob) *model.SyncJob {
	if j == nil {
		return nil
	}

	var payload datatypes.JSON
	if j.Payload != nil {
		if raw, err := json.Marshal(j.Payload); err == nil {
			payload = raw
		}
	}

	var updatedAt time.Time
	if j.UpdatedAt != nil {
		updatedAt = *j.UpdatedAt
	}

	return &model.SyncJob{
		Id:             j.Id,
		Kind:           j.Kind,
		Status:         j.Status,
		TotalNotes:     j.TotalNotes,
		ProcessedNotes: j.ProcessedNotes,
		Payload:        payload,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *SyncJobMapper) ToEntities(jobs []*model.SyncJob) []*entity.SyncJob {
	entities := make([]*entity.SyncJob, len(jobs))
	for i, j := range jobs {
		entities[i] = m.ToEntity(j)
	}
	return entities
}
