package specification

import "gorm.io/gorm"

// Orphaned selects sync records whose note is gone (hard or soft deleted).
type Orphaned struct{}

func (s Orphaned) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("NOT EXISTS (SELECT 1 FROM notes n WHERE n.id = note_embeddings.note_id AND n.deleted_at IS NULL)")
}
