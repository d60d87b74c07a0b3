package specification

import (
	"gorm.io/gorm"
)

// ByTitle filters by exact title (case-insensitive)
type ByTitle struct {
	Title string
}

func (s ByTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(title) = LOWER(?)", s.Title)
}

// SearchQuery matches title or content with ILIKE
type SearchQuery struct {
	Query string
}

func (s SearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
}

// WithoutSyncRecord selects notes that have no sync record yet
type WithoutSyncRecord struct{}

func (s WithoutSyncRecord) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("NOT EXISTS (SELECT 1 FROM note_embeddings ne WHERE ne.note_id = notes.id)")
}
