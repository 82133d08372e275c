package repository

import (
	"fmt"

	"gorm.io/gorm"

	"studybuddy/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a document row. The room id is stored as given; no
// existence check is performed against the rooms table.
func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

// ListByRoomID returns every document of the room in insertion order.
// No pagination, no limit: the whole set is resent to the model per query.
func (r *DocumentRepository) ListByRoomID(roomID uint) ([]model.Document, error) {
	var docs []model.Document
	if err := r.db.Where("room_id = ?", roomID).Order("id ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

// ListMetaByRoomID returns documents without their blob payloads.
func (r *DocumentRepository) ListMetaByRoomID(roomID uint) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.
		Select("id", "room_id", "filename", "mime", "pages", "uploaded_at").
		Where("room_id = ?", roomID).
		Order("id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list document metadata failed: %w", err)
	}
	return docs, nil
}
