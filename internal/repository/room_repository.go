package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"studybuddy/internal/model"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// GetOrCreate resolves a room name to its row, inserting on first reference.
// Calling it twice with the same name yields the same id. A concurrent
// insert losing the unique-index race falls back to the lookup.
func (r *RoomRepository) GetOrCreate(name string) (*model.Room, error) {
	var room model.Room
	err := r.db.Where("room_name = ?", name).First(&room).Error
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup room failed: %w", err)
	}

	room = model.Room{RoomName: name}
	if createErr := r.db.Create(&room).Error; createErr != nil {
		if lookupErr := r.db.Where("room_name = ?", name).First(&room).Error; lookupErr == nil {
			return &room, nil
		}
		return nil, fmt.Errorf("create room failed: %w", createErr)
	}
	return &room, nil
}
