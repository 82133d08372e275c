package app

import (
	"strings"

	"studybuddy/internal/model"
	"studybuddy/internal/repository"
)

// RoomService is the room registry: it maps human-chosen names to stable
// identifiers, idempotently.
type RoomService struct {
	roomRepo *repository.RoomRepository
}

func NewRoomService(roomRepo *repository.RoomRepository) *RoomService {
	return &RoomService{roomRepo: roomRepo}
}

// GetOrCreate resolves a room name to its row. A blank name falls back to
// "default". Repeated calls with the same name return the same id.
func (s *RoomService) GetOrCreate(name string) (*model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "default"
	}
	return s.roomRepo.GetOrCreate(name)
}
