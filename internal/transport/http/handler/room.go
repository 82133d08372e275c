package handler

import (
	"github.com/gin-gonic/gin"

	"studybuddy/internal/app"
	"studybuddy/internal/transport/http/response"
)

type RoomHandler struct {
	roomService *app.RoomService
}

type CreateRoomRequest struct {
	RoomName string `json:"room_name"`
}

func NewRoomHandler(roomService *app.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateOrGet resolves a room name to a stable id, creating the room on
// first reference. An empty or missing body resolves the "default" room.
func (h *RoomHandler) CreateOrGet(c *gin.Context) {
	var req CreateRoomRequest
	_ = c.ShouldBindJSON(&req)

	room, err := h.roomService.GetOrCreate(req.RoomName)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.OK(c, gin.H{"room_id": room.ID, "room_name": room.RoomName})
}
