package model

import "time"

// Room is a named grouping of uploaded documents and the query context
// scoped to it. Rows are created on first reference to a name and are never
// updated or deleted.
type Room struct {
	ID        uint      `gorm:"primaryKey" json:"room_id"`
	RoomName  string    `gorm:"size:256;not null;uniqueIndex" json:"room_name"`
	CreatedAt time.Time `json:"created_at"`
}
