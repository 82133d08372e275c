package model

import "time"

// Exchange records one question/answer round-trip against a room. Rows are
// written best-effort after the model call; losing one never fails the
// originating request.
type Exchange struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	Task      string    `gorm:"size:32;not null" json:"task"`
	Question  string    `gorm:"type:text" json:"question"`
	Answer    string    `gorm:"type:text" json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}
