package model

import "time"

// Document is an uploaded binary file stored verbatim and resent to the
// model on each relevant query. RoomID is not backed by a foreign-key
// constraint: a row may reference a room that does not exist.
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RoomID     uint      `gorm:"index" json:"room_id"`
	Filename   string    `gorm:"size:256" json:"filename"`
	Data       []byte    `gorm:"type:blob;not null" json:"-"`
	Mime       string    `gorm:"size:128" json:"mime"`
	Pages      int       `json:"pages"` // 0 when the file could not be parsed as a PDF
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
