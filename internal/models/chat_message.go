package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageChat   MessageType = "CHAT"
	MessageJoin   MessageType = "JOIN"
	MessageLeave  MessageType = "LEAVE"
	MessageSystem MessageType = "SYSTEM"
)

type ChatMessage struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RoomID uuid.UUID `gorm:"type:uuid;not null;index:idx_room_seq"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Порядковый номер внутри комнаты, совпадает с порядком добавления
	Seq int64 `gorm:"not null;index:idx_room_seq"`

	Type    MessageType `gorm:"type:varchar(20);not null"`
	Content string      `gorm:"type:text"`

	IsDeleted bool `gorm:"not null;default:false"`

	CreatedAt time.Time
}
