package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatRoomStatus — статусы комнаты, переходы только вперед:
// CREATING -> ACTIVE -> CLOSING -> CLOSED
type ChatRoomStatus string

const (
	RoomCreating ChatRoomStatus = "CREATING"
	RoomActive   ChatRoomStatus = "ACTIVE"
	RoomClosing  ChatRoomStatus = "CLOSING"
	RoomClosed   ChatRoomStatus = "CLOSED"
)

type ChatRoom struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	Status ChatRoomStatus `gorm:"type:varchar(20);not null;default:'CREATING';index"`

	// Хэндл и адрес рантайма; заполнены только пока комната ACTIVE/CLOSING
	RuntimeHandle string `gorm:"type:text"`
	Endpoint      string `gorm:"type:text"`

	Capacity     int `gorm:"not null"`
	CurrentCount int `gorm:"not null;default:0"`

	TotalMessages int64 `gorm:"not null;default:0"`
	FailureReason string

	CreatedAt time.Time
	StartedAt *time.Time
	EndedAt   *time.Time
}

func (r *ChatRoom) IsFull() bool {
	return r.CurrentCount >= r.Capacity
}

func (r *ChatRoom) IsActive() bool {
	return r.Status == RoomActive
}
