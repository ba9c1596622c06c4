package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatParticipant — одна строка на пару (комната, пользователь);
// повторный вход переключает IsActive, строка не удаляется
type ChatParticipant struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RoomID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_user"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_user"`

	IsActive bool      `gorm:"not null;default:true"`
	JoinedAt time.Time `gorm:"not null"`
	LeftAt   *time.Time
}
