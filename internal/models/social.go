package models

import (
	"time"

	"github.com/google/uuid"
)

type Follow struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair"`
	FolloweeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair"`
	CreatedAt  time.Time
}

type EventFavorite struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_pair"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_pair"`
	CreatedAt time.Time
}

type NotificationType string

const (
	NotifyEventStarted NotificationType = "EVENT_STARTED"
	NotifyNewFollower  NotificationType = "NEW_FOLLOWER"
	NotifyChatOpened   NotificationType = "CHAT_OPENED"
	NotifySystem       NotificationType = "SYSTEM"
)

type Notification struct {
	ID      uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type    NotificationType `gorm:"type:varchar(30);not null"`
	Title   string
	Body    string
	IsRead  bool `gorm:"not null;default:false"`
	ReadAt  *time.Time

	CreatedAt time.Time
}
