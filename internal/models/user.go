package models

import (
	"time"

	"github.com/google/uuid"
)

type AudienceTier string

const (
	TierGeneral AudienceTier = "GENERAL"
	TierVIP     AudienceTier = "VIP"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	DisplayID    string    `gorm:"index;not null"`
	Nickname     string
	AvatarURL    string

	Tier        AudienceTier `gorm:"type:varchar(20);default:'GENERAL'"`
	AdFree      bool         `gorm:"not null;default:false"`
	AdFreeSince *time.Time

	IsBanned    bool `gorm:"not null;default:false"`
	BanReason   string
	BannedUntil *time.Time

	LastSeenAt time.Time
	CreatedAt  time.Time
}
