package models

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventScheduled EventStatus = "SCHEDULED"
	EventLive      EventStatus = "LIVE"
	EventEnded     EventStatus = "ENDED"
	EventCancelled EventStatus = "CANCELLED"
)

type ChatPaymentStatus string

const (
	ChatUnpaid ChatPaymentStatus = "UNPAID"
	ChatPaid   ChatPaymentStatus = "PAID"
)

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string

	StartTime time.Time `gorm:"not null;index"`
	EndTime   time.Time `gorm:"not null"`

	VenueAddress string
	VenueLat     float64
	VenueLng     float64

	// Настройки чата: комната создается только если чат включен и оплачен
	ChatEnabled         bool `gorm:"not null;default:false"`
	ChatMaxParticipants int  `gorm:"default:0"`
	ChatPaymentStatus   ChatPaymentStatus `gorm:"type:varchar(20)"`

	Status EventStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED';index"`

	ViewCount     int `gorm:"default:0"`
	FavoriteCount int `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Owner User `gorm:"foreignKey:OwnerID"`
}
