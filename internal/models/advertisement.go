package models

import (
	"time"

	"github.com/google/uuid"
)

type AdType string

const (
	AdBanner AdType = "BANNER"
	AdVideo  AdType = "VIDEO"
	AdPopup  AdType = "POPUP"
	AdNative AdType = "NATIVE"
)

type AdStatus string

const (
	AdPending  AdStatus = "PENDING"
	AdActive   AdStatus = "ACTIVE"
	AdPaused   AdStatus = "PAUSED"
	AdExpired  AdStatus = "EXPIRED"
	AdRejected AdStatus = "REJECTED"
)

type Advertisement struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AdvertiserID uuid.UUID `gorm:"type:uuid;not null;index"`
	Title        string    `gorm:"not null"`
	Description  string

	Type      AdType `gorm:"type:varchar(20);not null"`
	ImageURL  string
	VideoURL  string
	TargetURL string

	StartDate time.Time
	EndDate   time.Time

	Budget            int64
	CostPerClick      int64
	CostPerImpression int64
	Impressions       int64 `gorm:"default:0"`
	Clicks            int64 `gorm:"default:0"`
	TotalSpent        int64 `gorm:"default:0"`

	Status          AdStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	RejectionReason string
	ApprovedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Advertiser User `gorm:"foreignKey:AdvertiserID"`
}
