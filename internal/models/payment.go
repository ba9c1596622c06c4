package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentType string

const (
	PaymentChatRoom PaymentType = "CHAT_ROOM"
	PaymentAd       PaymentType = "AD"
	PaymentVIP      PaymentType = "VIP"
	PaymentAdFree   PaymentType = "AD_FREE"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentCancelled PaymentStatus = "CANCELLED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type Payment struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID string    `gorm:"uniqueIndex;not null"`

	Type   PaymentType   `gorm:"type:varchar(20);not null"`
	Method string
	Amount int64         `gorm:"not null"`
	Status PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`

	ItemName string
	// ID оплачиваемого объекта: событие, комната, объявление
	ItemID *uuid.UUID `gorm:"type:uuid"`

	PGProvider      string
	PGTransactionID string

	PaidAt       *time.Time
	CancelledAt  *time.Time
	CancelReason string

	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}
