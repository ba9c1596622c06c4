package models

import (
	"time"

	"github.com/google/uuid"
)

type VenueStatus string

const (
	VenuePending   VenueStatus = "PENDING"
	VenueActive    VenueStatus = "ACTIVE"
	VenueInactive  VenueStatus = "INACTIVE"
	VenueSuspended VenueStatus = "SUSPENDED"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

type Venue struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProviderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Description string
	Address     string
	Latitude    float64
	Longitude   float64
	Capacity    int
	HourlyRate  int64

	Status          VenueStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	RejectionReason string
	ApprovedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Provider User `gorm:"foreignKey:ProviderID"`
}

type VenueBooking struct {
	ID      uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VenueID uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	EventID *uuid.UUID `gorm:"type:uuid"`

	StartTime   time.Time `gorm:"not null"`
	EndTime     time.Time `gorm:"not null"`
	TotalAmount int64

	Status             BookingStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Purpose            string
	CancellationReason string
	ConfirmedAt        *time.Time
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Venue Venue `gorm:"foreignKey:VenueID"`
	User  User  `gorm:"foreignKey:UserID"`
}
