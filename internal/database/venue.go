package database

import (
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

func (d *Database) CreateVenue(venue *models.Venue) error {
	return d.db.Create(venue).Error
}

func (d *Database) GetVenue(id uuid.UUID) (*models.Venue, error) {
	var venue models.Venue
	if err := d.db.First(&venue, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &venue, nil
}

func (d *Database) UpdateVenue(venue *models.Venue) error {
	return d.db.Save(venue).Error
}

func (d *Database) ListActiveVenues(limit, offset int) ([]models.Venue, error) {
	var venues []models.Venue
	err := d.db.Where("status = ?", models.VenueActive).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&venues).Error
	return venues, err
}

func (d *Database) CreateBooking(b *models.VenueBooking) error {
	return d.db.Create(b).Error
}

func (d *Database) GetBooking(id uuid.UUID) (*models.VenueBooking, error) {
	var b models.VenueBooking
	if err := d.db.First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (d *Database) UpdateBooking(b *models.VenueBooking) error {
	return d.db.Save(b).Error
}

func (d *Database) ListBookingsByUser(userID uuid.UUID) ([]models.VenueBooking, error) {
	var bookings []models.VenueBooking
	err := d.db.Where("user_id = ?", userID).Order("start_time DESC").Find(&bookings).Error
	return bookings, err
}

// HasBookingConflict — пересекается ли интервал с подтвержденными или
// ожидающими бронями площадки
func (d *Database) HasBookingConflict(venueID uuid.UUID, start, end time.Time) (bool, error) {
	var n int64
	err := d.db.Model(&models.VenueBooking{}).
		Where("venue_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			venueID,
			[]models.BookingStatus{models.BookingPending, models.BookingConfirmed},
			end, start).
		Count(&n).Error
	return n > 0, err
}
