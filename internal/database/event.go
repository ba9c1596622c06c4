package database

import (
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (d *Database) CreateEvent(event *models.Event) error {
	return d.db.Create(event).Error
}

func (d *Database) GetEvent(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := d.db.First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (d *Database) UpdateEvent(event *models.Event) error {
	return d.db.Save(event).Error
}

// ListUpcomingEvents — предстоящие и идущие события, раньше начинаются — выше
func (d *Database) ListUpcomingEvents(limit, offset int) ([]models.Event, error) {
	var events []models.Event
	err := d.db.
		Where("status IN ? AND end_time > ?", []models.EventStatus{models.EventScheduled, models.EventLive}, time.Now()).
		Order("start_time ASC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	return events, err
}

func (d *Database) ListEventsByOwner(ownerID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	err := d.db.Where("owner_id = ?", ownerID).Order("start_time DESC").Find(&events).Error
	return events, err
}

func (d *Database) IncrementEventViews(id uuid.UUID) error {
	return d.db.Model(&models.Event{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (d *Database) AddEventFavoriteCount(id uuid.UUID, delta int) error {
	return d.db.Model(&models.Event{}).Where("id = ?", id).
		UpdateColumn("favorite_count", gorm.Expr("GREATEST(favorite_count + ?, 0)", delta)).Error
}

// Дальше — реализация chat.EventDirectory поверх модуля событий

func (d *Database) IsChatEnabled(eventID uuid.UUID) (bool, error) {
	event, err := d.GetEvent(eventID)
	if err != nil {
		return false, err
	}
	return event.ChatEnabled, nil
}

func (d *Database) MaxParticipants(eventID uuid.UUID) (int, error) {
	event, err := d.GetEvent(eventID)
	if err != nil {
		return 0, err
	}
	return event.ChatMaxParticipants, nil
}

func (d *Database) OwnerID(eventID uuid.UUID) (uuid.UUID, error) {
	event, err := d.GetEvent(eventID)
	if err != nil {
		return uuid.Nil, err
	}
	return event.OwnerID, nil
}

func (d *Database) EndsAt(eventID uuid.UUID) (time.Time, error) {
	event, err := d.GetEvent(eventID)
	if err != nil {
		return time.Time{}, err
	}
	return event.EndTime, nil
}

func (d *Database) Title(eventID uuid.UUID) (string, error) {
	event, err := d.GetEvent(eventID)
	if err != nil {
		return "", err
	}
	return event.Title, nil
}
