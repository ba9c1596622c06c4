package database

import (
	"errors"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAlreadyExists = errors.New("record already exists")

func (d *Database) CreateFollow(f *models.Follow) error {
	err := d.db.Create(f).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}

func (d *Database) DeleteFollow(followerID, followeeID uuid.UUID) error {
	result := d.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Database) ListFollowers(userID uuid.UUID) ([]models.Follow, error) {
	var follows []models.Follow
	err := d.db.Where("followee_id = ?", userID).Find(&follows).Error
	return follows, err
}

func (d *Database) ListFollowing(userID uuid.UUID) ([]models.Follow, error) {
	var follows []models.Follow
	err := d.db.Where("follower_id = ?", userID).Find(&follows).Error
	return follows, err
}

func (d *Database) CountFollowers(userID uuid.UUID) (int64, error) {
	var n int64
	err := d.db.Model(&models.Follow{}).Where("followee_id = ?", userID).Count(&n).Error
	return n, err
}

func (d *Database) CreateFavorite(f *models.EventFavorite) error {
	err := d.db.Create(f).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}

func (d *Database) DeleteFavorite(userID, eventID uuid.UUID) error {
	result := d.db.Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&models.EventFavorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Database) ListFavoritesByUser(userID uuid.UUID) ([]models.EventFavorite, error) {
	var favorites []models.EventFavorite
	err := d.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&favorites).Error
	return favorites, err
}

func (d *Database) CreateNotification(n *models.Notification) error {
	return d.db.Create(n).Error
}

func (d *Database) CreateNotifications(ns []models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return d.db.Create(&ns).Error
}

func (d *Database) ListNotifications(userID uuid.UUID, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := d.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (d *Database) MarkNotificationRead(id, userID uuid.UUID) error {
	result := d.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Database) CountUnreadNotifications(userID uuid.UUID) (int64, error) {
	var n int64
	err := d.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&n).Error
	return n, err
}
