package database

import (
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (d *Database) CreateAd(ad *models.Advertisement) error {
	return d.db.Create(ad).Error
}

func (d *Database) GetAd(id uuid.UUID) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := d.db.First(&ad, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

func (d *Database) UpdateAd(ad *models.Advertisement) error {
	return d.db.Save(ad).Error
}

func (d *Database) ListAdsByAdvertiser(advertiserID uuid.UUID) ([]models.Advertisement, error) {
	var ads []models.Advertisement
	err := d.db.Where("advertiser_id = ?", advertiserID).Order("created_at DESC").Find(&ads).Error
	return ads, err
}

// ActiveAds — объявления, пригодные к показу прямо сейчас
func (d *Database) ActiveAds(adType models.AdType, now time.Time) ([]models.Advertisement, error) {
	var ads []models.Advertisement
	err := d.db.
		Where("status = ? AND type = ? AND start_date <= ? AND end_date > ? AND total_spent < budget",
			models.AdActive, adType, now, now).
		Find(&ads).Error
	return ads, err
}

func (d *Database) RecordAdImpression(id uuid.UUID, cost int64) error {
	return d.db.Model(&models.Advertisement{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"impressions": gorm.Expr("impressions + 1"),
			"total_spent": gorm.Expr("total_spent + ?", cost),
		}).Error
}

func (d *Database) RecordAdClick(id uuid.UUID, cost int64) error {
	return d.db.Model(&models.Advertisement{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"clicks":      gorm.Expr("clicks + 1"),
			"total_spent": gorm.Expr("total_spent + ?", cost),
		}).Error
}

// ExpireAds — переводит в EXPIRED все активные объявления с истекшим
// сроком или исчерпанным бюджетом
func (d *Database) ExpireAds(now time.Time) (int64, error) {
	result := d.db.Model(&models.Advertisement{}).
		Where("status = ? AND (end_date <= ? OR total_spent >= budget)", models.AdActive, now).
		Update("status", models.AdExpired)
	return result.RowsAffected, result.Error
}
