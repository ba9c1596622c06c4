package database

import (
	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

func (d *Database) CreatePayment(p *models.Payment) error {
	return d.db.Create(p).Error
}

func (d *Database) GetPayment(id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	if err := d.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *Database) GetPaymentByOrderID(orderID string) (*models.Payment, error) {
	var p models.Payment
	if err := d.db.Where("order_id = ?", orderID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *Database) UpdatePayment(p *models.Payment) error {
	return d.db.Save(p).Error
}

func (d *Database) ListPaymentsByUser(userID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := d.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}
