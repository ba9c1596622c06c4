package database

import (
	"errors"
	"os"

	"github.com/buskinglive/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func (d *Database) Connect() error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}

	var err error
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Venue{},
		&models.VenueBooking{},
		&models.Payment{},
		&models.Advertisement{},
		&models.Follow{},
		&models.EventFavorite{},
		&models.Notification{},
		&models.ChatRoom{},
		&models.ChatParticipant{},
		&models.ChatMessage{},
	)
	if err != nil {
		return err
	}

	d.db = db

	return nil
}
