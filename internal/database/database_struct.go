package database

import "gorm.io/gorm"

// Database — единая точка доступа к хранилищу платформы: пользователи,
// события, площадки с бронированиями, платежи, реклама, подписки и
// чат-комнаты поверх одного *gorm.DB. Методы разложены по файлам
// по сущностям.
type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}
