package database

import (
	"errors"

	"github.com/buskinglive/backend/internal/chat"
	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Реализация chat.Store поверх gorm. Ошибки gorm переводятся в
// сигнальные ошибки подсистемы чата.

func (d *Database) CreateRoom(room *models.ChatRoom) error {
	err := d.db.Create(room).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return chat.ErrAlreadyExists
	}
	return err
}

func (d *Database) GetRoom(id uuid.UUID) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := d.db.First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chat.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (d *Database) GetRoomByEvent(eventID uuid.UUID) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := d.db.First(&room, "event_id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chat.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (d *Database) UpdateRoom(room *models.ChatRoom) error {
	return d.db.Save(room).Error
}

func (d *Database) RoomsInStatus(status models.ChatRoomStatus) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := d.db.Where("status = ?", status).Find(&rooms).Error
	return rooms, err
}

func (d *Database) GetParticipant(roomID, userID uuid.UUID) (*models.ChatParticipant, error) {
	var p models.ChatParticipant
	err := d.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chat.ErrParticipantNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (d *Database) CreateParticipant(p *models.ChatParticipant) error {
	return d.db.Create(p).Error
}

func (d *Database) UpdateParticipant(p *models.ChatParticipant) error {
	return d.db.Save(p).Error
}

func (d *Database) CreateMessage(m *models.ChatMessage) error {
	return d.db.Create(m).Error
}

func (d *Database) GetMessage(id uuid.UUID) (*models.ChatMessage, error) {
	var m models.ChatMessage
	if err := d.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chat.ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (d *Database) UpdateMessage(m *models.ChatMessage) error {
	return d.db.Save(m).Error
}

// MessagesBefore — видимые сообщения комнаты от новых к старым;
// beforeSeq <= 0 означает «с самого конца»
func (d *Database) MessagesBefore(roomID uuid.UUID, beforeSeq int64, limit int) ([]models.ChatMessage, error) {
	query := d.db.Where("room_id = ? AND is_deleted = false", roomID)
	if beforeSeq > 0 {
		query = query.Where("seq < ?", beforeSeq)
	}

	var messages []models.ChatMessage
	err := query.Order("seq DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

func (d *Database) CountVisibleMessages(roomID uuid.UUID) (int64, error) {
	var n int64
	err := d.db.Model(&models.ChatMessage{}).
		Where("room_id = ? AND is_deleted = false", roomID).
		Count(&n).Error
	return n, err
}
