package chat

import (
	"log"
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

// Membership ведет состав комнаты. Проверка вместимости и изменение
// счетчика — один атомарный шаг под блокировкой комнаты, наивный
// read-check-write здесь недопустим.
type Membership struct {
	store Store
	locks *roomLocks
}

func NewMembership(store Store, locks *roomLocks) *Membership {
	return &Membership{store: store, locks: locks}
}

// Join пускает пользователя в ACTIVE-комнату. Повторный вход после
// выхода переиспользует ту же строку участника.
func (t *Membership) Join(roomID, userID uuid.UUID) (*models.ChatParticipant, error) {
	unlock := t.locks.lock(roomID)
	defer unlock()

	room, err := t.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomActive {
		return nil, ErrRoomNotActive
	}

	p, err := t.store.GetParticipant(roomID, userID)
	if err != nil && err != ErrParticipantNotFound {
		return nil, err
	}

	if p != nil && p.IsActive {
		return nil, ErrAlreadyJoined
	}

	// Отказ по вместимости не оставляет следов: ни строки, ни инкремента
	if room.IsFull() {
		return nil, ErrRoomFull
	}

	if p != nil {
		p.IsActive = true
		p.LeftAt = nil
		if err := t.store.UpdateParticipant(p); err != nil {
			return nil, err
		}
	} else {
		p = &models.ChatParticipant{
			RoomID:   roomID,
			UserID:   userID,
			IsActive: true,
			JoinedAt: time.Now(),
		}
		if err := t.store.CreateParticipant(p); err != nil {
			return nil, err
		}
	}

	room.CurrentCount++
	if err := t.store.UpdateRoom(room); err != nil {
		return nil, err
	}

	log.Printf("User %s joined room %s (%d/%d)", userID, roomID, room.CurrentCount, room.Capacity)
	return p, nil
}

func (t *Membership) Leave(roomID, userID uuid.UUID) error {
	unlock := t.locks.lock(roomID)
	defer unlock()

	p, err := t.store.GetParticipant(roomID, userID)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return ErrParticipantNotFound
	}

	now := time.Now()
	p.IsActive = false
	p.LeftAt = &now
	if err := t.store.UpdateParticipant(p); err != nil {
		return err
	}

	room, err := t.store.GetRoom(roomID)
	if err != nil {
		return err
	}
	if room.CurrentCount > 0 {
		room.CurrentCount--
		if err := t.store.UpdateRoom(room); err != nil {
			return err
		}
	}

	log.Printf("User %s left room %s (%d/%d)", userID, roomID, room.CurrentCount, room.Capacity)
	return nil
}

func (t *Membership) IsActiveMember(roomID, userID uuid.UUID) (bool, error) {
	p, err := t.store.GetParticipant(roomID, userID)
	if err == ErrParticipantNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.IsActive, nil
}

func (t *Membership) ActiveCount(roomID uuid.UUID) (int, error) {
	room, err := t.store.GetRoom(roomID)
	if err != nil {
		return 0, err
	}
	return room.CurrentCount, nil
}
