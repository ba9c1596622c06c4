package chat

import (
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

const defaultPageSize = 50

// MessageStore — журнал сообщений комнаты: только добавление,
// мягкое удаление, постраничное чтение от новых к старым
type MessageStore struct {
	store Store
	locks *roomLocks
}

func NewMessageStore(store Store, locks *roomLocks) *MessageStore {
	return &MessageStore{store: store, locks: locks}
}

// Append присваивает сообщению следующий номер в комнате и увеличивает
// счетчик сообщений
func (s *MessageStore) Append(roomID, userID uuid.UUID, typ models.MessageType, content string) (*models.ChatMessage, error) {
	unlock := s.locks.lock(roomID)
	defer unlock()

	room, err := s.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	return s.appendLocked(room, userID, typ, content)
}

// appendLocked вызывается только под блокировкой комнаты
func (s *MessageStore) appendLocked(room *models.ChatRoom, userID uuid.UUID, typ models.MessageType, content string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		RoomID:    room.ID,
		UserID:    userID,
		Seq:       room.TotalMessages + 1,
		Type:      typ,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateMessage(msg); err != nil {
		return nil, err
	}

	room.TotalMessages = msg.Seq
	if err := s.store.UpdateRoom(room); err != nil {
		return nil, err
	}
	return msg, nil
}

// Page возвращает видимые сообщения от новых к старым. Курсор — номер
// сообщения, с которого продолжать (0 = с конца); nextCursor == 0
// означает, что старее ничего нет.
func (s *MessageStore) Page(roomID uuid.UUID, cursor int64, limit int) ([]models.ChatMessage, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}

	msgs, err := s.store.MessagesBefore(roomID, cursor, limit)
	if err != nil {
		return nil, 0, err
	}

	var next int64
	if len(msgs) == limit {
		next = msgs[len(msgs)-1].Seq
	}
	return msgs, next, nil
}

// SoftDelete скрывает сообщение из выдачи, оставляя строку для аудита.
// Удалять может только автор.
func (s *MessageStore) SoftDelete(messageID, requestingUserID uuid.UUID) error {
	msg, err := s.store.GetMessage(messageID)
	if err != nil {
		return err
	}
	if msg.UserID != requestingUserID {
		return ErrForbidden
	}
	if msg.IsDeleted {
		return nil
	}

	msg.IsDeleted = true
	return s.store.UpdateMessage(msg)
}

func (s *MessageStore) CountVisible(roomID uuid.UUID) (int64, error) {
	return s.store.CountVisibleMessages(roomID)
}
