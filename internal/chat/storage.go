package chat

import (
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

// Store — персистентность подсистемы чата. Реализации возвращают
// ErrRoomNotFound / ErrParticipantNotFound / ErrMessageNotFound для
// отсутствующих записей и ErrAlreadyExists при нарушении уникальности
// комнаты по событию.
type Store interface {
	CreateRoom(room *models.ChatRoom) error
	GetRoom(id uuid.UUID) (*models.ChatRoom, error)
	GetRoomByEvent(eventID uuid.UUID) (*models.ChatRoom, error)
	UpdateRoom(room *models.ChatRoom) error
	RoomsInStatus(status models.ChatRoomStatus) ([]models.ChatRoom, error)

	GetParticipant(roomID, userID uuid.UUID) (*models.ChatParticipant, error)
	CreateParticipant(p *models.ChatParticipant) error
	UpdateParticipant(p *models.ChatParticipant) error

	CreateMessage(m *models.ChatMessage) error
	GetMessage(id uuid.UUID) (*models.ChatMessage, error)
	UpdateMessage(m *models.ChatMessage) error
	MessagesBefore(roomID uuid.UUID, beforeSeq int64, limit int) ([]models.ChatMessage, error)
	CountVisibleMessages(roomID uuid.UUID) (int64, error)
}

// EventDirectory — взгляд чата на модуль событий; чат не хранит
// ничего о событии кроме его идентификатора
type EventDirectory interface {
	IsChatEnabled(eventID uuid.UUID) (bool, error)
	MaxParticipants(eventID uuid.UUID) (int, error)
	OwnerID(eventID uuid.UUID) (uuid.UUID, error)
	EndsAt(eventID uuid.UUID) (time.Time, error)
	Title(eventID uuid.UUID) (string, error)
}

type UserInfo struct {
	ID        uuid.UUID
	DisplayID string
	Nickname  string
	AvatarURL string
}

// UserDirectory отдает отображаемые атрибуты пользователя
type UserDirectory interface {
	Resolve(userID uuid.UUID) (UserInfo, error)
}

// Billing списывает стоимость аренды рантайма с владельца события
type Billing interface {
	ChargeRoomUsage(ownerID, roomID uuid.UUID, units, amount int64) error
}
