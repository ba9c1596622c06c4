package chat

import (
	"fmt"
	"log"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

// Service — фасад чат-подсистемы: проверка прав через состав комнаты,
// запись в журнал, затем рассылка. Порядок записи в комнате совпадает
// с порядком доставки ее подписчикам.
type Service struct {
	Rooms     *RoomManager
	Members   *Membership
	Messages  *MessageStore
	Broadcast *Broadcaster

	store Store
	users UserDirectory
	locks *roomLocks
}

func NewService(store Store, events EventDirectory, users UserDirectory, prov Provisioner, billing Billing, cfg ManagerConfig) *Service {
	locks := newRoomLocks()
	bcast := NewBroadcaster()

	return &Service{
		Rooms:     NewRoomManager(store, events, prov, bcast, billing, locks, cfg),
		Members:   NewMembership(store, locks),
		Messages:  NewMessageStore(store, locks),
		Broadcast: bcast,
		store:     store,
		users:     users,
		locks:     locks,
	}
}

// Send сохраняет и рассылает сообщение. Вся последовательность
// статус -> членство -> журнал -> публикация выполняется под
// блокировкой комнаты, поэтому подписчики видят сообщения в порядке
// добавления.
func (s *Service) Send(roomID, userID uuid.UUID, typ models.MessageType, content string) (*models.ChatMessage, error) {
	unlock := s.locks.lock(roomID)
	defer unlock()

	room, err := s.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomActive {
		return nil, ErrRoomNotActive
	}

	p, err := s.store.GetParticipant(roomID, userID)
	if err == ErrParticipantNotFound {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrForbidden
	}

	msg, err := s.Messages.appendLocked(room, userID, typ, content)
	if err != nil {
		return nil, err
	}

	s.Broadcast.Publish(roomID, *msg)
	return msg, nil
}

// Join добавляет участника и объявляет о входе остальным
func (s *Service) Join(roomID, userID uuid.UUID) (*models.ChatParticipant, error) {
	p, err := s.Members.Join(roomID, userID)
	if err != nil {
		return nil, err
	}

	s.announce(roomID, userID, models.MessageJoin)
	return p, nil
}

// Leave выводит участника, отписывает его канал и объявляет о выходе
func (s *Service) Leave(roomID, userID uuid.UUID) error {
	if err := s.Members.Leave(roomID, userID); err != nil {
		return err
	}

	s.Broadcast.Unsubscribe(roomID, userID)
	s.announce(roomID, userID, models.MessageLeave)
	return nil
}

// announce пишет системное JOIN/LEAVE сообщение в журнал и в эфир.
// Запись и публикация выполняются под блокировкой комнаты, как в Send:
// иначе параллельный Send может доставить больший номер раньше.
func (s *Service) announce(roomID, userID uuid.UUID, typ models.MessageType) {
	name := userID.String()
	if s.users != nil {
		if info, err := s.users.Resolve(userID); err == nil && info.Nickname != "" {
			name = info.Nickname
		}
	}

	verb := "joined"
	if typ == models.MessageLeave {
		verb = "left"
	}

	unlock := s.locks.lock(roomID)
	defer unlock()

	room, err := s.store.GetRoom(roomID)
	if err != nil {
		log.Printf("Room %s: announce failed: %v", roomID, err)
		return
	}

	msg, err := s.Messages.appendLocked(room, userID, typ, fmt.Sprintf("%s %s the room", name, verb))
	if err != nil {
		log.Printf("Room %s: announce failed: %v", roomID, err)
		return
	}
	s.Broadcast.Publish(roomID, *msg)
}
