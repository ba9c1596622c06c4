package chat

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

// Потокобезопасное in-memory хранилище; наружу отдаются копии строк
type memStore struct {
	mu           sync.Mutex
	rooms        map[uuid.UUID]models.ChatRoom
	roomsByEvent map[uuid.UUID]uuid.UUID
	participants map[string]models.ChatParticipant
	messages     map[uuid.UUID]models.ChatMessage
}

func newMemStore() *memStore {
	return &memStore{
		rooms:        make(map[uuid.UUID]models.ChatRoom),
		roomsByEvent: make(map[uuid.UUID]uuid.UUID),
		participants: make(map[string]models.ChatParticipant),
		messages:     make(map[uuid.UUID]models.ChatMessage),
	}
}

func participantKey(roomID, userID uuid.UUID) string {
	return roomID.String() + "/" + userID.String()
}

func (s *memStore) CreateRoom(room *models.ChatRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roomsByEvent[room.EventID]; ok {
		return ErrAlreadyExists
	}
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	s.rooms[room.ID] = *room
	s.roomsByEvent[room.EventID] = room.ID
	return nil
}

func (s *memStore) GetRoom(id uuid.UUID) (*models.ChatRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	copy := room
	return &copy, nil
}

func (s *memStore) GetRoomByEvent(eventID uuid.UUID) (*models.ChatRoom, error) {
	s.mu.Lock()
	roomID, ok := s.roomsByEvent[eventID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrRoomNotFound
	}
	return s.GetRoom(roomID)
}

func (s *memStore) UpdateRoom(room *models.ChatRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.ID]; !ok {
		return ErrRoomNotFound
	}
	s.rooms[room.ID] = *room
	return nil
}

func (s *memStore) RoomsInStatus(status models.ChatRoomStatus) ([]models.ChatRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ChatRoom
	for _, room := range s.rooms {
		if room.Status == status {
			out = append(out, room)
		}
	}
	return out, nil
}

func (s *memStore) GetParticipant(roomID, userID uuid.UUID) (*models.ChatParticipant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[participantKey(roomID, userID)]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	copy := p
	return &copy, nil
}

func (s *memStore) CreateParticipant(p *models.ChatParticipant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := participantKey(p.RoomID, p.UserID)
	if _, ok := s.participants[key]; ok {
		return ErrAlreadyExists
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.participants[key] = *p
	return nil
}

func (s *memStore) UpdateParticipant(p *models.ChatParticipant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.participants[participantKey(p.RoomID, p.UserID)] = *p
	return nil
}

func (s *memStore) participantRows(roomID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, p := range s.participants {
		if p.RoomID == roomID {
			n++
		}
	}
	return n
}

func (s *memStore) CreateMessage(m *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.messages[m.ID] = *m
	return nil
}

func (s *memStore) GetMessage(id uuid.UUID) (*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, ErrMessageNotFound
	}
	copy := m
	return &copy, nil
}

func (s *memStore) UpdateMessage(m *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[m.ID] = *m
	return nil
}

func (s *memStore) MessagesBefore(roomID uuid.UUID, beforeSeq int64, limit int) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ChatMessage
	for _, m := range s.messages {
		if m.RoomID != roomID || m.IsDeleted {
			continue
		}
		if beforeSeq > 0 && m.Seq >= beforeSeq {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Seq > out[j].Seq })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) CountVisibleMessages(roomID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, m := range s.messages {
		if m.RoomID == roomID && !m.IsDeleted {
			n++
		}
	}
	return n, nil
}

// Справочник событий с настраиваемым чатом
type fakeEvents struct {
	mu       sync.Mutex
	enabled  map[uuid.UUID]bool
	capacity map[uuid.UUID]int
	owners   map[uuid.UUID]uuid.UUID
	ends     map[uuid.UUID]time.Time
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{
		enabled:  make(map[uuid.UUID]bool),
		capacity: make(map[uuid.UUID]int),
		owners:   make(map[uuid.UUID]uuid.UUID),
		ends:     make(map[uuid.UUID]time.Time),
	}
}

func (f *fakeEvents) addEvent(eventID, ownerID uuid.UUID, capacity int, endsAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled[eventID] = true
	f.capacity[eventID] = capacity
	f.owners[eventID] = ownerID
	f.ends[eventID] = endsAt
}

func (f *fakeEvents) IsChatEnabled(eventID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled[eventID], nil
}

func (f *fakeEvents) MaxParticipants(eventID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.capacity[eventID], nil
}

func (f *fakeEvents) OwnerID(eventID uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owners[eventID], nil
}

func (f *fakeEvents) EndsAt(eventID uuid.UUID) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ends[eventID], nil
}

func (f *fakeEvents) Title(eventID uuid.UUID) (string, error) {
	return "test event", nil
}

type fakeUsers struct {
	mu    sync.Mutex
	names map[uuid.UUID]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{names: make(map[uuid.UUID]string)}
}

func (f *fakeUsers) Resolve(userID uuid.UUID) (UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name, ok := f.names[userID]
	if !ok {
		name = "user-" + userID.String()[:8]
	}
	return UserInfo{ID: userID, Nickname: name}, nil
}

// Рантайм, проваливающий первые failures запусков
type fakeProvisioner struct {
	mu       sync.Mutex
	failures int
	delay    time.Duration
	starts   int
	running  map[string]bool
	stopped  []string
}

func newFakeProvisioner() *fakeProvisioner {
	return &fakeProvisioner{running: make(map[string]bool)}
}

func (f *fakeProvisioner) Start(ctx context.Context, rc RuntimeConfig) (string, string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.starts++
	if f.starts <= f.failures {
		return "", "", fmt.Errorf("%w: simulated launch failure", ErrProvisioningFailed)
	}

	handle := "rt-" + rc.RoomID.String()
	f.running[handle] = true
	return handle, "wss://" + handle + ".example.com/ws", nil
}

func (f *fakeProvisioner) Stop(ctx context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.running, handle)
	f.stopped = append(f.stopped, handle)
	return nil
}

func (f *fakeProvisioner) Status(ctx context.Context, handle string) RuntimeStatus {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running[handle] {
		return RuntimeRunning
	}
	return RuntimeUnknown
}

func (f *fakeProvisioner) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

func (f *fakeProvisioner) stoppedHandles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stopped...)
}

type usageCharge struct {
	ownerID uuid.UUID
	roomID  uuid.UUID
	units   int64
	amount  int64
}

type fakeBilling struct {
	mu      sync.Mutex
	charges []usageCharge
}

func (f *fakeBilling) ChargeRoomUsage(ownerID, roomID uuid.UUID, units, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.charges = append(f.charges, usageCharge{ownerID, roomID, units, amount})
	return nil
}

func (f *fakeBilling) all() []usageCharge {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]usageCharge(nil), f.charges...)
}

// Конфигурация с быстрыми паузами для тестов
func testManagerConfig() ManagerConfig {
	cfg := DefaultManagerConfig()
	cfg.ProvisionTimeout = time.Second
	cfg.RetryBackoff = time.Millisecond
	cfg.ProvisionDeadline = 50 * time.Millisecond
	return cfg
}
