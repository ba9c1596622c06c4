package chat

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

type ManagerConfig struct {
	// Таймаут одной попытки запуска рантайма
	ProvisionTimeout time.Duration
	// Количество попыток запуска до перманентного провала комнаты
	ProvisionRetries int
	// Базовая пауза между попытками, удваивается с каждой
	RetryBackoff time.Duration
	// Предел одновременных запусков на весь процесс (лимиты провайдера)
	MaxInFlight int64
	// Комната, зависшая в CREATING дольше этого срока, закрывается сторожем
	ProvisionDeadline time.Duration

	BillingUnit time.Duration
	UnitRate    int64

	// Вместимость по умолчанию, если событие ее не задает
	DefaultCapacity int
}

func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		ProvisionTimeout:  30 * time.Second,
		ProvisionRetries:  3,
		RetryBackoff:      2 * time.Second,
		MaxInFlight:       4,
		ProvisionDeadline: 5 * time.Minute,
		BillingUnit:       DefaultBillingUnit,
		UnitRate:          DefaultUnitRate,
		DefaultCapacity:   50,
	}
}

// RoomManager владеет машиной состояний комнаты; только он
// продвигает статус
type RoomManager struct {
	store   Store
	events  EventDirectory
	prov    Provisioner
	bcast   *Broadcaster
	billing Billing
	locks   *roomLocks
	cfg     ManagerConfig

	sem *semaphore.Weighted

	mu       sync.Mutex
	inflight map[uuid.UUID]chan struct{}
}

func NewRoomManager(store Store, events EventDirectory, prov Provisioner, bcast *Broadcaster, billing Billing, locks *roomLocks, cfg ManagerConfig) *RoomManager {
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = DefaultManagerConfig().MaxInFlight
	}
	return &RoomManager{
		store:    store,
		events:   events,
		prov:     prov,
		bcast:    bcast,
		billing:  billing,
		locks:    locks,
		cfg:      cfg,
		sem:      semaphore.NewWeighted(cfg.MaxInFlight),
		inflight: make(map[uuid.UUID]chan struct{}),
	}
}

// Create заводит комнату для события в статусе CREATING и асинхронно
// запускает рантайм. Вторая комната на то же событие не создается.
func (m *RoomManager) Create(eventID uuid.UUID, capacity int) (*models.ChatRoom, error) {
	enabled, err := m.events.IsChatEnabled(eventID)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, ErrChatNotEnabled
	}

	if _, err := m.store.GetRoomByEvent(eventID); err == nil {
		return nil, ErrAlreadyExists
	} else if err != ErrRoomNotFound {
		return nil, err
	}

	if capacity <= 0 {
		capacity, err = m.events.MaxParticipants(eventID)
		if err != nil {
			return nil, err
		}
	}
	if capacity <= 0 {
		capacity = m.cfg.DefaultCapacity
	}

	room := &models.ChatRoom{
		EventID:   eventID,
		Status:    models.RoomCreating,
		Capacity:  capacity,
		CreatedAt: time.Now(),
	}

	// Уникальный индекс по event_id прикрывает гонку двух Create
	if err := m.store.CreateRoom(room); err != nil {
		return nil, err
	}

	log.Printf("Chat room created: %s for event %s (capacity %d)", room.ID, eventID, capacity)

	done := make(chan struct{})
	m.mu.Lock()
	m.inflight[room.ID] = done
	m.mu.Unlock()

	go m.provision(room.ID, eventID, done)

	return room, nil
}

// provision выполняет ограниченное число попыток запуска с паузами;
// исчерпание попыток переводит комнату сразу в CLOSED с причиной.
// Блокировка комнаты на время внешнего вызова не удерживается.
func (m *RoomManager) provision(roomID, eventID uuid.UUID, done chan struct{}) {
	defer func() {
		m.mu.Lock()
		delete(m.inflight, roomID)
		m.mu.Unlock()
		close(done)
	}()

	if err := m.sem.Acquire(context.Background(), 1); err != nil {
		m.failRoom(roomID, err.Error())
		return
	}
	defer m.sem.Release(1)

	var lastErr error
	backoff := m.cfg.RetryBackoff

	for attempt := 1; attempt <= m.cfg.ProvisionRetries; attempt++ {
		if attempt > 1 {
			time.Sleep(backoff)
			backoff *= 2
		}

		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ProvisionTimeout)
		handle, endpoint, err := m.prov.Start(ctx, RuntimeConfig{RoomID: roomID, EventID: eventID})
		cancel()

		if err == nil {
			if aerr := m.Activate(roomID, handle, endpoint); aerr != nil {
				// Комната успела закрыться, пока рантайм поднимался
				log.Printf("Room %s: runtime %s started but activation refused: %v", roomID, handle, aerr)
				m.stopRuntime(handle)
			}
			return
		}

		lastErr = err
		log.Printf("Room %s: provisioning attempt %d/%d failed: %v", roomID, attempt, m.cfg.ProvisionRetries, err)
	}

	reason := ErrProvisioningFailed.Error()
	if lastErr != nil {
		reason = lastErr.Error()
	}
	m.failRoom(roomID, reason)
}

// Activate: CREATING -> ACTIVE. Вызывается по завершении провижининга.
func (m *RoomManager) Activate(roomID uuid.UUID, handle, endpoint string) error {
	unlock := m.locks.lock(roomID)
	defer unlock()

	room, err := m.store.GetRoom(roomID)
	if err != nil {
		return err
	}
	if room.Status != models.RoomCreating {
		return ErrInvalidTransition
	}

	now := time.Now()
	room.Status = models.RoomActive
	room.RuntimeHandle = handle
	room.Endpoint = endpoint
	room.StartedAt = &now

	if err := m.store.UpdateRoom(room); err != nil {
		return err
	}

	log.Printf("Chat room activated: %s endpoint=%s", roomID, endpoint)
	return nil
}

// BeginClose: ACTIVE -> CLOSING. Повторный вызов для CLOSING/CLOSED — no-op.
// Дожидается незавершенного провижининга, чтобы не останавливать
// несуществующий хэндл.
func (m *RoomManager) BeginClose(roomID uuid.UUID) error {
	m.AwaitProvisioning(roomID)

	unlock := m.locks.lock(roomID)

	room, err := m.store.GetRoom(roomID)
	if err != nil {
		unlock()
		return err
	}

	switch room.Status {
	case models.RoomClosing, models.RoomClosed:
		unlock()
		return nil
	case models.RoomCreating:
		unlock()
		return ErrInvalidTransition
	}

	room.Status = models.RoomClosing
	if err := m.store.UpdateRoom(room); err != nil {
		unlock()
		return err
	}
	unlock()

	log.Printf("Chat room closing: %s", roomID)

	if m.bcast != nil {
		m.bcast.CloseRoom(roomID)
	}
	return nil
}

// FinishClose: CLOSING -> CLOSED. Останавливает рантайм и списывает
// стоимость использованного времени с владельца события.
func (m *RoomManager) FinishClose(roomID uuid.UUID) error {
	unlock := m.locks.lock(roomID)

	room, err := m.store.GetRoom(roomID)
	if err != nil {
		unlock()
		return err
	}
	if room.Status == models.RoomClosed {
		unlock()
		return nil
	}
	if room.Status != models.RoomClosing {
		unlock()
		return ErrInvalidTransition
	}

	handle := room.RuntimeHandle
	startedAt := room.StartedAt
	eventID := room.EventID

	now := time.Now()
	room.Status = models.RoomClosed
	room.EndedAt = &now
	room.Endpoint = ""
	room.RuntimeHandle = ""

	if err := m.store.UpdateRoom(room); err != nil {
		unlock()
		return err
	}
	unlock()

	log.Printf("Chat room closed: %s", roomID)

	if handle != "" {
		m.stopRuntime(handle)
	}

	if m.billing != nil && startedAt != nil {
		units := BillableUnits(*startedAt, now, m.cfg.BillingUnit)
		amount := units * m.cfg.UnitRate
		ownerID, oerr := m.events.OwnerID(eventID)
		if oerr != nil {
			log.Printf("Room %s: cannot resolve event owner for billing: %v", roomID, oerr)
		} else if berr := m.billing.ChargeRoomUsage(ownerID, roomID, units, amount); berr != nil {
			log.Printf("Room %s: usage charge failed: %v", roomID, berr)
		}
	}

	return nil
}

// Close — полный останов комнаты: BeginClose + FinishClose
func (m *RoomManager) Close(roomID uuid.UUID) error {
	if err := m.BeginClose(roomID); err != nil {
		return err
	}
	return m.FinishClose(roomID)
}

func (m *RoomManager) Get(roomID uuid.UUID) (*models.ChatRoom, error) {
	return m.store.GetRoom(roomID)
}

func (m *RoomManager) GetByEvent(eventID uuid.UUID) (*models.ChatRoom, error) {
	return m.store.GetRoomByEvent(eventID)
}

// RuntimeStatus — best-effort опрос состояния рантайма комнаты
func (m *RoomManager) RuntimeStatus(ctx context.Context, roomID uuid.UUID) (RuntimeStatus, error) {
	room, err := m.store.GetRoom(roomID)
	if err != nil {
		return RuntimeUnknown, err
	}
	if room.RuntimeHandle == "" {
		return RuntimeUnknown, nil
	}
	return m.prov.Status(ctx, room.RuntimeHandle), nil
}

// AwaitProvisioning блокируется до завершения текущего запуска рантайма
// для комнаты, если он есть
func (m *RoomManager) AwaitProvisioning(roomID uuid.UUID) {
	m.mu.Lock()
	done, ok := m.inflight[roomID]
	m.mu.Unlock()
	if ok {
		<-done
	}
}

func (m *RoomManager) failRoom(roomID uuid.UUID, reason string) {
	unlock := m.locks.lock(roomID)
	defer unlock()

	room, err := m.store.GetRoom(roomID)
	if err != nil {
		log.Printf("Room %s: cannot mark as failed: %v", roomID, err)
		return
	}
	if room.Status != models.RoomCreating {
		return
	}

	now := time.Now()
	room.Status = models.RoomClosed
	room.EndedAt = &now
	room.FailureReason = reason

	if err := m.store.UpdateRoom(room); err != nil {
		log.Printf("Room %s: cannot mark as failed: %v", roomID, err)
		return
	}
	log.Printf("Chat room failed permanently: %s (%s)", roomID, reason)
}

func (m *RoomManager) stopRuntime(handle string) {
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ProvisionTimeout)
	defer cancel()
	if err := m.prov.Stop(ctx, handle); err != nil {
		log.Printf("Runtime %s: stop failed: %v", handle, err)
	}
}

// RunJanitor закрывает комнаты закончившихся событий и добивает
// зависшие состояния. Играет роль внешнего планировщика.
func (m *RoomManager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *RoomManager) sweep() {
	// Зависшие в CREATING без живого провижининга (например, после
	// рестарта процесса) закрываются по дедлайну
	creating, err := m.store.RoomsInStatus(models.RoomCreating)
	if err != nil {
		log.Printf("Janitor: listing CREATING rooms failed: %v", err)
	}
	for i := range creating {
		room := &creating[i]
		m.mu.Lock()
		_, busy := m.inflight[room.ID]
		m.mu.Unlock()
		if busy {
			continue
		}
		if time.Since(room.CreatedAt) > m.cfg.ProvisionDeadline {
			m.failRoom(room.ID, "provisioning deadline exceeded")
		}
	}

	active, err := m.store.RoomsInStatus(models.RoomActive)
	if err != nil {
		log.Printf("Janitor: listing ACTIVE rooms failed: %v", err)
	}
	for i := range active {
		room := &active[i]
		endsAt, eerr := m.events.EndsAt(room.EventID)
		if eerr != nil {
			continue
		}
		if time.Now().After(endsAt) {
			if cerr := m.Close(room.ID); cerr != nil {
				log.Printf("Janitor: closing room %s failed: %v", room.ID, cerr)
			}
		}
	}

	// Недозакрытые комнаты (останов прерван) доводятся до CLOSED
	closing, err := m.store.RoomsInStatus(models.RoomClosing)
	if err != nil {
		log.Printf("Janitor: listing CLOSING rooms failed: %v", err)
	}
	for i := range closing {
		if cerr := m.FinishClose(closing[i].ID); cerr != nil {
			log.Printf("Janitor: finishing close of room %s failed: %v", closing[i].ID, cerr)
		}
	}
}
