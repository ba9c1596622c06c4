package chat

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

// Размер исходящего буфера подписчика
const subscriberBuffer = 64

// Broadcaster раздает сохраненные сообщения подключенным участникам
// комнаты. Реестр подписчиков целиком принадлежит ему: отключение,
// выход и принудительное закрытие проходят через один и тот же путь
// удаления — Unsubscribe/CloseRoom.
type Broadcaster struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[uuid.UUID]chan models.ChatMessage
	buffer int

	dropped atomic.Int64
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		rooms:  make(map[uuid.UUID]map[uuid.UUID]chan models.ChatMessage),
		buffer: subscriberBuffer,
	}
}

// Subscribe регистрирует канал доставки для участника. Повторная
// подписка того же пользователя заменяет предыдущую.
func (b *Broadcaster) Subscribe(roomID, userID uuid.UUID) <-chan models.ChatMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.rooms[roomID]
	if !ok {
		subs = make(map[uuid.UUID]chan models.ChatMessage)
		b.rooms[roomID] = subs
	}

	if old, ok := subs[userID]; ok {
		close(old)
	}

	ch := make(chan models.ChatMessage, b.buffer)
	subs[userID] = ch
	return ch
}

// Unsubscribe идемпотентен; вызывается при отключении, выходе из
// комнаты и закрытии комнаты
func (b *Broadcaster) Unsubscribe(roomID, userID uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.rooms[roomID]
	if !ok {
		return
	}
	if ch, ok := subs[userID]; ok {
		close(ch)
		delete(subs, userID)
	}
	if len(subs) == 0 {
		delete(b.rooms, roomID)
	}
}

// Publish доставляет сообщение всем текущим подписчикам комнаты.
// Не сохраняет: персистентность происходит до публикации.
func (b *Broadcaster) Publish(roomID uuid.UUID, msg models.ChatMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for userID, ch := range b.rooms[roomID] {
		b.send(roomID, userID, ch, msg)
	}
}

// send никогда не блокирует издателя: при заполненном буфере
// выбрасывается самое старое непрочитанное сообщение подписчика
func (b *Broadcaster) send(roomID, userID uuid.UUID, ch chan models.ChatMessage, msg models.ChatMessage) {
	for {
		select {
		case ch <- msg:
			return
		default:
		}

		select {
		case <-ch:
			b.dropped.Add(1)
			log.Printf("Slow subscriber %s in room %s: dropped oldest message", userID, roomID)
		default:
		}
	}
}

// CloseRoom принудительно отписывает всех в комнате, предварительно
// доставив терминальное уведомление о закрытии
func (b *Broadcaster) CloseRoom(roomID uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.rooms[roomID]
	if !ok {
		return
	}

	notice := models.ChatMessage{
		RoomID:    roomID,
		Type:      models.MessageSystem,
		Content:   "room closed",
		CreatedAt: time.Now(),
	}

	for userID, ch := range subs {
		b.send(roomID, userID, ch, notice)
		close(ch)
	}
	delete(b.rooms, roomID)
}

// Dropped — счетчик выброшенных из-за медленных потребителей сообщений
func (b *Broadcaster) Dropped() int64 {
	return b.dropped.Load()
}

// Subscribers — число подключенных к комнате
func (b *Broadcaster) Subscribers(roomID uuid.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms[roomID])
}
