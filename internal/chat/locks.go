package chat

import (
	"sync"

	"github.com/google/uuid"
)

// roomLocks сериализует операции над одной комнатой;
// разные комнаты обрабатываются полностью параллельно
type roomLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// lock захватывает мьютекс комнаты и возвращает функцию разблокировки
func (r *roomLocks) lock(roomID uuid.UUID) func() {
	r.mu.Lock()
	m, ok := r.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		r.locks[roomID] = m
	}
	r.mu.Unlock()

	m.Lock()
	return m.Unlock
}
