package chat

import (
	"context"

	"github.com/google/uuid"
)

type RuntimeStatus string

const (
	RuntimePending RuntimeStatus = "PENDING"
	RuntimeRunning RuntimeStatus = "RUNNING"
	RuntimeStopped RuntimeStatus = "STOPPED"
	RuntimeUnknown RuntimeStatus = "UNKNOWN"
)

type RuntimeConfig struct {
	RoomID  uuid.UUID
	EventID uuid.UUID
}

// Provisioner — узкий адаптер над внешним API оркестрации, без
// бизнес-логики. Start блокируется до готовности рантайма в пределах
// таймаута контекста и возвращает непрозрачный хэндл и адрес.
// Stop идемпотентен: остановка неизвестного хэндла — не ошибка.
// Status опрашивает провайдера и возвращает RuntimeUnknown вместо ошибки.
type Provisioner interface {
	Start(ctx context.Context, cfg RuntimeConfig) (handle, endpoint string, err error)
	Stop(ctx context.Context, handle string) error
	Status(ctx context.Context, handle string) RuntimeStatus
}
