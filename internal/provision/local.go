package provision

import (
	"context"
	"fmt"
	"sync"

	"github.com/buskinglive/backend/internal/chat"
)

// Local — рантайм для разработки без внешней оркестрации: комнаты
// обслуживает сам процесс, адрес указывает на его WebSocket-эндпоинт
type Local struct {
	BaseURL string

	mu      sync.Mutex
	running map[string]bool
}

func NewLocal(baseURL string) *Local {
	return &Local{BaseURL: baseURL, running: make(map[string]bool)}
}

func (l *Local) Start(ctx context.Context, rc chat.RuntimeConfig) (string, string, error) {
	handle := "local-" + rc.RoomID.String()

	l.mu.Lock()
	l.running[handle] = true
	l.mu.Unlock()

	return handle, fmt.Sprintf("%s/ws/rooms/%s", l.BaseURL, rc.RoomID), nil
}

func (l *Local) Stop(ctx context.Context, handle string) error {
	l.mu.Lock()
	delete(l.running, handle)
	l.mu.Unlock()
	return nil
}

func (l *Local) Status(ctx context.Context, handle string) chat.RuntimeStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running[handle] {
		return chat.RuntimeRunning
	}
	return chat.RuntimeUnknown
}
