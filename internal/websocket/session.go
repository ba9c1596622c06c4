package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер сообщения
	maxMessageSize = 64 * 1024 // 64KB
)

// Envelope — исходящий кадр, один на каждое сообщение комнаты
type Envelope struct {
	ID        uuid.UUID          `json:"id"`
	RoomID    uuid.UUID          `json:"room_id"`
	UserID    uuid.UUID          `json:"user_id"`
	Seq       int64              `json:"seq"`
	Type      models.MessageType `json:"type"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"created_at"`
}

// Входящий кадр от клиента
type inboundFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// SendFunc публикует текст от имени участника сессии
type SendFunc func(content string) error

// Session связывает одно WebSocket соединение с каналом доставки
// комнаты. Канал принадлежит Broadcaster: закрытие канала означает,
// что подписку сняли (выход, закрытие комнаты), и сессия завершается.
type Session struct {
	conn   *websocket.Conn
	roomID uuid.UUID
	userID uuid.UUID

	recv <-chan models.ChatMessage
	send SendFunc

	// Ошибки из ReadPump: соединением владеет только WritePump,
	// писать в него из горутины чтения нельзя
	errs chan string

	onClose   func()
	closeOnce sync.Once
}

func NewSession(conn *websocket.Conn, roomID, userID uuid.UUID, recv <-chan models.ChatMessage, send SendFunc, onClose func()) *Session {
	return &Session{
		conn:    conn,
		roomID:  roomID,
		userID:  userID,
		recv:    recv,
		send:    send,
		errs:    make(chan string, 8),
		onClose: onClose,
	}
}

// close выполняет отписку ровно один раз независимо от того,
// какая из прокачек завершилась первой
func (s *Session) close() {
	s.closeOnce.Do(func() {
		if s.onClose != nil {
			s.onClose()
		}
		s.conn.Close()
	})
}

// ReadPump читает кадры от клиента и передает текст в комнату
func (s *Session) ReadPump() {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame inboundFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		switch frame.Type {
		case "pong":
			continue

		case "message", "":
			if frame.Content == "" {
				continue
			}
			if err := s.send(frame.Content); err != nil {
				s.reportError(err.Error())
			}

		default:
			s.reportError("unknown frame type")
		}
	}
}

// WritePump отправляет сообщения комнаты клиенту. Завершается, когда
// Broadcaster закрывает канал подписки.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case msg, ok := <-s.recv:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Подписку сняли — прощаемся
				s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "room closed"))
				return
			}

			data, err := json.Marshal(Envelope{
				ID:        msg.ID,
				RoomID:    msg.RoomID,
				UserID:    msg.UserID,
				Seq:       msg.Seq,
				Type:      msg.Type,
				Content:   msg.Content,
				CreatedAt: msg.CreatedAt,
			})
			if err != nil {
				continue
			}
			s.conn.WriteMessage(websocket.TextMessage, data)

		case errorMsg := <-s.errs:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			data, _ := json.Marshal(map[string]string{"error": errorMsg})
			s.conn.WriteMessage(websocket.TextMessage, data)

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reportError ставит ошибку в очередь на отправку. При переполненной
// очереди ошибка отбрасывается: клиент и так заваливает нас мусором.
func (s *Session) reportError(errorMsg string) {
	select {
	case s.errs <- errorMsg:
	default:
	}
}
