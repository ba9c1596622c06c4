package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"

	"github.com/buskinglive/backend/internal/chat"
	"github.com/buskinglive/backend/internal/middleware"
	"github.com/buskinglive/backend/internal/models"
	ws "github.com/buskinglive/backend/internal/websocket"
)

// WebSocketHandler подключает участника к потоку сообщений комнаты
type WebSocketHandler struct {
	chat     *chat.Service
	upgrader gorilla.Upgrader
}

func NewWebSocketHandler(chatSvc *chat.Service) *WebSocketHandler {
	return &WebSocketHandler{
		chat: chatSvc,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Проверить origin в prod
				return true
			},
		},
	}
}

// HandleRoomSocket апгрейдит соединение после проверки членства и
// связывает его с подпиской комнаты
func (h *WebSocketHandler) HandleRoomSocket(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	uid := userID.(uuid.UUID)

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	// До апгрейда: комната активна и пользователь в ней
	room, err := h.chat.Rooms.Get(roomID)
	if err != nil {
		respondChatError(c, err)
		return
	}
	if !room.IsActive() {
		respondChatError(c, chat.ErrRoomNotActive)
		return
	}

	member, err := h.chat.Members.IsActiveMember(roomID, uid)
	if err != nil {
		respondChatError(c, err)
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "join the room first"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	recv := h.chat.Broadcast.Subscribe(roomID, uid)

	session := ws.NewSession(conn, roomID, uid, recv,
		func(content string) error {
			_, serr := h.chat.Send(roomID, uid, models.MessageChat, content)
			return serr
		},
		func() {
			// Единственная точка снятия подписки при обрыве соединения
			h.chat.Broadcast.Unsubscribe(roomID, uid)
		},
	)

	go session.WritePump()
	go session.ReadPump()
}
