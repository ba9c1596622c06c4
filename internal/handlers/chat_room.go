package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/buskinglive/backend/internal/chat"
	"github.com/buskinglive/backend/internal/database"
	"github.com/buskinglive/backend/internal/handlers/dto"
	"github.com/buskinglive/backend/internal/middleware"
	"github.com/buskinglive/backend/internal/models"
)

const endpointCacheTTL = 5 * time.Minute

type ChatRoomHandler struct {
	chat *chat.Service
	db   *database.Database
	rdb  *redis.Client
}

func NewChatRoomHandler(chatSvc *chat.Service, db *database.Database, rdb *redis.Client) *ChatRoomHandler {
	return &ChatRoomHandler{chat: chatSvc, db: db, rdb: rdb}
}

// CreateRoom открывает комнату события. Разрешено только владельцу,
// чат должен быть включен и оплачен. Комната возвращается сразу в
// CREATING: рантайм поднимается в фоне.
func (h *ChatRoomHandler) CreateRoom(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.db.GetEvent(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if event.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only event owner can open chat room"})
		return
	}
	if event.ChatPaymentStatus != models.ChatPaid {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "chat is not paid for"})
		return
	}

	room, err := h.chat.Rooms.Create(eventID, req.Capacity)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRoomResponse(room))
}

// GetRoom возвращает комнату по ID
func (h *ChatRoomHandler) GetRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	room, err := h.chat.Rooms.Get(roomID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRoomResponse(room))
}

// GetRoomByEvent возвращает комнату события
func (h *ChatRoomHandler) GetRoomByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	room, err := h.chat.Rooms.GetByEvent(eventID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRoomResponse(room))
}

// JoinRoom впускает пользователя в активную комнату
func (h *ChatRoomHandler) JoinRoom(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	if _, err := h.chat.Join(roomID, userID); err != nil {
		respondChatError(c, err)
		return
	}

	room, err := h.chat.Rooms.Get(roomID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRoomResponse(room))
}

// LeaveRoom выводит пользователя из комнаты
func (h *ChatRoomHandler) LeaveRoom(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	if err := h.chat.Leave(roomID, userID); err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left room"})
}

// CloseRoom останавливает комнату. Разрешено владельцу события.
func (h *ChatRoomHandler) CloseRoom(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	room, err := h.chat.Rooms.Get(roomID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	event, err := h.db.GetEvent(room.EventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}
	if event.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only event owner can close chat room"})
		return
	}

	if err := h.chat.Rooms.Close(roomID); err != nil {
		respondChatError(c, err)
		return
	}
	h.rdb.Del(c.Request.Context(), "room:endpoint:"+roomID.String())

	room, err = h.chat.Rooms.Get(roomID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRoomResponse(room))
}

// GetRoomCost — стоимость комнаты: итог для закрытых, прогноз на
// текущий момент для активных
func (h *ChatRoomHandler) GetRoomCost(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	room, err := h.chat.Rooms.Get(roomID)
	if err != nil {
		respondChatError(c, err)
		return
	}
	if room.StartedAt == nil {
		c.JSON(http.StatusOK, gin.H{"units": 0, "amount": 0})
		return
	}

	end := time.Now()
	if room.EndedAt != nil {
		end = *room.EndedAt
	}

	units := chat.BillableUnits(*room.StartedAt, end, chat.DefaultBillingUnit)
	amount := chat.EstimateCost(*room.StartedAt, end, chat.DefaultBillingUnit, chat.DefaultUnitRate)

	c.JSON(http.StatusOK, gin.H{"units": units, "amount": amount, "final": room.EndedAt != nil})
}

// GetRoomEndpoint отдает адрес рантайма комнаты. Горячий путь для
// подключающихся клиентов, поэтому ответ кешируется в Redis.
func (h *ChatRoomHandler) GetRoomEndpoint(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	cacheKey := "room:endpoint:" + roomID.String()
	if endpoint, cerr := h.rdb.Get(c.Request.Context(), cacheKey).Result(); cerr == nil && endpoint != "" {
		c.JSON(http.StatusOK, gin.H{"endpoint": endpoint})
		return
	}

	room, err := h.chat.Rooms.Get(roomID)
	if err != nil {
		respondChatError(c, err)
		return
	}
	if room.Status != models.RoomActive || room.Endpoint == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "room has no active runtime"})
		return
	}

	if cerr := h.rdb.Set(c.Request.Context(), cacheKey, room.Endpoint, endpointCacheTTL).Err(); cerr != nil {
		log.Printf("Failed to cache room endpoint: %v", cerr)
	}

	c.JSON(http.StatusOK, gin.H{"endpoint": room.Endpoint})
}

// GetRuntimeStatus — best-effort состояние рантайма комнаты
func (h *ChatRoomHandler) GetRuntimeStatus(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	status, err := h.chat.Rooms.RuntimeStatus(c.Request.Context(), roomID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"runtime_status": status})
}
