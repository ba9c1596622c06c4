package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/buskinglive/backend/internal/database"
	"github.com/buskinglive/backend/internal/handlers/dto"
	"github.com/buskinglive/backend/internal/middleware"
	"github.com/buskinglive/backend/internal/models"
	"github.com/buskinglive/backend/internal/services"
)

type EventHandler struct {
	db       *database.Database
	notifier *services.Notifier
}

func NewEventHandler(db *database.Database, notifier *services.Notifier) *EventHandler {
	return &EventHandler{db: db, notifier: notifier}
}

// CreateEvent создает событие в статусе SCHEDULED
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time"})
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_time"})
		return
	}
	if !end.After(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
		return
	}

	event := &models.Event{
		OwnerID:           userID,
		Title:             req.Title,
		Description:       req.Description,
		StartTime:         start,
		EndTime:           end,
		VenueAddress:      req.VenueAddress,
		VenueLat:          req.VenueLat,
		VenueLng:          req.VenueLng,
		Status:            models.EventScheduled,
		ChatPaymentStatus: models.ChatUnpaid,
	}

	if err := h.db.CreateEvent(event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, formatEventResponse(event))
}

// GetEvent возвращает событие и засчитывает просмотр
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.db.GetEvent(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	h.db.IncrementEventViews(eventID)

	c.JSON(http.StatusOK, formatEventResponse(event))
}

// ListEvents — предстоящие и идущие события
func (h *EventHandler) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	events, err := h.db.ListUpcomingEvents(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}

	result := make([]gin.H, len(events))
	for i := range events {
		result[i] = formatEventResponse(&events[i])
	}
	c.JSON(http.StatusOK, gin.H{"events": result})
}

// GetMyEvents — события текущего организатора
func (h *EventHandler) GetMyEvents(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	events, err := h.db.ListEventsByOwner(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}

	result := make([]gin.H, len(events))
	for i := range events {
		result[i] = formatEventResponse(&events[i])
	}
	c.JSON(http.StatusOK, gin.H{"events": result})
}

// UpdateEvent обновляет событие; разрешено только владельцу и до начала
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	event, ok := h.ownedEvent(c, userID)
	if !ok {
		return
	}
	if event.Status != models.EventScheduled {
		c.JSON(http.StatusConflict, gin.H{"error": "only scheduled events can be updated"})
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Обновляем только переданные поля
	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.StartTime != "" {
		start, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time"})
			return
		}
		event.StartTime = start
	}
	if req.EndTime != "" {
		end, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_time"})
			return
		}
		event.EndTime = end
	}
	if req.VenueAddress != "" {
		event.VenueAddress = req.VenueAddress
		event.VenueLat = req.VenueLat
		event.VenueLng = req.VenueLng
	}

	if !event.EndTime.After(event.StartTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
		return
	}

	if err := h.db.UpdateEvent(event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}

	c.JSON(http.StatusOK, formatEventResponse(event))
}

// StartEvent: SCHEDULED -> LIVE, подписчики получают уведомление
func (h *EventHandler) StartEvent(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	event, ok := h.ownedEvent(c, userID)
	if !ok {
		return
	}
	if event.Status != models.EventScheduled {
		c.JSON(http.StatusConflict, gin.H{"error": "event is not scheduled"})
		return
	}

	event.Status = models.EventLive
	if err := h.db.UpdateEvent(event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}

	if h.notifier != nil {
		go h.notifier.NotifyFollowers(event.OwnerID, models.NotifyEventStarted,
			"Event started", fmt.Sprintf("%s is live now", event.Title))
	}

	c.JSON(http.StatusOK, formatEventResponse(event))
}

// EndEvent: LIVE -> ENDED
func (h *EventHandler) EndEvent(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	event, ok := h.ownedEvent(c, userID)
	if !ok {
		return
	}
	if event.Status != models.EventLive {
		c.JSON(http.StatusConflict, gin.H{"error": "event is not live"})
		return
	}

	event.Status = models.EventEnded
	if err := h.db.UpdateEvent(event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}

	c.JSON(http.StatusOK, formatEventResponse(event))
}

// CancelEvent отменяет событие, не успевшее закончиться
func (h *EventHandler) CancelEvent(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	event, ok := h.ownedEvent(c, userID)
	if !ok {
		return
	}
	if event.Status == models.EventEnded || event.Status == models.EventCancelled {
		c.JSON(http.StatusConflict, gin.H{"error": "event is already finished"})
		return
	}

	event.Status = models.EventCancelled
	if err := h.db.UpdateEvent(event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}

	c.JSON(http.StatusOK, formatEventResponse(event))
}

// EnableChat включает чат события. Комната создается отдельно, после
// оплаты.
func (h *EventHandler) EnableChat(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	event, ok := h.ownedEvent(c, userID)
	if !ok {
		return
	}

	var req dto.EnableChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event.ChatEnabled = true
	event.ChatMaxParticipants = req.MaxParticipants
	if event.ChatPaymentStatus == "" {
		event.ChatPaymentStatus = models.ChatUnpaid
	}

	if err := h.db.UpdateEvent(event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}

	c.JSON(http.StatusOK, formatEventResponse(event))
}

// ownedEvent загружает событие из :id и проверяет владельца
func (h *EventHandler) ownedEvent(c *gin.Context, userID uuid.UUID) (*models.Event, bool) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return nil, false
	}

	event, err := h.db.GetEvent(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return nil, false
	}
	if event.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only event owner can do this"})
		return nil, false
	}
	return event, true
}

func formatEventResponse(event *models.Event) gin.H {
	return gin.H{
		"id":                    event.ID,
		"owner_id":              event.OwnerID,
		"title":                 event.Title,
		"description":           event.Description,
		"start_time":            event.StartTime,
		"end_time":              event.EndTime,
		"venue_address":         event.VenueAddress,
		"venue_lat":             event.VenueLat,
		"venue_lng":             event.VenueLng,
		"status":                event.Status,
		"chat_enabled":          event.ChatEnabled,
		"chat_max_participants": event.ChatMaxParticipants,
		"chat_payment_status":   event.ChatPaymentStatus,
		"view_count":            event.ViewCount,
		"favorite_count":        event.FavoriteCount,
		"created_at":            event.CreatedAt,
	}
}
