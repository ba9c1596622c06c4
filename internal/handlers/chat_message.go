package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/buskinglive/backend/internal/chat"
	"github.com/buskinglive/backend/internal/handlers/dto"
	"github.com/buskinglive/backend/internal/middleware"
	"github.com/buskinglive/backend/internal/models"
)

type ChatMessageHandler struct {
	chat *chat.Service
}

func NewChatMessageHandler(chatSvc *chat.Service) *ChatMessageHandler {
	return &ChatMessageHandler{chat: chatSvc}
}

// GetMessages — страница истории комнаты от новых к старым.
// Курсор cursor=0 означает «с конца»; next_cursor == 0 — старее нет.
func (h *ChatMessageHandler) GetMessages(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	member, err := h.chat.Members.IsActiveMember(roomID, userID)
	if err != nil {
		respondChatError(c, err)
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a room member"})
		return
	}

	cursor, _ := strconv.ParseInt(c.DefaultQuery("cursor", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, next, err := h.chat.Messages.Page(roomID, cursor, limit)
	if err != nil {
		respondChatError(c, err)
		return
	}

	result := make([]dto.MessageResponse, len(messages))
	for i := range messages {
		result[i] = dto.NewMessageResponse(&messages[i])
	}

	c.JSON(http.StatusOK, dto.MessagePageResponse{Messages: result, NextCursor: next})
}

// SendMessage — HTTP-путь отправки, для клиентов без WebSocket
func (h *ChatMessageHandler) SendMessage(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.chat.Send(roomID, userID, models.MessageChat, req.Content)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewMessageResponse(msg))
}

// DeleteMessage — мягкое удаление собственного сообщения
func (h *ChatMessageHandler) DeleteMessage(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	if err := h.chat.Messages.SoftDelete(messageID, userID); err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
