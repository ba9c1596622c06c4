package handlers

import (
	"errors"
	"net/http"

	"github.com/buskinglive/backend/internal/chat"
	"github.com/gin-gonic/gin"
)

// respondChatError переводит сигнальные ошибки чата в HTTP статусы
func respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrRoomNotFound),
		errors.Is(err, chat.ErrParticipantNotFound),
		errors.Is(err, chat.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, chat.ErrAlreadyExists),
		errors.Is(err, chat.ErrAlreadyJoined),
		errors.Is(err, chat.ErrRoomFull),
		errors.Is(err, chat.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, chat.ErrRoomNotActive),
		errors.Is(err, chat.ErrChatNotEnabled):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, chat.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, chat.ErrProvisioningFailed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
