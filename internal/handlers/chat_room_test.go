package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/buskinglive/backend/internal/middleware"
)

func TestCreateRoomRejectsMalformedEventID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewChatRoomHandler(nil, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.UserIDKey, uuid.New())
	c.Request = httptest.NewRequest(http.MethodPost, "/chat/rooms",
		strings.NewReader(`{"event_id":"not-a-uuid","capacity":10}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CreateRoom(c)

	// Кривой идентификатор не должен превращаться в нулевой UUID
	// и уходить в поиск события
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
