package dto

import (
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	EventID  string `json:"event_id" binding:"required,uuid"`
	Capacity int    `json:"capacity"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type RoomResponse struct {
	ID            uuid.UUID             `json:"id"`
	EventID       uuid.UUID             `json:"event_id"`
	Status        models.ChatRoomStatus `json:"status"`
	Endpoint      string                `json:"endpoint,omitempty"`
	Capacity      int                   `json:"capacity"`
	CurrentCount  int                   `json:"current_count"`
	TotalMessages int64                 `json:"total_messages"`
	FailureReason string                `json:"failure_reason,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	StartedAt     *time.Time            `json:"started_at,omitempty"`
	EndedAt       *time.Time            `json:"ended_at,omitempty"`
}

type MessageResponse struct {
	ID        uuid.UUID          `json:"id"`
	RoomID    uuid.UUID          `json:"room_id"`
	UserID    uuid.UUID          `json:"user_id"`
	Seq       int64              `json:"seq"`
	Type      models.MessageType `json:"type"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"created_at"`
}

type MessagePageResponse struct {
	Messages   []MessageResponse `json:"messages"`
	NextCursor int64             `json:"next_cursor"`
}

func NewRoomResponse(room *models.ChatRoom) RoomResponse {
	return RoomResponse{
		ID:            room.ID,
		EventID:       room.EventID,
		Status:        room.Status,
		Endpoint:      room.Endpoint,
		Capacity:      room.Capacity,
		CurrentCount:  room.CurrentCount,
		TotalMessages: room.TotalMessages,
		FailureReason: room.FailureReason,
		CreatedAt:     room.CreatedAt,
		StartedAt:     room.StartedAt,
		EndedAt:       room.EndedAt,
	}
}

func NewMessageResponse(m *models.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		RoomID:    m.RoomID,
		UserID:    m.UserID,
		Seq:       m.Seq,
		Type:      m.Type,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
