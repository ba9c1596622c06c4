package services

import (
	"fmt"

	"github.com/buskinglive/backend/internal/database"
	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

// RoomUsageBilling выставляет организатору счет за фактическое время
// жизни комнаты. Счет появляется как PENDING платеж после закрытия.
type RoomUsageBilling struct {
	db *database.Database
}

func NewRoomUsageBilling(db *database.Database) *RoomUsageBilling {
	return &RoomUsageBilling{db: db}
}

func (b *RoomUsageBilling) ChargeRoomUsage(ownerID, roomID uuid.UUID, units, amount int64) error {
	p := &models.Payment{
		UserID:   ownerID,
		OrderID:  fmt.Sprintf("room-usage-%s", roomID),
		Type:     models.PaymentChatRoom,
		Amount:   amount,
		Status:   models.PaymentPending,
		ItemName: fmt.Sprintf("chat room usage, %d hour(s)", units),
		ItemID:   &roomID,
	}
	return b.db.CreatePayment(p)
}
