package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/buskinglive/backend/internal/database"
	"github.com/buskinglive/backend/internal/middleware"
	"github.com/buskinglive/backend/internal/models"
	"github.com/buskinglive/backend/internal/services"
)

type PaymentHandler struct {
	db       *database.Database
	payments *services.PaymentService
}

func NewPaymentHandler(db *database.Database, payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{db: db, payments: payments}
}

// CreatePayment заводит PENDING платеж нужного типа
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req struct {
		Type     string `json:"type" binding:"required,oneof=CHAT_ROOM AD VIP AD_FREE"`
		Amount   int64  `json:"amount" binding:"required,min=1"`
		ItemID   string `json:"item_id"`
		ItemName string `json:"item_name"`
		Method   string `json:"method"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var itemID *uuid.UUID
	if req.ItemID != "" {
		parsed, err := uuid.Parse(req.ItemID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
			return
		}
		itemID = &parsed
	}

	p, err := h.payments.Create(userID, models.PaymentType(req.Type), req.Amount, itemID, req.ItemName, req.Method)
	if err != nil {
		if errors.Is(err, services.ErrUnknownItemType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment"})
		return
	}

	c.JSON(http.StatusCreated, formatPaymentResponse(p))
}

// ConfirmPayment — callback платежного шлюза: фиксирует оплату и
// выполняет оплаченный вариант
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req struct {
		OrderID         string `json:"order_id" binding:"required"`
		PGProvider      string `json:"pg_provider"`
		PGTransactionID string `json:"pg_transaction_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.payments.Confirm(req.OrderID, req.PGProvider, req.PGTransactionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrMissingItemID), errors.Is(err, services.ErrUnknownItemType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		}
		return
	}

	c.JSON(http.StatusOK, formatPaymentResponse(p))
}

func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	c.ShouldBindJSON(&req)

	p, err := h.payments.Cancel(paymentID, userID, req.Reason)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotPending) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}

	c.JSON(http.StatusOK, formatPaymentResponse(p))
}

// GetMyPayments — платежи текущего пользователя
func (h *PaymentHandler) GetMyPayments(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	payments, err := h.db.ListPaymentsByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments"})
		return
	}

	result := make([]gin.H, len(payments))
	for i := range payments {
		result[i] = formatPaymentResponse(&payments[i])
	}
	c.JSON(http.StatusOK, gin.H{"payments": result})
}

func formatPaymentResponse(p *models.Payment) gin.H {
	return gin.H{
		"id":         p.ID,
		"order_id":   p.OrderID,
		"type":       p.Type,
		"method":     p.Method,
		"amount":     p.Amount,
		"status":     p.Status,
		"item_name":  p.ItemName,
		"item_id":    p.ItemID,
		"paid_at":    p.PaidAt,
		"created_at": p.CreatedAt,
	}
}
