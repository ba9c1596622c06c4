package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/buskinglive/backend/internal/database"
	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrPaymentNotPending = errors.New("payment is not pending")
	ErrUnknownItemType   = errors.New("unknown payment item type")
	ErrMissingItemID     = errors.New("payment has no item id")
)

// PaymentItem — вариант оплачиваемого объекта. Подтверждение платежа
// диспетчеризуется по типу: каждый вариант знает, что именно включить
// после оплаты.
type PaymentItem interface {
	Type() models.PaymentType
	Fulfill(p *models.Payment) error
}

type PaymentService struct {
	db    *database.Database
	items map[models.PaymentType]PaymentItem
}

func NewPaymentService(db *database.Database) *PaymentService {
	s := &PaymentService{
		db:    db,
		items: make(map[models.PaymentType]PaymentItem),
	}

	s.register(&chatRoomItem{db: db})
	s.register(&vipItem{db: db})
	s.register(&adFreeItem{db: db})
	s.register(&adItem{db: db})
	return s
}

func (s *PaymentService) register(item PaymentItem) {
	s.items[item.Type()] = item
}

// Create заводит PENDING платеж с уникальным номером заказа
func (s *PaymentService) Create(userID uuid.UUID, typ models.PaymentType, amount int64, itemID *uuid.UUID, itemName, method string) (*models.Payment, error) {
	if _, ok := s.items[typ]; !ok {
		return nil, ErrUnknownItemType
	}

	p := &models.Payment{
		UserID:   userID,
		OrderID:  fmt.Sprintf("ord-%s", uuid.New()),
		Type:     typ,
		Method:   method,
		Amount:   amount,
		Status:   models.PaymentPending,
		ItemName: itemName,
		ItemID:   itemID,
	}
	if err := s.db.CreatePayment(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Confirm помечает платеж оплаченным и выполняет вариант: включает
// чат события, поднимает тариф, активирует объявление и т.д.
func (s *PaymentService) Confirm(orderID, pgProvider, pgTransactionID string) (*models.Payment, error) {
	p, err := s.db.GetPaymentByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	item, ok := s.items[p.Type]
	if !ok {
		return nil, ErrUnknownItemType
	}
	if err := item.Fulfill(p); err != nil {
		return nil, err
	}

	now := time.Now()
	p.Status = models.PaymentPaid
	p.PaidAt = &now
	p.PGProvider = pgProvider
	p.PGTransactionID = pgTransactionID
	if err := s.db.UpdatePayment(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) Cancel(id, userID uuid.UUID, reason string) (*models.Payment, error) {
	p, err := s.db.GetPayment(id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, errors.New("payment belongs to another user")
	}
	if p.Status != models.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	now := time.Now()
	p.Status = models.PaymentCancelled
	p.CancelledAt = &now
	p.CancelReason = reason
	if err := s.db.UpdatePayment(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Оплата чата: после подтверждения комната события может быть создана
type chatRoomItem struct {
	db *database.Database
}

func (i *chatRoomItem) Type() models.PaymentType { return models.PaymentChatRoom }

func (i *chatRoomItem) Fulfill(p *models.Payment) error {
	if p.ItemID == nil {
		return ErrMissingItemID
	}
	event, err := i.db.GetEvent(*p.ItemID)
	if err != nil {
		return err
	}
	event.ChatPaymentStatus = models.ChatPaid
	return i.db.UpdateEvent(event)
}

type vipItem struct {
	db *database.Database
}

func (i *vipItem) Type() models.PaymentType { return models.PaymentVIP }

func (i *vipItem) Fulfill(p *models.Payment) error {
	user, err := i.db.GetUser(p.UserID.String())
	if err != nil {
		return err
	}
	user.Tier = models.TierVIP
	return i.db.UpdateUser(user)
}

type adFreeItem struct {
	db *database.Database
}

func (i *adFreeItem) Type() models.PaymentType { return models.PaymentAdFree }

func (i *adFreeItem) Fulfill(p *models.Payment) error {
	user, err := i.db.GetUser(p.UserID.String())
	if err != nil {
		return err
	}
	now := time.Now()
	user.AdFree = true
	user.AdFreeSince = &now
	return i.db.UpdateUser(user)
}

type adItem struct {
	db *database.Database
}

func (i *adItem) Type() models.PaymentType { return models.PaymentAd }

func (i *adItem) Fulfill(p *models.Payment) error {
	if p.ItemID == nil {
		return ErrMissingItemID
	}
	ad, err := i.db.GetAd(*p.ItemID)
	if err != nil {
		return err
	}
	now := time.Now()
	ad.Status = models.AdActive
	ad.ApprovedAt = &now
	return i.db.UpdateAd(ad)
}
