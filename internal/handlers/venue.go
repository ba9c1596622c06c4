package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/buskinglive/backend/internal/database"
	"github.com/buskinglive/backend/internal/middleware"
	"github.com/buskinglive/backend/internal/models"
)

type VenueHandler struct {
	db *database.Database
}

func NewVenueHandler(db *database.Database) *VenueHandler {
	return &VenueHandler{db: db}
}

// CreateVenue регистрирует площадку; до одобрения она в статусе PENDING
func (h *VenueHandler) CreateVenue(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req struct {
		Name        string  `json:"name" binding:"required,max=200"`
		Description string  `json:"description"`
		Address     string  `json:"address" binding:"required"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		Capacity    int     `json:"capacity"`
		HourlyRate  int64   `json:"hourly_rate" binding:"min=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	venue := &models.Venue{
		ProviderID:  userID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Capacity:    req.Capacity,
		HourlyRate:  req.HourlyRate,
		Status:      models.VenuePending,
	}

	if err := h.db.CreateVenue(venue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create venue"})
		return
	}

	c.JSON(http.StatusCreated, formatVenueResponse(venue))
}

func (h *VenueHandler) GetVenue(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}

	venue, err := h.db.GetVenue(venueID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
		return
	}

	c.JSON(http.StatusOK, formatVenueResponse(venue))
}

// ListVenues — одобренные площадки
func (h *VenueHandler) ListVenues(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	venues, err := h.db.ListActiveVenues(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list venues"})
		return
	}

	result := make([]gin.H, len(venues))
	for i := range venues {
		result[i] = formatVenueResponse(&venues[i])
	}
	c.JSON(http.StatusOK, gin.H{"venues": result})
}

// UpdateVenue — правка площадки ее владельцем
func (h *VenueHandler) UpdateVenue(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}

	venue, err := h.db.GetVenue(venueID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
		return
	}
	if venue.ProviderID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only venue provider can update venue"})
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Capacity    int    `json:"capacity"`
		HourlyRate  int64  `json:"hourly_rate"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != "" {
		venue.Name = req.Name
	}
	if req.Description != "" {
		venue.Description = req.Description
	}
	if req.Capacity > 0 {
		venue.Capacity = req.Capacity
	}
	if req.HourlyRate > 0 {
		venue.HourlyRate = req.HourlyRate
	}

	if err := h.db.UpdateVenue(venue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update venue"})
		return
	}

	c.JSON(http.StatusOK, formatVenueResponse(venue))
}

// CreateBooking бронирует площадку на интервал; пересечение с другой
// бронью запрещено
func (h *VenueHandler) CreateBooking(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req struct {
		VenueID   string `json:"venue_id" binding:"required,uuid"`
		EventID   string `json:"event_id"`
		StartTime string `json:"start_time" binding:"required"`
		EndTime   string `json:"end_time" binding:"required"`
		Purpose   string `json:"purpose"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	venueID, _ := uuid.Parse(req.VenueID)
	venue, err := h.db.GetVenue(venueID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
		return
	}
	if venue.Status != models.VenueActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "venue is not available"})
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

	conflict, err := h.db.HasBookingConflict(venueID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check availability"})
		return
	}
	if conflict {
		c.JSON(http.StatusConflict, gin.H{"error": "venue is already booked for this time"})
		return
	}

	hours := int64(end.Sub(start).Hours())
	if end.Sub(start)%time.Hour != 0 {
		hours++
	}

	booking := &models.VenueBooking{
		VenueID:     venueID,
		UserID:      userID,
		StartTime:   start,
		EndTime:     end,
		TotalAmount: hours * venue.HourlyRate,
		Status:      models.BookingPending,
		Purpose:     req.Purpose,
	}
	if req.EventID != "" {
		if eventID, perr := uuid.Parse(req.EventID); perr == nil {
			booking.EventID = &eventID
		}
	}

	if err := h.db.CreateBooking(booking); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		return
	}

	c.JSON(http.StatusCreated, formatBookingResponse(booking))
}

// GetMyBookings — брони текущего пользователя
func (h *VenueHandler) GetMyBookings(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	bookings, err := h.db.ListBookingsByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}

	result := make([]gin.H, len(bookings))
	for i := range bookings {
		result[i] = formatBookingResponse(&bookings[i])
	}
	c.JSON(http.StatusOK, gin.H{"bookings": result})
}

// ConfirmBooking — подтверждение владельцем площадки
func (h *VenueHandler) ConfirmBooking(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	booking, venue, ok := h.bookingWithVenue(c)
	if !ok {
		return
	}
	if venue.ProviderID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only venue provider can confirm booking"})
		return
	}
	if booking.Status != models.BookingPending {
		c.JSON(http.StatusConflict, gin.H{"error": "booking is not pending"})
		return
	}

	now := time.Now()
	booking.Status = models.BookingConfirmed
	booking.ConfirmedAt = &now
	if err := h.db.UpdateBooking(booking); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update booking"})
		return
	}

	c.JSON(http.StatusOK, formatBookingResponse(booking))
}

// CancelBooking — отмена арендатором или владельцем площадки
func (h *VenueHandler) CancelBooking(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	booking, venue, ok := h.bookingWithVenue(c)
	if !ok {
		return
	}
	if booking.UserID != userID && venue.ProviderID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to cancel this booking"})
		return
	}
	if booking.Status == models.BookingCancelled || booking.Status == models.BookingCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "booking is already finished"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	c.ShouldBindJSON(&req)

	now := time.Now()
	booking.Status = models.BookingCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = req.Reason
	if err := h.db.UpdateBooking(booking); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update booking"})
		return
	}

	c.JSON(http.StatusOK, formatBookingResponse(booking))
}

func (h *VenueHandler) bookingWithVenue(c *gin.Context) (*models.VenueBooking, *models.Venue, bool) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return nil, nil, false
	}

	booking, err := h.db.GetBooking(bookingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return nil, nil, false
	}

	venue, err := h.db.GetVenue(booking.VenueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load venue"})
		return nil, nil, false
	}
	return booking, venue, true
}

func formatVenueResponse(venue *models.Venue) gin.H {
	return gin.H{
		"id":          venue.ID,
		"provider_id": venue.ProviderID,
		"name":        venue.Name,
		"description": venue.Description,
		"address":     venue.Address,
		"latitude":    venue.Latitude,
		"longitude":   venue.Longitude,
		"capacity":    venue.Capacity,
		"hourly_rate": venue.HourlyRate,
		"status":      venue.Status,
		"created_at":  venue.CreatedAt,
	}
}

func formatBookingResponse(b *models.VenueBooking) gin.H {
	return gin.H{
		"id":           b.ID,
		"venue_id":     b.VenueID,
		"user_id":      b.UserID,
		"event_id":     b.EventID,
		"start_time":   b.StartTime,
		"end_time":     b.EndTime,
		"total_amount": b.TotalAmount,
		"status":       b.Status,
		"purpose":      b.Purpose,
		"created_at":   b.CreatedAt,
	}
}
