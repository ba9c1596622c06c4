package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/buskinglive/backend/internal/database"
	"github.com/buskinglive/backend/internal/middleware"
	"github.com/buskinglive/backend/internal/models"
	"github.com/buskinglive/backend/internal/services"
)

type AdHandler struct {
	db  *database.Database
	ads *services.AdService
}

func NewAdHandler(db *database.Database, ads *services.AdService) *AdHandler {
	return &AdHandler{db: db, ads: ads}
}

// CreateAd регистрирует объявление; активируется после оплаты
func (h *AdHandler) CreateAd(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req struct {
		Title             string `json:"title" binding:"required,max=200"`
		Description       string `json:"description"`
		Type              string `json:"type" binding:"required,oneof=BANNER VIDEO POPUP NATIVE"`
		ImageURL          string `json:"image_url"`
		VideoURL          string `json:"video_url"`
		TargetURL         string `json:"target_url" binding:"required,url"`
		StartDate         string `json:"start_date" binding:"required"`
		EndDate           string `json:"end_date" binding:"required"`
		Budget            int64  `json:"budget" binding:"required,min=1"`
		CostPerClick      int64  `json:"cost_per_click" binding:"min=0"`
		CostPerImpression int64  `json:"cost_per_impression" binding:"min=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}
	if !end.After(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be after start_date"})
		return
	}

	ad := &models.Advertisement{
		AdvertiserID:      userID,
		Title:             req.Title,
		Description:       req.Description,
		Type:              models.AdType(req.Type),
		ImageURL:          req.ImageURL,
		VideoURL:          req.VideoURL,
		TargetURL:         req.TargetURL,
		StartDate:         start,
		EndDate:           end,
		Budget:            req.Budget,
		CostPerClick:      req.CostPerClick,
		CostPerImpression: req.CostPerImpression,
		Status:            models.AdPending,
	}

	if err := h.db.CreateAd(ad); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ad"})
		return
	}

	c.JSON(http.StatusCreated, formatAdResponse(ad))
}

// GetMyAds — объявления текущего рекламодателя со статистикой
func (h *AdHandler) GetMyAds(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	ads, err := h.db.ListAdsByAdvertiser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ads"})
		return
	}

	result := make([]gin.H, len(ads))
	for i := range ads {
		result[i] = formatAdResponse(&ads[i])
	}
	c.JSON(http.StatusOK, gin.H{"ads": result})
}

// PauseAd / ResumeAd переключают активное объявление
func (h *AdHandler) PauseAd(c *gin.Context) {
	h.setAdStatus(c, models.AdActive, models.AdPaused)
}

func (h *AdHandler) ResumeAd(c *gin.Context) {
	h.setAdStatus(c, models.AdPaused, models.AdActive)
}

func (h *AdHandler) setAdStatus(c *gin.Context, from, to models.AdStatus) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	adID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad id"})
		return
	}

	ad, err := h.db.GetAd(adID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
		return
	}
	if ad.AdvertiserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only advertiser can manage ad"})
		return
	}
	if ad.Status != from {
		c.JSON(http.StatusConflict, gin.H{"error": "ad is not in expected state"})
		return
	}

	ad.Status = to
	if err := h.db.UpdateAd(ad); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update ad"})
		return
	}

	c.JSON(http.StatusOK, formatAdResponse(ad))
}

// ServeAd подбирает показ для текущего пользователя. Без показа — 204.
func (h *AdHandler) ServeAd(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	adType := models.AdType(c.DefaultQuery("type", string(models.AdBanner)))

	user, err := h.db.GetUser(userID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	payload, err := h.ads.Serve(user, adType)
	if err != nil {
		if errors.Is(err, services.ErrNoAdAvailable) {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serve ad"})
		return
	}

	c.JSON(http.StatusOK, payload)
}

// ClickAd засчитывает переход и отдает целевой URL
func (h *AdHandler) ClickAd(c *gin.Context) {
	adID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad id"})
		return
	}

	targetURL, err := h.ads.Click(adID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"target_url": targetURL})
}

func formatAdResponse(ad *models.Advertisement) gin.H {
	return gin.H{
		"id":                  ad.ID,
		"title":               ad.Title,
		"description":         ad.Description,
		"type":                ad.Type,
		"image_url":           ad.ImageURL,
		"video_url":           ad.VideoURL,
		"target_url":          ad.TargetURL,
		"start_date":          ad.StartDate,
		"end_date":            ad.EndDate,
		"budget":              ad.Budget,
		"cost_per_click":      ad.CostPerClick,
		"cost_per_impression": ad.CostPerImpression,
		"impressions":         ad.Impressions,
		"clicks":              ad.Clicks,
		"total_spent":         ad.TotalSpent,
		"status":              ad.Status,
		"created_at":          ad.CreatedAt,
	}
}
