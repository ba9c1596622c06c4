package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buskinglive/backend/internal/database"
	"github.com/buskinglive/backend/internal/middleware"
	"github.com/buskinglive/backend/internal/models"
	"github.com/buskinglive/backend/internal/services"
)

type SocialHandler struct {
	db       *database.Database
	notifier *services.Notifier
}

func NewSocialHandler(db *database.Database, notifier *services.Notifier) *SocialHandler {
	return &SocialHandler{db: db, notifier: notifier}
}

// Follow подписывает текущего пользователя на артиста
func (h *SocialHandler) Follow(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if targetID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot follow yourself"})
		return
	}

	target, err := h.db.GetUser(targetID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	follow := &models.Follow{FollowerID: userID, FolloweeID: targetID}
	if err := h.db.CreateFollow(follow); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "already following"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to follow"})
		return
	}

	if h.notifier != nil {
		follower, ferr := h.db.GetUser(userID.String())
		if ferr == nil {
			go h.notifier.NotifyUser(target.ID, models.NotifyNewFollower,
				"New follower", follower.Nickname+" started following you")
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "following"})
}

// Unfollow снимает подписку
func (h *SocialHandler) Unfollow(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.db.DeleteFollow(userID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not following"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unfollow"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

// GetFollowing — артисты, на которых подписан текущий пользователь
func (h *SocialHandler) GetFollowing(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	follows, err := h.db.ListFollowing(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list following"})
		return
	}

	result := make([]gin.H, len(follows))
	for i, f := range follows {
		result[i] = gin.H{"user_id": f.FolloweeID, "since": f.CreatedAt}
	}
	c.JSON(http.StatusOK, gin.H{"following": result})
}

// GetFollowers — подписчики текущего пользователя
func (h *SocialHandler) GetFollowers(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	follows, err := h.db.ListFollowers(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list followers"})
		return
	}

	result := make([]gin.H, len(follows))
	for i, f := range follows {
		result[i] = gin.H{"user_id": f.FollowerID, "since": f.CreatedAt}
	}
	c.JSON(http.StatusOK, gin.H{"followers": result})
}

// FavoriteEvent добавляет событие в избранное и поднимает счетчик
func (h *SocialHandler) FavoriteEvent(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if _, err := h.db.GetEvent(eventID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	fav := &models.EventFavorite{UserID: userID, EventID: eventID}
	if err := h.db.CreateFavorite(fav); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "already favorited"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to favorite"})
		return
	}

	h.db.AddEventFavoriteCount(eventID, 1)

	c.JSON(http.StatusCreated, gin.H{"message": "favorited"})
}

// UnfavoriteEvent убирает событие из избранного
func (h *SocialHandler) UnfavoriteEvent(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.db.DeleteFavorite(userID, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not favorited"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unfavorite"})
		return
	}

	h.db.AddEventFavoriteCount(eventID, -1)

	c.JSON(http.StatusOK, gin.H{"message": "unfavorited"})
}

// GetMyFavorites — избранные события пользователя
func (h *SocialHandler) GetMyFavorites(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	favorites, err := h.db.ListFavoritesByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list favorites"})
		return
	}

	result := make([]gin.H, len(favorites))
	for i, f := range favorites {
		result[i] = gin.H{"event_id": f.EventID, "created_at": f.CreatedAt}
	}
	c.JSON(http.StatusOK, gin.H{"favorites": result})
}

// GetNotifications — последние уведомления пользователя
func (h *SocialHandler) GetNotifications(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	notifications, err := h.db.ListNotifications(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}

	unread, _ := h.db.CountUnreadNotifications(userID)

	result := make([]gin.H, len(notifications))
	for i, n := range notifications {
		result[i] = gin.H{
			"id":         n.ID,
			"type":       n.Type,
			"title":      n.Title,
			"body":       n.Body,
			"is_read":    n.IsRead,
			"created_at": n.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": result, "unread_count": unread})
}

// MarkNotificationRead помечает уведомление прочитанным
func (h *SocialHandler) MarkNotificationRead(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.db.MarkNotificationRead(notificationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notification"})
		return
	}

	c.Status(http.StatusOK)
}
