package services

import (
	"log"

	"github.com/buskinglive/backend/internal/database"
	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

// Notifier рассылает уведомления подписчикам артиста. Ошибки рассылки
// не ломают основную операцию, поэтому только логируются.
type Notifier struct {
	db *database.Database
}

func NewNotifier(db *database.Database) *Notifier {
	return &Notifier{db: db}
}

// NotifyFollowers создает уведомление каждому подписчику
func (n *Notifier) NotifyFollowers(artistID uuid.UUID, typ models.NotificationType, title, body string) {
	follows, err := n.db.ListFollowers(artistID)
	if err != nil {
		log.Printf("Notify followers of %s: %v", artistID, err)
		return
	}

	notifications := make([]models.Notification, 0, len(follows))
	for _, f := range follows {
		notifications = append(notifications, models.Notification{
			UserID: f.FollowerID,
			Type:   typ,
			Title:  title,
			Body:   body,
		})
	}

	if err := n.db.CreateNotifications(notifications); err != nil {
		log.Printf("Notify followers of %s: %v", artistID, err)
	}
}

// NotifyUser — точечное уведомление
func (n *Notifier) NotifyUser(userID uuid.UUID, typ models.NotificationType, title, body string) {
	err := n.db.CreateNotification(&models.Notification{
		UserID: userID,
		Type:   typ,
		Title:  title,
		Body:   body,
	})
	if err != nil {
		log.Printf("Notify user %s: %v", userID, err)
	}
}
