package database

import (
	"time"

	"github.com/buskinglive/backend/internal/chat"
	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

func (d *Database) SaveUser(user *models.User) error {
	return d.db.Create(user).Error
}

func (d *Database) UpdateUser(user *models.User) error {
	return d.db.Save(user).Error
}

func (d *Database) GetUser(id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) UpdateLastSeen(id string) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("last_seen_at", time.Now()).Error
}

func (d *Database) SearchUsersByNickname(query string) ([]models.User, error) {
	var users []models.User
	err := d.db.Where("nickname ILIKE ?", "%"+query+"%").Limit(20).Find(&users).Error
	return users, err
}

// Resolve реализует chat.UserDirectory: чат хранит только ID,
// отображаемые атрибуты берутся отсюда
func (d *Database) Resolve(userID uuid.UUID) (chat.UserInfo, error) {
	user, err := d.GetUser(userID.String())
	if err != nil {
		return chat.UserInfo{}, err
	}
	return chat.UserInfo{
		ID:        user.ID,
		DisplayID: user.DisplayID,
		Nickname:  user.Nickname,
		AvatarURL: user.AvatarURL,
	}, nil
}
