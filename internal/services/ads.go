package services

import (
	"errors"
	"math/rand"
	"time"

	"github.com/buskinglive/backend/internal/database"
	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

var ErrNoAdAvailable = errors.New("no ad available")

// AdRenderer собирает клиентский payload под конкретный формат
// объявления. Каждый формат отдает только свои поля.
type AdRenderer interface {
	Type() models.AdType
	Render(ad *models.Advertisement) map[string]interface{}
}

type AdService struct {
	db        *database.Database
	renderers map[models.AdType]AdRenderer
}

func NewAdService(db *database.Database) *AdService {
	s := &AdService{
		db:        db,
		renderers: make(map[models.AdType]AdRenderer),
	}
	for _, r := range []AdRenderer{bannerRenderer{}, videoRenderer{}, popupRenderer{}, nativeRenderer{}} {
		s.renderers[r.Type()] = r
	}
	return s
}

// Serve выбирает показ для пользователя. Пользователи с отключенной
// рекламой и VIP ничего не видят.
func (s *AdService) Serve(user *models.User, adType models.AdType) (map[string]interface{}, error) {
	if user != nil && (user.AdFree || user.Tier == models.TierVIP) {
		return nil, ErrNoAdAvailable
	}

	ads, err := s.db.ActiveAds(adType, time.Now())
	if err != nil {
		return nil, err
	}
	if len(ads) == 0 {
		return nil, ErrNoAdAvailable
	}

	ad := &ads[rand.Intn(len(ads))]
	if err := s.db.RecordAdImpression(ad.ID, ad.CostPerImpression); err != nil {
		return nil, err
	}

	renderer, ok := s.renderers[ad.Type]
	if !ok {
		return nil, ErrNoAdAvailable
	}
	return renderer.Render(ad), nil
}

// Click засчитывает переход и его стоимость
func (s *AdService) Click(adID uuid.UUID) (string, error) {
	ad, err := s.db.GetAd(adID)
	if err != nil {
		return "", err
	}
	if err := s.db.RecordAdClick(ad.ID, ad.CostPerClick); err != nil {
		return "", err
	}
	return ad.TargetURL, nil
}

// ExpireStale закрывает объявления с истекшим сроком или бюджетом
func (s *AdService) ExpireStale() (int64, error) {
	return s.db.ExpireAds(time.Now())
}

type bannerRenderer struct{}

func (bannerRenderer) Type() models.AdType { return models.AdBanner }

func (bannerRenderer) Render(ad *models.Advertisement) map[string]interface{} {
	return map[string]interface{}{
		"id":         ad.ID,
		"type":       ad.Type,
		"title":      ad.Title,
		"image_url":  ad.ImageURL,
		"target_url": ad.TargetURL,
	}
}

type videoRenderer struct{}

func (videoRenderer) Type() models.AdType { return models.AdVideo }

func (videoRenderer) Render(ad *models.Advertisement) map[string]interface{} {
	return map[string]interface{}{
		"id":         ad.ID,
		"type":       ad.Type,
		"title":      ad.Title,
		"video_url":  ad.VideoURL,
		"target_url": ad.TargetURL,
	}
}

type popupRenderer struct{}

func (popupRenderer) Type() models.AdType { return models.AdPopup }

func (popupRenderer) Render(ad *models.Advertisement) map[string]interface{} {
	return map[string]interface{}{
		"id":          ad.ID,
		"type":        ad.Type,
		"title":       ad.Title,
		"description": ad.Description,
		"image_url":   ad.ImageURL,
		"target_url":  ad.TargetURL,
	}
}

type nativeRenderer struct{}

func (nativeRenderer) Type() models.AdType { return models.AdNative }

func (nativeRenderer) Render(ad *models.Advertisement) map[string]interface{} {
	return map[string]interface{}{
		"id":          ad.ID,
		"type":        ad.Type,
		"title":       ad.Title,
		"description": ad.Description,
		"image_url":   ad.ImageURL,
		"target_url":  ad.TargetURL,
	}
}
