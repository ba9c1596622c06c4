package services

import (
	"testing"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func sampleAd(typ models.AdType) *models.Advertisement {
	return &models.Advertisement{
		ID:          uuid.New(),
		Type:        typ,
		Title:       "street show",
		Description: "live at the square",
		ImageURL:    "https://cdn.example.com/a.png",
		VideoURL:    "https://cdn.example.com/a.mp4",
		TargetURL:   "https://example.com",
	}
}

func TestBannerRendererOmitsVideo(t *testing.T) {
	payload := bannerRenderer{}.Render(sampleAd(models.AdBanner))

	assert.Equal(t, "street show", payload["title"])
	assert.Equal(t, "https://cdn.example.com/a.png", payload["image_url"])
	assert.NotContains(t, payload, "video_url")
}

func TestVideoRendererOmitsImage(t *testing.T) {
	payload := videoRenderer{}.Render(sampleAd(models.AdVideo))

	assert.Equal(t, "https://cdn.example.com/a.mp4", payload["video_url"])
	assert.NotContains(t, payload, "image_url")
}

func TestRenderersCoverEveryAdType(t *testing.T) {
	svc := &AdService{renderers: make(map[models.AdType]AdRenderer)}
	for _, r := range []AdRenderer{bannerRenderer{}, videoRenderer{}, popupRenderer{}, nativeRenderer{}} {
		svc.renderers[r.Type()] = r
	}

	for _, typ := range []models.AdType{models.AdBanner, models.AdVideo, models.AdPopup, models.AdNative} {
		r, ok := svc.renderers[typ]
		assert.True(t, ok, "missing renderer for %s", typ)
		assert.Equal(t, typ, r.Type())
	}
}
