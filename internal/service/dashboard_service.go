package service

import (
	"context"
	"time"

	"labelhub/internal/auth"
	"labelhub/internal/entity"
	"labelhub/internal/model"
	"labelhub/internal/storage"
)

const dashboardLatest = 5

// DashboardService reports totals and the image gallery.
type DashboardService struct {
	repo          model.Repository
	publicBaseURL string
	now           func() time.Time
}

// NewDashboardService creates a DashboardService. Gallery URLs are built
// below publicBaseURL.
func NewDashboardService(repo model.Repository, publicBaseURL string) *DashboardService {
	return &DashboardService{repo: repo, publicBaseURL: publicBaseURL, now: time.Now}
}

// Stats returns record counts, the latest items and upcoming events.
func (s *DashboardService) Stats(ctx context.Context, p *auth.Principal) (*entity.DashboardStats, error) {
	if !p.IsAuthenticated() {
		return nil, forbidden("authentication required")
	}
	stats, err := s.repo.DashboardStats(ctx, s.now(), dashboardLatest)
	if err != nil {
		return nil, translate(err)
	}
	return stats, nil
}

// Gallery lists every uploaded image, newest first.
func (s *DashboardService) Gallery(ctx context.Context, p *auth.Principal) ([]entity.GalleryImage, error) {
	if !p.IsAuthenticated() {
		return nil, forbidden("authentication required")
	}
	images, err := s.repo.ListGalleryImages(ctx)
	if err != nil {
		return nil, translate(err)
	}
	for i := range images {
		images[i].URL = storage.PublicURL(s.publicBaseURL, images[i].FileName)
	}
	return images, nil
}
