package service

import (
	"context"
	"time"

	"labelhub/internal/auth"
	"labelhub/internal/entity"
	"labelhub/internal/model"

	"github.com/sirupsen/logrus"
)

// NewsService adds view counting and publishing to the news module.
type NewsService struct {
	*ContentService[entity.News]
	repo model.Repository
	now  func() time.Time
}

// NewNewsService wraps content with view counting.
func NewNewsService(content *ContentService[entity.News], repo model.Repository) *NewsService {
	return &NewsService{ContentService: content, repo: repo, now: time.Now}
}

// View loads a news item and counts the view.
func (s *NewsService) View(ctx context.Context, p *auth.Principal, id uint) (*entity.News, error) {
	item, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementNewsViews(ctx, id); err != nil {
		logrus.WithError(err).WithField("news_id", id).Warn("failed to count news view")
		return item, nil
	}
	item.Views++
	return item, nil
}

// Publish marks an item published now unless a publish time is already set.
// Authors without news.update cannot publish their own drafts.
func (s *NewsService) Publish(ctx context.Context, p *auth.Principal, id uint) (*entity.News, error) {
	if err := s.require(p, auth.ActionUpdate); err != nil {
		return nil, err
	}
	return s.Update(ctx, p, id, func(n *entity.News) error {
		n.Publish(s.now())
		return nil
	}, nil)
}
