package sql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"labelhub/internal/entity"

	"gorm.io/gorm"
)

// IncrementNewsViews bumps the view counter of a news item.
func (r *GormRepository) IncrementNewsViews(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Model(&entity.News{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// DashboardStats collects table counts, the latest content and upcoming events.
func (r *GormRepository) DashboardStats(ctx context.Context, now time.Time, limit int) (*entity.DashboardStats, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if limit <= 0 {
		limit = 5
	}
	db := r.db.WithContext(ctx)
	stats := &entity.DashboardStats{}

	counters := []struct {
		model  interface{}
		where  map[string]interface{}
		target *int64
	}{
		{&entity.Artist{}, nil, &stats.Counts.Artists},
		{&entity.Album{}, nil, &stats.Counts.Albums},
		{&entity.Track{}, map[string]interface{}{"is_single": false}, &stats.Counts.Tracks},
		{&entity.Track{}, map[string]interface{}{"is_single": true}, &stats.Counts.Singles},
		{&entity.Event{}, nil, &stats.Counts.Events},
		{&entity.News{}, nil, &stats.Counts.News},
		{&entity.Service{}, nil, &stats.Counts.Services},
		{&entity.StaffMember{}, nil, &stats.Counts.Staff},
		{&entity.Document{}, nil, &stats.Counts.Documents},
		{&entity.User{}, nil, &stats.Counts.Users},
	}
	for _, counter := range counters {
		query := db.Model(counter.model)
		if counter.where != nil {
			query = query.Where(counter.where)
		}
		if err := query.Count(counter.target).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Order("created_at DESC").Limit(limit).Find(&stats.LatestArtists).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Artist").Order("created_at DESC").Limit(limit).Find(&stats.LatestAlbums).Error; err != nil {
		return nil, err
	}
	if err := db.Order("created_at DESC").Limit(limit).Find(&stats.LatestNews).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Artist").
		Where("starts_at >= ? AND status NOT IN ?", now, []string{entity.EventStatusCancelled, entity.EventStatusConcluded}).
		Order("starts_at ASC").Limit(limit).Find(&stats.UpcomingEvents).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// gallerySources lists every image column shown in the gallery.
var gallerySources = []struct {
	source string
	table  string
	title  string
	file   string
}{
	{"artists", "artists", "stage_name", "photo"},
	{"artists", "artists", "stage_name", "cover_photo"},
	{"members", "artist_members", "first_name", "photo"},
	{"albums", "albums", "title", "cover"},
	{"tracks", "tracks", "title", "cover"},
	{"events", "events", "title", "image"},
	{"news", "news", "title", "image"},
	{"services", "services", "name", "photo"},
	{"staff", "staff", "first_name", "photo"},
}

// ListGalleryImages returns every uploaded image, most recently updated first.
func (r *GormRepository) ListGalleryImages(ctx context.Context) ([]entity.GalleryImage, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	images := make([]entity.GalleryImage, 0)
	for _, src := range gallerySources {
		var rows []struct {
			ID        uint
			Title     string
			FileName  string
			UpdatedAt time.Time
		}
		err := r.db.WithContext(ctx).Table(src.table).
			Select(fmt.Sprintf("id, %s AS title, %s AS file_name, updated_at", src.title, src.file)).
			Where(fmt.Sprintf("%s IS NOT NULL AND %s <> ''", src.file, src.file)).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			images = append(images, entity.GalleryImage{
				Source:    src.source,
				SourceID:  row.ID,
				Title:     row.Title,
				FileName:  row.FileName,
				UpdatedAt: row.UpdatedAt,
			})
		}
	}

	sort.SliceStable(images, func(i, j int) bool {
		return images[i].UpdatedAt.After(images[j].UpdatedAt)
	})
	return images, nil
}
