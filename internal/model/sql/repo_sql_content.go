package sql

import (
	"context"
	"fmt"
	"strings"

	"labelhub/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreOptions configures a ContentStore.
type StoreOptions struct {
	// Preloads are loaded on Get and List.
	Preloads []string
	// Scope restricts every read to matching rows, e.g. singles.
	Scope map[string]interface{}
	// Cascade runs inside the delete transaction before the row is removed.
	Cascade func(tx *gorm.DB, id uint) error
	// Files lists stored files of rows removed by Cascade.
	Files func(tx *gorm.DB, id uint) ([]string, error)
}

// ContentStore is a gorm backed store for one content table.
type ContentStore[T any] struct {
	db   *gorm.DB
	opts StoreOptions
}

// NewContentStore creates a store for the table of T.
func NewContentStore[T any](db *gorm.DB, opts StoreOptions) *ContentStore[T] {
	return &ContentStore[T]{db: db, opts: opts}
}

func (s *ContentStore[T]) scoped(ctx context.Context) *gorm.DB {
	query := s.db.WithContext(ctx).Model(new(T))
	if len(s.opts.Scope) > 0 {
		query = query.Where(s.opts.Scope)
	}
	return query
}

func (s *ContentStore[T]) withPreloads(query *gorm.DB) *gorm.DB {
	for _, preload := range s.opts.Preloads {
		query = query.Preload(preload)
	}
	return query
}

// List returns one page of rows matching q. Column names in q are trusted.
func (s *ContentStore[T]) List(ctx context.Context, q entity.ListQuery) ([]T, *entity.Meta, error) {
	if s == nil || s.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := s.scoped(ctx)
	if q.OwnerColumn != "" {
		query = query.Where(q.OwnerColumn+" = ?", q.OwnerID)
	}
	for column, value := range q.Filters {
		query = query.Where(column+" = ?", value)
	}
	if strings.TrimSpace(q.Keyword) != "" && len(q.SearchColumns) > 0 {
		cond, args := keywordClause(q.SearchColumns, q.Keyword)
		query = query.Where(cond, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page, pageSize, offset := paginate(q.Page, q.PageSize)
	items := make([]T, 0)
	if total == 0 {
		return items, newMeta(total, page, pageSize), nil
	}

	if q.Order != "" {
		query = query.Order(q.Order)
	}
	if err := s.withPreloads(query).Offset(offset).Limit(pageSize).Find(&items).Error; err != nil {
		return nil, nil, err
	}
	return items, newMeta(total, page, pageSize), nil
}

// Get loads a row with its preloads.
func (s *ContentStore[T]) Get(ctx context.Context, id uint) (*T, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	item := new(T)
	if err := s.withPreloads(s.scoped(ctx)).First(item, id).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Create inserts a row and links its co-credited artists.
func (s *ContentStore[T]) Create(ctx context.Context, item *T) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
			return err
		}
		return linkArtists(tx, item)
	})
}

// Save writes every column of a loaded row and relinks its co-credited artists.
func (s *ContentStore[T]) Save(ctx context.Context, item *T) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(item).Error; err != nil {
			return err
		}
		return linkArtists(tx, item)
	})
}

// Delete removes a row after running the configured cascade.
func (s *ContentStore[T]) Delete(ctx context.Context, id uint) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.opts.Cascade != nil {
			if err := s.opts.Cascade(tx, id); err != nil {
				return err
			}
		}
		result := tx.Delete(new(T), id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DependentFiles returns the stored files of rows a delete of id cascades to.
func (s *ContentStore[T]) DependentFiles(ctx context.Context, id uint) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if s.opts.Files == nil {
		return nil, nil
	}
	return s.opts.Files(s.db.WithContext(ctx), id)
}

// SlugExists reports whether another row of the table already uses slug.
func (s *ContentStore[T]) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	query := s.db.WithContext(ctx).Model(new(T)).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// linkArtists replaces the co-credited artists of item when it has any.
func linkArtists(tx *gorm.DB, item interface{}) error {
	linker, ok := item.(entity.ArtistLinker)
	if !ok {
		return nil
	}
	ids := uniqueIDs(linker.LinkedArtistIDs())
	association := tx.Model(item).Association("Artists")
	if len(ids) == 0 {
		return association.Clear()
	}

	var artists []entity.Artist
	if err := tx.Where("id IN ?", ids).Find(&artists).Error; err != nil {
		return err
	}
	if len(artists) != len(ids) {
		return entity.Invalid("artist_ids", "some artists do not exist")
	}
	return association.Replace(artists)
}

func uniqueIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
