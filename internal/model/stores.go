package model

import (
	"labelhub/internal/entity"
	"labelhub/internal/model/sql"

	"gorm.io/gorm"
)

// gormRepository 在 GormRepository 之上挂载内容存储
type gormRepository struct {
	*sql.GormRepository
	stores *Stores
}

func (r *gormRepository) Stores() *Stores {
	return r.stores
}

func newGormRepository(db *gorm.DB) Repository {
	return &gormRepository{
		GormRepository: sql.NewGormRepository(db),
		stores:         newStores(db),
	}
}

func newStores(db *gorm.DB) *Stores {
	return &Stores{
		Artists: sql.NewContentStore[entity.Artist](db, sql.StoreOptions{
			Preloads: []string{"Members"},
			Cascade:  sql.CascadeArtist,
			Files:    sql.ArtistFiles,
		}),
		Members: sql.NewContentStore[entity.Member](db, sql.StoreOptions{}),
		Albums: sql.NewContentStore[entity.Album](db, sql.StoreOptions{
			Preloads: []string{"Artist", "Artists", "Tracks"},
			Cascade:  sql.CascadeAlbum,
		}),
		Tracks: sql.NewContentStore[entity.Track](db, sql.StoreOptions{
			Preloads: []string{"Artist", "Album", "Artists"},
			Cascade:  sql.CascadeTrack,
		}),
		Singles: sql.NewContentStore[entity.Track](db, sql.StoreOptions{
			Preloads: []string{"Artist", "Artists"},
			Scope:    map[string]interface{}{"is_single": true},
			Cascade:  sql.CascadeTrack,
		}),
		Events: sql.NewContentStore[entity.Event](db, sql.StoreOptions{
			Preloads: []string{"Artist"},
		}),
		News:      sql.NewContentStore[entity.News](db, sql.StoreOptions{}),
		Services:  sql.NewContentStore[entity.Service](db, sql.StoreOptions{}),
		Staff:     sql.NewContentStore[entity.StaffMember](db, sql.StoreOptions{}),
		Documents: sql.NewContentStore[entity.Document](db, sql.StoreOptions{}),
	}
}
