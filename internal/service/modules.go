package service

import (
	"labelhub/internal/auth"
	"labelhub/internal/entity"
	"labelhub/internal/storage"
)

// FilterKind tells how a list filter value is parsed.
type FilterKind string

const (
	FilterString FilterKind = "string"
	FilterBool   FilterKind = "bool"
	FilterID     FilterKind = "id"
)

// Module describes how a content table is listed, owned and authorised.
type Module struct {
	// Name is the permission module, e.g. "artists".
	Name string
	// OwnerScoped restricts non-elevated principals to their own rows.
	OwnerScoped bool
	OwnerColumn string
	// ActiveColumn restricts non-elevated principals to active rows.
	ActiveColumn  string
	Order         string
	SortColumns   []string
	SearchColumns []string
	Filters       map[string]FilterKind
	Uploads       map[string]storage.Kind
	// Actions overrides the permission action checked for an operation.
	Actions map[string]string
}

// action returns the permission action checked for op.
func (m Module) action(op string) string {
	if override, ok := m.Actions[op]; ok {
		return override
	}
	return op
}

// Permission returns the permission code checked for op.
func (m Module) Permission(op string) string {
	return auth.PermissionCode(m.Name, m.action(op))
}

var (
	ArtistsModule = Module{
		Name:          "artists",
		OwnerScoped:   true,
		OwnerColumn:   "created_by",
		Order:         "sort_order ASC, stage_name ASC",
		SortColumns:   []string{"name", "stage_name", "genre", "country", "sort_order", "created_at"},
		SearchColumns: []string{"name", "stage_name", "genre", "city"},
		Filters: map[string]FilterKind{
			"genre": FilterString, "country": FilterString, "is_band": FilterBool,
			"active": FilterBool, "featured": FilterBool,
		},
		Uploads: map[string]storage.Kind{entity.SlotPhoto: storage.KindImage, entity.SlotCover: storage.KindImage},
	}

	// MembersModule is authorised through the parent artist.
	MembersModule = Module{
		Name:          "artists",
		OwnerColumn:   "created_by",
		Order:         "sort_order ASC, first_name ASC",
		SortColumns:   []string{"first_name", "last_name", "sort_order", "joined_at"},
		SearchColumns: []string{"first_name", "last_name", "stage_name", "role"},
		Filters:       map[string]FilterKind{"artist_id": FilterID, "active": FilterBool},
		Uploads:       map[string]storage.Kind{entity.SlotPhoto: storage.KindImage},
		Actions:       map[string]string{auth.ActionCreate: auth.ActionUpdate, auth.ActionDelete: auth.ActionUpdate},
	}

	AlbumsModule = Module{
		Name:          "albums",
		OwnerScoped:   true,
		OwnerColumn:   "created_by",
		Order:         "release_year DESC, title ASC",
		SortColumns:   []string{"title", "release_year", "release_date", "sort_order", "created_at"},
		SearchColumns: []string{"title", "label", "genre", "catalog_number"},
		Filters: map[string]FilterKind{
			"artist_id": FilterID, "type": FilterString, "format": FilterString,
			"published": FilterBool, "featured": FilterBool,
		},
		Uploads: map[string]storage.Kind{entity.SlotCover: storage.KindImage},
	}

	TracksModule = Module{
		Name:          "tracks",
		OwnerScoped:   true,
		OwnerColumn:   "created_by",
		Order:         "album_id ASC, track_number ASC, title ASC",
		SortColumns:   []string{"title", "track_number", "year", "release_date", "created_at"},
		SearchColumns: []string{"title", "featuring", "producer", "isrc"},
		Filters: map[string]FilterKind{
			"artist_id": FilterID, "album_id": FilterID, "is_single": FilterBool, "published": FilterBool,
		},
		Uploads: map[string]storage.Kind{entity.SlotCover: storage.KindImage},
	}

	// SinglesModule shares the tracks permissions and table.
	SinglesModule = Module{
		Name:          "tracks",
		OwnerScoped:   true,
		OwnerColumn:   "created_by",
		Order:         "release_date DESC, title ASC",
		SortColumns:   []string{"title", "year", "release_date", "created_at"},
		SearchColumns: []string{"title", "featuring", "producer", "isrc"},
		Filters:       map[string]FilterKind{"artist_id": FilterID, "published": FilterBool},
		Uploads:       map[string]storage.Kind{entity.SlotCover: storage.KindImage},
	}

	EventsModule = Module{
		Name:          "events",
		OwnerScoped:   true,
		OwnerColumn:   "created_by",
		Order:         "starts_at ASC",
		SortColumns:   []string{"title", "starts_at", "city", "created_at"},
		SearchColumns: []string{"title", "venue", "city"},
		Filters: map[string]FilterKind{
			"artist_id": FilterID, "type": FilterString, "status": FilterString, "city": FilterString,
			"published": FilterBool, "featured": FilterBool,
		},
		Uploads: map[string]storage.Kind{entity.SlotImage: storage.KindImage},
	}

	NewsModule = Module{
		Name:          "news",
		OwnerScoped:   true,
		OwnerColumn:   "author_id",
		Order:         "created_at DESC",
		SortColumns:   []string{"title", "publish_at", "views", "created_at"},
		SearchColumns: []string{"title", "excerpt", "body"},
		Filters: map[string]FilterKind{
			"category": FilterString, "kind": FilterString, "published": FilterBool, "featured": FilterBool,
		},
		Uploads: map[string]storage.Kind{entity.SlotImage: storage.KindImage},
	}

	ServicesModule = Module{
		Name:          "services",
		OwnerColumn:   "created_by",
		ActiveColumn:  "active",
		Order:         "sort_order ASC, name ASC",
		SortColumns:   []string{"name", "price", "category", "sort_order", "created_at"},
		SearchColumns: []string{"name", "short_description", "category"},
		Filters: map[string]FilterKind{
			"category": FilterString, "currency": FilterString, "active": FilterBool, "featured": FilterBool,
		},
		Uploads: map[string]storage.Kind{entity.SlotPhoto: storage.KindImage},
	}

	StaffModule = Module{
		Name:          "staff",
		OwnerColumn:   "created_by",
		ActiveColumn:  "active",
		Order:         "last_name ASC, first_name ASC",
		SortColumns:   []string{"first_name", "last_name", "department", "hired_at", "created_at"},
		SearchColumns: []string{"first_name", "last_name", "job_title", "email"},
		Filters:       map[string]FilterKind{"department": FilterString, "active": FilterBool},
		Uploads:       map[string]storage.Kind{entity.SlotPhoto: storage.KindImage},
	}

	DocumentsModule = Module{
		Name:          "documents",
		OwnerScoped:   true,
		OwnerColumn:   "uploaded_by",
		Order:         "created_at DESC",
		SortColumns:   []string{"title", "size", "created_at"},
		SearchColumns: []string{"title", "description", "original_name"},
		Filters:       map[string]FilterKind{"kind": FilterString, "visibility": FilterString},
		Uploads:       map[string]storage.Kind{entity.SlotFile: storage.KindDocument},
	}
)
