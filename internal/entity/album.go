package entity

import (
	"strings"
	"time"
)

// 专辑类型
const (
	AlbumTypeAlbum       = "album"
	AlbumTypeEP          = "ep"
	AlbumTypeSingle      = "single"
	AlbumTypeCompilation = "compilation"
	AlbumTypeLive        = "live"
	AlbumTypeRemix       = "remix"
)

// AlbumTypes lists the accepted album types.
var AlbumTypes = []string{AlbumTypeAlbum, AlbumTypeEP, AlbumTypeSingle, AlbumTypeCompilation, AlbumTypeLive, AlbumTypeRemix}

// AlbumFormats lists the accepted physical/digital formats.
var AlbumFormats = []string{"CD", "Vinyl", "Digital", "Cassette"}

// Album 是唱片，归属一个主艺人，可附加联合署名艺人。
type Album struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ArtistID        uint       `gorm:"column:artist_id;index;not null" json:"artist_id"`
	Artist          *Artist    `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
	Artists         []Artist   `gorm:"many2many:album_artists;constraint:OnDelete:CASCADE" json:"artists,omitempty"`
	Title           string     `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Slug            string     `gorm:"column:slug;type:varchar(255);uniqueIndex;not null" json:"slug"`
	Type            string     `gorm:"column:type;type:varchar(20);not null;default:album" json:"type"`
	Description     string     `gorm:"column:description;type:text" json:"description"`
	Cover           string     `gorm:"column:cover;type:varchar(255)" json:"cover"`
	ReleaseYear     *int       `gorm:"column:release_year" json:"release_year"`
	ReleaseDate     *time.Time `gorm:"column:release_date;type:date" json:"release_date"`
	RecordLabel     string     `gorm:"column:label;type:varchar(100)" json:"label"`
	Format          string     `gorm:"column:format;type:varchar(50)" json:"format"`
	Genre           string     `gorm:"column:genre;type:varchar(50)" json:"genre"`
	CatalogNumber   *string    `gorm:"column:catalog_number;type:varchar(50);uniqueIndex" json:"catalog_number"`
	SpotifyURL      string     `gorm:"column:spotify_url;type:varchar(255)" json:"spotify_url"`
	AppleMusicURL   string     `gorm:"column:apple_music_url;type:varchar(255)" json:"apple_music_url"`
	YouTubeMusicURL string     `gorm:"column:youtube_music_url;type:varchar(255)" json:"youtube_music_url"`
	AmazonMusicURL  string     `gorm:"column:amazon_music_url;type:varchar(255)" json:"amazon_music_url"`
	DeezerURL       string     `gorm:"column:deezer_url;type:varchar(255)" json:"deezer_url"`
	TidalURL        string     `gorm:"column:tidal_url;type:varchar(255)" json:"tidal_url"`
	PurchaseURL     string     `gorm:"column:purchase_url;type:varchar(255)" json:"purchase_url"`
	Published       bool       `gorm:"column:published;not null;default:false" json:"published"`
	Featured        bool       `gorm:"column:featured;not null;default:false" json:"featured"`
	SortOrder       int        `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedByID     *uint      `gorm:"column:created_by;index" json:"created_by"`
	Creator         *User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
	Tracks          []Track    `gorm:"foreignKey:AlbumID;constraint:OnDelete:SET NULL" json:"tracks,omitempty"`
}

// TableName overrides default table name.
func (Album) TableName() string {
	return "albums"
}

func (a *Album) RecordID() uint      { return a.ID }
func (a *Album) CreatorID() uint     { return creatorOf(a.CreatedByID) }
func (a *Album) SetCreator(id uint)  { a.CreatedByID = ownerRef(id) }
func (a *Album) Label() string       { return a.Title }
func (a *Album) SlugSource() string  { return a.Title }
func (a *Album) GetSlug() string     { return a.Slug }
func (a *Album) SetSlug(slug string) { a.Slug = slug }
func (a *Album) FileSlots() []string { return []string{SlotCover} }

func (a *Album) File(slot string) string {
	if slot == SlotCover {
		return a.Cover
	}
	return ""
}

func (a *Album) SetFile(slot, name string) {
	if slot == SlotCover {
		a.Cover = name
	}
}

// VisibleToAll reports whether the album is published.
func (a *Album) VisibleToAll(time.Time) bool { return a.Published }

type AlbumRequest struct {
	ArtistID        uint   `json:"artist_id" form:"artist_id" binding:"required"`
	ArtistIDs       []uint `json:"artist_ids" form:"artist_ids"`
	Title           string `json:"title" form:"title" binding:"required,max=200"`
	Slug            string `json:"slug" form:"slug" binding:"max=255"`
	Type            string `json:"type" form:"type" binding:"omitempty,oneof=album ep single compilation live remix"`
	Description     string `json:"description" form:"description"`
	ReleaseYear     *int   `json:"release_year" form:"release_year" binding:"omitempty,min=1900,max=2100"`
	ReleaseDate     string `json:"release_date" form:"release_date"`
	Label           string `json:"label" form:"label" binding:"max=100"`
	Format          string `json:"format" form:"format" binding:"omitempty,oneof=CD Vinyl Digital Cassette"`
	Genre           string `json:"genre" form:"genre" binding:"max=50"`
	CatalogNumber   string `json:"catalog_number" form:"catalog_number" binding:"max=50"`
	SpotifyURL      string `json:"spotify_url" form:"spotify_url" binding:"max=255"`
	AppleMusicURL   string `json:"apple_music_url" form:"apple_music_url" binding:"max=255"`
	YouTubeMusicURL string `json:"youtube_music_url" form:"youtube_music_url" binding:"max=255"`
	AmazonMusicURL  string `json:"amazon_music_url" form:"amazon_music_url" binding:"max=255"`
	DeezerURL       string `json:"deezer_url" form:"deezer_url" binding:"max=255"`
	TidalURL        string `json:"tidal_url" form:"tidal_url" binding:"max=255"`
	PurchaseURL     string `json:"purchase_url" form:"purchase_url" binding:"max=255"`
	Published       bool   `json:"published" form:"published"`
	Featured        bool   `json:"featured" form:"featured"`
	SortOrder       int    `json:"sort_order" form:"sort_order"`
}

// Apply copies the request onto an album row.
func (r *AlbumRequest) Apply(a *Album) error {
	release, err := parseDate("release_date", r.ReleaseDate)
	if err != nil {
		return err
	}
	a.ArtistID = r.ArtistID
	a.Artist = nil
	a.Artists = artistRefs(r.ArtistIDs)
	a.Title = strings.TrimSpace(r.Title)
	a.Slug = strings.TrimSpace(r.Slug)
	a.Type = r.Type
	if a.Type == "" {
		a.Type = AlbumTypeAlbum
	}
	a.Description = r.Description
	a.ReleaseYear = r.ReleaseYear
	a.ReleaseDate = release
	if a.ReleaseYear == nil && release != nil {
		year := release.Year()
		a.ReleaseYear = &year
	}
	a.RecordLabel = strings.TrimSpace(r.Label)
	a.Format = r.Format
	a.Genre = strings.TrimSpace(r.Genre)
	a.CatalogNumber = optionalString(r.CatalogNumber)
	a.SpotifyURL = strings.TrimSpace(r.SpotifyURL)
	a.AppleMusicURL = strings.TrimSpace(r.AppleMusicURL)
	a.YouTubeMusicURL = strings.TrimSpace(r.YouTubeMusicURL)
	a.AmazonMusicURL = strings.TrimSpace(r.AmazonMusicURL)
	a.DeezerURL = strings.TrimSpace(r.DeezerURL)
	a.TidalURL = strings.TrimSpace(r.TidalURL)
	a.PurchaseURL = strings.TrimSpace(r.PurchaseURL)
	a.Published = r.Published
	a.Featured = r.Featured
	a.SortOrder = r.SortOrder
	return nil
}

// artistRefs builds id-only artist rows for many-to-many replacement.
func artistRefs(ids []uint) []Artist {
	seen := make(map[uint]struct{}, len(ids))
	refs := make([]Artist, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		refs = append(refs, Artist{ID: id})
	}
	return refs
}

// Validate requires the main artist.
func (a *Album) Validate() error {
	if a.ArtistID == 0 {
		return Invalid("artist_id", "is required")
	}
	return nil
}

// LinkedArtistIDs returns the ids of the co-credited artists.
func (a *Album) LinkedArtistIDs() []uint {
	return artistIDs(a.Artists)
}

func artistIDs(artists []Artist) []uint {
	ids := make([]uint, 0, len(artists))
	for _, artist := range artists {
		ids = append(ids, artist.ID)
	}
	return ids
}
