package entity

import (
	"regexp"
	"strings"
	"time"
)

var durationPattern = regexp.MustCompile(`^\d{1,3}:[0-5]\d$`)

// Track 是单曲或专辑曲目；IsSingle 为真时出现在单曲列表中。
type Track struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ArtistID        uint       `gorm:"column:artist_id;index;not null" json:"artist_id"`
	Artist          *Artist    `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE" json:"artist,omitempty"`
	AlbumID         *uint      `gorm:"column:album_id;index" json:"album_id"`
	Album           *Album     `gorm:"foreignKey:AlbumID" json:"album,omitempty"`
	Artists         []Artist   `gorm:"many2many:track_artists;constraint:OnDelete:CASCADE" json:"artists,omitempty"`
	Title           string     `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Slug            string     `gorm:"column:slug;type:varchar(255);uniqueIndex;not null" json:"slug"`
	TrackNumber     *int       `gorm:"column:track_number" json:"track_number"`
	Duration        string     `gorm:"column:duration;type:varchar(10)" json:"duration"`
	Featuring       string     `gorm:"column:featuring;type:varchar(255)" json:"featuring"`
	Producer        string     `gorm:"column:producer;type:varchar(255)" json:"producer"`
	Writers         string     `gorm:"column:writers;type:varchar(255)" json:"writers"`
	Genre           string     `gorm:"column:genre;type:varchar(50)" json:"genre"`
	Year            *int       `gorm:"column:year" json:"year"`
	ISRC            *string    `gorm:"column:isrc;type:varchar(50);uniqueIndex" json:"isrc"`
	RecordLabel     string     `gorm:"column:label;type:varchar(100)" json:"label"`
	Cover           string     `gorm:"column:cover;type:varchar(255)" json:"cover"`
	Lyrics          string     `gorm:"column:lyrics;type:text" json:"lyrics"`
	Description     string     `gorm:"column:description;type:text" json:"description"`
	VideoURL        string     `gorm:"column:video_url;type:varchar(255)" json:"video_url"`
	SpotifyURL      string     `gorm:"column:spotify_url;type:varchar(255)" json:"spotify_url"`
	AppleMusicURL   string     `gorm:"column:apple_music_url;type:varchar(255)" json:"apple_music_url"`
	YouTubeURL      string     `gorm:"column:youtube_url;type:varchar(255)" json:"youtube_url"`
	YouTubeMusicURL string     `gorm:"column:youtube_music_url;type:varchar(255)" json:"youtube_music_url"`
	SoundCloudURL   string     `gorm:"column:soundcloud_url;type:varchar(255)" json:"soundcloud_url"`
	OtherURL        string     `gorm:"column:other_url;type:varchar(255)" json:"other_url"`
	Published       bool       `gorm:"column:published;not null;default:false" json:"published"`
	IsSingle        bool       `gorm:"column:is_single;index;not null;default:false" json:"is_single"`
	ReleaseDate     *time.Time `gorm:"column:release_date;type:date" json:"release_date"`
	CreatedByID     *uint      `gorm:"column:created_by;index" json:"created_by"`
	Creator         *User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName overrides default table name.
func (Track) TableName() string {
	return "tracks"
}

func (t *Track) RecordID() uint      { return t.ID }
func (t *Track) CreatorID() uint     { return creatorOf(t.CreatedByID) }
func (t *Track) SetCreator(id uint)  { t.CreatedByID = ownerRef(id) }
func (t *Track) Label() string       { return t.Title }
func (t *Track) SlugSource() string  { return t.Title }
func (t *Track) GetSlug() string     { return t.Slug }
func (t *Track) SetSlug(slug string) { t.Slug = slug }
func (t *Track) FileSlots() []string { return []string{SlotCover} }

func (t *Track) File(slot string) string {
	if slot == SlotCover {
		return t.Cover
	}
	return ""
}

func (t *Track) SetFile(slot, name string) {
	if slot == SlotCover {
		t.Cover = name
	}
}

// VisibleToAll reports whether the track is published.
func (t *Track) VisibleToAll(time.Time) bool { return t.Published }

// Validate requires the main artist.
func (t *Track) Validate() error {
	if t.ArtistID == 0 {
		return Invalid("artist_id", "is required")
	}
	return nil
}

// LinkedArtistIDs returns the ids of the co-credited artists.
func (t *Track) LinkedArtistIDs() []uint {
	return artistIDs(t.Artists)
}

type TrackRequest struct {
	ArtistID        uint   `json:"artist_id" form:"artist_id" binding:"required"`
	AlbumID         *uint  `json:"album_id" form:"album_id"`
	ArtistIDs       []uint `json:"artist_ids" form:"artist_ids"`
	Title           string `json:"title" form:"title" binding:"required,max=200"`
	Slug            string `json:"slug" form:"slug" binding:"max=255"`
	TrackNumber     *int   `json:"track_number" form:"track_number" binding:"omitempty,min=1"`
	Duration        string `json:"duration" form:"duration" binding:"max=10"`
	Featuring       string `json:"featuring" form:"featuring" binding:"max=255"`
	Producer        string `json:"producer" form:"producer" binding:"max=255"`
	Writers         string `json:"writers" form:"writers" binding:"max=255"`
	Genre           string `json:"genre" form:"genre" binding:"max=50"`
	Year            *int   `json:"year" form:"year" binding:"omitempty,min=1900,max=2100"`
	ISRC            string `json:"isrc" form:"isrc" binding:"max=50"`
	Label           string `json:"label" form:"label" binding:"max=100"`
	Lyrics          string `json:"lyrics" form:"lyrics"`
	Description     string `json:"description" form:"description"`
	VideoURL        string `json:"video_url" form:"video_url" binding:"max=255"`
	SpotifyURL      string `json:"spotify_url" form:"spotify_url" binding:"max=255"`
	AppleMusicURL   string `json:"apple_music_url" form:"apple_music_url" binding:"max=255"`
	YouTubeURL      string `json:"youtube_url" form:"youtube_url" binding:"max=255"`
	YouTubeMusicURL string `json:"youtube_music_url" form:"youtube_music_url" binding:"max=255"`
	SoundCloudURL   string `json:"soundcloud_url" form:"soundcloud_url" binding:"max=255"`
	OtherURL        string `json:"other_url" form:"other_url" binding:"max=255"`
	Published       bool   `json:"published" form:"published"`
	IsSingle        bool   `json:"is_single" form:"is_single"`
	ReleaseDate     string `json:"release_date" form:"release_date"`
}

// Apply copies the request onto a track row.
func (r *TrackRequest) Apply(t *Track) error {
	release, err := parseDate("release_date", r.ReleaseDate)
	if err != nil {
		return err
	}
	duration := strings.TrimSpace(r.Duration)
	if duration != "" && !durationPattern.MatchString(duration) {
		return Invalid("duration", "expected MM:SS")
	}
	t.ArtistID = r.ArtistID
	t.Artist = nil
	t.AlbumID = r.AlbumID
	if t.AlbumID != nil && *t.AlbumID == 0 {
		t.AlbumID = nil
	}
	t.Album = nil
	t.Artists = artistRefs(r.ArtistIDs)
	t.Title = strings.TrimSpace(r.Title)
	t.Slug = strings.TrimSpace(r.Slug)
	t.TrackNumber = r.TrackNumber
	t.Duration = duration
	t.Featuring = strings.TrimSpace(r.Featuring)
	t.Producer = strings.TrimSpace(r.Producer)
	t.Writers = strings.TrimSpace(r.Writers)
	t.Genre = strings.TrimSpace(r.Genre)
	t.Year = r.Year
	if t.Year == nil && release != nil {
		year := release.Year()
		t.Year = &year
	}
	t.ISRC = optionalString(strings.ToUpper(r.ISRC))
	t.RecordLabel = strings.TrimSpace(r.Label)
	t.Lyrics = r.Lyrics
	t.Description = r.Description
	t.VideoURL = strings.TrimSpace(r.VideoURL)
	t.SpotifyURL = strings.TrimSpace(r.SpotifyURL)
	t.AppleMusicURL = strings.TrimSpace(r.AppleMusicURL)
	t.YouTubeURL = strings.TrimSpace(r.YouTubeURL)
	t.YouTubeMusicURL = strings.TrimSpace(r.YouTubeMusicURL)
	t.SoundCloudURL = strings.TrimSpace(r.SoundCloudURL)
	t.OtherURL = strings.TrimSpace(r.OtherURL)
	t.Published = r.Published
	t.IsSingle = r.IsSingle
	t.ReleaseDate = release
	return nil
}
