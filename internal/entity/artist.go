package entity

import (
	"strings"
	"time"
)

// Artist 是厂牌旗下的艺人或乐队。
type Artist struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Name        string     `gorm:"column:name;type:varchar(100);not null" json:"name"`
	StageName   string     `gorm:"column:stage_name;type:varchar(100);not null" json:"stage_name"`
	Slug        string     `gorm:"column:slug;type:varchar(150);uniqueIndex;not null" json:"slug"`
	Biography   string     `gorm:"column:biography;type:text" json:"biography"`
	Photo       string     `gorm:"column:photo;type:varchar(255)" json:"photo"`
	CoverPhoto  string     `gorm:"column:cover_photo;type:varchar(255)" json:"cover_photo"`
	IsBand      bool       `gorm:"column:is_band;not null;default:false" json:"is_band"`
	Genre       string     `gorm:"column:genre;type:varchar(50)" json:"genre"`
	Country     string     `gorm:"column:country;type:varchar(50)" json:"country"`
	City        string     `gorm:"column:city;type:varchar(100)" json:"city"`
	FoundedYear *int       `gorm:"column:founded_year" json:"founded_year"`
	BirthDate   *time.Time `gorm:"column:birth_date;type:date" json:"birth_date"`
	Website     string     `gorm:"column:website;type:varchar(200)" json:"website"`
	Instagram   string     `gorm:"column:instagram;type:varchar(200)" json:"instagram"`
	Facebook    string     `gorm:"column:facebook;type:varchar(200)" json:"facebook"`
	Twitter     string     `gorm:"column:twitter;type:varchar(200)" json:"twitter"`
	Spotify     string     `gorm:"column:spotify;type:varchar(200)" json:"spotify"`
	YouTube     string     `gorm:"column:youtube;type:varchar(200)" json:"youtube"`
	AppleMusic  string     `gorm:"column:apple_music;type:varchar(200)" json:"apple_music"`
	Active      bool       `gorm:"column:active;not null;default:false" json:"active"`
	Featured    bool       `gorm:"column:featured;not null;default:false" json:"featured"`
	SortOrder   int        `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedByID *uint      `gorm:"column:created_by;index" json:"created_by"`
	Creator     *User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
	Members     []Member   `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Albums      []Album    `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE" json:"albums,omitempty"`
}

// TableName overrides default table name.
func (Artist) TableName() string {
	return "artists"
}

func (a *Artist) RecordID() uint      { return a.ID }
func (a *Artist) CreatorID() uint     { return creatorOf(a.CreatedByID) }
func (a *Artist) SetCreator(id uint)  { a.CreatedByID = ownerRef(id) }
func (a *Artist) Label() string       { return a.StageName }
func (a *Artist) SlugSource() string  { return a.StageName }
func (a *Artist) GetSlug() string     { return a.Slug }
func (a *Artist) SetSlug(slug string) { a.Slug = slug }
func (a *Artist) FileSlots() []string { return []string{SlotPhoto, SlotCover} }

func (a *Artist) File(slot string) string {
	switch slot {
	case SlotPhoto:
		return a.Photo
	case SlotCover:
		return a.CoverPhoto
	}
	return ""
}

func (a *Artist) SetFile(slot, name string) {
	switch slot {
	case SlotPhoto:
		a.Photo = name
	case SlotCover:
		a.CoverPhoto = name
	}
}

// Member 是乐队成员。
type Member struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ArtistID    uint       `gorm:"column:artist_id;index;not null" json:"artist_id"`
	FirstName   string     `gorm:"column:first_name;type:varchar(100);not null" json:"first_name"`
	LastName    string     `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	StageName   string     `gorm:"column:stage_name;type:varchar(100)" json:"stage_name"`
	Role        string     `gorm:"column:role;type:varchar(100)" json:"role"`
	Photo       string     `gorm:"column:photo;type:varchar(255)" json:"photo"`
	ShortBio    string     `gorm:"column:short_bio;type:text" json:"short_bio"`
	Active      bool       `gorm:"column:active;not null;default:false" json:"active"`
	JoinedAt    *time.Time `gorm:"column:joined_at;type:date" json:"joined_at"`
	LeftAt      *time.Time `gorm:"column:left_at;type:date" json:"left_at"`
	SortOrder   int        `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedByID *uint      `gorm:"column:created_by;index" json:"created_by"`
}

// TableName overrides default table name.
func (Member) TableName() string {
	return "artist_members"
}

func (m *Member) RecordID() uint      { return m.ID }
func (m *Member) CreatorID() uint     { return creatorOf(m.CreatedByID) }
func (m *Member) SetCreator(id uint)  { m.CreatedByID = ownerRef(id) }
func (m *Member) FileSlots() []string { return []string{SlotPhoto} }

// VisibleToAll reports whether the member is active.
func (m *Member) VisibleToAll(time.Time) bool { return m.Active }

func (m *Member) Label() string {
	if m.StageName != "" {
		return m.StageName
	}
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

func (m *Member) File(slot string) string {
	if slot == SlotPhoto {
		return m.Photo
	}
	return ""
}

func (m *Member) SetFile(slot, name string) {
	if slot == SlotPhoto {
		m.Photo = name
	}
}

// Validate checks the membership window.
func (m *Member) Validate() error {
	if m.JoinedAt != nil && m.LeftAt != nil && m.LeftAt.Before(*m.JoinedAt) {
		return Invalid("left_at", "must not be before joined_at")
	}
	return nil
}

type ArtistRequest struct {
	Name        string `json:"name" form:"name" binding:"required,max=100"`
	StageName   string `json:"stage_name" form:"stage_name" binding:"required,max=100"`
	Slug        string `json:"slug" form:"slug" binding:"max=150"`
	Biography   string `json:"biography" form:"biography"`
	IsBand      bool   `json:"is_band" form:"is_band"`
	Genre       string `json:"genre" form:"genre" binding:"max=50"`
	Country     string `json:"country" form:"country" binding:"max=50"`
	City        string `json:"city" form:"city" binding:"max=100"`
	FoundedYear *int   `json:"founded_year" form:"founded_year" binding:"omitempty,min=1900,max=2100"`
	BirthDate   string `json:"birth_date" form:"birth_date"`
	Website     string `json:"website" form:"website" binding:"omitempty,url,max=200"`
	Instagram   string `json:"instagram" form:"instagram" binding:"max=200"`
	Facebook    string `json:"facebook" form:"facebook" binding:"max=200"`
	Twitter     string `json:"twitter" form:"twitter" binding:"max=200"`
	Spotify     string `json:"spotify" form:"spotify" binding:"max=200"`
	YouTube     string `json:"youtube" form:"youtube" binding:"max=200"`
	AppleMusic  string `json:"apple_music" form:"apple_music" binding:"max=200"`
	Active      bool   `json:"active" form:"active"`
	Featured    bool   `json:"featured" form:"featured"`
	SortOrder   int    `json:"sort_order" form:"sort_order"`
}

// Apply copies the request onto an artist row.
func (r *ArtistRequest) Apply(a *Artist) error {
	birth, err := parseDate("birth_date", r.BirthDate)
	if err != nil {
		return err
	}
	a.Name = strings.TrimSpace(r.Name)
	a.StageName = strings.TrimSpace(r.StageName)
	a.Slug = strings.TrimSpace(r.Slug)
	a.Biography = r.Biography
	a.IsBand = r.IsBand
	a.Genre = strings.TrimSpace(r.Genre)
	a.Country = strings.TrimSpace(r.Country)
	a.City = strings.TrimSpace(r.City)
	a.FoundedYear = r.FoundedYear
	a.BirthDate = birth
	a.Website = strings.TrimSpace(r.Website)
	a.Instagram = strings.TrimSpace(r.Instagram)
	a.Facebook = strings.TrimSpace(r.Facebook)
	a.Twitter = strings.TrimSpace(r.Twitter)
	a.Spotify = strings.TrimSpace(r.Spotify)
	a.YouTube = strings.TrimSpace(r.YouTube)
	a.AppleMusic = strings.TrimSpace(r.AppleMusic)
	a.Active = r.Active
	a.Featured = r.Featured
	a.SortOrder = r.SortOrder
	return nil
}

type MemberRequest struct {
	FirstName string `json:"first_name" form:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" form:"last_name" binding:"max=100"`
	StageName string `json:"stage_name" form:"stage_name" binding:"max=100"`
	Role      string `json:"role" form:"role" binding:"max=100"`
	ShortBio  string `json:"short_bio" form:"short_bio"`
	Active    bool   `json:"active" form:"active"`
	JoinedAt  string `json:"joined_at" form:"joined_at"`
	LeftAt    string `json:"left_at" form:"left_at"`
	SortOrder int    `json:"sort_order" form:"sort_order"`
}

// Apply copies the request onto a member row.
func (r *MemberRequest) Apply(m *Member) error {
	joined, err := parseDate("joined_at", r.JoinedAt)
	if err != nil {
		return err
	}
	left, err := parseDate("left_at", r.LeftAt)
	if err != nil {
		return err
	}
	m.FirstName = strings.TrimSpace(r.FirstName)
	m.LastName = strings.TrimSpace(r.LastName)
	m.StageName = strings.TrimSpace(r.StageName)
	m.Role = strings.TrimSpace(r.Role)
	m.ShortBio = r.ShortBio
	m.Active = r.Active
	m.JoinedAt = joined
	m.LeftAt = left
	m.SortOrder = r.SortOrder
	return nil
}
