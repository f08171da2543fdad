package entity

import (
	"strings"
	"time"
)

// 活动类型与状态
const (
	EventTypeConcert     = "concert"
	EventTypeFestival    = "festival"
	EventTypeShowcase    = "showcase"
	EventTypeDJSet       = "dj_set"
	EventTypeLiveSession = "live_session"
	EventTypeOther       = "other"

	EventStatusScheduled = "scheduled"
	EventStatusConfirmed = "confirmed"
	EventStatusCancelled = "cancelled"
	EventStatusPostponed = "postponed"
	EventStatusConcluded = "concluded"
)

var (
	EventTypes    = []string{EventTypeConcert, EventTypeFestival, EventTypeShowcase, EventTypeDJSet, EventTypeLiveSession, EventTypeOther}
	EventStatuses = []string{EventStatusScheduled, EventStatusConfirmed, EventStatusCancelled, EventStatusPostponed, EventStatusConcluded}
)

// Event 是艺人的演出或活动。
type Event struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ArtistID    uint       `gorm:"column:artist_id;index;not null" json:"artist_id"`
	Artist      *Artist    `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE" json:"artist,omitempty"`
	Title       string     `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Slug        string     `gorm:"column:slug;type:varchar(255);uniqueIndex;not null" json:"slug"`
	Type        string     `gorm:"column:type;type:varchar(20);not null;default:concert" json:"type"`
	Status      string     `gorm:"column:status;type:varchar(20);index;not null;default:scheduled" json:"status"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Image       string     `gorm:"column:image;type:varchar(255)" json:"image"`
	StartsAt    time.Time  `gorm:"column:starts_at;index;not null" json:"starts_at"`
	EndsAt      *time.Time `gorm:"column:ends_at" json:"ends_at"`
	Venue       string     `gorm:"column:venue;type:varchar(200)" json:"venue"`
	Address     string     `gorm:"column:address;type:varchar(300)" json:"address"`
	City        string     `gorm:"column:city;type:varchar(100);not null" json:"city"`
	Country     string     `gorm:"column:country;type:varchar(50);default:Italia" json:"country"`
	GPS         string     `gorm:"column:gps;type:varchar(50)" json:"gps"`
	TicketURL   string     `gorm:"column:ticket_url;type:varchar(255)" json:"ticket_url"`
	PriceFrom   *float64   `gorm:"column:price_from;type:decimal(10,2)" json:"price_from"`
	PriceTo     *float64   `gorm:"column:price_to;type:decimal(10,2)" json:"price_to"`
	SoldOut     bool       `gorm:"column:sold_out;not null;default:false" json:"sold_out"`
	Notes       string     `gorm:"column:notes;type:text" json:"notes"`
	Published   bool       `gorm:"column:published;not null;default:false" json:"published"`
	Featured    bool       `gorm:"column:featured;not null;default:false" json:"featured"`
	CreatedByID *uint      `gorm:"column:created_by;index" json:"created_by"`
	Creator     *User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName overrides default table name.
func (Event) TableName() string {
	return "events"
}

func (e *Event) RecordID() uint      { return e.ID }
func (e *Event) CreatorID() uint     { return creatorOf(e.CreatedByID) }
func (e *Event) SetCreator(id uint)  { e.CreatedByID = ownerRef(id) }
func (e *Event) Label() string       { return e.Title }
func (e *Event) SlugSource() string  { return e.Title }
func (e *Event) GetSlug() string     { return e.Slug }
func (e *Event) SetSlug(slug string) { e.Slug = slug }
func (e *Event) FileSlots() []string { return []string{SlotImage} }

func (e *Event) File(slot string) string {
	if slot == SlotImage {
		return e.Image
	}
	return ""
}

func (e *Event) SetFile(slot, name string) {
	if slot == SlotImage {
		e.Image = name
	}
}

// VisibleToAll reports whether the event is published.
func (e *Event) VisibleToAll(time.Time) bool { return e.Published }

// Validate checks the date window and price range.
func (e *Event) Validate() error {
	if e.ArtistID == 0 {
		return Invalid("artist_id", "is required")
	}
	if e.StartsAt.IsZero() {
		return Invalid("starts_at", "is required")
	}
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		return Invalid("ends_at", "must not be before starts_at")
	}
	if e.PriceFrom != nil && *e.PriceFrom < 0 {
		return Invalid("price_from", "must not be negative")
	}
	if e.PriceFrom != nil && e.PriceTo != nil && *e.PriceTo < *e.PriceFrom {
		return Invalid("price_to", "must not be lower than price_from")
	}
	return nil
}

type EventRequest struct {
	ArtistID    uint     `json:"artist_id" form:"artist_id" binding:"required"`
	Title       string   `json:"title" form:"title" binding:"required,max=200"`
	Slug        string   `json:"slug" form:"slug" binding:"max=255"`
	Type        string   `json:"type" form:"type" binding:"omitempty,oneof=concert festival showcase dj_set live_session other"`
	Status      string   `json:"status" form:"status" binding:"omitempty,oneof=scheduled confirmed cancelled postponed concluded"`
	Description string   `json:"description" form:"description"`
	StartsAt    string   `json:"starts_at" form:"starts_at" binding:"required"`
	EndsAt      string   `json:"ends_at" form:"ends_at"`
	Venue       string   `json:"venue" form:"venue" binding:"max=200"`
	Address     string   `json:"address" form:"address" binding:"max=300"`
	City        string   `json:"city" form:"city" binding:"required,max=100"`
	Country     string   `json:"country" form:"country" binding:"max=50"`
	GPS         string   `json:"gps" form:"gps" binding:"max=50"`
	TicketURL   string   `json:"ticket_url" form:"ticket_url" binding:"max=255"`
	PriceFrom   *float64 `json:"price_from" form:"price_from"`
	PriceTo     *float64 `json:"price_to" form:"price_to"`
	SoldOut     bool     `json:"sold_out" form:"sold_out"`
	Notes       string   `json:"notes" form:"notes"`
	Published   bool     `json:"published" form:"published"`
	Featured    bool     `json:"featured" form:"featured"`
}

// Apply copies the request onto an event row.
func (r *EventRequest) Apply(e *Event) error {
	starts, err := parseDateTime("starts_at", r.StartsAt)
	if err != nil {
		return err
	}
	if starts == nil {
		return Invalid("starts_at", "is required")
	}
	ends, err := parseDateTime("ends_at", r.EndsAt)
	if err != nil {
		return err
	}
	e.ArtistID = r.ArtistID
	e.Artist = nil
	e.Title = strings.TrimSpace(r.Title)
	e.Slug = strings.TrimSpace(r.Slug)
	e.Type = r.Type
	if e.Type == "" {
		e.Type = EventTypeConcert
	}
	e.Status = r.Status
	if e.Status == "" {
		e.Status = EventStatusScheduled
	}
	e.Description = r.Description
	e.StartsAt = *starts
	e.EndsAt = ends
	e.Venue = strings.TrimSpace(r.Venue)
	e.Address = strings.TrimSpace(r.Address)
	e.City = strings.TrimSpace(r.City)
	e.Country = strings.TrimSpace(r.Country)
	if e.Country == "" {
		e.Country = "Italia"
	}
	e.GPS = strings.TrimSpace(r.GPS)
	e.TicketURL = strings.TrimSpace(r.TicketURL)
	e.PriceFrom = r.PriceFrom
	e.PriceTo = r.PriceTo
	e.SoldOut = r.SoldOut
	e.Notes = r.Notes
	e.Published = r.Published
	e.Featured = r.Featured
	return nil
}
