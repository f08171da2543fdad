package entity

import (
	"strings"
	"time"
)

// 新闻类型
const (
	NewsKindInternal = "internal"
	NewsKindExternal = "external"
)

// News 是厂牌新闻稿，可定时发布。
type News struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Title     string      `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Slug      string      `gorm:"column:slug;type:varchar(255);uniqueIndex;not null" json:"slug"`
	Body      string      `gorm:"column:body;type:text;not null" json:"body"`
	Excerpt   string      `gorm:"column:excerpt;type:varchar(500)" json:"excerpt"`
	Image     string      `gorm:"column:image;type:varchar(255)" json:"image"`
	Category  string      `gorm:"column:category;type:varchar(50);index" json:"category"`
	Kind      string      `gorm:"column:kind;type:varchar(20);not null;default:internal" json:"kind"`
	Tags      StringArray `gorm:"column:tags;type:text" json:"tags"`
	Published bool        `gorm:"column:published;index;not null;default:false" json:"published"`
	PublishAt *time.Time  `gorm:"column:publish_at" json:"publish_at"`
	Views     int64       `gorm:"column:views;not null;default:0" json:"views"`
	Featured  bool        `gorm:"column:featured;not null;default:false" json:"featured"`
	AuthorID  *uint       `gorm:"column:author_id;index" json:"author_id"`
	Author    *User       `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName overrides default table name.
func (News) TableName() string {
	return "news"
}

func (n *News) RecordID() uint      { return n.ID }
func (n *News) CreatorID() uint     { return creatorOf(n.AuthorID) }
func (n *News) SetCreator(id uint)  { n.AuthorID = ownerRef(id) }
func (n *News) Label() string       { return n.Title }
func (n *News) SlugSource() string  { return n.Title }
func (n *News) GetSlug() string     { return n.Slug }
func (n *News) SetSlug(slug string) { n.Slug = slug }
func (n *News) FileSlots() []string { return []string{SlotImage} }

func (n *News) File(slot string) string {
	if slot == SlotImage {
		return n.Image
	}
	return ""
}

func (n *News) SetFile(slot, name string) {
	if slot == SlotImage {
		n.Image = name
	}
}

// VisibleToAll reports whether the news item is published and its publish time reached.
func (n *News) VisibleToAll(now time.Time) bool {
	if !n.Published {
		return false
	}
	return n.PublishAt == nil || !n.PublishAt.After(now)
}

// Publish marks the item published, keeping an already scheduled publish time.
func (n *News) Publish(now time.Time) {
	n.Published = true
	if n.PublishAt == nil {
		at := now.UTC()
		n.PublishAt = &at
	}
}

type NewsRequest struct {
	Title     string `json:"title" form:"title" binding:"required,max=200"`
	Slug      string `json:"slug" form:"slug" binding:"max=255"`
	Body      string `json:"body" form:"body" binding:"required"`
	Excerpt   string `json:"excerpt" form:"excerpt" binding:"max=500"`
	Category  string `json:"category" form:"category" binding:"max=50"`
	Kind      string `json:"kind" form:"kind" binding:"omitempty,oneof=internal external"`
	Tags      string `json:"tags" form:"tags"`
	Published bool   `json:"published" form:"published"`
	PublishAt string `json:"publish_at" form:"publish_at"`
	Featured  bool   `json:"featured" form:"featured"`
}

// Apply copies the request onto a news row.
func (r *NewsRequest) Apply(n *News) error {
	publishAt, err := parseDateTime("publish_at", r.PublishAt)
	if err != nil {
		return err
	}
	n.Title = strings.TrimSpace(r.Title)
	n.Slug = strings.TrimSpace(r.Slug)
	n.Body = r.Body
	n.Excerpt = strings.TrimSpace(r.Excerpt)
	n.Category = strings.TrimSpace(r.Category)
	n.Kind = r.Kind
	if n.Kind == "" {
		n.Kind = NewsKindInternal
	}
	n.Tags = SplitTags(r.Tags)
	if publishAt == nil && r.Published {
		publishAt = n.PublishAt
	}
	n.Published = r.Published
	n.PublishAt = publishAt
	if n.Published && n.PublishAt == nil {
		n.Publish(time.Now())
	}
	n.Featured = r.Featured
	return nil
}
