package entity

import (
	"strings"
	"time"
)

// Currencies lists the accepted price currencies.
var Currencies = []string{"EUR", "USD", "GBP"}

// Service 是厂牌对外提供的服务（制作、发行、推广等）。
type Service struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Name             string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Description      string    `gorm:"column:description;type:text" json:"description"`
	ShortDescription string    `gorm:"column:short_description;type:varchar(255)" json:"short_description"`
	Category         string    `gorm:"column:category;type:varchar(50);index" json:"category"`
	Price            *float64  `gorm:"column:price;type:decimal(10,2)" json:"price"`
	Currency         string    `gorm:"column:currency;type:varchar(3);not null;default:EUR" json:"currency"`
	Duration         string    `gorm:"column:duration;type:varchar(50)" json:"duration"`
	Icon             string    `gorm:"column:icon;type:varchar(50)" json:"icon"`
	Photo            string    `gorm:"column:photo;type:varchar(255)" json:"photo"`
	Active           bool      `gorm:"column:active;index;not null;default:false" json:"active"`
	Featured         bool      `gorm:"column:featured;not null;default:false" json:"featured"`
	SortOrder        int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedByID      *uint     `gorm:"column:created_by;index" json:"created_by"`
	Creator          *User     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName overrides default table name.
func (Service) TableName() string {
	return "services"
}

func (s *Service) RecordID() uint      { return s.ID }
func (s *Service) CreatorID() uint     { return creatorOf(s.CreatedByID) }
func (s *Service) SetCreator(id uint)  { s.CreatedByID = ownerRef(id) }
func (s *Service) Label() string       { return s.Name }
func (s *Service) FileSlots() []string { return []string{SlotPhoto} }

// VisibleToAll reports whether the service is offered.
func (s *Service) VisibleToAll(time.Time) bool { return s.Active }

func (s *Service) File(slot string) string {
	if slot == SlotPhoto {
		return s.Photo
	}
	return ""
}

func (s *Service) SetFile(slot, name string) {
	if slot == SlotPhoto {
		s.Photo = name
	}
}

type ServiceRequest struct {
	Name             string   `json:"name" form:"name" binding:"required,max=100"`
	Description      string   `json:"description" form:"description"`
	ShortDescription string   `json:"short_description" form:"short_description" binding:"max=255"`
	Category         string   `json:"category" form:"category" binding:"max=50"`
	Price            *float64 `json:"price" form:"price" binding:"omitempty,min=0"`
	Currency         string   `json:"currency" form:"currency" binding:"omitempty,oneof=EUR USD GBP"`
	Duration         string   `json:"duration" form:"duration" binding:"max=50"`
	Icon             string   `json:"icon" form:"icon" binding:"max=50"`
	Active           bool     `json:"active" form:"active"`
	Featured         bool     `json:"featured" form:"featured"`
	SortOrder        int      `json:"sort_order" form:"sort_order"`
}

// Apply copies the request onto a service row.
func (r *ServiceRequest) Apply(s *Service) error {
	s.Name = strings.TrimSpace(r.Name)
	s.Description = r.Description
	s.ShortDescription = strings.TrimSpace(r.ShortDescription)
	s.Category = strings.TrimSpace(r.Category)
	s.Price = r.Price
	s.Currency = r.Currency
	if s.Currency == "" {
		s.Currency = "EUR"
	}
	s.Duration = strings.TrimSpace(r.Duration)
	s.Icon = strings.TrimSpace(r.Icon)
	s.Active = r.Active
	s.Featured = r.Featured
	s.SortOrder = r.SortOrder
	return nil
}
