package entity

import (
	"strings"
	"time"
)

// StaffMember 是厂牌员工档案。
type StaffMember struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	FirstName   string     `gorm:"column:first_name;type:varchar(100);not null" json:"first_name"`
	LastName    string     `gorm:"column:last_name;type:varchar(100);not null" json:"last_name"`
	JobTitle    string     `gorm:"column:job_title;type:varchar(100);not null" json:"job_title"`
	Email       *string    `gorm:"column:email;type:varchar(120);uniqueIndex" json:"email"`
	Phone       string     `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Photo       string     `gorm:"column:photo;type:varchar(255)" json:"photo"`
	Biography   string     `gorm:"column:biography;type:text" json:"biography"`
	Department  string     `gorm:"column:department;type:varchar(50);index" json:"department"`
	HiredAt     *time.Time `gorm:"column:hired_at;type:date" json:"hired_at"`
	Active      bool       `gorm:"column:active;index;not null;default:false" json:"active"`
	CreatedByID *uint      `gorm:"column:created_by;index" json:"created_by"`
	Creator     *User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName overrides default table name.
func (StaffMember) TableName() string {
	return "staff"
}

func (s *StaffMember) RecordID() uint      { return s.ID }
func (s *StaffMember) CreatorID() uint     { return creatorOf(s.CreatedByID) }
func (s *StaffMember) SetCreator(id uint)  { s.CreatedByID = ownerRef(id) }
func (s *StaffMember) Label() string       { return strings.TrimSpace(s.FirstName + " " + s.LastName) }
func (s *StaffMember) FileSlots() []string { return []string{SlotPhoto} }

// VisibleToAll reports whether the staff profile is active.
func (s *StaffMember) VisibleToAll(time.Time) bool { return s.Active }

func (s *StaffMember) File(slot string) string {
	if slot == SlotPhoto {
		return s.Photo
	}
	return ""
}

func (s *StaffMember) SetFile(slot, name string) {
	if slot == SlotPhoto {
		s.Photo = name
	}
}

type StaffRequest struct {
	FirstName  string `json:"first_name" form:"first_name" binding:"required,max=100"`
	LastName   string `json:"last_name" form:"last_name" binding:"required,max=100"`
	JobTitle   string `json:"job_title" form:"job_title" binding:"required,max=100"`
	Email      string `json:"email" form:"email" binding:"omitempty,email,max=120"`
	Phone      string `json:"phone" form:"phone" binding:"max=20"`
	Biography  string `json:"biography" form:"biography"`
	Department string `json:"department" form:"department" binding:"max=50"`
	HiredAt    string `json:"hired_at" form:"hired_at"`
	Active     bool   `json:"active" form:"active"`
}

// Apply copies the request onto a staff row.
func (r *StaffRequest) Apply(s *StaffMember) error {
	hired, err := parseDate("hired_at", r.HiredAt)
	if err != nil {
		return err
	}
	s.FirstName = strings.TrimSpace(r.FirstName)
	s.LastName = strings.TrimSpace(r.LastName)
	s.JobTitle = strings.TrimSpace(r.JobTitle)
	s.Email = optionalString(strings.ToLower(r.Email))
	s.Phone = strings.TrimSpace(r.Phone)
	s.Biography = r.Biography
	s.Department = strings.TrimSpace(r.Department)
	s.HiredAt = hired
	s.Active = r.Active
	return nil
}
