package entity

import (
	"strings"
	"time"
)

// 文档可见性
const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// Document 是上传的内部文档（合同、发票、报告等）。
type Document struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Title        string    `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	Kind         string    `gorm:"column:kind;type:varchar(50);index" json:"kind"`
	FileName     string    `gorm:"column:file_name;type:varchar(255);not null" json:"file_name"`
	OriginalName string    `gorm:"column:original_name;type:varchar(255)" json:"original_name"`
	Size         int64     `gorm:"column:size;not null;default:0" json:"size"`
	MIMEType     string    `gorm:"column:mime_type;type:varchar(100)" json:"mime_type"`
	Visibility   string    `gorm:"column:visibility;type:varchar(20);not null;default:private" json:"visibility"`
	UploadedByID *uint     `gorm:"column:uploaded_by;index" json:"uploaded_by"`
	Uploader     *User     `gorm:"foreignKey:UploadedByID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName overrides default table name.
func (Document) TableName() string {
	return "documents"
}

func (d *Document) RecordID() uint      { return d.ID }
func (d *Document) CreatorID() uint     { return creatorOf(d.UploadedByID) }
func (d *Document) SetCreator(id uint)  { d.UploadedByID = ownerRef(id) }
func (d *Document) Label() string       { return d.Title }
func (d *Document) FileSlots() []string { return []string{SlotFile} }

func (d *Document) File(slot string) string {
	if slot == SlotFile {
		return d.FileName
	}
	return ""
}

func (d *Document) SetFile(slot, name string) {
	if slot == SlotFile {
		d.FileName = name
	}
}

// SetFileMetadata records what the uploader reported about the stored file.
func (d *Document) SetFileMetadata(originalName string, size int64, mimeType string) {
	d.OriginalName = originalName
	d.Size = size
	d.MIMEType = mimeType
}

// VisibleToAll reports whether the document is public.
func (d *Document) VisibleToAll(time.Time) bool { return d.Visibility == VisibilityPublic }

// Validate requires a stored file.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.FileName) == "" {
		return Invalid(SlotFile, "is required")
	}
	return nil
}

type DocumentRequest struct {
	Title       string `json:"title" form:"title" binding:"required,max=200"`
	Description string `json:"description" form:"description"`
	Kind        string `json:"kind" form:"kind" binding:"max=50"`
	Visibility  string `json:"visibility" form:"visibility" binding:"omitempty,oneof=private public"`
}

// Apply copies the request onto a document row.
func (r *DocumentRequest) Apply(d *Document) error {
	d.Title = strings.TrimSpace(r.Title)
	d.Description = r.Description
	d.Kind = strings.TrimSpace(r.Kind)
	d.Visibility = r.Visibility
	if d.Visibility == "" {
		d.Visibility = VisibilityPrivate
	}
	return nil
}
