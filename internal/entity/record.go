package entity

import "time"

// 上传文件槽位
const (
	SlotPhoto = "photo"
	SlotCover = "cover"
	SlotImage = "image"
	SlotFile  = "file"
)

// Record 由所有可被 CRUD 服务管理的实体实现。
type Record interface {
	RecordID() uint
	CreatorID() uint
	SetCreator(id uint)
	Label() string
}

// Sluggable 由带有唯一 slug 的实体实现。
type Sluggable interface {
	SlugSource() string
	GetSlug() string
	SetSlug(slug string)
}

// FileHolder 由引用上传文件的实体实现。
type FileHolder interface {
	FileSlots() []string
	File(slot string) string
	SetFile(slot, name string)
}

// FileMetadataHolder 记录上传文件的大小和 MIME 类型。
type FileMetadataHolder interface {
	SetFileMetadata(originalName string, size int64, mimeType string)
}

// PublicVisible 由可以对非所有者公开的实体实现。
type PublicVisible interface {
	VisibleToAll(now time.Time) bool
}

// Validator 在持久化前执行跨字段校验。
type Validator interface {
	Validate() error
}

func creatorOf(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}

func ownerRef(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

// ArtistLinker 由带有联合署名艺人（多对多）的实体实现。
type ArtistLinker interface {
	LinkedArtistIDs() []uint
}
