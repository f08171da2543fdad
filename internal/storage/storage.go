package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"labelhub/internal/config"
)

const (
	// TypeLocal 表示本地文件系统存储。
	TypeLocal = "local"
	// TypeS3 表示 Amazon S3 或兼容的存储后端。
	TypeS3 = "s3"
	// TypeOSS 表示阿里云 OSS 存储。
	TypeOSS = "oss"
	// TypeCOS 表示腾讯云 COS 存储。
	TypeCOS = "cos"
	// TypeR2 表示 Cloudflare R2 存储。
	TypeR2 = "r2"
)

var (
	// ErrObjectNotFound 表示存储中不存在该对象。
	ErrObjectNotFound = errors.New("storage: object not found")
	// ErrInvalidKey 表示对象名不是扁平命名空间中的合法文件名。
	ErrInvalidKey = errors.New("storage: invalid object key")
)

// SaveOptions 控制存储后端如何持久化文件。
//
// 所有文件都保存在同一扁平命名空间中，对象名为 BaseName.Extension（扩展名不含前导点）。
// BaseName 为空时由存储实现生成随机名称；ContentType 为空时按扩展名推断。
type SaveOptions struct {
	Extension   string
	BaseName    string
	ContentType string
}

// Storage 持久化二进制数据并返回对象名；远端存储的前缀不包含在返回值中。
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete 删除对象；对象不存在时不返回错误。
	Delete(ctx context.Context, key string) error
}

// LocalBaseDirProvider 由暴露可通过 HTTP 直接提供服务的本地目录的存储驱动实现。
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage 根据配置实例化存储后端。
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
