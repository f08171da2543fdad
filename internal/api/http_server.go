package api

import (
	"context"
	"strings"
	"time"

	"labelhub/internal/auth"
	"labelhub/internal/config"
	"labelhub/internal/model"
	"labelhub/internal/service"
	"labelhub/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	requestTimeout = 5 * time.Second
	uploadTimeout  = 30 * time.Second
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	storage           storage.Storage
	uploader          *storage.Uploader
	storagePublicBase string
	sessions          *auth.Manager

	// 服务层
	services *service.Services
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	sessions, err := auth.NewManager(cfg.SecretKey, cfg.SessionIssuer, expiry)
	if err != nil {
		return nil, err
	}

	publicBase := normalisePublicBase(cfg.StoragePublicBaseURL)
	uploader := storage.NewUploader(store, cfg.AllowedImageExtensions, cfg.AllowedDocumentExtensions, cfg.MaxUploadBytes)
	services := service.New(repo, service.Options{
		Sessions:      sessions,
		Uploader:      uploader,
		Paging:        service.Paging{Default: cfg.DefaultPageSize, Max: cfg.MaxPageSize},
		PublicBaseURL: publicBase,
	})

	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		uploader:          uploader,
		storagePublicBase: publicBase,
		sessions:          sessions,
		services:          services,
	}, nil
}

// Services 返回服务层，供命令行复用
func (h *HTTPHandler) Services() *service.Services {
	return h.services
}

// normalisePublicBase 规范化公共 URL 基础路径
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func uploadContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), uploadTimeout)
}
