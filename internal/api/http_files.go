package api

import (
	"strings"

	"labelhub/internal/storage"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) publicURL(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return storage.PublicURL(h.storagePublicBase, strings.TrimLeft(trimmed, "/"))
}

// mountFiles 在本地存储时挂载静态文件目录
func (h *HTTPHandler) mountFiles(r gin.IRoutes) {
	localProvider, ok := h.storage.(storage.LocalBaseDirProvider)
	if !ok {
		return
	}
	prefix := h.storagePublicBase
	if strings.HasPrefix(prefix, "http://") || strings.HasPrefix(prefix, "https://") {
		return
	}
	r.Static(prefix, localProvider.LocalBaseDir())
}
