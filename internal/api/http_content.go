package api

import (
	"fmt"
	"mime"
	"net/http"

	"labelhub/internal/entity"

	"github.com/gin-gonic/gin"
)

// PublishNews 发布新闻，已设定的发布时间保持不变
func (h *HTTPHandler) PublishNews(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := h.services.News.Publish(ctx, CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err, fmt.Sprintf("/news/%d", id))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":     item,
		"flash":    successFlash(fmt.Sprintf("News %q published.", item.Title)),
		"redirect": fmt.Sprintf("/news/%d", id),
	})
}

// DownloadDocument 以附件形式返回文档
func (h *HTTPHandler) DownloadDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := uploadContext(c)
	defer cancel()

	doc, reader, err := h.services.Documents.Open(ctx, CurrentPrincipal(c), id, entity.SlotFile)
	if err != nil {
		respondError(c, err, fmt.Sprintf("/documents/%d", id))
		return
	}
	defer reader.Close()

	filename := doc.OriginalName
	if filename == "" {
		filename = doc.FileName
	}
	contentType := doc.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	c.DataFromReader(http.StatusOK, doc.Size, contentType, reader, map[string]string{
		"Content-Disposition": disposition,
	})
}

// Dashboard 返回统计数据
func (h *HTTPHandler) Dashboard(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.services.Dashboard.Stats(ctx, CurrentPrincipal(c))
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Gallery 返回所有已上传图片
func (h *HTTPHandler) Gallery(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	images, err := h.services.Dashboard.Gallery(ctx, CurrentPrincipal(c))
	if err != nil {
		respondError(c, err, "/dashboard")
		return
	}
	c.JSON(http.StatusOK, images)
}
