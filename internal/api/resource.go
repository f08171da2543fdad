package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"labelhub/internal/auth"
	"labelhub/internal/entity"
	"labelhub/internal/service"
	"labelhub/internal/storage"

	"github.com/gin-gonic/gin"
)

// formRequest 是可以绑定并写回实体的请求结构
type formRequest[T any, R any] interface {
	*R
	Apply(item *T) error
}

// resource 为一个内容模块提供列表、表单、创建、详情、更新和删除接口
type resource[T any, R any, PR formRequest[T, R]] struct {
	h     *HTTPHandler
	path  string
	title string
	svc   *service.ContentService[T]
	enums gin.H
	// view 替换详情加载，例如新闻浏览计数
	view func(ctx context.Context, p *auth.Principal, id uint) (*T, error)
}

func newResource[T any, R any, PR formRequest[T, R]](h *HTTPHandler, path, title string, svc *service.ContentService[T], enums gin.H) *resource[T, R, PR] {
	return &resource[T, R, PR]{h: h, path: path, title: title, svc: svc, enums: enums}
}

// register 挂载路由并返回模块路由组
func (r *resource[T, R, PR]) register(parent *gin.RouterGroup) *gin.RouterGroup {
	group := parent.Group("/" + r.path)
	group.GET("", r.list)
	group.GET("/new", r.newForm)
	group.POST("/new", r.create)
	group.GET("/:id", r.detail)
	group.GET("/:id/edit", r.editForm)
	group.POST("/:id/edit", r.update)
	group.POST("/:id/delete", r.remove)
	return group
}

func (r *resource[T, R, PR]) url(id uint, suffix string) string {
	if id == 0 {
		return "/" + r.path + suffix
	}
	return fmt.Sprintf("/%s/%d%s", r.path, id, suffix)
}

func (r *resource[T, R, PR]) list(c *gin.Context) {
	var query entity.ContentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c, err)
		return
	}
	query.Filters = queryFilters(c, r.svc.Module())

	ctx, cancel := requestContext(c)
	defer cancel()

	items, meta, err := r.svc.List(ctx, CurrentPrincipal(c), query)
	if err != nil {
		respondError(c, err, "/dashboard")
		return
	}
	files := make([]map[string]string, 0, len(items))
	for idx := range items {
		files = append(files, r.h.fileURLs(&items[idx]))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "files": files, "meta": meta})
}

func (r *resource[T, R, PR]) newForm(c *gin.Context) {
	code := r.svc.Module().Permission(auth.ActionCreate)
	if !CurrentPrincipal(c).HasPermission(code) {
		respondError(c, fmt.Errorf("%w: missing permission %s", service.ErrForbidden, code), r.url(0, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": r.h.formMeta(r.svc.Module(), r.enums)})
}

func (r *resource[T, R, PR]) create(c *gin.Context) {
	redirect := r.url(0, "/new")
	req := PR(new(R))
	if err := c.ShouldBind(req); err != nil {
		respondError(c, bindingError(err), redirect)
		return
	}
	files, err := r.h.readUploads(c, r.svc.Module().Uploads)
	if err != nil {
		respondError(c, err, redirect)
		return
	}

	ctx, cancel := uploadContext(c)
	defer cancel()

	item, err := r.svc.Create(ctx, CurrentPrincipal(c), req.Apply, files)
	if err != nil {
		respondError(c, err, redirect)
		return
	}
	rec := any(item).(entity.Record)
	c.JSON(http.StatusCreated, gin.H{
		"item":     item,
		"files":    r.h.fileURLs(item),
		"flash":    successFlash(fmt.Sprintf("%s %q created.", r.title, rec.Label())),
		"redirect": r.url(rec.RecordID(), ""),
	})
}

func (r *resource[T, R, PR]) load(c *gin.Context, id uint) (*T, error) {
	ctx, cancel := requestContext(c)
	defer cancel()
	if r.view != nil {
		return r.view(ctx, CurrentPrincipal(c), id)
	}
	return r.svc.Get(ctx, CurrentPrincipal(c), id)
}

func (r *resource[T, R, PR]) detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := r.load(c, id)
	if err != nil {
		respondError(c, err, r.url(0, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "files": r.h.fileURLs(item)})
}

func (r *resource[T, R, PR]) editForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := r.svc.Get(ctx, CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err, r.url(0, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":  item,
		"files": r.h.fileURLs(item),
		"form":  r.h.formMeta(r.svc.Module(), r.enums),
	})
}

func (r *resource[T, R, PR]) update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	redirect := r.url(id, "/edit")
	req := PR(new(R))
	if err := c.ShouldBind(req); err != nil {
		respondError(c, bindingError(err), redirect)
		return
	}
	files, err := r.h.readUploads(c, r.svc.Module().Uploads)
	if err != nil {
		respondError(c, err, redirect)
		return
	}

	ctx, cancel := uploadContext(c)
	defer cancel()

	item, err := r.svc.Update(ctx, CurrentPrincipal(c), id, req.Apply, files)
	if err != nil {
		respondError(c, err, redirect)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":     item,
		"files":    r.h.fileURLs(item),
		"flash":    successFlash(fmt.Sprintf("%s %q updated.", r.title, any(item).(entity.Record).Label())),
		"redirect": r.url(id, ""),
	})
}

func (r *resource[T, R, PR]) remove(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := r.svc.Delete(ctx, CurrentPrincipal(c), id); err != nil {
		respondError(c, err, r.url(id, ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"flash":    successFlash(fmt.Sprintf("%s deleted.", r.title)),
		"redirect": r.url(0, ""),
	})
}

// parseID 解析路径中的正整数 ID，失败时写出 400
func parseID(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || value == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

func bindingError(err error) error {
	return &service.ValidationError{Message: err.Error()}
}

// queryFilters 只保留模块声明过的过滤参数
func queryFilters(c *gin.Context, module service.Module) map[string]interface{} {
	filters := make(map[string]interface{}, len(module.Filters))
	for column := range module.Filters {
		if value, ok := c.GetQuery(column); ok {
			filters[column] = value
		}
	}
	return filters
}

// formMeta 描述表单的上传槽位和枚举值
func (h *HTTPHandler) formMeta(module service.Module, enums gin.H) gin.H {
	uploads := make(gin.H, len(module.Uploads))
	for slot, kind := range module.Uploads {
		uploads[slot] = gin.H{"kind": kind, "extensions": h.uploader.Allowed(kind)}
	}
	if enums == nil {
		enums = gin.H{}
	}
	return gin.H{
		"module":           module.Name,
		"uploads":          uploads,
		"max_upload_bytes": h.uploader.MaxBytes(),
		"enums":            enums,
	}
}

// fileURLs 返回图片槽位的公开地址；文档只能通过下载接口获取
func (h *HTTPHandler) fileURLs(item interface{}) map[string]string {
	urls := map[string]string{}
	holder, ok := item.(entity.FileHolder)
	if !ok {
		return urls
	}
	for _, slot := range holder.FileSlots() {
		if slot == entity.SlotFile {
			continue
		}
		if name := holder.File(slot); name != "" {
			urls[slot] = h.publicURL(name)
		}
	}
	return urls
}

// readUploads 读取 multipart 请求中属于模块槽位的文件
func (h *HTTPHandler) readUploads(c *gin.Context, slots map[string]storage.Kind) (map[string]storage.Upload, error) {
	if len(slots) == 0 || !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, &service.ValidationError{Message: "invalid multipart form"}
	}

	maxBytes := h.uploader.MaxBytes()
	uploads := make(map[string]storage.Upload, len(slots))
	for slot := range slots {
		headers := form.File[slot]
		if len(headers) == 0 || strings.TrimSpace(headers[0].Filename) == "" {
			continue
		}
		header := headers[0]
		if maxBytes > 0 && header.Size > maxBytes {
			return nil, &service.ValidationError{Field: slot, Message: fmt.Sprintf("file exceeds %d bytes", maxBytes)}
		}
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", slot, err)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", slot, err)
		}
		uploads[slot] = storage.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}
	return uploads, nil
}
