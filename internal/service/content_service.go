package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"labelhub/internal/auth"
	"labelhub/internal/entity"
	"labelhub/internal/model"
	"labelhub/internal/slug"
	"labelhub/internal/storage"

	"github.com/sirupsen/logrus"
)

const slugAttempts = 5

// Paging bounds list page sizes.
type Paging struct {
	Default int
	Max     int
}

// Hooks customise a ContentService for one entity family.
type Hooks[T any] struct {
	// BeforeSave runs after the caller's changes are applied on create and update.
	BeforeSave func(item *T)
}

// ContentService implements list, detail, create, update and delete for one
// content module, with ownership checks, slugs and file uploads.
type ContentService[T any] struct {
	module   Module
	store    model.ContentStore[T]
	uploader *storage.Uploader
	paging   Paging
	hooks    Hooks[T]
	now      func() time.Time
}

// NewContentService creates a service for module backed by store. T must
// implement entity.Record through its pointer type.
func NewContentService[T any](module Module, store model.ContentStore[T], uploader *storage.Uploader, paging Paging) *ContentService[T] {
	if _, ok := any(new(T)).(entity.Record); !ok {
		panic(fmt.Sprintf("service: %T does not implement entity.Record", new(T)))
	}
	if paging.Default <= 0 {
		paging.Default = 12
	}
	if paging.Max < paging.Default {
		paging.Max = paging.Default
	}
	return &ContentService[T]{
		module:   module,
		store:    store,
		uploader: uploader,
		paging:   paging,
		now:      time.Now,
	}
}

// WithHooks sets the entity hooks and returns the service.
func (s *ContentService[T]) WithHooks(hooks Hooks[T]) *ContentService[T] {
	s.hooks = hooks
	return s
}

// Module returns the module descriptor.
func (s *ContentService[T]) Module() Module {
	return s.module
}

// Uploader returns the uploader used for file slots.
func (s *ContentService[T]) Uploader() *storage.Uploader {
	return s.uploader
}

func record[T any](item *T) entity.Record {
	return any(item).(entity.Record)
}

// require checks the module permission for op.
func (s *ContentService[T]) require(p *auth.Principal, op string) error {
	return requirePermission(p, s.module.Permission(op))
}

// visible reports whether p may see item.
func (s *ContentService[T]) visible(p *auth.Principal, item *T) bool {
	if p.Elevated(s.module.Name) || p.Owns(record(item).CreatorID()) {
		return true
	}
	if public, ok := any(item).(entity.PublicVisible); ok {
		return public.VisibleToAll(s.now())
	}
	return false
}

// authorize checks an update against a loaded row: the module permission or ownership.
func (s *ContentService[T]) authorize(p *auth.Principal, op string, item *T) error {
	if p.HasPermission(s.module.Permission(op)) || p.Owns(record(item).CreatorID()) {
		return nil
	}
	return forbidden("%s on %s #%d requires %s or ownership", op, s.module.Name, record(item).RecordID(), s.module.Permission(op))
}

// List returns one page of the rows visible to p.
func (s *ContentService[T]) List(ctx context.Context, p *auth.Principal, query entity.ContentQuery) ([]T, *entity.Meta, error) {
	if err := s.require(p, auth.ActionRead); err != nil {
		return nil, nil, err
	}

	listQuery := entity.ListQuery{
		Page:          int(query.Page),
		PageSize:      s.pageSize(int(query.PageSize)),
		Order:         s.order(query.SortBy, query.SortDesc),
		Keyword:       strings.TrimSpace(query.Keyword),
		SearchColumns: s.module.SearchColumns,
	}
	filters, err := s.filters(query.Filters)
	if err != nil {
		return nil, nil, err
	}
	if !p.Elevated(s.module.Name) {
		if s.module.OwnerScoped {
			listQuery.OwnerColumn = s.module.OwnerColumn
			listQuery.OwnerID = p.UserID()
		}
		if s.module.ActiveColumn != "" {
			filters[s.module.ActiveColumn] = true
		}
	}
	listQuery.Filters = filters

	items, meta, err := s.store.List(ctx, listQuery)
	if err != nil {
		return nil, nil, translate(err)
	}
	return items, meta, nil
}

func (s *ContentService[T]) pageSize(requested int) int {
	if requested <= 0 {
		return s.paging.Default
	}
	if requested > s.paging.Max {
		return s.paging.Max
	}
	return requested
}

func (s *ContentService[T]) order(sortBy string, desc bool) string {
	sortBy = strings.TrimSpace(sortBy)
	for _, column := range s.module.SortColumns {
		if column == sortBy {
			direction := "ASC"
			if desc {
				direction = "DESC"
			}
			return fmt.Sprintf("%s %s, id %s", column, direction, direction)
		}
	}
	return s.module.Order
}

// filters keeps the whitelisted filters and parses their values.
func (s *ContentService[T]) filters(raw map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(raw)+1)
	for column, value := range raw {
		kind, ok := s.module.Filters[column]
		if !ok {
			continue
		}
		text := strings.TrimSpace(fmt.Sprint(value))
		if text == "" {
			continue
		}
		switch kind {
		case FilterBool:
			parsed, err := strconv.ParseBool(text)
			if err != nil {
				return nil, &ValidationError{Field: column, Message: "expected true or false"}
			}
			out[column] = parsed
		case FilterID:
			parsed, err := strconv.ParseUint(text, 10, 64)
			if err != nil || parsed == 0 {
				return nil, &ValidationError{Field: column, Message: "expected a positive id"}
			}
			out[column] = uint(parsed)
		default:
			out[column] = text
		}
	}
	return out, nil
}

// Get loads a row visible to p.
func (s *ContentService[T]) Get(ctx context.Context, p *auth.Principal, id uint) (*T, error) {
	if err := s.require(p, auth.ActionRead); err != nil {
		return nil, err
	}
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !s.visible(p, item) {
		return nil, forbidden("%s #%d is not visible", s.module.Name, id)
	}
	return item, nil
}

// Create applies the caller's fields to a new row, stores its uploads and
// persists it. Uploads are removed again when the insert fails.
func (s *ContentService[T]) Create(ctx context.Context, p *auth.Principal, apply func(*T) error, files map[string]storage.Upload) (*T, error) {
	if err := s.require(p, auth.ActionCreate); err != nil {
		return nil, err
	}
	item := new(T)
	if err := apply(item); err != nil {
		return nil, err
	}
	if s.hooks.BeforeSave != nil {
		s.hooks.BeforeSave(item)
	}
	record(item).SetCreator(p.UserID())

	if err := s.assignSlug(ctx, item, "", 0); err != nil {
		return nil, err
	}
	stored, _, err := s.storeUploads(ctx, item, files)
	if err != nil {
		return nil, err
	}
	if err := validate(item); err != nil {
		s.removeFiles(ctx, stored)
		return nil, err
	}
	if err := s.store.Create(ctx, item); err != nil {
		s.removeFiles(ctx, stored)
		return nil, translate(err)
	}

	logrus.WithFields(logrus.Fields{
		"module": s.module.Name,
		"id":     record(item).RecordID(),
		"user":   p.UserID(),
	}).Info("content created")
	return s.reload(ctx, item)
}

// Update applies the caller's changes to an existing row. Files replaced by
// new uploads are removed after the row is saved.
func (s *ContentService[T]) Update(ctx context.Context, p *auth.Principal, id uint, apply func(*T) error, files map[string]storage.Upload) (*T, error) {
	item, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(p, auth.ActionUpdate, item); err != nil {
		return nil, err
	}

	previousSlug := ""
	if sluggable, ok := any(item).(entity.Sluggable); ok {
		previousSlug = sluggable.GetSlug()
	}
	if err := apply(item); err != nil {
		return nil, err
	}
	if s.hooks.BeforeSave != nil {
		s.hooks.BeforeSave(item)
	}
	if err := s.assignSlug(ctx, item, previousSlug, id); err != nil {
		return nil, err
	}

	stored, replaced, err := s.storeUploads(ctx, item, files)
	if err != nil {
		return nil, err
	}
	if err := validate(item); err != nil {
		s.removeFiles(ctx, stored)
		return nil, err
	}
	if err := s.store.Save(ctx, item); err != nil {
		s.removeFiles(ctx, stored)
		return nil, translate(err)
	}
	s.removeFiles(ctx, replaced)
	return s.reload(ctx, item)
}

// Delete removes a row, the rows it cascades to, and then every stored file
// they referenced. Owning the row is not enough; the delete permission is.
func (s *ContentService[T]) Delete(ctx context.Context, p *auth.Principal, id uint) error {
	if err := s.require(p, auth.ActionDelete); err != nil {
		return err
	}
	item, err := s.Get(ctx, p, id)
	if err != nil {
		return err
	}

	files := filesOf(item)
	dependent, err := s.store.DependentFiles(ctx, id)
	if err != nil {
		return translate(err)
	}
	files = append(files, dependent...)

	if err := s.store.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.removeFiles(ctx, files)

	logrus.WithFields(logrus.Fields{
		"module": s.module.Name,
		"id":     id,
		"user":   p.UserID(),
		"files":  len(files),
	}).Info("content deleted")
	return nil
}

// Open streams the file stored in slot of a row visible to p.
func (s *ContentService[T]) Open(ctx context.Context, p *auth.Principal, id uint, slot string) (*T, io.ReadCloser, error) {
	item, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, nil, err
	}
	holder, ok := any(item).(entity.FileHolder)
	if !ok || holder.File(slot) == "" {
		return nil, nil, fmt.Errorf("%w: %s #%d has no %s", ErrNotFound, s.module.Name, id, slot)
	}
	reader, err := s.uploader.Open(ctx, holder.File(slot))
	if err != nil {
		return nil, nil, translate(err)
	}
	return item, reader, nil
}

func (s *ContentService[T]) reload(ctx context.Context, item *T) (*T, error) {
	fresh, err := s.store.Get(ctx, record(item).RecordID())
	if err != nil {
		return nil, translate(err)
	}
	return fresh, nil
}

// assignSlug sets a unique slug. A slug given by the caller is normalised;
// otherwise it is derived from the title, keeping previous when it already
// derives from the same title.
func (s *ContentService[T]) assignSlug(ctx context.Context, item *T, previous string, id uint) error {
	sluggable, ok := any(item).(entity.Sluggable)
	if !ok {
		return nil
	}
	candidate := slug.Make(sluggable.GetSlug())
	if candidate == "" {
		base := slug.Make(sluggable.SlugSource())
		if slug.IsDerived(previous, base) {
			sluggable.SetSlug(previous)
			return nil
		}
		candidate = base
	}
	if candidate == "" {
		return &ValidationError{Field: "slug", Message: "cannot be derived from the title"}
	}

	next := candidate
	for attempt := 0; attempt < slugAttempts; attempt++ {
		exists, err := s.store.SlugExists(ctx, next, id)
		if err != nil {
			return translate(err)
		}
		if !exists {
			sluggable.SetSlug(next)
			return nil
		}
		next = slug.WithSuffix(candidate)
	}
	return fmt.Errorf("%w: slug %q", ErrDuplicateKey, candidate)
}

// storeUploads writes uploads for the module's slots and points item at them.
// It returns the new names and the names they replaced.
func (s *ContentService[T]) storeUploads(ctx context.Context, item *T, files map[string]storage.Upload) ([]string, []string, error) {
	holder, ok := any(item).(entity.FileHolder)
	if !ok || len(files) == 0 {
		return nil, nil, nil
	}
	var stored, replaced []string
	for _, slot := range holder.FileSlots() {
		upload, ok := files[slot]
		if !ok {
			continue
		}
		kind, ok := s.module.Uploads[slot]
		if !ok {
			continue
		}
		file, err := s.uploader.StoreKind(ctx, upload, kind)
		if err != nil {
			s.removeFiles(ctx, stored)
			return nil, nil, uploadError(slot, err)
		}
		if old := holder.File(slot); old != "" {
			replaced = append(replaced, old)
		}
		holder.SetFile(slot, file.Name)
		if meta, ok := any(item).(entity.FileMetadataHolder); ok {
			meta.SetFileMetadata(file.OriginalName, file.Size, file.MIMEType)
		}
		stored = append(stored, file.Name)
	}
	return stored, replaced, nil
}

func (s *ContentService[T]) removeFiles(ctx context.Context, names []string) {
	for _, name := range names {
		if err := s.uploader.Remove(ctx, name); err != nil {
			logrus.WithError(err).WithField("file", name).Warn("failed to remove stored file")
		}
	}
}

func filesOf(item interface{}) []string {
	holder, ok := item.(entity.FileHolder)
	if !ok {
		return nil
	}
	files := make([]string, 0, len(holder.FileSlots()))
	for _, slot := range holder.FileSlots() {
		if name := holder.File(slot); name != "" {
			files = append(files, name)
		}
	}
	return files
}

func validate(item interface{}) error {
	if validator, ok := item.(entity.Validator); ok {
		return validator.Validate()
	}
	return nil
}
