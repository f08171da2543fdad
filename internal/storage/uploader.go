package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"labelhub/internal/utils"
)

// Kind selects the extension allow-list applied to an upload.
type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

// ErrRejected is returned when an upload fails the allow-list or size checks.
var ErrRejected = errors.New("upload rejected")

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StoredFile describes a file written by the Uploader.
type StoredFile struct {
	Name         string
	OriginalName string
	Size         int64
	MIMEType     string
}

// Uploader validates uploads and writes them under random names.
type Uploader struct {
	store    Storage
	allowed  map[Kind][]string
	maxBytes int64
}

// NewUploader wraps store with the image and document allow-lists. A
// non-positive maxBytes disables the size limit.
func NewUploader(store Storage, images, documents []string, maxBytes int64) *Uploader {
	return &Uploader{
		store: store,
		allowed: map[Kind][]string{
			KindImage:    normalizeList(images),
			KindDocument: normalizeList(documents),
		},
		maxBytes: maxBytes,
	}
}

// Allowed returns the extensions accepted for kind.
func (u *Uploader) Allowed(kind Kind) []string {
	return append([]string(nil), u.allowed[kind]...)
}

// MaxBytes returns the upload size limit.
func (u *Uploader) MaxBytes() int64 {
	return u.maxBytes
}

// StoreKind stores an upload against the allow-list of kind.
func (u *Uploader) StoreKind(ctx context.Context, up Upload, kind Kind) (*StoredFile, error) {
	return u.Store(ctx, up, u.allowed[kind])
}

// Store checks the upload against allowed and writes it. The stored name is
// random; the client file name is only kept as metadata.
func (u *Uploader) Store(ctx context.Context, up Upload, allowed []string) (*StoredFile, error) {
	ext := extensionOf(up.Filename)
	if ext == "" {
		return nil, fmt.Errorf("%w: file %q has no extension", ErrRejected, up.Filename)
	}
	if !containsFold(allowed, ext) {
		return nil, fmt.Errorf("%w: extension %q is not allowed", ErrRejected, ext)
	}
	if len(up.Data) == 0 {
		return nil, fmt.Errorf("%w: file %q is empty", ErrRejected, up.Filename)
	}
	if u.maxBytes > 0 && int64(len(up.Data)) > u.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrRejected, u.maxBytes)
	}

	mimeType := strings.TrimSpace(up.ContentType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = detectContentType(ext)
	}

	name, err := u.store.Save(ctx, up.Data, SaveOptions{
		Extension:   ext,
		BaseName:    utils.GenerateUUID(),
		ContentType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	return &StoredFile{
		Name:         name,
		OriginalName: filepath.Base(up.Filename),
		Size:         int64(len(up.Data)),
		MIMEType:     mimeType,
	}, nil
}

// Remove deletes a stored file. Empty or missing names are a no-op.
func (u *Uploader) Remove(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return u.store.Delete(ctx, name)
}

// Open streams a stored file.
func (u *Uploader) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrObjectNotFound
	}
	return u.store.Open(ctx, name)
}

func extensionOf(filename string) string {
	ext := filepath.Ext(strings.TrimSpace(filename))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), ".")); ext != "" {
			out = append(out, ext)
		}
	}
	return out
}
