package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func newTestUploader(t *testing.T, maxBytes int64) (*Uploader, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("unexpected error creating storage: %v", err)
	}
	return NewUploader(store, []string{"JPG", ".png"}, []string{"pdf"}, maxBytes), dir
}

func TestUploaderStore(t *testing.T) {
	uploader, dir := newTestUploader(t, 1024)
	ctx := context.Background()

	stored, err := uploader.StoreKind(ctx, Upload{Filename: "../../Cover Art.JPG", Data: []byte("jpeg-bytes")}, KindImage)
	if err != nil {
		t.Fatalf("unexpected error storing upload: %v", err)
	}

	if !regexp.MustCompile(`^[0-9a-f]{32}\.jpg$`).MatchString(stored.Name) {
		t.Fatalf("unexpected stored name %q", stored.Name)
	}
	if stored.OriginalName != "Cover Art.JPG" {
		t.Fatalf("unexpected original name %q", stored.OriginalName)
	}
	if stored.Size != int64(len("jpeg-bytes")) {
		t.Fatalf("unexpected size %d", stored.Size)
	}
	if stored.MIMEType != "image/jpeg" {
		t.Fatalf("unexpected mime type %q", stored.MIMEType)
	}
	if _, err := os.Stat(filepath.Join(dir, stored.Name)); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	reader, err := uploader.Open(ctx, stored.Name)
	if err != nil {
		t.Fatalf("unexpected error opening file: %v", err)
	}
	content, _ := io.ReadAll(reader)
	reader.Close()
	if string(content) != "jpeg-bytes" {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestUploaderRejects(t *testing.T) {
	uploader, dir := newTestUploader(t, 8)

	tests := []struct {
		name   string
		upload Upload
		kind   Kind
	}{
		{name: "no extension", upload: Upload{Filename: "cover", Data: []byte("x")}, kind: KindImage},
		{name: "not allowed", upload: Upload{Filename: "run.exe", Data: []byte("x")}, kind: KindImage},
		{name: "image list does not cover documents", upload: Upload{Filename: "press.pdf", Data: []byte("x")}, kind: KindImage},
		{name: "empty payload", upload: Upload{Filename: "cover.png"}, kind: KindImage},
		{name: "too large", upload: Upload{Filename: "cover.png", Data: []byte("123456789")}, kind: KindImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uploader.StoreKind(context.Background(), tt.upload, tt.kind)
			if !errors.Is(err, ErrRejected) {
				t.Fatalf("expected ErrRejected, got %v", err)
			}
		})
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files written, found %d", len(entries))
	}
}

func TestUploaderRemove(t *testing.T) {
	uploader, dir := newTestUploader(t, 0)
	ctx := context.Background()

	stored, err := uploader.StoreKind(ctx, Upload{Filename: "contract.PDF", Data: []byte("%PDF")}, KindDocument)
	if err != nil {
		t.Fatalf("unexpected error storing upload: %v", err)
	}
	if err := uploader.Remove(ctx, stored.Name); err != nil {
		t.Fatalf("unexpected error removing file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, stored.Name)); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone, stat err: %v", err)
	}

	if err := uploader.Remove(ctx, stored.Name); err != nil {
		t.Fatalf("expected removing a missing file to be a no-op, got %v", err)
	}
	if err := uploader.Remove(ctx, ""); err != nil {
		t.Fatalf("expected empty name to be a no-op, got %v", err)
	}
	if _, err := uploader.Open(ctx, stored.Name); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating storage: %v", err)
	}
	for _, key := range []string{"../secret.txt", "nested/file.png", ".env", ""} {
		if err := store.Delete(context.Background(), key); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey for %q, got %v", key, err)
		}
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"/files", "a.png", "/files/a.png"},
		{"https://cdn.example.com/", "a.png", "https://cdn.example.com/a.png"},
		{"", "a.png", "/a.png"},
		{"/files", "", ""},
	}
	for _, tt := range tests {
		if got := PublicURL(tt.base, tt.key); got != tt.want {
			t.Fatalf("PublicURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}
