// internal/app/system/uploads/uploads.go

// Package uploads stores listing images and profile pictures and hands
// back the public URL recorded on the owning document. A failed upload
// never blocks the save; callers fall back to an empty image URL.
package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Storage persists uploaded files under a path of the caller's choosing.
type Storage interface {
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	// URL returns the public URL for a previously stored path.
	URL(path string) string
}

// Save stores a file under a unique path (prefix/YYYY/MM/uuid-filename)
// and returns its public URL.
func Save(ctx context.Context, store Storage, prefix, filename string, r io.Reader, contentType string) (string, error) {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("%s/%04d/%02d", prefix, now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(filename))
	path := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	if err := store.Put(ctx, path, r, contentType); err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return store.URL(path), nil
}

// Local stores files under a directory on disk and serves them from a
// base URL (the router mounts the directory under /uploads/).
type Local struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{Dir: dir, BaseURL: baseURL}
}

func (l *Local) Put(ctx context.Context, path string, r io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := filepath.Join(l.Dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return err
	}
	return f.Close()
}

func (l *Local) URL(path string) string {
	return l.BaseURL + "/" + path
}

// sanitizeFilename removes or replaces characters that could be
// problematic in filenames.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}

	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
