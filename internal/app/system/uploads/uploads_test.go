package uploads_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/linkuphq/linkup/internal/app/system/uploads"
)

func TestSave_StoresUnderDatedPathAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	local := uploads.NewLocal(dir, "/uploads")

	url, err := uploads.Save(context.Background(), local, "events", "poster.png", strings.NewReader("fake png bytes"), "image/png")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	now := time.Now().UTC()
	wantPrefix := filepath.ToSlash(filepath.Join("/uploads/events",
		now.Format("2006"), now.Format("01"))) + "/"
	if !strings.HasPrefix(url, wantPrefix) {
		t.Errorf("url %q does not start with %q", url, wantPrefix)
	}
	if !strings.HasSuffix(url, "-poster.png") {
		t.Errorf("url %q does not keep the original filename", url)
	}

	rel := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "fake png bytes" {
		t.Errorf("stored content: got %q, want %q", data, "fake png bytes")
	}
}

func TestSave_SanitizesHostileFilenames(t *testing.T) {
	dir := t.TempDir()
	local := uploads.NewLocal(dir, "/uploads")

	url, err := uploads.Save(context.Background(), local, "profiles", "../../etc/pass wd?.png", strings.NewReader("x"), "image/png")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if strings.Contains(url, "..") {
		t.Errorf("url %q leaks a path traversal", url)
	}
	if !strings.HasSuffix(url, "-pass_wd_.png") {
		t.Errorf("url %q does not carry the sanitized filename", url)
	}
}

func TestSave_PropagatesStorageFailure(t *testing.T) {
	// A file, not a directory, so MkdirAll under it fails.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	local := uploads.NewLocal(blocker, "/uploads")
	if _, err := uploads.Save(context.Background(), local, "events", "a.png", strings.NewReader("x"), "image/png"); err == nil {
		t.Fatal("expected an error when the storage directory is unusable")
	}
}
