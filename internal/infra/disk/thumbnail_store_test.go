package disk

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestThumbnailStoreWritesUnderRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewThumbnailStore(root)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	p, err := store.Upload(ctx, "game/wordit/g1", "Cover.PNG", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(p, "game/wordit/g1/") || !strings.HasSuffix(p, ".png") {
		t.Fatalf("unexpected path %q", p)
	}
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(p)))
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("expected file contents, got %q (%v)", data, err)
	}

	if err := store.Remove(ctx, p); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(ctx, p); err != nil {
		t.Fatalf("removing a missing file should succeed: %v", err)
	}
}

func TestThumbnailStoreRemoveFolder(t *testing.T) {
	root := t.TempDir()
	store, _ := NewThumbnailStore(root)
	ctx := context.Background()

	_, _ = store.Upload(ctx, "game/wordit/g1", "a.png", strings.NewReader("a"))
	if err := store.RemoveFolder(ctx, "game/wordit/g1"); err != nil {
		t.Fatalf("remove folder: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "game", "wordit", "g1")); !os.IsNotExist(err) {
		t.Fatalf("expected folder removed, got %v", err)
	}
}

func TestThumbnailStoreStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	store, _ := NewThumbnailStore(root)

	full, err := store.resolve("../../etc/passwd")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.HasPrefix(full, root) {
		t.Fatalf("path escaped root: %s", full)
	}
	if err := store.RemoveFolder(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty folder")
	}
}
