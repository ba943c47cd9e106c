package disk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ThumbnailStore writes uploaded thumbnails below a root directory. Returned paths are
// slash-separated and relative to the root so they can be served as static assets.
type ThumbnailStore struct {
	root string
}

func NewThumbnailStore(root string) (*ThumbnailStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &ThumbnailStore{root: root}, nil
}

func (s *ThumbnailStore) Upload(_ context.Context, dir, filename string, r io.Reader) (string, error) {
	rel := path.Join(dir, uuid.NewString()+strings.ToLower(path.Ext(filename)))
	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create thumbnail dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create thumbnail: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("close thumbnail: %w", err)
	}
	return rel, nil
}

func (s *ThumbnailStore) Remove(_ context.Context, p string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove thumbnail: %w", err)
	}
	return nil
}

func (s *ThumbnailStore) RemoveFolder(_ context.Context, dir string) error {
	full, err := s.resolve(dir)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(full); err != nil {
		return fmt.Errorf("remove thumbnail dir: %w", err)
	}
	return nil
}

// resolve maps a stored path into the root, rejecting anything that escapes it.
func (s *ThumbnailStore) resolve(p string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return "", fmt.Errorf("invalid thumbnail path %q", p)
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
