package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ThumbnailStore keeps uploaded files in memory. Useful for tests and demo runs.
type ThumbnailStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewThumbnailStore() *ThumbnailStore {
	return &ThumbnailStore{files: make(map[string][]byte)}
}

func (s *ThumbnailStore) Upload(_ context.Context, dir, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	p := path.Join(dir, uuid.NewString()+path.Ext(filename))
	s.mu.Lock()
	s.files[p] = buf.Bytes()
	s.mu.Unlock()
	return p, nil
}

func (s *ThumbnailStore) Remove(_ context.Context, p string) error {
	s.mu.Lock()
	delete(s.files, p)
	s.mu.Unlock()
	return nil
}

func (s *ThumbnailStore) RemoveFolder(_ context.Context, dir string) error {
	prefix := strings.TrimSuffix(dir, "/") + "/"
	s.mu.Lock()
	for p := range s.files {
		if strings.HasPrefix(p, prefix) {
			delete(s.files, p)
		}
	}
	s.mu.Unlock()
	return nil
}

// Exists reports whether a file is stored at p.
func (s *ThumbnailStore) Exists(p string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[p]
	return ok
}
