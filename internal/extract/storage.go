package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage fetches a stored resume document by its storage key. The service
// does not own storage locations or CDN URLs — it only reads bytes.
type Storage interface {
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
}

// FileStorage serves documents from a local directory tree. Keys are
// slash-separated relative paths.
type FileStorage struct {
	root string
}

// NewFileStorage returns a Storage rooted at dir.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{root: dir}
}

// Fetch opens the document for key, rejecting path escapes.
func (s *FileStorage) Fetch(_ context.Context, key string) (io.ReadCloser, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid resume key %q", key)
	}
	f, err := os.Open(filepath.Join(s.root, clean))
	if err != nil {
		return nil, fmt.Errorf("open resume %q: %w", key, err)
	}
	return f, nil
}
