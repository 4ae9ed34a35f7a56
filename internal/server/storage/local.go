package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/google/uuid"
)

// LocalStore keeps blobs as flat files under a base directory. Keys are
// absolute paths, so derived-artifact keys like "<path>_500" stay inside
// the same directory.
type LocalStore struct {
	baseDir string
}

// NewLocalStore constructs a store rooted at baseDir. The directory is
// created lazily on first write.
func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

func (s *LocalStore) ensureDir() error {
	return os.MkdirAll(s.baseDir, 0o755)
}

func (s *LocalStore) Save(ctx context.Context, data []byte) (string, error) {
	key := filepath.Join(s.baseDir, uuid.NewString())
	if err := s.SaveAt(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

func (s *LocalStore) SaveAt(ctx context.Context, key string, data []byte) error {
	if err := s.ensureDir(); err != nil {
		return fmt.Errorf("storage error: %w", err)
	}
	if err := os.WriteFile(key, data, 0o644); err != nil {
		return fmt.Errorf("storage error: %w", err)
	}
	return nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("storage error: %w", err)
	}
	return f, nil
}
