package images

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boxdrop/boxdrop/internal/filex"
)

// LocalStore writes images to a directory on local disk, the development
// default and the layout the original deployment served statically.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	resolved, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalStore{dir: resolved}, nil
}

// Save writes the bytes under a fresh name and returns that name.
func (s *LocalStore) Save(ctx context.Context, field, contentType string, data []byte) (string, error) {
	name := ObjectName(field, contentType)

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return name, nil
}
