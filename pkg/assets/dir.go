package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	verrors "github.com/vango-dev/vitrio/internal/errors"
)

// DirStore serves assets from a directory on disk.
type DirStore struct {
	dir  string
	fsys fs.FS
}

// NewDirStore creates a store rooted at dir. The directory must exist.
func NewDirStore(dir string) (*DirStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, verrors.Wrap("V301", err).WithDetail("assets directory %s", dir)
	}
	if !info.IsDir() {
		return nil, verrors.Newf(verrors.CategoryAssets, "assets path %s is not a directory", dir)
	}
	return &DirStore{dir: dir, fsys: os.DirFS(dir)}, nil
}

// Dir returns the root directory.
func (s *DirStore) Dir() string {
	return s.dir
}

// Open implements Store. Directories are reported as not found.
func (s *DirStore) Open(_ context.Context, name string) (*Object, error) {
	clean, ok := CleanName(name)
	if !ok {
		return nil, ErrNotFound
	}
	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return nil, ErrNotFound
	}

	f, err := s.fsys.Open(clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("assets: open %s: %w", clean, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("assets: stat %s: %w", clean, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}
	return &Object{
		Body:    f,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
