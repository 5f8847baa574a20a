package assets

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/vango-dev/connect/internal/errors"
)

// DirStore serves assets from a local directory.
type DirStore struct {
	dir string
}

// NewDirStore creates a DirStore rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

// Open implements Store.
func (s *DirStore) Open(_ context.Context, name string) (*Asset, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, errors.New("E301").Wrap(err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.New("E301").Wrap(err)
	}
	if info.IsDir() {
		f.Close()
		return nil, notFound(name)
	}

	return &Asset{
		Name:        name,
		ContentType: contentType(name),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		Body:        f,
	}, nil
}

// List implements Store.
func (s *DirStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.New("E301").Wrap(err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !ValidName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
