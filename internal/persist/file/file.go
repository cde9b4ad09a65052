// Package file persists collection snapshots as JSON files under a data
// directory, one file per collection. This is the default durable backend
// and mirrors the local key/value persistence the ledger was designed for.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"divvy/internal/persist"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *Store) Load(_ context.Context, collection string) ([]byte, error) {
	data, err := os.ReadFile(s.path(collection))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", persist.ErrStorage, collection, err)
	}
	return data, nil
}

// Save writes the snapshot atomically: a temp file in the same directory is
// renamed over the target so readers never observe a partial write.
func (s *Store) Save(_ context.Context, collection string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: temp file for %s: %v", persist.ErrStorage, collection, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", persist.ErrStorage, collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", persist.ErrStorage, collection, err)
	}
	if err := os.Rename(tmpName, s.path(collection)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", persist.ErrStorage, collection, err)
	}
	return nil
}
