// Package cache stores the record of the last restore of a project, used to skip restores that
// have nothing to do.
package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RestoreCacheStore = (*Store)(nil)

// Store implements ports.RestoreCacheStore using one JSON file per project.
type Store struct {
	mu sync.Mutex
}

// NewStore creates a new restore cache store.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the cache entry at path. A missing, empty or unparseable file yields nil, nil:
// the next restore simply runs.
func (s *Store) Get(path string) (*domain.RestoreCache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is derived from the project directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var entry domain.RestoreCache
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, nil //nolint:nilerr // A corrupt cache only disables the no-op check
	}
	if entry.Version != domain.RestoreCacheVersion {
		return nil, nil
	}
	return &entry, nil
}

// Put stores the cache entry at path.
func (s *Store) Put(path string, entry domain.RestoreCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Version == 0 {
		entry.Version = domain.RestoreCacheVersion
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}

	tmp := path + ".tmp"
	//nolint:gosec // Path is derived from the project directory
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	return nil
}
