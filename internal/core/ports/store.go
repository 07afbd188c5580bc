package ports

import "go.trai.ch/restore/internal/core/domain"

// RestoreCacheStore defines the interface for storing the record of the last restore.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type RestoreCacheStore interface {
	// Get retrieves the cache entry at path.
	// Returns nil, nil if not found.
	Get(path string) (*domain.RestoreCache, error)

	// Put stores the cache entry at path.
	Put(path string, cache domain.RestoreCache) error
}
