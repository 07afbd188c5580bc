package ports

import "go.trai.ch/restore/internal/core/domain"

// LockFileStore persists lock files.
//
//go:generate mockgen -source=lockfile_store.go -destination=mocks/mock_lockfile_store.go -package=mocks
type LockFileStore interface {
	// Read returns the lock file at path, or nil, nil if none exists.
	Read(path string) (*domain.LockFile, error)
	// Write writes the lock file to path.
	Write(path string, lockFile *domain.LockFile) error
}
