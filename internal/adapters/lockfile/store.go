// Package lockfile reads and writes lock files in the project.lock.json format.
package lockfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.LockFileStore on the local file system.
type Store struct {
	logger ports.Logger
}

var _ ports.LockFileStore = (*Store)(nil)

// NewStore creates a lock file store.
func NewStore(logger ports.Logger) (*Store, error) {
	if logger == nil {
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "logger")
	}
	return &Store{logger: logger}, nil
}

// Read returns the lock file at path, or nil, nil if there is none. A file that cannot be parsed
// is reported and returned as an empty, unlocked lock file so the restore recomputes it.
func (s *Store) Read(path string) (*domain.LockFile, error) {
	//nolint:gosec // Path is provided by the project configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLockFileReadFailed.Error()), "path", path)
	}

	lf, err := Decode(data)
	if err != nil {
		s.logger.Warn("ignoring unreadable lock file " + path + ": " + err.Error())
		return &domain.LockFile{}, nil
	}
	return lf, nil
}

// Write writes the lock file to path through a temporary file in the same directory.
func (s *Store) Write(path string, lockFile *domain.LockFile) error {
	data, err := Encode(lockFile)
	if err != nil {
		return zerr.With(err, "path", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockFileWriteFailed.Error()), "path", path)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockFileWriteFailed.Error()), "path", path)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrLockFileWriteFailed.Error()), "path", path)
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrLockFileWriteFailed.Error()), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockFileWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockFileWriteFailed.Error()), "path", path)
	}

	s.logger.Debug("wrote lock file " + path)
	return nil
}
