package ports

import "go.trai.ch/restore/internal/core/domain"

// LocalRepository lists the packages installed in a packages folder.
//
//go:generate mockgen -source=local_repository.go -destination=mocks/mock_local_repository.go -package=mocks
type LocalRepository interface {
	// Root returns the packages folder.
	Root() string
	// FindPackagesByID returns every installed version of the package.
	FindPackagesByID(id string) []domain.LocalPackageInfo
	// FindPackage returns the installed package with the exact version.
	FindPackage(id string, version domain.Version) (domain.LocalPackageInfo, bool)
	// ClearCacheForIDs drops cached listings so new installs become visible.
	ClearCacheForIDs(ids []string)
}
