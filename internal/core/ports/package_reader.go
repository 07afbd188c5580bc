package ports

import "go.trai.ch/restore/internal/core/domain"

// PackageReader reads the content of an installed package.
//
//go:generate mockgen -source=package_reader.go -destination=mocks/mock_package_reader.go -package=mocks
type PackageReader interface {
	// ReadHash returns the content hash recorded when the package was installed.
	ReadHash(pkg domain.LocalPackageInfo) (string, error)
	// ListFiles returns the package's file paths with forward slashes, excluding packaging metadata.
	ListFiles(pkg domain.LocalPackageInfo) ([]string, error)
	// ReadManifest returns the parsed package manifest.
	ReadManifest(pkg domain.LocalPackageInfo) (*domain.PackageManifest, error)
	// ReadRuntimeGraph returns the package's runtime description, or nil if it has none.
	ReadRuntimeGraph(pkg domain.LocalPackageInfo) (*domain.RuntimeGraph, error)
}
