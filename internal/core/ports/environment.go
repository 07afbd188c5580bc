package ports

import "go.trai.ch/restore/internal/core/domain"

// PackageEnvironment is the set of collaborators bound to one packages folder and its sources.
type PackageEnvironment struct {
	Repository LocalRepository
	Reader     PackageReader
	Installer  Installer
	Walker     Walker
}

// PackageEnvironmentFactory opens the package environment a project restores into.
//
//go:generate mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type PackageEnvironmentFactory interface {
	// Open binds the collaborators to the project's packages folder, sources and referenced projects.
	Open(project *domain.ProjectSpec) (*PackageEnvironment, error)
}
