// Package environment binds the package collaborators of a restore to a project's packages folder,
// sources and referenced projects.
package environment

import (
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/restore/internal/adapters/feed"
	"go.trai.ch/restore/internal/adapters/installer"
	"go.trai.ch/restore/internal/adapters/packages"
	"go.trai.ch/restore/internal/adapters/walker"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/zerr"
)

// Factory implements ports.PackageEnvironmentFactory. Repositories are shared by every project
// restoring into the same packages and fallback folders, and one manifest reader serves them all.
type Factory struct {
	matcher ports.AssetMatcher
	logger  ports.Logger
	reader  *packages.Reader

	repositories sync.Map // folders key -> *packages.Repository
}

var _ ports.PackageEnvironmentFactory = (*Factory)(nil)

// NewFactory creates a factory whose readers keep up to cacheSize packages in memory.
func NewFactory(matcher ports.AssetMatcher, logger ports.Logger, cacheSize int) (*Factory, error) {
	switch {
	case matcher == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "asset matcher")
	case logger == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "logger")
	}

	reader, err := packages.NewReader(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Factory{matcher: matcher, logger: logger, reader: reader}, nil
}

// Open creates the environment of project.
func (f *Factory) Open(project *domain.ProjectSpec) (*ports.PackageEnvironment, error) {
	if project == nil {
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "project")
	}

	settings := project.Restore
	root := settings.PackagesPath
	if root == "" {
		root = domain.DefaultPackagesPath()
	}

	repo := f.repository(root, settings.FallbackFolders)
	feeds := feed.NewSet(settings.Sources, f.logger)

	inst, err := installer.New(root, feeds, f.logger)
	if err != nil {
		return nil, err
	}
	w, err := walker.New(project, repo, f.reader, feeds, f.matcher, f.logger)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("packages folder " + root)
	return &ports.PackageEnvironment{
		Repository: repo,
		Reader:     f.reader,
		Installer:  inst,
		Walker:     w,
	}, nil
}

func (f *Factory) repository(root string, fallbacks []string) *packages.Repository {
	parts := make([]string, 0, len(fallbacks)+1)
	parts = append(parts, filepath.Clean(root))
	for _, folder := range fallbacks {
		parts = append(parts, filepath.Clean(folder))
	}
	key := strings.Join(parts, string(filepath.ListSeparator))

	if cached, ok := f.repositories.Load(key); ok {
		return cached.(*packages.Repository) //nolint:forcetypeassert // Only repositories are stored
	}
	repo, _ := f.repositories.LoadOrStore(key, packages.NewRepository(root, fallbacks...))
	return repo.(*packages.Repository) //nolint:forcetypeassert // Only repositories are stored
}
