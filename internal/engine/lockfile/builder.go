// Package lockfile assembles a lock file from the restore target graphs of a project.
package lockfile

import (
	"context"
	"maps"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/restore/internal/engine/assets"
	"go.trai.ch/restore/internal/engine/flatten"
	"go.trai.ch/zerr"
)

// Request is the input of one lock file build.
type Request struct {
	Project *domain.ProjectSpec
	Graphs  []*domain.RestoreTargetGraph
	// Previous is the lock file of the last restore, if any. Its library entries are reused when
	// the package content hash is unchanged.
	Previous *domain.LockFile
	Locked   bool
}

// Result is a built lock file together with the include flags computed per graph.
type Result struct {
	LockFile *domain.LockFile
	// IncludeFlags maps a graph name to the effective include flags of its libraries.
	IncludeFlags map[string]flatten.Result
}

// Builder builds lock files from restore target graphs.
type Builder struct {
	repository ports.LocalRepository
	reader     ports.PackageReader
	selector   *assets.Selector
	logger     ports.Logger
}

// NewBuilder creates a builder that locates packages in repository and reads them with reader.
func NewBuilder(
	repository ports.LocalRepository,
	reader ports.PackageReader,
	selector *assets.Selector,
	logger ports.Logger,
) (*Builder, error) {
	switch {
	case repository == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "local repository")
	case reader == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "package reader")
	case selector == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "asset selector")
	case logger == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "logger")
	}
	return &Builder{repository: repository, reader: reader, selector: selector, logger: logger}, nil
}

// packageEntry is a located package with the data read from it once per build.
type packageEntry struct {
	library  *domain.LockFileLibrary
	manifest *domain.PackageManifest
}

// build holds the state of one Build call.
type build struct {
	*Builder
	req      Request
	packages map[string]*packageEntry
	warned   map[string]bool

	// warnForImports is set when any framework of the project asks for fallback warnings.
	warnForImports bool
}

// Build assembles the lock file for req. The output does not depend on the order of req.Graphs.
func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	if req.Project == nil {
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "project")
	}

	st := &build{
		Builder:  b,
		req:      req,
		packages: make(map[string]*packageEntry),
		warned:   make(map[string]bool),
	}
	st.warnForImports = slices.ContainsFunc(req.Project.Frameworks, func(tf domain.TargetFrameworkInfo) bool {
		return tf.Warn
	})

	lockFile := &domain.LockFile{
		Locked:                      req.Locked,
		Version:                     domain.LockFileFormatVersion,
		ProjectFileDependencyGroups: req.Project.DependencyGroups(),
	}

	libraries, err := st.libraries(ctx)
	if err != nil {
		return nil, err
	}
	lockFile.Libraries = libraries

	graphs := slices.Clone(req.Graphs)
	slices.SortStableFunc(graphs, func(a, b *domain.RestoreTargetGraph) int {
		return domain.ComparePairs(a.Pair(), b.Pair())
	})

	result := &Result{LockFile: lockFile, IncludeFlags: make(map[string]flatten.Result, len(graphs))}
	for _, graph := range graphs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if lockFile.GetTarget(graph.Framework, graph.RuntimeID) != nil {
			continue
		}
		flags := flatten.Flatten(graph, req.Project.DirectDependencies(graph.Framework))
		result.IncludeFlags[graph.Name()] = flags
		lockFile.Targets = append(lockFile.Targets, st.target(graph, flags))
	}
	return result, nil
}

// libraries returns one entry per distinct library across all graphs, ordered by identity.
func (st *build) libraries(ctx context.Context) ([]*domain.LockFileLibrary, error) {
	items := make(map[string]*domain.GraphItem)
	for _, graph := range st.req.Graphs {
		for _, item := range graph.Flattened {
			key := string(libraryType(item.Identity.Type)) + ":" + item.Identity.Key()
			if _, ok := items[key]; !ok {
				items[key] = item
			}
		}
	}

	ordered := slices.Collect(maps.Values(items))
	slices.SortFunc(ordered, func(a, b *domain.GraphItem) int {
		if c := domain.CompareIdentities(a.Identity, b.Identity); c != 0 {
			return c
		}
		return strings.Compare(string(a.Identity.Type), string(b.Identity.Type))
	})

	var out []*domain.LockFileLibrary
	for _, item := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if st.isProjectItself(item) {
			continue
		}

		switch item.Identity.Type {
		case domain.LibraryTypeProject, domain.LibraryTypeExternalProject:
			out = append(out, st.projectLibrary(item))
		case domain.LibraryTypePackage:
			if entry := st.packageLibrary(item.Identity); entry != nil {
				out = append(out, entry.library)
			}
		}
	}
	return out, nil
}

func (st *build) isProjectItself(item *domain.GraphItem) bool {
	self := st.req.Project.Identity()
	return libraryType(item.Identity.Type) == domain.LibraryTypeProject &&
		strings.EqualFold(item.Identity.Name, self.Name)
}

func (st *build) projectLibrary(item *domain.GraphItem) *domain.LockFileLibrary {
	rel := item.Path
	if r, err := filepath.Rel(st.req.Project.BaseDirectory, item.Path); err == nil {
		rel = r
	}
	rel = filepath.ToSlash(rel)
	return &domain.LockFileLibrary{
		Name:           item.Identity.Name,
		Version:        item.Identity.Version,
		Type:           domain.LibraryTypeProject,
		Path:           rel,
		MSBuildProject: path.Join(rel, domain.ProjectFileName),
	}
}

// packageLibrary locates the package and builds its library entry. Packages that cannot be located
// or whose hash cannot be read are left out of the lock file.
func (st *build) packageLibrary(id domain.LibraryIdentity) *packageEntry {
	key := id.Key()
	if entry, ok := st.packages[key]; ok {
		return entry
	}
	st.packages[key] = nil

	pkg, ok := st.repository.FindPackage(id.Name, id.Version)
	if !ok {
		st.logger.Debug("package " + id.String() + " is not installed, leaving it out of the lock file")
		return nil
	}

	sha512, err := st.reader.ReadHash(pkg)
	if err != nil {
		st.logger.Warn(zerr.With(err, "package", id.String()).Error())
		return nil
	}

	library := st.reuse(id, sha512)
	if library == nil {
		files, err := st.reader.ListFiles(pkg)
		if err != nil {
			st.logger.Warn(zerr.With(err, "package", id.String()).Error())
			return nil
		}
		library = &domain.LockFileLibrary{
			Name:    pkg.ID,
			Version: pkg.Version,
			Type:    domain.LibraryTypePackage,
			Sha512:  sha512,
			Path:    filepath.ToSlash(domain.PackageFolder(pkg.ID, pkg.Version)),
			Files:   normalizeFiles(files),
		}
	}

	manifest, err := st.reader.ReadManifest(pkg)
	if err != nil {
		st.logger.Warn(zerr.With(err, "package", id.String()).Error())
		manifest = nil
	}

	entry := &packageEntry{library: library, manifest: manifest}
	st.packages[key] = entry
	return entry
}

// reuse returns a copy of the previous lock file's entry for id when its hash equals sha512.
// The file list is shared with the previous entry unless separators had to be normalized.
func (st *build) reuse(id domain.LibraryIdentity, sha512 string) *domain.LockFileLibrary {
	prev := st.req.Previous.GetLibrary(id.Name, id.Version)
	if prev == nil || prev.Type != domain.LibraryTypePackage || prev.Sha512 != sha512 {
		return nil
	}
	reused := *prev
	reused.Files = normalizeFiles(prev.Files)
	if reused.Path == "" {
		reused.Path = filepath.ToSlash(domain.PackageFolder(prev.Name, prev.Version))
	}
	return &reused
}

// normalizeFiles returns files with forward slashes. The input slice is returned as is when it
// already uses them.
func normalizeFiles(files []string) []string {
	if !slices.ContainsFunc(files, func(f string) bool { return strings.Contains(f, `\`) }) {
		return files
	}
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = strings.ReplaceAll(f, `\`, "/")
	}
	return out
}

// libraryType folds external projects into projects: both are written as project libraries.
func libraryType(t domain.LibraryType) domain.LibraryType {
	if t == domain.LibraryTypeExternalProject {
		return domain.LibraryTypeProject
	}
	return t
}
