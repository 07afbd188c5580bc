// Package walker discovers the dependency graph of a project from its packages folder, its folder
// feeds and the projects it references.
package walker

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"

	"go.trai.ch/restore/internal/adapters/feed"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/zerr"
)

// externalProjectVersion is the version of a referenced project that has no definition file.
var externalProjectVersion = domain.NewVersion(1, 0, 0)

// Walker implements ports.Walker for one project.
//
// Every range resolves to the lowest version that satisfies it. A dependency declared nearer to the
// root hides the same dependency declared deeper in the same branch; when the nearer request is
// lower, the hidden one is reported as a downgrade. Among cousins the highest version wins and every
// request it does not satisfy is reported as a conflict.
type Walker struct {
	project  *domain.ProjectSpec
	projects map[string]domain.ExternalProject
	repo     ports.LocalRepository
	reader   ports.PackageReader
	feeds    feed.Set
	matcher  ports.AssetMatcher
	logger   ports.Logger

	feedWarned sync.Map
}

var _ ports.Walker = (*Walker)(nil)

// New creates a walker for project.
func New(
	project *domain.ProjectSpec,
	repo ports.LocalRepository,
	reader ports.PackageReader,
	feeds feed.Set,
	matcher ports.AssetMatcher,
	logger ports.Logger,
) (*Walker, error) {
	switch {
	case project == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "project")
	case repo == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "local repository")
	case reader == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "package reader")
	case matcher == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "asset matcher")
	case logger == nil:
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "logger")
	}
	return &Walker{
		project:  project,
		projects: collectProjects(project),
		repo:     repo,
		reader:   reader,
		feeds:    feeds,
		matcher:  matcher,
		logger:   logger,
	}, nil
}

// collectProjects indexes every project reachable through references, nearest reference first.
func collectProjects(root *domain.ProjectSpec) map[string]domain.ExternalProject {
	out := make(map[string]domain.ExternalProject)
	queue := []*domain.ProjectSpec{root}
	visited := map[*domain.ProjectSpec]bool{root: true}
	for len(queue) > 0 {
		spec := queue[0]
		queue = queue[1:]
		for _, ep := range spec.ExternalProjects {
			key := domain.NameKey(ep.Name)
			if _, ok := out[key]; !ok {
				out[key] = ep
			}
			if ep.Spec != nil && !visited[ep.Spec] {
				visited[ep.Spec] = true
				queue = append(queue, ep.Spec)
			}
		}
	}
	return out
}

// walk holds the state of one Walk call.
type walk struct {
	*Walker
	req        ports.WalkRequest
	items      map[string]*domain.GraphItem
	cycles     []*domain.GraphNode
	downgrades []domain.Downgrade
}

// Walk resolves req.Range and, in recursive mode, everything it depends on.
func (w *Walker) Walk(ctx context.Context, req ports.WalkRequest) (*domain.WalkResult, error) {
	ws := &walk{Walker: w, req: req, items: make(map[string]*domain.GraphItem)}

	item, err := ws.resolve(ctx, req.Range)
	if err != nil {
		return nil, err
	}
	root := &domain.GraphNode{Range: req.Range, Item: item}
	if !req.Recursive {
		return &domain.WalkResult{Root: root}, nil
	}

	if err := ws.expand(ctx, root); err != nil {
		return nil, err
	}
	return &domain.WalkResult{
		Root:       root,
		Conflicts:  resolveConflicts(root),
		Cycles:     ws.cycles,
		Downgrades: ws.downgrades,
	}, nil
}

// expand creates the children of n before walking any of them, so a deeper request can see every
// nearer request of its branch.
func (ws *walk) expand(ctx context.Context, n *domain.GraphNode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.Item == nil || n.Item.IsUnresolved() {
		return nil
	}

	var walkable []*domain.GraphNode
	for _, dep := range n.Item.Dependencies {
		child := &domain.GraphNode{Range: dep.Range}

		if hasAncestor(n, dep.Name()) {
			child.Disposition = domain.DispositionCycle
			n.AddChild(child)
			ws.cycles = append(ws.cycles, child)
			continue
		}

		if nearer := nearerRequest(n, dep.Name()); nearer != nil {
			if isDowngrade(nearer.Range.VersionRange, dep.Range.VersionRange) {
				child.Parent = n
				child.Disposition = domain.DispositionRejected
				ws.downgrades = append(ws.downgrades, domain.Downgrade{DowngradedFrom: child, DowngradedTo: nearer})
			}
			continue
		}

		item, err := ws.resolve(ctx, dep.Range)
		if err != nil {
			return err
		}
		child.Item = item
		n.AddChild(child)
		walkable = append(walkable, child)
	}

	for _, child := range walkable {
		if err := ws.expand(ctx, child); err != nil {
			return err
		}
	}
	return nil
}

// hasAncestor reports whether n or one of its ancestors is the library name.
func hasAncestor(n *domain.GraphNode, name string) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if strings.EqualFold(nodeName(cur), name) {
			return true
		}
	}
	return false
}

// nearerRequest returns the accepted request for name declared by an ancestor of n.
func nearerRequest(n *domain.GraphNode, name string) *domain.GraphNode {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		for _, sibling := range cur.Children {
			if sibling.Disposition == domain.DispositionAccepted && strings.EqualFold(sibling.Range.Name, name) {
				return sibling
			}
		}
	}
	return nil
}

// isDowngrade reports whether the nearer range resolves below the lower bound of the farther one.
func isDowngrade(nearer, farther domain.VersionRange) bool {
	if !farther.HasMin {
		return false
	}
	return !nearer.HasMin || nearer.Min.Less(farther.Min)
}

func nodeName(n *domain.GraphNode) string {
	if n.Item != nil && !n.Item.IsUnresolved() {
		return n.Item.Identity.Name
	}
	return n.Range.Name
}

// resolve returns the library a range resolves to, or an unresolved placeholder.
func (ws *walk) resolve(ctx context.Context, r domain.LibraryRange) (*domain.GraphItem, error) {
	key := strconv.Itoa(int(r.TypeConstraint)) + "|" + domain.NameKey(r.Name) + "|" + r.VersionRange.String()
	if item, ok := ws.items[key]; ok {
		return item, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	item, err := ws.resolveUncached(r)
	if err != nil {
		return nil, err
	}
	ws.items[key] = item
	return item, nil
}

func (ws *walk) resolveUncached(r domain.LibraryRange) (*domain.GraphItem, error) {
	if r.TypeConstraint.Allows(domain.TargetProject | domain.TargetExternalProject) {
		if strings.EqualFold(r.Name, ws.project.Name) {
			return ws.rootItem(), nil
		}
		if ep, ok := ws.projects[domain.NameKey(r.Name)]; ok {
			return ws.projectItem(ep), nil
		}
	}
	if r.TypeConstraint.Allows(domain.TargetPackage) {
		return ws.packageItem(r)
	}
	return unresolved(r), nil
}

func unresolved(r domain.LibraryRange) *domain.GraphItem {
	return &domain.GraphItem{Identity: domain.LibraryIdentity{Name: r.Name, Type: domain.LibraryTypeUnresolved}}
}

func (ws *walk) rootItem() *domain.GraphItem {
	return &domain.GraphItem{
		Identity:         ws.project.Identity(),
		Dependencies:     ws.project.DirectDependencies(ws.req.Framework),
		Path:             ws.project.BaseDirectory,
		ProjectFramework: ws.req.Framework,
	}
}

// projectItem resolves a referenced project for the walked framework. A project without a
// definition file has no dependencies and is assumed to fit every framework.
func (ws *walk) projectItem(ep domain.ExternalProject) *domain.GraphItem {
	if ep.Spec == nil {
		return &domain.GraphItem{
			Identity: domain.LibraryIdentity{Name: ep.Name, Version: externalProjectVersion, Type: domain.LibraryTypeExternalProject},
			Path:     ep.Path,
		}
	}

	item := &domain.GraphItem{
		Identity:         ep.Spec.Identity(),
		Path:             ep.Path,
		ProjectFramework: domain.UnsupportedFramework,
	}
	frameworks := make([]domain.Framework, 0, len(ep.Spec.Frameworks))
	for _, tf := range ep.Spec.Frameworks {
		frameworks = append(frameworks, tf.Framework)
	}
	if idx, ok := ws.nearest(frameworks); ok {
		item.ProjectFramework = frameworks[idx]
		item.Dependencies = ep.Spec.DirectDependencies(frameworks[idx])
	}
	return item
}

// nearest picks the candidate nearest to the walked framework, then to each of its fallbacks.
func (ws *walk) nearest(candidates []domain.Framework) (int, bool) {
	if idx, ok := ws.matcher.Nearest(ws.req.Framework, candidates); ok {
		return idx, true
	}
	if tf, ok := ws.project.GetFramework(ws.req.Framework); ok {
		for _, fallback := range tf.Imports {
			if idx, ok := ws.matcher.Nearest(fallback, candidates); ok {
				return idx, true
			}
		}
	}
	return -1, false
}

// packageItem picks the lowest version satisfying r among the installed packages and the feeds.
// An installed version needs no install.
func (ws *walk) packageItem(r domain.LibraryRange) (*domain.GraphItem, error) {
	installed := ws.repo.FindPackagesByID(r.Name)
	candidates := make([]domain.Version, 0, len(installed))
	for _, p := range installed {
		candidates = append(candidates, p.Version)
	}
	for _, f := range ws.feeds {
		versions, err := f.Versions(r.Name)
		if err != nil {
			ws.warnFeed(f, err)
			continue
		}
		candidates = append(candidates, versions...)
	}

	best, ok := r.VersionRange.BestMatch(candidates)
	if !ok {
		return unresolved(r), nil
	}

	var manifest *domain.PackageManifest
	var source string
	if idx := slices.IndexFunc(installed, func(p domain.LocalPackageInfo) bool { return p.Version.Equal(best) }); idx >= 0 {
		m, err := ws.reader.ReadManifest(installed[idx])
		if err != nil {
			return nil, zerr.With(err, "package", r.Name+" "+best.String())
		}
		manifest = m
	} else {
		for _, f := range ws.feeds {
			entry, found, err := f.Find(r.Name, best)
			if err != nil || !found {
				continue
			}
			manifest, source = entry.Manifest, f.Source()
			break
		}
	}
	if manifest == nil {
		return unresolved(r), nil
	}

	return &domain.GraphItem{
		Identity:     domain.LibraryIdentity{Name: manifest.ID, Version: best, Type: domain.LibraryTypePackage},
		Dependencies: ws.packageDependencies(manifest),
		Source:       source,
	}, nil
}

// packageDependencies returns the dependency group nearest to the walked framework plus the runtime
// specific dependencies of the walked runtime.
func (ws *walk) packageDependencies(manifest *domain.PackageManifest) []domain.LibraryDependency {
	var deps []domain.LibraryDependency
	frameworks := make([]domain.Framework, 0, len(manifest.DependencyGroups))
	for _, g := range manifest.DependencyGroups {
		frameworks = append(frameworks, g.TargetFramework)
	}
	if idx, ok := ws.nearest(frameworks); ok {
		for _, p := range manifest.DependencyGroups[idx].Packages {
			deps = append(deps, domain.NewPackageDependency(p.ID, p.Range))
		}
	}

	if ws.req.RuntimeID == "" {
		return deps
	}
	for _, extra := range ws.req.RuntimeGraph.FindRuntimeDependencies(ws.req.RuntimeID, manifest.ID) {
		if !slices.ContainsFunc(deps, func(d domain.LibraryDependency) bool { return strings.EqualFold(d.Name(), extra.Name()) }) {
			deps = append(deps, extra)
		}
	}
	return deps
}

func (ws *walk) warnFeed(f *feed.Feed, err error) {
	if _, loaded := ws.feedWarned.LoadOrStore(f.Source(), true); !loaded {
		ws.logger.Warn(err.Error())
	}
}
