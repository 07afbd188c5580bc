// Package assets selects, for one library and one target, the package files each asset category exposes.
package assets

import (
	"path"
	"strings"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/zerr"
)

const contractFolder = "lib/contract/"

// Target is the framework and runtime assets are selected for.
type Target struct {
	Framework domain.Framework
	// Fallback frameworks are tried in order for every category the primary framework matches nothing in.
	Fallback []domain.Framework
	// RuntimeIDs is the expanded runtime chain, nearest first.
	RuntimeIDs []string
}

// WithoutFallback returns the target restricted to its primary framework.
func (t Target) WithoutFallback() Target {
	t.Fallback = nil
	return t
}

// HasFallback reports whether the target declares fallback frameworks.
func (t Target) HasFallback() bool {
	return len(t.Fallback) > 0
}

func (t Target) frameworks() []domain.Framework {
	return append([]domain.Framework{t.Framework}, t.Fallback...)
}

// Input is one library to select assets for.
type Input struct {
	Library  *domain.LockFileLibrary
	Manifest *domain.PackageManifest
	// Dependencies are the graph's edges for the library. When nil, the manifest's dependency
	// group nearest to the target is used.
	Dependencies []domain.LibraryDependency
	// Flags are the effective include flags of the library.
	Flags domain.IncludeFlags
}

// Selector builds lock file target entries for packages.
type Selector struct {
	matcher ports.AssetMatcher
}

// NewSelector creates a selector that matches package files with matcher.
func NewSelector(matcher ports.AssetMatcher) (*Selector, error) {
	if matcher == nil {
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "asset matcher")
	}
	return &Selector{matcher: matcher}, nil
}

// Select returns the target entry of in.Library for target.
func (s *Selector) Select(in Input, target Target) *domain.LockFileTargetLibrary {
	lib := &domain.LockFileTargetLibrary{
		Name:    in.Library.Name,
		Version: in.Library.Version,
		Type:    domain.LibraryTypePackage,
	}
	files := in.Library.Files
	criteria := s.criteria(target)

	lib.FrameworkAssemblies = s.frameworkAssemblies(in.Manifest, target)

	// ref takes precedence over lib
	lib.CompileTimeAssemblies = s.firstGroup(files, criteria, ports.AssetCompileRef, ports.AssetCompileLib)
	lib.RuntimeAssemblies = s.firstGroup(files, criteria, ports.AssetRuntime)
	lib.ResourceAssemblies = s.firstGroup(files, criteria, ports.AssetResource)
	lib.NativeLibraries = s.firstGroup(files, criteria, ports.AssetNative)
	lib.Build = s.buildItems(files, criteria, in.Library.Name)
	lib.ContentFiles = s.contentFiles(files, target, in.Manifest)

	applyLibContract(lib, files, target.Framework)
	s.applyReferenceFilter(lib, in.Manifest, target)

	lib.Dependencies = s.dependencies(in, target)

	ExcludeItems(lib, in.Flags)
	return lib
}

func (s *Selector) criteria(target Target) []ports.SelectionCriteria {
	frameworks := target.frameworks()
	out := make([]ports.SelectionCriteria, 0, len(frameworks))
	for _, f := range frameworks {
		out = append(out, ports.SelectionCriteria{Framework: f, RuntimeIDs: target.RuntimeIDs})
	}
	return out
}

// firstGroup returns the items of the first criteria that matches a group of the categories.
func (s *Selector) firstGroup(files []string, criteria []ports.SelectionCriteria, categories ...ports.AssetCategory) []domain.LockFileItem {
	for _, c := range criteria {
		if group, ok := s.matcher.FindBestGroup(files, c, categories...); ok {
			return cloneItems(group.Items)
		}
	}
	return nil
}

// nearestGroup returns the index of the group whose framework is nearest to the first framework of
// the target that any group is compatible with.
func (s *Selector) nearestGroup(target Target, frameworks []domain.Framework) (int, bool) {
	if len(frameworks) == 0 {
		return 0, false
	}
	for _, f := range target.frameworks() {
		if idx, ok := s.matcher.Nearest(f, frameworks); ok {
			return idx, true
		}
	}
	return 0, false
}

func (s *Selector) frameworkAssemblies(manifest *domain.PackageManifest, target Target) []string {
	// Package based frameworks deliver their own libraries as packages.
	if manifest == nil || target.Framework.IsPackageBased() {
		return nil
	}
	groups := manifest.FrameworkAssemblyGroups
	idx, ok := s.nearestGroup(target, groupFrameworks(groups))
	if !ok {
		return nil
	}
	return append([]string(nil), groups[idx].Items...)
}

func (s *Selector) applyReferenceFilter(lib *domain.LockFileTargetLibrary, manifest *domain.PackageManifest, target Target) {
	if manifest == nil || len(manifest.ReferenceGroups) == 0 {
		return
	}
	if len(lib.CompileTimeAssemblies) == 0 && len(lib.RuntimeAssemblies) == 0 {
		return
	}
	idx, ok := s.nearestGroup(target, groupFrameworks(manifest.ReferenceGroups))
	if !ok {
		return
	}

	allowed := make(map[string]bool, len(manifest.ReferenceGroups[idx].Items))
	for _, ref := range manifest.ReferenceGroups[idx].Items {
		allowed[strings.ToLower(ref)] = true
	}
	keep := func(items []domain.LockFileItem) []domain.LockFileItem {
		var out []domain.LockFileItem
		for _, item := range items {
			// Only lib/ is filtered, runtimes/ is unaffected.
			if !strings.HasPrefix(item.Path, "lib/") || allowed[strings.ToLower(path.Base(item.Path))] {
				out = append(out, item)
			}
		}
		return out
	}
	lib.RuntimeAssemblies = keep(lib.RuntimeAssemblies)
	lib.CompileTimeAssemblies = keep(lib.CompileTimeAssemblies)
}

// applyLibContract replaces the compile assets of non desktop targets with lib/contract/{id}.dll
// when the package ships one next to runtime assets.
func applyLibContract(lib *domain.LockFileTargetLibrary, files []string, framework domain.Framework) {
	if len(lib.RuntimeAssemblies) == 0 || framework.IsDesktop() {
		return
	}
	contract := contractFolder + lib.Name + ".dll"
	for _, f := range files {
		if f == contract {
			lib.CompileTimeAssemblies = []domain.LockFileItem{domain.NewLockFileItem(contract)}
			return
		}
	}
}

func (s *Selector) dependencies(in Input, target Target) []domain.PackageDependency {
	if in.Dependencies != nil {
		var out []domain.PackageDependency
		for _, d := range in.Dependencies {
			constraint := d.Range.TypeConstraint
			if constraint != domain.TargetNone && !constraint.Allows(domain.TargetPackageProjectExternal) {
				continue
			}
			out = append(out, domain.PackageDependency{ID: d.Name(), Range: d.Range.VersionRange})
		}
		return out
	}

	if in.Manifest == nil {
		return nil
	}
	frameworks := make([]domain.Framework, 0, len(in.Manifest.DependencyGroups))
	for _, g := range in.Manifest.DependencyGroups {
		frameworks = append(frameworks, g.TargetFramework)
	}
	idx, ok := s.nearestGroup(target, frameworks)
	if !ok {
		return nil
	}
	return append([]domain.PackageDependency(nil), in.Manifest.DependencyGroups[idx].Packages...)
}

func groupFrameworks(groups []domain.FrameworkSpecificGroup) []domain.Framework {
	out := make([]domain.Framework, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.TargetFramework)
	}
	return out
}

func cloneItems(items []domain.LockFileItem) []domain.LockFileItem {
	if len(items) == 0 {
		return nil
	}
	return append([]domain.LockFileItem(nil), items...)
}
