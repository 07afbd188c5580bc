package lockfile

import (
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/engine/assets"
	"go.trai.ch/restore/internal/engine/flatten"
)

// target builds the lock file target of graph. Libraries appear in the graph's flattened order.
func (st *build) target(graph *domain.RestoreTargetGraph, flags flatten.Result) *domain.LockFileTarget {
	out := &domain.LockFileTarget{Framework: graph.Framework, RuntimeID: graph.RuntimeID}

	selection := assets.Target{
		Framework:  graph.Framework,
		Fallback:   graph.Fallback,
		RuntimeIDs: graph.RuntimeGraph.ExpandRuntime(graph.RuntimeID),
	}
	for _, item := range graph.Flattened {
		if st.isProjectItself(item) {
			continue
		}

		switch item.Identity.Type {
		case domain.LibraryTypeProject, domain.LibraryTypeExternalProject:
			out.Libraries = append(out.Libraries, projectTargetLibrary(item))

		case domain.LibraryTypePackage:
			entry := st.packageLibrary(item.Identity)
			if entry == nil {
				continue
			}
			in := assets.Input{
				Library:      entry.library,
				Manifest:     entry.manifest,
				Dependencies: append([]domain.LibraryDependency{}, item.Dependencies...),
				// Libraries the flattening never reached get everything but content.
				Flags: flags.FlagsOrDefault(item.Identity.Name, domain.IncludeNoContent),
			}
			lib := st.selector.Select(in, selection)

			if st.warnForImports && selection.HasFallback() {
				st.warnOnFallback(in, selection, lib, graph)
			}
			out.Libraries = append(out.Libraries, lib)
		}
	}
	return out
}

// warnOnFallback warns once per library when the fallback frameworks changed its selected assets.
func (st *build) warnOnFallback(in assets.Input, selection assets.Target, lib *domain.LockFileTargetLibrary, graph *domain.RestoreTargetGraph) {
	key := domain.NameKey(lib.Name)
	if st.warned[key] {
		return
	}
	primary := st.selector.Select(in, selection.WithoutFallback())
	if primary.Equal(lib) {
		return
	}
	st.warned[key] = true
	st.logger.Warn("package " + lib.Name + " " + lib.Version.String() + " was restored using " +
		"fallback frameworks instead of the project target framework " + graph.Framework.String() +
		". It may not be fully compatible with your project.")
}

// projectTargetLibrary builds the target entry of a referenced project. Only edges that can reach
// packages or projects and are not fully suppressed are written.
func projectTargetLibrary(item *domain.GraphItem) *domain.LockFileTargetLibrary {
	lib := &domain.LockFileTargetLibrary{
		Name:    item.Identity.Name,
		Version: item.Identity.Version,
		Type:    domain.LibraryTypeProject,
	}
	if item.ProjectFramework != (domain.Framework{}) {
		lib.Framework = item.ProjectFramework.String()
	}

	for _, dep := range item.Dependencies {
		constraint := dep.Range.TypeConstraint
		if constraint != domain.TargetNone && !constraint.Allows(domain.TargetPackageProjectExternal) {
			continue
		}
		if dep.SuppressParent == domain.IncludeAll {
			continue
		}
		r := dep.Range.VersionRange
		if r.IsAll() && constraint.Allows(domain.TargetExternalProject) {
			r = domain.AtLeast(domain.NewVersion(1, 0, 0))
		}
		lib.Dependencies = append(lib.Dependencies, domain.PackageDependency{ID: dep.Name(), Range: r})
	}
	return lib
}
