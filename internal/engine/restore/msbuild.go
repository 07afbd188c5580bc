package restore

import (
	"path/filepath"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/engine/assets"
	"go.trai.ch/restore/internal/engine/lockfile"
)

// msbuildFiles lists the build integration files of the project's only framework graph.
// Projects with several frameworks get none.
// TODO: aggregate per framework once the build integration can condition imports on the framework.
func (r *run) msbuildFiles(graphs []*domain.RestoreTargetGraph, built *lockfile.Result) MSBuildFiles {
	var out MSBuildFiles
	if len(r.project.Frameworks) != 1 || len(graphs) == 0 {
		return out
	}

	graph := graphs[0]
	target := built.LockFile.GetTarget(graph.Framework, graph.RuntimeID)
	if target == nil {
		return out
	}
	flags := built.IncludeFlags[graph.Name()]

	for _, lib := range target.Libraries {
		if lib.Type != domain.LibraryTypePackage {
			continue
		}
		if !flags.FlagsOrDefault(lib.Name, domain.IncludeNoContent).Has(domain.IncludeBuild) {
			continue
		}
		pkg, ok := r.env.Repository.FindPackage(lib.Name, lib.Version)
		if !ok {
			continue
		}
		props, targets := assets.MSBuildFiles(lib)
		for _, p := range props {
			out.Props = append(out.Props, filepath.Join(pkg.ExpandedPath, filepath.FromSlash(p)))
		}
		for _, t := range targets {
			out.Targets = append(out.Targets, filepath.Join(pkg.ExpandedPath, filepath.FromSlash(t)))
		}
	}
	return out
}
