package assets

import (
	"path"
	"slices"
	"strings"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
)

// buildItems returns the build integration files of a package: buildTransitive files first, then
// build files whose name is not already provided by buildTransitive.
func (s *Selector) buildItems(files []string, criteria []ports.SelectionCriteria, packageID string) []domain.LockFileItem {
	transitive := filterBuildItems(s.firstGroup(files, criteria, ports.AssetBuildTransitive), packageID)
	build := filterBuildItems(s.firstGroup(files, criteria, ports.AssetBuild), packageID)

	out := transitive
	for _, item := range build {
		shadowed := slices.ContainsFunc(transitive, func(t domain.LockFileItem) bool {
			return strings.EqualFold(path.Base(t.Path), path.Base(item.Path))
		})
		if !shadowed {
			out = append(out, item)
		}
	}
	return out
}

// filterBuildItems keeps {id}.props and {id}.targets. When neither exists the empty marker of the
// group is kept so the folder still counts as matched.
func filterBuildItems(items []domain.LockFileItem, packageID string) []domain.LockFileItem {
	if len(items) == 0 {
		return nil
	}

	ordered := slices.Clone(items)
	slices.SortStableFunc(ordered, func(a, b domain.LockFileItem) int {
		return strings.Compare(strings.ToLower(a.Path), strings.ToLower(b.Path))
	})

	var out []domain.LockFileItem
	for _, ext := range []string{".props", ".targets"} {
		name := packageID + ext
		if i := slices.IndexFunc(ordered, func(item domain.LockFileItem) bool {
			return strings.EqualFold(path.Base(item.Path), name)
		}); i >= 0 {
			out = append(out, ordered[i])
		}
	}
	if len(out) > 0 {
		return out
	}

	if i := slices.IndexFunc(ordered, func(item domain.LockFileItem) bool {
		return strings.HasSuffix(item.Path, "/"+domain.EmptyMarker)
	}); i >= 0 {
		out = append(out, ordered[i])
	}
	return out
}

// MSBuildFiles returns the props and targets files of a target entry that are named after the
// package, in the order they appear.
func MSBuildFiles(lib *domain.LockFileTargetLibrary) (props, targets []string) {
	for _, item := range lib.Build {
		base := path.Base(item.Path)
		stem := strings.TrimSuffix(base, path.Ext(base))
		if !strings.EqualFold(stem, lib.Name) {
			continue
		}
		switch strings.ToLower(path.Ext(base)) {
		case ".props":
			props = append(props, item.Path)
		case ".targets":
			targets = append(targets, item.Path)
		}
	}
	return props, targets
}
