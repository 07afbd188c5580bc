package assets

import (
	"maps"
	"path"
	"slices"
	"strings"

	"go.trai.ch/restore/internal/core/domain"
)

// ExcludeItems removes the categories flags does not include from lib. A removed category that
// had real items is replaced by one empty marker item so its folder shape survives.
func ExcludeItems(lib *domain.LockFileTargetLibrary, flags domain.IncludeFlags) {
	if !flags.Has(domain.IncludeRuntime) {
		lib.RuntimeAssemblies = clearIfExists(lib.RuntimeAssemblies)
		lib.ResourceAssemblies = clearIfExists(lib.ResourceAssemblies)
		lib.FrameworkAssemblies = nil
	}

	if !flags.Has(domain.IncludeCompile) {
		lib.CompileTimeAssemblies = clearIfExists(lib.CompileTimeAssemblies)
	}

	if !flags.Has(domain.IncludeNative) {
		lib.NativeLibraries = clearIfExists(lib.NativeLibraries)
	}

	if !flags.Has(domain.IncludeContentFiles) && hasNonEmptyItems(lib.ContentFiles) {
		lib.ContentFiles = []domain.LockFileItem{emptyContentItem(lib.ContentFiles)}
	}

	switch {
	case !flags.HasAny(domain.IncludeBuild | domain.IncludeBuildTransitive):
		lib.Build = clearIfExists(lib.Build)
	case !flags.Has(domain.IncludeBuild):
		lib.Build = excludeBuildFolder(lib.Build)
	}
}

// excludeBuildFolder drops build/ items and keeps buildTransitive/ ones. Without any
// buildTransitive item the whole category is cleared.
func excludeBuildFolder(items []domain.LockFileItem) []domain.LockFileItem {
	hasTransitive := slices.ContainsFunc(items, func(item domain.LockFileItem) bool {
		return hasFoldPrefix(item.Path, "buildTransitive/")
	})
	if !hasTransitive {
		return clearIfExists(items)
	}

	var out []domain.LockFileItem
	for _, item := range items {
		if !hasFoldPrefix(item.Path, "build/") {
			out = append(out, item)
		}
	}
	return out
}

// clearIfExists replaces a group holding at least one real item with a single empty marker
// placed in the shallowest folder of the group.
func clearIfExists(items []domain.LockFileItem) []domain.LockFileItem {
	if !hasNonEmptyItems(items) {
		return items
	}
	first := rootItem(items)
	dir := first.Path[:strings.LastIndex(first.Path, "/")+1]
	return []domain.LockFileItem{{
		Path:       dir + domain.EmptyMarker,
		Properties: maps.Clone(first.Properties),
	}}
}

// emptyContentItem keeps the language, build action and copy setting of the group so tooling
// still sees how the folder would have been consumed.
func emptyContentItem(items []domain.LockFileItem) domain.LockFileItem {
	first := rootItem(items)
	dir := first.Path[:strings.LastIndex(first.Path, "/")+1]
	empty := domain.NewLockFileItem(dir + domain.EmptyMarker)
	for _, key := range []string{domain.PropertyCodeLanguage, domain.PropertyBuildAction, domain.PropertyCopyToOutput} {
		if v, ok := first.Properties[key]; ok {
			empty = empty.WithProperty(key, v)
		}
	}
	return empty
}

// rootItem returns the item with the shortest directory, ties broken by path.
func rootItem(items []domain.LockFileItem) domain.LockFileItem {
	return slices.MinFunc(items, func(a, b domain.LockFileItem) int {
		if c := strings.LastIndex(a.Path, "/") - strings.LastIndex(b.Path, "/"); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.Path), strings.ToLower(b.Path))
	})
}

func hasNonEmptyItems(items []domain.LockFileItem) bool {
	return slices.ContainsFunc(items, func(item domain.LockFileItem) bool {
		return path.Base(item.Path) != domain.EmptyMarker
	})
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
