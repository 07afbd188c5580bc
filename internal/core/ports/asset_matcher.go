package ports

import "go.trai.ch/restore/internal/core/domain"

// AssetCategory names a convention-based group of package files.
type AssetCategory string

// Asset categories.
const (
	AssetCompileRef      AssetCategory = "compileRef"
	AssetCompileLib      AssetCategory = "compileLib"
	AssetRuntime         AssetCategory = "runtime"
	AssetResource        AssetCategory = "resource"
	AssetNative          AssetCategory = "native"
	AssetBuild           AssetCategory = "build"
	AssetBuildTransitive AssetCategory = "buildTransitive"
	AssetContentFiles    AssetCategory = "contentFiles"
)

// SelectionCriteria is what an asset group is matched against.
type SelectionCriteria struct {
	Framework domain.Framework
	// RuntimeIDs is the expanded runtime chain, nearest first. Empty for runtime agnostic targets.
	RuntimeIDs []string
}

// AssetGroup is a set of files that share a framework, runtime and, for content files, a language.
type AssetGroup struct {
	Framework domain.Framework
	RuntimeID string
	// Language is the code language of a content file group.
	Language string
	Items    []domain.LockFileItem
}

// AssetMatcher selects the groups of package files that best fit a target.
//
//go:generate mockgen -source=asset_matcher.go -destination=mocks/mock_asset_matcher.go -package=mocks
type AssetMatcher interface {
	// FindBestGroup returns the best matching group of the first category that has one.
	FindBestGroup(files []string, criteria SelectionCriteria, categories ...AssetCategory) (*AssetGroup, bool)
	// FindContentGroups returns the nearest content group for each code language.
	FindContentGroups(files []string, framework domain.Framework) []AssetGroup
	// Nearest returns the index of the candidate framework nearest to target.
	Nearest(target domain.Framework, candidates []domain.Framework) (int, bool)
	// IsCompatible reports whether assets built for candidate can be consumed by target.
	IsCompatible(target, candidate domain.Framework) bool
}
