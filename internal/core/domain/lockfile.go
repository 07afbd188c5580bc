package domain

import (
	"maps"
	"slices"
	"strings"
)

// LockFileFormatVersion is the version written to new lock files.
const LockFileFormatVersion = 2

// LockFile is the persisted record of a restore: which libraries were chosen
// and which of their assets each target sees.
type LockFile struct {
	// Locked marks the file as authoritative: later restores reuse its versions instead of walking.
	Locked bool

	// Version is the lock file format version.
	Version int

	// Targets holds one entry per framework and runtime pair, ordered by name.
	Targets []*LockFileTarget

	// Libraries holds one entry per resolved library across all targets, ordered by identity.
	Libraries []*LockFileLibrary

	// ProjectFileDependencyGroups records the declared dependencies the file was built from.
	ProjectFileDependencyGroups []ProjectFileDependencyGroup
}

// ProjectFileDependencyGroup lists the declared dependencies for one framework.
// The empty framework name holds the dependencies shared by all frameworks.
type ProjectFileDependencyGroup struct {
	FrameworkName string
	Dependencies  []string
}

// LockFileLibrary is the global record of one resolved library.
type LockFileLibrary struct {
	Name    string
	Version Version
	Type    LibraryType
	Sha512  string
	// Path is the library folder relative to the packages folder, or the project directory.
	Path string
	// MSBuildProject is the project file of a project library.
	MSBuildProject string
	Files          []string
}

// Identity returns the library identity of the entry.
func (l *LockFileLibrary) Identity() LibraryIdentity {
	return LibraryIdentity{Name: l.Name, Version: l.Version, Type: l.Type}
}

// LockFileTarget holds the asset selections of every library for one framework and runtime.
type LockFileTarget struct {
	Framework Framework
	RuntimeID string
	Libraries []*LockFileTargetLibrary
}

// Name returns "framework" or "framework/rid".
func (t *LockFileTarget) Name() string {
	return FrameworkRuntimePair{Framework: t.Framework, RuntimeID: t.RuntimeID}.Name()
}

// GetLibrary returns the target entry for the named library.
func (t *LockFileTarget) GetLibrary(name string) *LockFileTargetLibrary {
	for _, lib := range t.Libraries {
		if strings.EqualFold(lib.Name, name) {
			return lib
		}
	}
	return nil
}

// Lock file item property names.
const (
	PropertyLocale       = "locale"
	PropertyCodeLanguage = "codeLanguage"
	PropertyBuildAction  = "buildAction"
	PropertyCopyToOutput = "copyToOutput"
	PropertyOutputPath   = "outputPath"
	PropertyPPOutputPath = "ppOutputPath"
)

// LockFileItem is one selected asset path with optional properties such as "locale".
type LockFileItem struct {
	Path       string
	Properties map[string]string
}

// NewLockFileItem creates an item without properties.
func NewLockFileItem(path string) LockFileItem {
	return LockFileItem{Path: path}
}

// WithProperty returns a copy of the item with key set to value.
func (i LockFileItem) WithProperty(key, value string) LockFileItem {
	props := maps.Clone(i.Properties)
	if props == nil {
		props = make(map[string]string, 1)
	}
	props[key] = value
	i.Properties = props
	return i
}

// Property returns the value of key, or "" if absent.
func (i LockFileItem) Property(key string) string {
	return i.Properties[key]
}

// IsEmptyMarker reports whether the item is a placeholder for an intentionally empty category.
func (i LockFileItem) IsEmptyMarker() bool {
	return strings.HasSuffix(i.Path, "/"+EmptyMarker) || i.Path == EmptyMarker
}

// Equal reports whether two items have the same path and properties.
func (i LockFileItem) Equal(other LockFileItem) bool {
	return i.Path == other.Path && maps.Equal(i.Properties, other.Properties)
}

// PackageDependency is a dependency edge as written into a target library.
type PackageDependency struct {
	ID    string
	Range VersionRange
}

// LockFileTargetLibrary is the asset selection of one library for one target.
type LockFileTargetLibrary struct {
	Name    string
	Version Version
	Type    LibraryType
	// Framework is set for project libraries: the framework the project was resolved for.
	Framework string

	Dependencies          []PackageDependency
	FrameworkAssemblies   []string
	CompileTimeAssemblies []LockFileItem
	RuntimeAssemblies     []LockFileItem
	ResourceAssemblies    []LockFileItem
	NativeLibraries       []LockFileItem
	Build                 []LockFileItem
	ContentFiles          []LockFileItem
}

// Identity returns the library identity of the entry.
func (l *LockFileTargetLibrary) Identity() LibraryIdentity {
	return LibraryIdentity{Name: l.Name, Version: l.Version, Type: l.Type}
}

// Equal reports whether two target libraries select exactly the same assets.
func (l *LockFileTargetLibrary) Equal(other *LockFileTargetLibrary) bool {
	if l == nil || other == nil {
		return l == other
	}
	itemsEqual := func(a, b []LockFileItem) bool {
		return slices.EqualFunc(a, b, LockFileItem.Equal)
	}
	depsEqual := slices.EqualFunc(l.Dependencies, other.Dependencies, func(a, b PackageDependency) bool {
		return strings.EqualFold(a.ID, b.ID) && a.Range.Equal(b.Range)
	})
	return strings.EqualFold(l.Name, other.Name) &&
		l.Version.Equal(other.Version) &&
		l.Type == other.Type &&
		l.Framework == other.Framework &&
		depsEqual &&
		slices.Equal(l.FrameworkAssemblies, other.FrameworkAssemblies) &&
		itemsEqual(l.CompileTimeAssemblies, other.CompileTimeAssemblies) &&
		itemsEqual(l.RuntimeAssemblies, other.RuntimeAssemblies) &&
		itemsEqual(l.ResourceAssemblies, other.ResourceAssemblies) &&
		itemsEqual(l.NativeLibraries, other.NativeLibraries) &&
		itemsEqual(l.Build, other.Build) &&
		itemsEqual(l.ContentFiles, other.ContentFiles)
}

// GetLibrary returns the global entry for name and version.
func (lf *LockFile) GetLibrary(name string, version Version) *LockFileLibrary {
	if lf == nil {
		return nil
	}
	for _, lib := range lf.Libraries {
		if strings.EqualFold(lib.Name, name) && lib.Version.Equal(version) {
			return lib
		}
	}
	return nil
}

// GetTarget returns the target for framework and rid.
func (lf *LockFile) GetTarget(framework Framework, rid string) *LockFileTarget {
	if lf == nil {
		return nil
	}
	for _, t := range lf.Targets {
		if t.Framework == framework && t.RuntimeID == rid {
			return t
		}
	}
	return nil
}

// IsValidForProject reports whether the file was built from the dependencies the project declares now.
// Groups are compared by framework name; dependencies within a group compare order-insensitively.
func (lf *LockFile) IsValidForProject(project *ProjectSpec) bool {
	if lf == nil || project == nil || lf.Version != LockFileFormatVersion {
		return false
	}

	actual := groupsByName(lf.ProjectFileDependencyGroups)
	expected := groupsByName(project.DependencyGroups())
	return maps.EqualFunc(actual, expected, func(a, b []string) bool {
		return slices.Equal(a, b)
	})
}

func groupsByName(groups []ProjectFileDependencyGroup) map[string][]string {
	out := make(map[string][]string, len(groups))
	for _, g := range groups {
		deps := slices.Clone(g.Dependencies)
		slices.Sort(deps)
		out[g.FrameworkName] = deps
	}
	return out
}
