package domain

import (
	"strings"
)

// LibraryType is the kind of a resolved library.
type LibraryType string

// Known library types.
const (
	LibraryTypePackage         LibraryType = "package"
	LibraryTypeProject         LibraryType = "project"
	LibraryTypeExternalProject LibraryType = "externalProject"
	LibraryTypeReference       LibraryType = "reference"
	LibraryTypeUnresolved      LibraryType = "unresolved"
)

// DependencyTarget constrains which library types a dependency edge may resolve to.
type DependencyTarget uint8

// Dependency targets.
const (
	TargetPackage DependencyTarget = 1 << iota
	TargetProject
	TargetExternalProject
	TargetReference
)

// Combined dependency targets.
const (
	TargetNone                   DependencyTarget = 0
	TargetPackageProjectExternal                  = TargetPackage | TargetProject | TargetExternalProject
	TargetAll                                     = TargetPackageProjectExternal | TargetReference
)

// Allows reports whether the constraint admits any of the given targets.
func (t DependencyTarget) Allows(other DependencyTarget) bool {
	return t&other != 0
}

// TargetFor returns the dependency target corresponding to a library type.
func TargetFor(lt LibraryType) DependencyTarget {
	switch lt {
	case LibraryTypePackage:
		return TargetPackage
	case LibraryTypeProject:
		return TargetProject
	case LibraryTypeExternalProject:
		return TargetExternalProject
	case LibraryTypeReference:
		return TargetReference
	}
	return TargetNone
}

// LibraryIdentity names one resolved library. Names compare case-insensitively.
type LibraryIdentity struct {
	Name    string
	Version Version
	Type    LibraryType
}

// Key returns a case-folded "name/version" string suitable as a map key.
// Two identities with equal keys are the same library.
func (id LibraryIdentity) Key() string {
	return strings.ToLower(id.Name) + "/" + strings.ToLower(id.Version.String())
}

// String returns "Name/Version" with the original casing of the name.
func (id LibraryIdentity) String() string {
	return id.Name + "/" + id.Version.String()
}

// Equal reports whether two identities name the same library.
func (id LibraryIdentity) Equal(other LibraryIdentity) bool {
	return strings.EqualFold(id.Name, other.Name) && id.Version.Equal(other.Version)
}

// CompareIdentities orders identities by case-insensitive name, then version.
func CompareIdentities(a, b LibraryIdentity) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return a.Version.Compare(b.Version)
}

// NameKey folds a library name for case-insensitive map lookups.
func NameKey(name string) string {
	return strings.ToLower(name)
}

// LibraryRange declares what a dependency edge may resolve to.
type LibraryRange struct {
	Name           string
	VersionRange   VersionRange
	TypeConstraint DependencyTarget
}

// String renders "Name range".
func (r LibraryRange) String() string {
	if r.VersionRange.IsAll() {
		return r.Name
	}
	return r.Name + " " + r.VersionRange.String()
}

// DependencyGroupString renders the range the way lock file dependency groups record it,
// e.g. "Newtonsoft.Json >= 9.0.1".
func (r LibraryRange) DependencyGroupString() string {
	bounds := r.VersionRange.ComparisonString()
	if bounds == "" {
		return r.Name
	}
	return r.Name + " " + bounds
}

// LibraryDependency is an owning edge in the dependency graph.
type LibraryDependency struct {
	Range LibraryRange
	// IncludeType is the set of asset categories the consumer asks for.
	IncludeType IncludeFlags
	// SuppressParent is the set of categories hidden from the consumer's own consumers.
	SuppressParent IncludeFlags
}

// NewPackageDependency returns a package edge with the default include and suppress settings.
func NewPackageDependency(name string, r VersionRange) LibraryDependency {
	return LibraryDependency{
		Range:          LibraryRange{Name: name, VersionRange: r, TypeConstraint: TargetPackage},
		IncludeType:    IncludeAll,
		SuppressParent: DefaultSuppressParent,
	}
}

// Name returns the name of the dependency target.
func (d LibraryDependency) Name() string {
	return d.Range.Name
}

// FlowsAssets reports whether the edge contributes include flags at all.
func (d LibraryDependency) FlowsAssets() bool {
	return d.IncludeType != IncludeNone && d.SuppressParent != IncludeAll
}
