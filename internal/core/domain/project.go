package domain

import (
	"slices"
	"strings"
)

// TargetFrameworkInfo is one framework a project targets, with the dependencies declared only for it.
type TargetFrameworkInfo struct {
	Framework Framework
	// Imports are fallback frameworks tried when a package has no assets for Framework.
	Imports []Framework
	// Warn asks for a warning when a fallback framework changed the selected assets.
	Warn         bool
	Dependencies []LibraryDependency
}

// ExternalProject is a project referenced by path from another project.
type ExternalProject struct {
	Name string
	// Path is the directory holding the project's definition file.
	Path string
	Spec *ProjectSpec
}

// RestoreSettings holds folder and tuning settings of a restore.
type RestoreSettings struct {
	PackagesPath           string
	Sources                []string
	FallbackFolders        []string
	MaxDegreeOfConcurrency int
	LockFilePath           string
	// Lock writes the produced lock file with the locked flag set.
	Lock bool
}

// ProjectSpec is the declared shape of a project to restore.
type ProjectSpec struct {
	Name    string
	Version Version
	// FilePath is the absolute path of the project definition file.
	FilePath string
	// BaseDirectory is the directory of FilePath.
	BaseDirectory string

	// Dependencies are shared by every target framework.
	Dependencies []LibraryDependency
	Frameworks   []TargetFrameworkInfo
	RuntimeIDs   []string
	// Supports lists compatibility profiles. A profile without contexts is looked up by name
	// in the runtime graph.
	Supports         []CompatibilityProfile
	ExternalProjects []ExternalProject
	Restore          RestoreSettings
}

// Identity returns the project's own library identity.
func (p *ProjectSpec) Identity() LibraryIdentity {
	return LibraryIdentity{Name: p.Name, Version: p.Version, Type: LibraryTypeProject}
}

// RootRange is the range the walker starts from: the project itself.
func (p *ProjectSpec) RootRange() LibraryRange {
	return LibraryRange{
		Name:           p.Name,
		VersionRange:   Exactly(p.Version),
		TypeConstraint: TargetProject | TargetExternalProject,
	}
}

// GetFramework returns the framework entry matching f.
func (p *ProjectSpec) GetFramework(f Framework) (TargetFrameworkInfo, bool) {
	for _, tf := range p.Frameworks {
		if tf.Framework == f {
			return tf, true
		}
	}
	return TargetFrameworkInfo{}, false
}

// DirectDependencies returns the shared dependencies followed by those declared for f.
func (p *ProjectSpec) DirectDependencies(f Framework) []LibraryDependency {
	deps := slices.Clone(p.Dependencies)
	if tf, ok := p.GetFramework(f); ok {
		deps = append(deps, tf.Dependencies...)
	}
	return deps
}

// DependencyGroups returns the declared dependencies as lock file groups: the shared group under
// the empty name, then one group per framework, each sorted ordinally.
func (p *ProjectSpec) DependencyGroups() []ProjectFileDependencyGroup {
	groups := []ProjectFileDependencyGroup{{
		FrameworkName: "",
		Dependencies:  dependencyStrings(p.Dependencies),
	}}

	frameworks := slices.Clone(p.Frameworks)
	slices.SortFunc(frameworks, func(a, b TargetFrameworkInfo) int {
		return strings.Compare(a.Framework.String(), b.Framework.String())
	})
	for _, tf := range frameworks {
		groups = append(groups, ProjectFileDependencyGroup{
			FrameworkName: tf.Framework.String(),
			Dependencies:  dependencyStrings(tf.Dependencies),
		})
	}
	return groups
}

func dependencyStrings(deps []LibraryDependency) []string {
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		out = append(out, d.Range.DependencyGroupString())
	}
	slices.Sort(out)
	return out
}

// FindExternalProject returns the referenced project with the given name.
func (p *ProjectSpec) FindExternalProject(name string) (ExternalProject, bool) {
	for _, ep := range p.ExternalProjects {
		if strings.EqualFold(ep.Name, name) {
			return ep, true
		}
	}
	return ExternalProject{}, false
}

// MaxDegreeOfConcurrency returns the configured install concurrency or the default.
func (p *ProjectSpec) MaxDegreeOfConcurrency() int {
	if p.Restore.MaxDegreeOfConcurrency > 0 {
		return p.Restore.MaxDegreeOfConcurrency
	}
	return DefaultMaxDegreeOfConcurrency
}
