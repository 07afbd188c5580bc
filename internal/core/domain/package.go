package domain

// LocalPackageInfo locates one installed package in a packages folder.
type LocalPackageInfo struct {
	ID      string
	Version Version
	// ExpandedPath is the folder the package was extracted into.
	ExpandedPath string
	ArchivePath  string
	ManifestPath string
	HashPath     string
}

// Identity returns the package identity.
func (p LocalPackageInfo) Identity() LibraryIdentity {
	return LibraryIdentity{Name: p.ID, Version: p.Version, Type: LibraryTypePackage}
}

// PackageDependencyGroup is the dependency list a package declares for one framework.
type PackageDependencyGroup struct {
	TargetFramework Framework
	Packages        []PackageDependency
}

// FrameworkSpecificGroup is a list of items that applies to one framework.
type FrameworkSpecificGroup struct {
	TargetFramework Framework
	Items           []string
}

// ContentFilesEntry is a rule from a manifest's contentFiles section.
type ContentFilesEntry struct {
	Include      string
	Exclude      string
	BuildAction  string
	CopyToOutput *bool
	Flatten      *bool
}

// PackageManifest is the metadata a package ships about itself.
type PackageManifest struct {
	ID                      string
	Version                 Version
	DependencyGroups        []PackageDependencyGroup
	ReferenceGroups         []FrameworkSpecificGroup
	FrameworkAssemblyGroups []FrameworkSpecificGroup
	ContentFiles            []ContentFilesEntry
}
