package domain

import "go.trai.ch/zerr"

var (
	// ErrNoTargetFrameworks is returned when a project declares no target frameworks.
	ErrNoTargetFrameworks = zerr.New("project does not declare any target frameworks")

	// ErrMissingProjectName is returned when a project definition has no name.
	ErrMissingProjectName = zerr.New("missing project name")

	// ErrInvalidProjectName is returned when a project name contains characters not allowed in a package id.
	ErrInvalidProjectName = zerr.New("project name can only contain alphanumeric characters, dots, hyphens and underscores")

	// ErrInvalidVersion is returned when a version string cannot be parsed.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrInvalidVersionRange is returned when a version range string cannot be parsed.
	ErrInvalidVersionRange = zerr.New("invalid version range")

	// ErrInvalidFramework is returned when a target framework moniker cannot be parsed.
	ErrInvalidFramework = zerr.New("invalid target framework")

	// ErrInvalidIncludeFlags is returned when an include flag string names an unknown flag.
	ErrInvalidIncludeFlags = zerr.New("invalid include flags")

	// ErrNilCollaborator is returned when a required collaborator is missing.
	ErrNilCollaborator = zerr.New("required collaborator is nil")

	// ErrRestoreFailed is returned when a restore finished but did not succeed.
	// Diagnostics have already been logged when this error is returned.
	ErrRestoreFailed = zerr.New("restore failed")

	// ErrUnresolvedDependency is reported for a dependency range that no source can satisfy.
	ErrUnresolvedDependency = zerr.New("unable to resolve dependency")

	// ErrVersionConflict is reported when two requests for the same library cannot be satisfied together.
	ErrVersionConflict = zerr.New("version conflict detected")

	// ErrCycleDetected is reported when a library depends on itself through its dependencies.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrIncompatiblePackage is reported when a package has no assets for a target framework.
	ErrIncompatiblePackage = zerr.New("package is not compatible with target")

	// ErrIncompatibleProject is reported when a referenced project does not support a target framework.
	ErrIncompatibleProject = zerr.New("project is not compatible with target")

	// ErrPackageNotFound is returned when a package cannot be located in any folder or source.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrHashFileMissing is returned when an installed package has no hash file.
	ErrHashFileMissing = zerr.New("package hash file is missing")

	// ErrArchiveReadFailed is returned when a package archive cannot be opened or read.
	ErrArchiveReadFailed = zerr.New("failed to read package archive")

	// ErrManifestParseFailed is returned when a package manifest cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse package manifest")

	// ErrRuntimeGraphParseFailed is returned when a runtime description file cannot be parsed.
	ErrRuntimeGraphParseFailed = zerr.New("failed to parse runtime graph")

	// ErrInstallFailed is returned when a package cannot be installed into the packages folder.
	ErrInstallFailed = zerr.New("failed to install package")

	// ErrConfigNotFound is returned when no project definition file can be found.
	ErrConfigNotFound = zerr.New("could not find " + ProjectFileName)

	// ErrConfigReadFailed is returned when the project definition file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read project file")

	// ErrConfigParseFailed is returned when the project definition file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse project file")

	// ErrInvalidDependency is returned when a declared dependency is malformed.
	ErrInvalidDependency = zerr.New("invalid dependency declaration")

	// ErrLockFileReadFailed is returned when a lock file cannot be read.
	ErrLockFileReadFailed = zerr.New("failed to read lock file")

	// ErrLockFileParseFailed is returned when a lock file is not valid JSON.
	ErrLockFileParseFailed = zerr.New("failed to parse lock file")

	// ErrLockFileWriteFailed is returned when a lock file cannot be written.
	ErrLockFileWriteFailed = zerr.New("failed to write lock file")

	// ErrCacheReadFailed is returned when the restore cache file cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read restore cache")

	// ErrCacheWriteFailed is returned when the restore cache file cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write restore cache")
)
