package domain

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// ProjectFileName is the name of the project definition file.
	ProjectFileName = "restore.yaml"

	// LockFileName is the default name of the lock file, written next to the project file.
	LockFileName = "project.lock.json"

	// ObjDirName is the directory holding intermediate restore outputs.
	ObjDirName = "obj"

	// CacheFileName is the no-op restore cache written into ObjDirName.
	CacheFileName = "restore.cache"

	// MSBuildFilesName lists the build integration files of the last restore.
	MSBuildFilesName = "restore.msbuild.txt"

	// PackagesDirName is the default packages folder below the user's home.
	PackagesDirName = ".restore/packages"

	// NupkgExtension is the extension of package archives.
	NupkgExtension = ".nupkg"

	// NuspecExtension is the extension of package manifests.
	NuspecExtension = ".nuspec"

	// HashFileExtension is appended to the archive name to form the hash file name.
	HashFileExtension = ".sha512"

	// RuntimeJSONFileName is the runtime description file a package may embed.
	RuntimeJSONFileName = "runtime.json"

	// EmptyMarker is the file name that marks an intentionally empty asset folder.
	EmptyMarker = "_._"

	// DefaultMaxDegreeOfConcurrency is the default number of concurrent package installs.
	DefaultMaxDegreeOfConcurrency = 16

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultPackagesPath returns the packages folder below the user's home directory,
// or a folder relative to the working directory when home cannot be determined.
func DefaultPackagesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return PackagesDirName
	}
	return filepath.Join(home, PackagesDirName)
}

// PackageFolder returns the folder of an installed package relative to the packages folder:
// "<id-lower>/<version-normalized>".
func PackageFolder(id string, version Version) string {
	return filepath.Join(strings.ToLower(id), strings.ToLower(version.String()))
}

// PackageFileBase returns "<id-lower>.<version-normalized>", the base name of the archive and hash files.
func PackageFileBase(id string, version Version) string {
	return strings.ToLower(id) + "." + strings.ToLower(version.String())
}

// DefaultCachePath returns the no-op cache path of the project in baseDir.
func DefaultCachePath(baseDir string) string {
	return filepath.Join(baseDir, ObjDirName, CacheFileName)
}

// DefaultMSBuildFilesPath returns the build integration list path of the project in baseDir.
func DefaultMSBuildFilesPath(baseDir string) string {
	return filepath.Join(baseDir, ObjDirName, MSBuildFilesName)
}
