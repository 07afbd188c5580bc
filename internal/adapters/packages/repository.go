// Package packages reads packages installed in a packages folder laid out as
// "<id>/<version>/" with the archive, its hash file and the manifest side by side.
package packages

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
)

// Repository implements ports.LocalRepository over a packages folder and its fallback folders.
// Listings are cached per package id until ClearCacheForIDs drops them.
type Repository struct {
	root      string
	fallbacks []string
	listings  sync.Map // lower-case id -> []domain.LocalPackageInfo
}

var _ ports.LocalRepository = (*Repository)(nil)

// NewRepository creates a repository over root. Fallback folders are searched after root;
// a version found in root hides the same version in a fallback folder.
func NewRepository(root string, fallbacks ...string) *Repository {
	return &Repository{
		root:      filepath.Clean(root),
		fallbacks: slices.Clone(fallbacks),
	}
}

// Root returns the packages folder.
func (r *Repository) Root() string {
	return r.root
}

// FindPackagesByID returns every installed version of id, ordered by version.
// A version folder only counts as installed once its hash file exists.
func (r *Repository) FindPackagesByID(id string) []domain.LocalPackageInfo {
	key := domain.NameKey(id)
	if cached, ok := r.listings.Load(key); ok {
		return withID(cached.([]domain.LocalPackageInfo), id)
	}

	var found []domain.LocalPackageInfo
	seen := make(map[string]bool)
	for _, folder := range append([]string{r.root}, r.fallbacks...) {
		for _, info := range scanFolder(folder, id) {
			v := info.Version.String()
			if seen[v] {
				continue
			}
			seen[v] = true
			found = append(found, info)
		}
	}
	slices.SortFunc(found, func(a, b domain.LocalPackageInfo) int {
		return a.Version.Compare(b.Version)
	})

	actual, _ := r.listings.LoadOrStore(key, found)
	return withID(actual.([]domain.LocalPackageInfo), id)
}

// FindPackage returns the installed package with exactly the given version.
func (r *Repository) FindPackage(id string, version domain.Version) (domain.LocalPackageInfo, bool) {
	for _, info := range r.FindPackagesByID(id) {
		if info.Version.Equal(version) {
			return info, true
		}
	}
	return domain.LocalPackageInfo{}, false
}

// ClearCacheForIDs drops the cached listings of ids.
func (r *Repository) ClearCacheForIDs(ids []string) {
	for _, id := range ids {
		r.listings.Delete(domain.NameKey(id))
	}
}

// scanFolder lists the installed versions of id below folder.
func scanFolder(folder, id string) []domain.LocalPackageInfo {
	idDir := filepath.Join(folder, strings.ToLower(id))
	entries, err := os.ReadDir(idDir)
	if err != nil {
		return nil
	}

	var out []domain.LocalPackageInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := domain.ParseVersion(e.Name())
		if err != nil {
			continue
		}
		info := Locate(folder, id, v)
		if _, err := os.Stat(info.HashPath); err != nil {
			continue
		}
		out = append(out, info)
	}
	return out
}

// Locate returns where the package id at version lives below folder, whether or not it is installed.
func Locate(folder, id string, version domain.Version) domain.LocalPackageInfo {
	dir := filepath.Join(folder, domain.PackageFolder(id, version))
	archive := filepath.Join(dir, domain.PackageFileBase(id, version)+domain.NupkgExtension)
	return domain.LocalPackageInfo{
		ID:           id,
		Version:      version,
		ExpandedPath: dir,
		ArchivePath:  archive,
		ManifestPath: filepath.Join(dir, strings.ToLower(id)+domain.NuspecExtension),
		HashPath:     archive + domain.HashFileExtension,
	}
}

// withID returns a copy of infos carrying the caller's spelling of the id.
func withID(infos []domain.LocalPackageInfo, id string) []domain.LocalPackageInfo {
	out := slices.Clone(infos)
	for i := range out {
		out[i].ID = id
	}
	return out
}
