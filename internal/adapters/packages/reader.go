package packages

import (
	"bytes"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/zip"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultCacheSize is the number of packages whose manifest and file list stay cached.
const DefaultCacheSize = 512

// Reader implements ports.PackageReader for packages installed by the installer.
// Manifests and file lists are cached by package folder.
type Reader struct {
	manifests *lru.Cache[string, *domain.PackageManifest]
	files     *lru.Cache[string, []string]
}

var _ ports.PackageReader = (*Reader)(nil)

// NewReader creates a Reader caching up to size packages.
func NewReader(size int) (*Reader, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	manifests, err := lru.New[string, *domain.PackageManifest](size)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create manifest cache")
	}
	files, err := lru.New[string, []string](size)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file list cache")
	}
	return &Reader{manifests: manifests, files: files}, nil
}

// ReadHash returns the base64 sha512 recorded in the package's hash file.
func (r *Reader) ReadHash(pkg domain.LocalPackageInfo) (string, error) {
	//nolint:gosec // Path is derived from the packages folder
	data, err := os.ReadFile(pkg.HashPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(domain.ErrHashFileMissing, "path", pkg.HashPath)
		}
		return "", zerr.With(zerr.Wrap(err, domain.ErrHashFileMissing.Error()), "path", pkg.HashPath)
	}
	return strings.TrimSpace(string(data)), nil
}

// ListFiles returns the files of the package archive plus the hash file, ordered ordinally.
func (r *Reader) ListFiles(pkg domain.LocalPackageInfo) ([]string, error) {
	if cached, ok := r.files.Get(pkg.ExpandedPath); ok {
		return slices.Clone(cached), nil
	}

	entries, err := archiveEntries(pkg.ArchivePath)
	if err != nil {
		return nil, err
	}
	files := append(entries, filepath.Base(pkg.HashPath))
	slices.Sort(files)
	files = slices.Compact(files)

	r.files.Add(pkg.ExpandedPath, files)
	return slices.Clone(files), nil
}

// ReadManifest parses the package's nuspec, falling back to the one inside the archive.
func (r *Reader) ReadManifest(pkg domain.LocalPackageInfo) (*domain.PackageManifest, error) {
	if cached, ok := r.manifests.Get(pkg.ExpandedPath); ok {
		return cached, nil
	}

	//nolint:gosec // Path is derived from the packages folder
	data, err := os.ReadFile(pkg.ManifestPath)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = archiveManifest(pkg.ArchivePath)
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", pkg.ManifestPath)
	}

	manifest, err := parseManifest(bytes.NewReader(data))
	if err != nil {
		return nil, zerr.With(err, "path", pkg.ManifestPath)
	}
	r.manifests.Add(pkg.ExpandedPath, manifest)
	return manifest, nil
}

// ReadRuntimeGraph returns the package's runtime.json, or nil if the package has none.
func (r *Reader) ReadRuntimeGraph(pkg domain.LocalPackageInfo) (*domain.RuntimeGraph, error) {
	p := filepath.Join(pkg.ExpandedPath, domain.RuntimeJSONFileName)
	//nolint:gosec // Path is derived from the packages folder
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRuntimeGraphParseFailed.Error()), "path", p)
	}
	graph, err := parseRuntimeGraph(data)
	if err != nil {
		return nil, zerr.With(err, "path", p)
	}
	return graph, nil
}

// ReadArchiveManifest parses the manifest stored at the root of the archive at p.
func ReadArchiveManifest(p string) (*domain.PackageManifest, error) {
	data, err := archiveManifest(p)
	if err != nil {
		return nil, err
	}
	manifest, err := parseManifest(bytes.NewReader(data))
	if err != nil {
		return nil, zerr.With(err, "path", p)
	}
	return manifest, nil
}

// archiveEntries lists the package files of the archive at p.
func archiveEntries(p string) ([]string, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "path", p)
	}
	defer func() { _ = zr.Close() }()

	var out []string
	for _, f := range zr.File {
		if name, ok := EntryPath(f.Name); ok && !f.FileInfo().IsDir() {
			out = append(out, name)
		}
	}
	return out, nil
}

// archiveManifest reads the nuspec stored at the root of the archive at p.
func archiveManifest(p string) ([]byte, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "path", p)
	}
	defer func() { _ = zr.Close() }()

	for _, f := range zr.File {
		name := normalizeEntry(f.Name)
		if strings.Contains(name, "/") || !strings.EqualFold(path.Ext(name), domain.NuspecExtension) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "path", p)
		}
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		_ = rc.Close()
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "path", p)
		}
		return buf.Bytes(), nil
	}
	return nil, zerr.With(domain.ErrManifestParseFailed, "reason", "archive has no manifest")
}

// EntryPath returns the package path of an archive entry and whether the entry is package content.
// Packaging metadata such as the relationship parts, the content types part and the core
// properties part is not.
func EntryPath(name string) (string, bool) {
	p := normalizeEntry(name)
	if p == "" || strings.HasSuffix(p, "/") {
		return "", false
	}
	base := path.Base(p)
	switch {
	case strings.EqualFold(base, ".rels"):
		return "", false
	case strings.EqualFold(p, "[Content_Types].xml"):
		return "", false
	case strings.EqualFold(path.Ext(p), ".psmdcp"):
		return "", false
	case !strings.Contains(p, "/") && strings.EqualFold(path.Ext(p), domain.NupkgExtension):
		return "", false
	}
	return p, true
}

// normalizeEntry unescapes an archive entry name and converts it to forward slashes.
func normalizeEntry(name string) string {
	p := strings.ReplaceAll(name, `\`, "/")
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	return strings.TrimPrefix(p, "/")
}
