// Package feed reads package archives from a folder feed. A feed holds archives either flat in its
// root or in the "<id>/<version>/" layout of a packages folder.
package feed

import (
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/restore/internal/adapters/packages"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/zerr"
)

// archivePattern matches archives in both supported layouts.
const archivePattern = "{*.nupkg,*/*/*.nupkg}"

// Entry is one archive of a feed with the manifest it carries.
type Entry struct {
	ArchivePath string
	Manifest    *domain.PackageManifest
}

// Feed indexes the archives of one folder. The index is built on first use.
type Feed struct {
	dir    string
	logger ports.Logger

	once  sync.Once
	err   error
	index map[string][]Entry
}

// New creates a feed over dir.
func New(dir string, logger ports.Logger) *Feed {
	return &Feed{dir: filepath.Clean(dir), logger: logger}
}

// Source returns the feed folder. Install candidates name their feed by it.
func (f *Feed) Source() string {
	return f.dir
}

// Versions returns every version of id the feed offers, ordered ascending.
func (f *Feed) Versions(id string) ([]domain.Version, error) {
	if err := f.load(); err != nil {
		return nil, err
	}
	entries := f.index[domain.NameKey(id)]
	out := make([]domain.Version, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Manifest.Version)
	}
	return out, nil
}

// Find returns the archive of id at exactly version.
func (f *Feed) Find(id string, version domain.Version) (Entry, bool, error) {
	if err := f.load(); err != nil {
		return Entry{}, false, err
	}
	for _, e := range f.index[domain.NameKey(id)] {
		if e.Manifest.Version.Equal(version) {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

func (f *Feed) load() error {
	f.once.Do(func() {
		f.index, f.err = f.scan()
	})
	return f.err
}

// scan reads the manifest of every archive. Archives without a readable manifest are skipped
// with a warning; the first archive of an id and version wins.
func (f *Feed) scan() (map[string][]Entry, error) {
	info, err := os.Stat(f.dir)
	if err != nil || !info.IsDir() {
		return nil, zerr.With(domain.ErrPackageNotFound, "source", f.dir)
	}

	matches, err := doublestar.Glob(os.DirFS(f.dir), archivePattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "source", f.dir)
	}
	slices.Sort(matches)

	index := make(map[string][]Entry)
	for _, m := range matches {
		p := filepath.Join(f.dir, filepath.FromSlash(m))
		manifest, err := packages.ReadArchiveManifest(p)
		if err != nil {
			f.logger.Warn(zerr.With(err, "source", f.dir).Error())
			continue
		}
		key := domain.NameKey(manifest.ID)
		if slices.ContainsFunc(index[key], func(e Entry) bool { return e.Manifest.Version.Equal(manifest.Version) }) {
			continue
		}
		index[key] = append(index[key], Entry{ArchivePath: p, Manifest: manifest})
	}

	for _, entries := range index {
		slices.SortFunc(entries, func(a, b Entry) int {
			return a.Manifest.Version.Compare(b.Manifest.Version)
		})
	}
	f.logger.Debug("indexed feed " + f.dir)
	return index, nil
}

// Set is the ordered list of feeds a project restores from.
type Set []*Feed

// NewSet creates one feed per source folder.
func NewSet(sources []string, logger ports.Logger) Set {
	set := make(Set, 0, len(sources))
	for _, s := range sources {
		set = append(set, New(s, logger))
	}
	return set
}

// Lookup returns the feed whose folder is source.
func (s Set) Lookup(source string) (*Feed, bool) {
	clean := filepath.Clean(source)
	for _, f := range s {
		if f.dir == clean {
			return f, true
		}
	}
	return nil, false
}
