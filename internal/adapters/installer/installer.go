// Package installer copies packages from folder feeds into a packages folder.
package installer

import (
	"context"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"go.trai.ch/restore/internal/adapters/feed"
	"go.trai.ch/restore/internal/adapters/packages"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/zerr"
)

// Installer implements ports.Installer. A package is extracted into a temporary folder next to its
// final location and moved into place once its hash file is written, so a package folder with a
// hash file is always complete.
type Installer struct {
	root   string
	feeds  feed.Set
	logger ports.Logger
}

var _ ports.Installer = (*Installer)(nil)

// New creates an installer into the packages folder root.
func New(root string, feeds feed.Set, logger ports.Logger) (*Installer, error) {
	if logger == nil {
		return nil, zerr.With(domain.ErrNilCollaborator, "collaborator", "logger")
	}
	return &Installer{root: filepath.Clean(root), feeds: feeds, logger: logger}, nil
}

// Install installs the candidate from its source feed. An installed package is left untouched.
func (i *Installer) Install(ctx context.Context, candidate domain.InstallCandidate) error {
	id, version := candidate.Identity.Name, candidate.Identity.Version
	target := packages.Locate(i.root, id, version)
	if _, err := os.Stat(target.HashPath); err == nil {
		i.logger.Debug("package " + candidate.Identity.String() + " is already installed")
		return nil
	}

	src, ok := i.feeds.Lookup(candidate.Source)
	if !ok {
		src = feed.New(candidate.Source, i.logger)
	}
	entry, found, err := src.Find(id, version)
	if err != nil {
		return err
	}
	if !found {
		return zerr.With(zerr.With(domain.ErrPackageNotFound, "package", candidate.Identity.String()), "source", candidate.Source)
	}

	if err := os.MkdirAll(filepath.Dir(target.ExpandedPath), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}
	tmp, err := os.MkdirTemp(filepath.Dir(target.ExpandedPath), ".install-")
	if err != nil {
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	staged := domain.LocalPackageInfo{
		ID:           id,
		Version:      version,
		ExpandedPath: tmp,
		ArchivePath:  filepath.Join(tmp, filepath.Base(target.ArchivePath)),
		ManifestPath: filepath.Join(tmp, filepath.Base(target.ManifestPath)),
		HashPath:     filepath.Join(tmp, filepath.Base(target.HashPath)),
	}

	hash, err := copyArchive(entry.ArchivePath, staged.ArchivePath)
	if err != nil {
		return err
	}
	if err := extract(ctx, staged); err != nil {
		return err
	}
	if err := os.WriteFile(staged.HashPath, []byte(hash), domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}

	return i.commit(tmp, target, candidate.Identity)
}

// commit moves the staged folder into place. A folder left behind by an interrupted install is
// replaced; a folder completed concurrently by another installer wins.
func (i *Installer) commit(tmp string, target domain.LocalPackageInfo, id domain.LibraryIdentity) error {
	if _, err := os.Stat(target.HashPath); err == nil {
		return nil
	}
	if err := os.RemoveAll(target.ExpandedPath); err != nil {
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}
	if err := os.Rename(tmp, target.ExpandedPath); err != nil {
		if _, statErr := os.Stat(target.HashPath); statErr == nil {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "package", id.String())
	}
	i.logger.Debug("installed " + id.String() + " to " + target.ExpandedPath)
	return nil
}

// copyArchive copies src to dst and returns the base64 sha512 of its content.
func copyArchive(src, dst string) (string, error) {
	//nolint:gosec // Path comes from the feed index
	in, err := os.Open(src)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "path", src)
	}
	defer func() { _ = in.Close() }()

	//nolint:gosec // Path is inside the packages folder
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}

	h := sha512.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		_ = out.Close()
		return "", zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "path", src)
	}
	if err := out.Close(); err != nil {
		return "", zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// extract writes the package content of the staged archive into the staged folder. The root
// manifest is written as the package's manifest file.
func extract(ctx context.Context, staged domain.LocalPackageInfo) error {
	zr, err := zip.OpenReader(staged.ArchivePath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "path", staged.ArchivePath)
	}
	defer func() { _ = zr.Close() }()

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, ok := packages.EntryPath(f.Name)
		if !ok || f.FileInfo().IsDir() {
			continue
		}
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return zerr.With(domain.ErrArchiveReadFailed, "entry", f.Name)
		}

		dst := filepath.Join(staged.ExpandedPath, filepath.FromSlash(name))
		if !strings.Contains(name, "/") && strings.EqualFold(path.Ext(name), domain.NuspecExtension) {
			dst = staged.ManifestPath
		}
		if err := extractFile(f, dst); err != nil {
			return zerr.With(err, "entry", name)
		}
	}
	return nil
}

func extractFile(f *zip.File, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}
	rc, err := f.Open()
	if err != nil {
		return zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
	}
	defer func() { _ = rc.Close() }()

	//nolint:gosec // Destination is checked to stay inside the package folder
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, domain.FilePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}
	//nolint:gosec // Package archives come from configured feeds
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
	}
	if err := out.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}
	return nil
}
