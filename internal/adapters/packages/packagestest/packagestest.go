// Package packagestest builds package archives, feeds and packages folders for tests.
package packagestest

import (
	"bytes"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"go.trai.ch/restore/internal/adapters/packages"
	"go.trai.ch/restore/internal/core/domain"
)

// Dependency is a dependency declared in a test package's manifest.
type Dependency struct {
	ID    string
	Range string
}

// Package describes a test package.
type Package struct {
	ID      string
	Version string
	// Dependencies maps a target framework to its dependencies. The empty framework lists
	// dependencies that apply to every framework.
	Dependencies map[string][]Dependency
	// Files are package paths written with empty content.
	Files []string
	// RuntimeJSON is stored as runtime.json when set.
	RuntimeJSON string
}

// Nuspec renders the package manifest.
func (p Package) Nuspec() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString(`<package xmlns="http://schemas.microsoft.com/packaging/2013/05/nuspec.xsd"><metadata>`)
	fmt.Fprintf(&b, "<id>%s</id><version>%s</version>", p.ID, p.Version)
	if len(p.Dependencies) > 0 {
		b.WriteString("<dependencies>")
		frameworks := make([]string, 0, len(p.Dependencies))
		for fw := range p.Dependencies {
			frameworks = append(frameworks, fw)
		}
		slices.Sort(frameworks)
		for _, fw := range frameworks {
			fmt.Fprintf(&b, `<group targetFramework="%s">`, fw)
			for _, d := range p.Dependencies[fw] {
				fmt.Fprintf(&b, `<dependency id="%s" version="%s" />`, d.ID, d.Range)
			}
			b.WriteString("</group>")
		}
		b.WriteString("</dependencies>")
	}
	b.WriteString("</metadata></package>")
	return b.String()
}

// Archive returns the bytes of the package archive, including packaging metadata parts.
func (p Package) Archive(t testing.TB) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	write("_rels/.rels", "")
	write("[Content_Types].xml", "")
	write("package/services/metadata/core-properties/1.psmdcp", "")
	write(p.ID+domain.NuspecExtension, p.Nuspec())
	for _, f := range p.Files {
		write(f, "")
	}
	if p.RuntimeJSON != "" {
		write(domain.RuntimeJSONFileName, p.RuntimeJSON)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// AddToFeed writes the archive into the flat feed folder dir and returns its path.
func AddToFeed(t testing.TB, dir string, p Package) string {
	t.Helper()

	v := domain.MustParseVersion(p.Version)
	path := filepath.Join(dir, domain.PackageFileBase(p.ID, v)+domain.NupkgExtension)
	require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
	require.NoError(t, os.WriteFile(path, p.Archive(t), domain.FilePerm))
	return path
}

// Install lays the package out in the packages folder root the way the installer does.
func Install(t testing.TB, root string, p Package) domain.LocalPackageInfo {
	t.Helper()

	info := packages.Locate(root, p.ID, domain.MustParseVersion(p.Version))
	require.NoError(t, os.MkdirAll(info.ExpandedPath, domain.DirPerm))

	archive := p.Archive(t)
	require.NoError(t, os.WriteFile(info.ArchivePath, archive, domain.FilePerm))
	require.NoError(t, os.WriteFile(info.ManifestPath, []byte(p.Nuspec()), domain.FilePerm))
	for _, f := range p.Files {
		dst := filepath.Join(info.ExpandedPath, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), domain.DirPerm))
		require.NoError(t, os.WriteFile(dst, nil, domain.FilePerm))
	}
	if p.RuntimeJSON != "" {
		dst := filepath.Join(info.ExpandedPath, domain.RuntimeJSONFileName)
		require.NoError(t, os.WriteFile(dst, []byte(p.RuntimeJSON), domain.FilePerm))
	}
	require.NoError(t, os.WriteFile(info.HashPath, []byte(Hash(archive)), domain.FilePerm))
	return info
}

// Hash returns the base64 sha512 of data, the form hash files record.
func Hash(data []byte) string {
	sum := sha512.Sum512(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}
