// Package fs implements the file system collaborators of a restore: the project fingerprint and
// the existence checks of the no-op restore.
package fs

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints project specs.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeProjectHash computes a single hash over everything in the project spec that affects a
// restore: identity, dependencies, frameworks, runtimes, profiles, restore settings and the specs
// of referenced projects.
func (h *Hasher) ComputeProjectHash(project *domain.ProjectSpec) string {
	hasher := xxhash.New()
	h.hashProject(project, hasher, make(map[string]bool))
	return fmt.Sprintf("%016x", hasher.Sum64())
}

func (h *Hasher) hashProject(project *domain.ProjectSpec, hasher *xxhash.Digest, seen map[string]bool) {
	if project == nil {
		writeField(hasher, "<nil>")
		return
	}
	if project.FilePath != "" {
		if seen[project.FilePath] {
			writeField(hasher, "<seen>")
			return
		}
		seen[project.FilePath] = true
	}

	writeField(hasher, project.Name)
	writeField(hasher, project.Version.String())
	writeField(hasher, project.FilePath)

	h.hashDependencies(project.Dependencies, hasher)

	// Frameworks
	for _, tf := range project.Frameworks {
		writeField(hasher, tf.Framework.String())
		for _, imp := range tf.Imports {
			writeField(hasher, imp.String())
		}
		endSection(hasher)
		writeField(hasher, strconv.FormatBool(tf.Warn))
		h.hashDependencies(tf.Dependencies, hasher)
	}
	endSection(hasher)

	// Runtimes
	for _, rid := range project.RuntimeIDs {
		writeField(hasher, rid)
	}
	endSection(hasher)

	// Compatibility profiles
	for _, profile := range project.Supports {
		writeField(hasher, profile.Name)
		for _, pair := range profile.RestoreContexts {
			writeField(hasher, pair.Name())
		}
		endSection(hasher)
	}
	endSection(hasher)

	h.hashSettings(project.Restore, hasher)

	// Referenced projects
	refs := slices.Clone(project.ExternalProjects)
	slices.SortFunc(refs, func(a, b domain.ExternalProject) int {
		return strings.Compare(domain.NameKey(a.Name), domain.NameKey(b.Name))
	})
	for _, ref := range refs {
		writeField(hasher, ref.Name)
		writeField(hasher, filepath.Clean(ref.Path))
		h.hashProject(ref.Spec, hasher, seen)
	}
	endSection(hasher)
}

// hashDependencies hashes dependency edges in declaration order.
func (h *Hasher) hashDependencies(deps []domain.LibraryDependency, hasher *xxhash.Digest) {
	for _, dep := range deps {
		writeField(hasher, dep.Range.Name)
		writeField(hasher, dep.Range.VersionRange.String())
		writeField(hasher, strconv.FormatUint(uint64(dep.Range.TypeConstraint), 10))
		writeField(hasher, dep.IncludeType.String())
		writeField(hasher, dep.SuppressParent.String())
	}
	endSection(hasher)
}

func (h *Hasher) hashSettings(settings domain.RestoreSettings, hasher *xxhash.Digest) {
	writeField(hasher, settings.PackagesPath)
	for _, source := range settings.Sources {
		writeField(hasher, source)
	}
	endSection(hasher)
	for _, folder := range settings.FallbackFolders {
		writeField(hasher, folder)
	}
	endSection(hasher)
	writeField(hasher, settings.LockFilePath)
	writeField(hasher, strconv.FormatBool(settings.Lock))
}

func writeField(hasher *xxhash.Digest, s string) {
	_, _ = hasher.WriteString(s)
	_, _ = hasher.Write([]byte{0}) // Separator
}

func endSection(hasher *xxhash.Digest) {
	_, _ = hasher.Write([]byte{1})
}
