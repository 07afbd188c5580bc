package packages

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/zerr"
)

type nuspecDocument struct {
	Metadata nuspecMetadata `xml:"metadata"`
}

type nuspecMetadata struct {
	ID                  string                   `xml:"id"`
	Version             string                   `xml:"version"`
	Dependencies        nuspecDependencies       `xml:"dependencies"`
	References          nuspecReferences         `xml:"references"`
	FrameworkAssemblies []nuspecFrameworkAssembly `xml:"frameworkAssemblies>frameworkAssembly"`
	ContentFiles        []nuspecContentFiles     `xml:"contentFiles>files"`
}

type nuspecDependencies struct {
	Groups []nuspecDependencyGroup `xml:"group"`
	// Flat holds dependencies listed without a group; they apply to every framework.
	Flat []nuspecDependency `xml:"dependency"`
}

type nuspecDependencyGroup struct {
	TargetFramework string             `xml:"targetFramework,attr"`
	Dependencies    []nuspecDependency `xml:"dependency"`
}

type nuspecDependency struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
}

type nuspecReferences struct {
	Groups []nuspecReferenceGroup `xml:"group"`
	Flat   []nuspecReference      `xml:"reference"`
}

type nuspecReferenceGroup struct {
	TargetFramework string            `xml:"targetFramework,attr"`
	References      []nuspecReference `xml:"reference"`
}

type nuspecReference struct {
	File string `xml:"file,attr"`
}

type nuspecFrameworkAssembly struct {
	AssemblyName    string `xml:"assemblyName,attr"`
	TargetFramework string `xml:"targetFramework,attr"`
}

type nuspecContentFiles struct {
	Include      string `xml:"include,attr"`
	Exclude      string `xml:"exclude,attr"`
	BuildAction  string `xml:"buildAction,attr"`
	CopyToOutput string `xml:"copyToOutput,attr"`
	Flatten      string `xml:"flatten,attr"`
}

// parseManifest decodes a nuspec document.
func parseManifest(r io.Reader) (*domain.PackageManifest, error) {
	var doc nuspecDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
	}
	md := doc.Metadata
	if md.ID == "" {
		return nil, zerr.With(domain.ErrManifestParseFailed, "reason", "missing id")
	}

	version, err := domain.ParseVersion(md.Version)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "id", md.ID)
	}

	manifest := &domain.PackageManifest{ID: md.ID, Version: version}

	if manifest.DependencyGroups, err = dependencyGroups(md.Dependencies); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "id", md.ID)
	}
	if manifest.ReferenceGroups, err = referenceGroups(md.References); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "id", md.ID)
	}
	if manifest.FrameworkAssemblyGroups, err = frameworkAssemblyGroups(md.FrameworkAssemblies); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "id", md.ID)
	}
	manifest.ContentFiles = contentFiles(md.ContentFiles)
	return manifest, nil
}

func dependencyGroups(deps nuspecDependencies) ([]domain.PackageDependencyGroup, error) {
	var out []domain.PackageDependencyGroup
	if len(deps.Flat) > 0 {
		packages, err := packageDependencies(deps.Flat)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.PackageDependencyGroup{TargetFramework: domain.AnyFramework, Packages: packages})
	}
	for _, g := range deps.Groups {
		fw, err := groupFramework(g.TargetFramework)
		if err != nil {
			return nil, err
		}
		packages, err := packageDependencies(g.Dependencies)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.PackageDependencyGroup{TargetFramework: fw, Packages: packages})
	}
	return out, nil
}

func packageDependencies(deps []nuspecDependency) ([]domain.PackageDependency, error) {
	out := make([]domain.PackageDependency, 0, len(deps))
	for _, d := range deps {
		r := domain.AllVersions
		if d.Version != "" {
			var err error
			if r, err = domain.ParseVersionRange(d.Version); err != nil {
				return nil, zerr.With(err, "dependency", d.ID)
			}
		}
		out = append(out, domain.PackageDependency{ID: d.ID, Range: r})
	}
	return out, nil
}

func referenceGroups(refs nuspecReferences) ([]domain.FrameworkSpecificGroup, error) {
	var out []domain.FrameworkSpecificGroup
	if len(refs.Flat) > 0 {
		out = append(out, domain.FrameworkSpecificGroup{
			TargetFramework: domain.AnyFramework,
			Items:           referenceFiles(refs.Flat),
		})
	}
	for _, g := range refs.Groups {
		fw, err := groupFramework(g.TargetFramework)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.FrameworkSpecificGroup{TargetFramework: fw, Items: referenceFiles(g.References)})
	}
	return out, nil
}

func referenceFiles(refs []nuspecReference) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.File)
	}
	return out
}

// frameworkAssemblyGroups groups framework assemblies by framework. An assembly may list several
// comma separated frameworks; one without any applies to every framework.
func frameworkAssemblyGroups(assemblies []nuspecFrameworkAssembly) ([]domain.FrameworkSpecificGroup, error) {
	var out []domain.FrameworkSpecificGroup
	index := make(map[domain.Framework]int)
	add := func(fw domain.Framework, name string) {
		i, ok := index[fw]
		if !ok {
			i = len(out)
			index[fw] = i
			out = append(out, domain.FrameworkSpecificGroup{TargetFramework: fw})
		}
		out[i].Items = append(out[i].Items, name)
	}

	for _, a := range assemblies {
		if strings.TrimSpace(a.TargetFramework) == "" {
			add(domain.AnyFramework, a.AssemblyName)
			continue
		}
		for _, name := range strings.Split(a.TargetFramework, ",") {
			fw, err := domain.ParseFramework(name)
			if err != nil {
				return nil, err
			}
			add(fw, a.AssemblyName)
		}
	}
	return out, nil
}

func contentFiles(files []nuspecContentFiles) []domain.ContentFilesEntry {
	out := make([]domain.ContentFilesEntry, 0, len(files))
	for _, f := range files {
		out = append(out, domain.ContentFilesEntry{
			Include:      f.Include,
			Exclude:      f.Exclude,
			BuildAction:  f.BuildAction,
			CopyToOutput: optionalBool(f.CopyToOutput),
			Flatten:      optionalBool(f.Flatten),
		})
	}
	return out
}

func optionalBool(s string) *bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &b
}

// groupFramework parses a group's targetFramework; an empty value applies to every framework.
func groupFramework(s string) (domain.Framework, error) {
	if strings.TrimSpace(s) == "" {
		return domain.AnyFramework, nil
	}
	return domain.ParseFramework(s)
}
