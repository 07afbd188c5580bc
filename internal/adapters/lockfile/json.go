package lockfile

import (
	"bytes"
	"encoding/json"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/zerr"
)

type (
	itemsJSON     = orderedmap.OrderedMap[string, map[string]string]
	librariesJSON = orderedmap.OrderedMap[string, targetLibraryJSON]
)

// document is the on-disk shape of a lock file. Keyed collections are ordered maps so entries are
// written in the order the builder produced them.
type document struct {
	Locked                      bool                                           `json:"locked"`
	Version                     int                                            `json:"version"`
	Targets                     *orderedmap.OrderedMap[string, *librariesJSON] `json:"targets"`
	Libraries                   *orderedmap.OrderedMap[string, libraryJSON]    `json:"libraries"`
	ProjectFileDependencyGroups dependencyGroupsJSON                           `json:"projectFileDependencyGroups"`
}

type targetLibraryJSON struct {
	Type                string                                 `json:"type,omitempty"`
	Framework           string                                 `json:"framework,omitempty"`
	Dependencies        *orderedmap.OrderedMap[string, string] `json:"dependencies,omitempty"`
	FrameworkAssemblies []string                               `json:"frameworkAssemblies,omitempty"`
	Compile             *itemsJSON                             `json:"compile,omitempty"`
	Runtime             *itemsJSON                             `json:"runtime,omitempty"`
	Resource            *itemsJSON                             `json:"resource,omitempty"`
	Native              *itemsJSON                             `json:"native,omitempty"`
	Build               *itemsJSON                             `json:"build,omitempty"`
	ContentFiles        *itemsJSON                             `json:"contentFiles,omitempty"`
}

type libraryJSON struct {
	Sha512         string   `json:"sha512,omitempty"`
	Type           string   `json:"type,omitempty"`
	Path           string   `json:"path,omitempty"`
	MSBuildProject string   `json:"msbuildProject,omitempty"`
	Files          []string `json:"files,omitempty"`
}

// dependencyGroupsJSON keeps dependency strings such as "A >= 1.0.0" unescaped.
type dependencyGroupsJSON []domain.ProjectFileDependencyGroup

// MarshalJSON implements json.Marshaler.
func (g dependencyGroupsJSON) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, group := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(group.FrameworkName); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		deps := group.Dependencies
		if deps == nil {
			deps = []string{}
		}
		if err := enc.Encode(deps); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *dependencyGroupsJSON) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*g = nil
		return nil
	}
	groups := orderedmap.New[string, []string]()
	if err := groups.UnmarshalJSON(data); err != nil {
		return err
	}
	out := make(dependencyGroupsJSON, 0, groups.Len())
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, domain.ProjectFileDependencyGroup{FrameworkName: pair.Key, Dependencies: pair.Value})
	}
	*g = out
	return nil
}

// Encode renders a lock file as indented JSON followed by a newline.
func Encode(lf *domain.LockFile) ([]byte, error) {
	doc := document{
		Locked:                      lf.Locked,
		Version:                     lf.Version,
		Targets:                     orderedmap.New[string, *librariesJSON](len(lf.Targets)),
		Libraries:                   orderedmap.New[string, libraryJSON](len(lf.Libraries)),
		ProjectFileDependencyGroups: dependencyGroupsJSON(lf.ProjectFileDependencyGroups),
	}
	if doc.ProjectFileDependencyGroups == nil {
		doc.ProjectFileDependencyGroups = dependencyGroupsJSON{}
	}

	for _, target := range lf.Targets {
		libs := orderedmap.New[string, targetLibraryJSON](len(target.Libraries))
		for _, lib := range target.Libraries {
			libs.Set(libraryKey(lib.Name, lib.Version), encodeTargetLibrary(lib))
		}
		doc.Targets.Set(target.Name(), libs)
	}
	for _, lib := range lf.Libraries {
		doc.Libraries.Set(libraryKey(lib.Name, lib.Version), libraryJSON{
			Sha512:         lib.Sha512,
			Type:           string(lib.Type),
			Path:           lib.Path,
			MSBuildProject: lib.MSBuildProject,
			Files:          lib.Files,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrLockFileWriteFailed.Error())
	}
	return buf.Bytes(), nil
}

func encodeTargetLibrary(lib *domain.LockFileTargetLibrary) targetLibraryJSON {
	out := targetLibraryJSON{
		Type:                string(lib.Type),
		Framework:           lib.Framework,
		FrameworkAssemblies: lib.FrameworkAssemblies,
		Compile:             encodeItems(lib.CompileTimeAssemblies),
		Runtime:             encodeItems(lib.RuntimeAssemblies),
		Resource:            encodeItems(lib.ResourceAssemblies),
		Native:              encodeItems(lib.NativeLibraries),
		Build:               encodeItems(lib.Build),
		ContentFiles:        encodeItems(lib.ContentFiles),
	}
	if len(lib.Dependencies) > 0 {
		out.Dependencies = orderedmap.New[string, string](len(lib.Dependencies))
		for _, dep := range lib.Dependencies {
			out.Dependencies.Set(dep.ID, dep.Range.LegacyString())
		}
	}
	return out
}

func encodeItems(items []domain.LockFileItem) *itemsJSON {
	if len(items) == 0 {
		return nil
	}
	out := orderedmap.New[string, map[string]string](len(items))
	for _, item := range items {
		props := item.Properties
		if props == nil {
			props = map[string]string{}
		}
		out.Set(item.Path, props)
	}
	return out
}

// Decode parses a lock file.
func Decode(data []byte) (*domain.LockFile, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrLockFileParseFailed.Error())
	}

	lf := &domain.LockFile{
		Locked:                      doc.Locked,
		Version:                     doc.Version,
		ProjectFileDependencyGroups: []domain.ProjectFileDependencyGroup(doc.ProjectFileDependencyGroups),
	}

	if doc.Targets != nil {
		for pair := doc.Targets.Oldest(); pair != nil; pair = pair.Next() {
			target, err := decodeTarget(pair.Key, pair.Value)
			if err != nil {
				return nil, err
			}
			lf.Targets = append(lf.Targets, target)
		}
	}

	if doc.Libraries != nil {
		for pair := doc.Libraries.Oldest(); pair != nil; pair = pair.Next() {
			name, version, err := parseLibraryKey(pair.Key)
			if err != nil {
				return nil, err
			}
			lf.Libraries = append(lf.Libraries, &domain.LockFileLibrary{
				Name:           name,
				Version:        version,
				Type:           libraryType(pair.Value.Type),
				Sha512:         pair.Value.Sha512,
				Path:           pair.Value.Path,
				MSBuildProject: pair.Value.MSBuildProject,
				Files:          pair.Value.Files,
			})
		}
	}
	return lf, nil
}

func decodeTarget(key string, libs *librariesJSON) (*domain.LockFileTarget, error) {
	fw, rid, _ := strings.Cut(key, "/")
	framework, err := domain.ParseFramework(fw)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLockFileParseFailed.Error()), "target", key)
	}

	target := &domain.LockFileTarget{Framework: framework, RuntimeID: rid}
	if libs == nil {
		return target, nil
	}
	for pair := libs.Oldest(); pair != nil; pair = pair.Next() {
		lib, err := decodeTargetLibrary(pair.Key, pair.Value)
		if err != nil {
			return nil, zerr.With(err, "target", key)
		}
		target.Libraries = append(target.Libraries, lib)
	}
	return target, nil
}

func decodeTargetLibrary(key string, in targetLibraryJSON) (*domain.LockFileTargetLibrary, error) {
	name, version, err := parseLibraryKey(key)
	if err != nil {
		return nil, err
	}

	lib := &domain.LockFileTargetLibrary{
		Name:                  name,
		Version:               version,
		Type:                  libraryType(in.Type),
		Framework:             in.Framework,
		FrameworkAssemblies:   in.FrameworkAssemblies,
		CompileTimeAssemblies: decodeItems(in.Compile),
		RuntimeAssemblies:     decodeItems(in.Runtime),
		ResourceAssemblies:    decodeItems(in.Resource),
		NativeLibraries:       decodeItems(in.Native),
		Build:                 decodeItems(in.Build),
		ContentFiles:          decodeItems(in.ContentFiles),
	}
	if in.Dependencies != nil {
		for pair := in.Dependencies.Oldest(); pair != nil; pair = pair.Next() {
			r, err := domain.ParseVersionRange(pair.Value)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrLockFileParseFailed.Error()), "library", key)
			}
			lib.Dependencies = append(lib.Dependencies, domain.PackageDependency{ID: pair.Key, Range: r})
		}
	}
	return lib, nil
}

func decodeItems(in *itemsJSON) []domain.LockFileItem {
	if in == nil {
		return nil
	}
	out := make([]domain.LockFileItem, 0, in.Len())
	for pair := in.Oldest(); pair != nil; pair = pair.Next() {
		item := domain.NewLockFileItem(pair.Key)
		if len(pair.Value) > 0 {
			item.Properties = pair.Value
		}
		out = append(out, item)
	}
	return out
}

func libraryKey(name string, version domain.Version) string {
	return name + "/" + version.String()
}

func parseLibraryKey(key string) (string, domain.Version, error) {
	name, raw, ok := strings.Cut(key, "/")
	if !ok || name == "" {
		return "", domain.Version{}, zerr.With(domain.ErrLockFileParseFailed, "library", key)
	}
	version, err := domain.ParseVersion(raw)
	if err != nil {
		return "", domain.Version{}, zerr.With(zerr.Wrap(err, domain.ErrLockFileParseFailed.Error()), "library", key)
	}
	return name, version, nil
}

func libraryType(s string) domain.LibraryType {
	if s == "" {
		return domain.LibraryTypePackage
	}
	return domain.LibraryType(s)
}
