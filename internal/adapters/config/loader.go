// Package config provides the restore.yaml project loader.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultProjectVersion is used when a project file declares no version.
const DefaultProjectVersion = "1.0.0"

var validProjectNameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Loader implements ports.ProjectLoader using YAML project files.
type Loader struct {
	Logger ports.Logger
}

var _ ports.ProjectLoader = (*Loader)(nil)

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds the project file for path and parses it together with every project it references.
// path may be the project file itself or any directory at or below the project directory.
func (l *Loader) Load(path string) (*domain.ProjectSpec, error) {
	configPath, err := findProjectFile(path)
	if err != nil {
		return nil, err
	}
	return l.loadProject(configPath, make(map[string]*domain.ProjectSpec))
}

func findProjectFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrConfigNotFound.Error())
	}

	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		return abs, nil
	}

	for dir := abs; ; {
		candidate := filepath.Join(dir, domain.ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", zerr.With(domain.ErrConfigNotFound, "path", path)
}

// loadProject parses the project file at configPath. loaded holds every project parsed so far by
// file path, so a project referenced twice is parsed once and reference cycles terminate.
func (l *Loader) loadProject(configPath string, loaded map[string]*domain.ProjectSpec) (*domain.ProjectSpec, error) {
	if spec, ok := loaded[configPath]; ok {
		return spec, nil
	}

	var file ProjectFile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "file", configPath)
	}

	spec, err := l.buildSpec(configPath, &file)
	if err != nil {
		return nil, zerr.With(err, "file", configPath)
	}
	loaded[configPath] = spec

	if err := l.resolveProjectRefs(spec, file.Projects, loaded); err != nil {
		return nil, zerr.With(err, "file", configPath)
	}
	return spec, nil
}

func (l *Loader) buildSpec(configPath string, file *ProjectFile) (*domain.ProjectSpec, error) {
	if err := validateProjectName(file.Name); err != nil {
		return nil, err
	}

	rawVersion := file.Version
	if rawVersion == "" {
		rawVersion = DefaultProjectVersion
	}
	version, err := domain.ParseVersion(rawVersion)
	if err != nil {
		return nil, zerr.With(err, "project", file.Name)
	}

	baseDir := filepath.Dir(configPath)
	spec := &domain.ProjectSpec{
		Name:          file.Name,
		Version:       version,
		FilePath:      configPath,
		BaseDirectory: baseDir,
		RuntimeIDs:    slices.Clone(file.Runtimes),
	}

	if spec.Dependencies, err = buildDependencies(file.Dependencies); err != nil {
		return nil, err
	}
	if spec.Frameworks, err = buildFrameworks(file.Frameworks); err != nil {
		return nil, err
	}
	if spec.Supports, err = buildSupports(file.Supports); err != nil {
		return nil, err
	}
	spec.Restore = buildRestoreSettings(baseDir, file.Restore)

	return spec, nil
}

func validateProjectName(name string) error {
	if name == "" {
		return domain.ErrMissingProjectName
	}
	if !validProjectNameRegex.MatchString(name) {
		return zerr.With(domain.ErrInvalidProjectName, "project", name)
	}
	return nil
}

func buildDependencies(deps map[string]DependencyDTO) ([]domain.LibraryDependency, error) {
	out := make([]domain.LibraryDependency, 0, len(deps))
	for _, name := range slices.Sorted(maps.Keys(deps)) {
		dto := deps[name]
		dep, err := buildDependency(name, dto)
		if err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, nil
}

func buildDependency(name string, dto DependencyDTO) (domain.LibraryDependency, error) {
	if name == "" {
		return domain.LibraryDependency{}, domain.ErrInvalidDependency
	}

	r, err := domain.ParseVersionRange(dto.Version)
	if err != nil {
		return domain.LibraryDependency{}, zerr.With(err, "dependency", name)
	}

	dep := domain.NewPackageDependency(name, r)
	if dep.IncludeType, dep.SuppressParent, err = parseAssetFlags(dto.Include, dto.Exclude, dto.SuppressParent); err != nil {
		return domain.LibraryDependency{}, zerr.With(err, "dependency", name)
	}
	return dep, nil
}

// parseAssetFlags returns include minus exclude and the suppressed flags.
// Empty strings fall back to All, None and the default suppressed set.
func parseAssetFlags(include, exclude, suppress string) (domain.IncludeFlags, domain.IncludeFlags, error) {
	included, err := parseFlags(include, domain.IncludeAll)
	if err != nil {
		return 0, 0, err
	}
	excluded, err := parseFlags(exclude, domain.IncludeNone)
	if err != nil {
		return 0, 0, err
	}
	suppressed, err := parseFlags(suppress, domain.DefaultSuppressParent)
	if err != nil {
		return 0, 0, err
	}
	return included.Except(excluded), suppressed, nil
}

func parseFlags(s string, def domain.IncludeFlags) (domain.IncludeFlags, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return domain.ParseIncludeFlags(s)
}

func buildFrameworks(frameworks map[string]FrameworkDTO) ([]domain.TargetFrameworkInfo, error) {
	if len(frameworks) == 0 {
		return nil, domain.ErrNoTargetFrameworks
	}

	out := make([]domain.TargetFrameworkInfo, 0, len(frameworks))
	for _, name := range slices.Sorted(maps.Keys(frameworks)) {
		dto := frameworks[name]
		fw, err := parseFramework(name)
		if err != nil {
			return nil, err
		}

		tf := domain.TargetFrameworkInfo{Framework: fw, Warn: dto.Warn}
		for _, imp := range dto.Imports {
			importFw, err := parseFramework(imp)
			if err != nil {
				return nil, zerr.With(err, "framework", name)
			}
			tf.Imports = append(tf.Imports, importFw)
		}

		if tf.Dependencies, err = buildDependencies(dto.Dependencies); err != nil {
			return nil, zerr.With(err, "framework", name)
		}
		out = append(out, tf)
	}
	return out, nil
}

func parseFramework(s string) (domain.Framework, error) {
	fw, err := domain.ParseFramework(s)
	if err != nil {
		return domain.Framework{}, err
	}
	if fw == domain.UnsupportedFramework {
		return domain.Framework{}, zerr.With(domain.ErrInvalidFramework, "framework", s)
	}
	return fw, nil
}

func buildSupports(supports map[string]SupportsDTO) ([]domain.CompatibilityProfile, error) {
	out := make([]domain.CompatibilityProfile, 0, len(supports))
	for _, name := range slices.Sorted(maps.Keys(supports)) {
		profile := domain.CompatibilityProfile{Name: name}
		for _, ctx := range supports[name].Contexts {
			fw, err := parseFramework(ctx.Framework)
			if err != nil {
				return nil, zerr.With(err, "profile", name)
			}
			profile.RestoreContexts = append(profile.RestoreContexts, domain.FrameworkRuntimePair{
				Framework: fw,
				RuntimeID: ctx.Runtime,
			})
		}
		out = append(out, profile)
	}
	return out, nil
}

func buildRestoreSettings(baseDir string, dto RestoreDTO) domain.RestoreSettings {
	settings := domain.RestoreSettings{
		PackagesPath:           resolvePath(baseDir, dto.PackagesPath),
		MaxDegreeOfConcurrency: dto.MaxDegreeOfConcurrency,
		LockFilePath:           resolvePath(baseDir, dto.LockFilePath),
		Lock:                   dto.Lock,
	}
	if settings.PackagesPath == "" {
		settings.PackagesPath = domain.DefaultPackagesPath()
	}
	if settings.LockFilePath == "" {
		settings.LockFilePath = filepath.Join(baseDir, domain.LockFileName)
	}
	for _, s := range dto.Sources {
		settings.Sources = append(settings.Sources, resolvePath(baseDir, s))
	}
	for _, f := range dto.FallbackFolders {
		settings.FallbackFolders = append(settings.FallbackFolders, resolvePath(baseDir, f))
	}
	return settings
}

// resolvePath expands a leading "~" and makes relative paths absolute against baseDir.
func resolvePath(baseDir, p string) string {
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(baseDir, p))
}

// resolveProjectRefs loads every referenced project and adds a project dependency for it.
// A directory without a project file becomes an external project without a spec.
func (l *Loader) resolveProjectRefs(
	spec *domain.ProjectSpec,
	refs map[string]ProjectRefDTO,
	loaded map[string]*domain.ProjectSpec,
) error {
	for _, name := range slices.Sorted(maps.Keys(refs)) {
		dto := refs[name]
		dir := resolvePath(spec.BaseDirectory, dto.Path)
		if dir == "" {
			dir = filepath.Join(filepath.Dir(spec.BaseDirectory), name)
		}

		ref := domain.ExternalProject{Name: name, Path: dir}
		refFile := filepath.Join(dir, domain.ProjectFileName)
		if _, err := os.Stat(refFile); err == nil {
			refSpec, err := l.loadProject(refFile, loaded)
			if err != nil {
				return zerr.With(err, "reference", name)
			}
			if !strings.EqualFold(refSpec.Name, name) {
				err := zerr.With(domain.ErrInvalidDependency, "reference", name)
				return zerr.With(err, "declared_name", refSpec.Name)
			}
			ref.Spec = refSpec
		} else {
			l.Logger.Warn(fmt.Sprintf("project reference %s has no %s in %s", name, domain.ProjectFileName, dir))
		}
		spec.ExternalProjects = append(spec.ExternalProjects, ref)

		include, suppress, err := parseAssetFlags(dto.Include, dto.Exclude, dto.SuppressParent)
		if err != nil {
			return zerr.With(err, "reference", name)
		}
		spec.Dependencies = append(spec.Dependencies, domain.LibraryDependency{
			Range: domain.LibraryRange{
				Name:           name,
				VersionRange:   domain.AllVersions,
				TypeConstraint: domain.TargetProject | domain.TargetExternalProject,
			},
			IncludeType:    include,
			SuppressParent: suppress,
		})
	}
	return nil
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
