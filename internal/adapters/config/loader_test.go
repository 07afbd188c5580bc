package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/restore/internal/adapters/config"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), domain.FilePerm))
	return p
}

func newLoader(t *testing.T) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	return config.NewLoader(log), log
}

const appProject = `
name: App
version: 2.1.0
dependencies:
  Newtonsoft.Json: "[9.0.1, )"
  Analyzers:
    version: 1.0.0
    include: All
    exclude: Runtime, Compile
    suppressParent: All
frameworks:
  netcoreapp1.0:
    imports: [dnxcore50, portable-net45+win8]
    warn: true
    dependencies:
      System.Runtime: 4.1.0
  net45:
runtimes: [win7-x64, osx.10.12-x64]
supports:
  net46.app: {}
  custom:
    - framework: netstandard1.3
      runtime: win7-x64
restore:
  packagesPath: packages
  sources: [./feed, /abs/feed]
  maxDegreeOfConcurrency: 4
  lock: true
`

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := createFile(t, root, domain.ProjectFileName, appProject)
	loader, _ := newLoader(t)

	spec, err := loader.Load(root)
	require.NoError(t, err)

	assert.Equal(t, "App", spec.Name)
	assert.Equal(t, domain.MustParseVersion("2.1.0"), spec.Version)
	assert.Equal(t, file, spec.FilePath)
	assert.Equal(t, root, spec.BaseDirectory)

	require.Len(t, spec.Dependencies, 2)
	analyzers := spec.Dependencies[0]
	assert.Equal(t, "Analyzers", analyzers.Name())
	assert.Equal(t, domain.AtLeast(domain.MustParseVersion("1.0.0")), analyzers.Range.VersionRange)
	assert.Equal(t, domain.IncludeAll.Except(domain.IncludeRuntime|domain.IncludeCompile), analyzers.IncludeType)
	assert.Equal(t, domain.IncludeAll, analyzers.SuppressParent)

	json := spec.Dependencies[1]
	assert.Equal(t, "Newtonsoft.Json", json.Name())
	assert.Equal(t, domain.TargetPackage, json.Range.TypeConstraint)
	assert.Equal(t, domain.IncludeAll, json.IncludeType)
	assert.Equal(t, domain.DefaultSuppressParent, json.SuppressParent)

	require.Len(t, spec.Frameworks, 2)
	assert.Equal(t, domain.MustParseFramework("net45"), spec.Frameworks[0].Framework)
	core := spec.Frameworks[1]
	assert.Equal(t, domain.MustParseFramework("netcoreapp1.0"), core.Framework)
	assert.True(t, core.Warn)
	assert.Equal(t, []domain.Framework{
		domain.MustParseFramework("dnxcore50"),
		domain.MustParseFramework("portable-net45+win8"),
	}, core.Imports)
	require.Len(t, core.Dependencies, 1)
	assert.Equal(t, "System.Runtime", core.Dependencies[0].Name())

	assert.Equal(t, []string{"win7-x64", "osx.10.12-x64"}, spec.RuntimeIDs)

	require.Len(t, spec.Supports, 2)
	assert.Equal(t, "custom", spec.Supports[0].Name)
	assert.Equal(t, []domain.FrameworkRuntimePair{
		{Framework: domain.MustParseFramework("netstandard1.3"), RuntimeID: "win7-x64"},
	}, spec.Supports[0].RestoreContexts)
	assert.Equal(t, domain.CompatibilityProfile{Name: "net46.app"}, spec.Supports[1])

	assert.Equal(t, domain.RestoreSettings{
		PackagesPath:           filepath.Join(root, "packages"),
		Sources:                []string{filepath.Join(root, "feed"), "/abs/feed"},
		MaxDegreeOfConcurrency: 4,
		LockFilePath:           filepath.Join(root, domain.LockFileName),
		Lock:                   true,
	}, spec.Restore)
}

func TestLoader_Discovery(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := createFile(t, root, domain.ProjectFileName, "name: App\nframeworks: { net45: {} }\n")
	deep := filepath.Join(root, "src", "nested")
	require.NoError(t, os.MkdirAll(deep, domain.DirPerm))
	loader, _ := newLoader(t)

	t.Run("from a nested directory", func(t *testing.T) {
		t.Parallel()
		spec, err := loader.Load(deep)
		require.NoError(t, err)
		assert.Equal(t, file, spec.FilePath)
		assert.Equal(t, domain.MustParseVersion(config.DefaultProjectVersion), spec.Version)
	})

	t.Run("from the file", func(t *testing.T) {
		t.Parallel()
		spec, err := loader.Load(file)
		require.NoError(t, err)
		assert.Equal(t, "App", spec.Name)
	})
}

func TestLoader_NotFound(t *testing.T) {
	t.Parallel()

	loader, _ := newLoader(t)
	_, err := loader.Load(t.TempDir())
	require.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "parse error", content: "name: [", want: domain.ErrConfigParseFailed},
		{name: "missing name", content: "frameworks: { net45: {} }", want: domain.ErrMissingProjectName},
		{name: "invalid name", content: "name: my app\nframeworks: { net45: {} }", want: domain.ErrInvalidProjectName},
		{name: "invalid version", content: "name: App\nversion: one\nframeworks: { net45: {} }", want: domain.ErrInvalidVersion},
		{name: "no frameworks", content: "name: App", want: domain.ErrNoTargetFrameworks},
		{name: "invalid framework", content: "name: App\nframeworks: { '???': {} }", want: domain.ErrInvalidFramework},
		{
			name:    "invalid range",
			content: "name: App\nframeworks: { net45: {} }\ndependencies: { A: '[2.0, 1.0]' }",
			want:    domain.ErrInvalidVersionRange,
		},
		{
			name:    "invalid flags",
			content: "name: App\nframeworks: { net45: {} }\ndependencies: { A: { version: 1.0.0, include: Everything } }",
			want:    domain.ErrInvalidIncludeFlags,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			createFile(t, root, domain.ProjectFileName, tt.content)
			loader, _ := newLoader(t)

			_, err := loader.Load(root)
			require.ErrorContains(t, err, tt.want.Error())
		})
	}
}

func TestLoader_ProjectReferences(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	appDir := filepath.Join(root, "App")
	libDir := filepath.Join(root, "Lib")
	createFile(t, appDir, domain.ProjectFileName, `
name: App
frameworks: { net46: {} }
projects:
  Lib: { path: ../Lib }
  Legacy: { path: ../Legacy, include: Compile }
`)
	createFile(t, libDir, domain.ProjectFileName, `
name: Lib
version: 3.0.0
frameworks: { net45: {} }
projects:
  App: { path: ../App }
dependencies:
  A: 1.0.0
`)
	loader, log := newLoader(t)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	spec, err := loader.Load(appDir)
	require.NoError(t, err)

	require.Len(t, spec.ExternalProjects, 2)
	legacy := spec.ExternalProjects[0]
	assert.Equal(t, "Legacy", legacy.Name)
	assert.Equal(t, filepath.Join(root, "Legacy"), legacy.Path)
	assert.Nil(t, legacy.Spec)

	lib := spec.ExternalProjects[1]
	assert.Equal(t, libDir, lib.Path)
	require.NotNil(t, lib.Spec)
	assert.Equal(t, domain.MustParseVersion("3.0.0"), lib.Spec.Version)

	// The cycle back to App resolves to the spec already being loaded.
	back, ok := lib.Spec.FindExternalProject("App")
	require.True(t, ok)
	assert.Same(t, spec, back.Spec)

	require.Len(t, spec.Dependencies, 2)
	assert.Equal(t, "Legacy", spec.Dependencies[0].Name())
	assert.Equal(t, domain.IncludeCompile, spec.Dependencies[0].IncludeType)
	assert.Equal(t, domain.TargetProject|domain.TargetExternalProject, spec.Dependencies[1].Range.TypeConstraint)
	assert.True(t, spec.Dependencies[1].Range.VersionRange.IsAll())
}

func TestLoader_ReferenceNameMismatch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	createFile(t, filepath.Join(root, "App"), domain.ProjectFileName, "name: App\nframeworks: { net45: {} }\nprojects: { Lib: { path: ../Lib } }\n")
	createFile(t, filepath.Join(root, "Lib"), domain.ProjectFileName, "name: Other\nframeworks: { net45: {} }\n")
	loader, _ := newLoader(t)

	_, err := loader.Load(filepath.Join(root, "App"))
	require.ErrorContains(t, err, domain.ErrInvalidDependency.Error())
}
