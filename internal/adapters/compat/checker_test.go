package compat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/restore/internal/adapters/compat"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newChecker(t *testing.T) *compat.Checker {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	c, err := compat.New(log)
	require.NoError(t, err)
	return c
}

func pkg(name, version string) *domain.GraphItem {
	return &domain.GraphItem{Identity: domain.LibraryIdentity{
		Name: name, Version: domain.MustParseVersion(version), Type: domain.LibraryTypePackage,
	}}
}

func items(paths ...string) []domain.LockFileItem {
	out := make([]domain.LockFileItem, 0, len(paths))
	for _, p := range paths {
		out = append(out, domain.NewLockFileItem(p))
	}
	return out
}

// fixture is a graph with its lock file.
type fixture struct {
	graph    *domain.RestoreTargetGraph
	lockFile *domain.LockFile
	target   *domain.LockFileTarget
}

func newFixture(framework, rid string) *fixture {
	fw := domain.MustParseFramework(framework)
	target := &domain.LockFileTarget{Framework: fw, RuntimeID: rid}
	return &fixture{
		graph:    &domain.RestoreTargetGraph{Framework: fw, RuntimeID: rid},
		lockFile: &domain.LockFile{Version: domain.LockFileFormatVersion, Targets: []*domain.LockFileTarget{target}},
		target:   target,
	}
}

func (f *fixture) add(item *domain.GraphItem, files []string, lib *domain.LockFileTargetLibrary) {
	f.graph.Flattened = append(f.graph.Flattened, item)
	f.lockFile.Libraries = append(f.lockFile.Libraries, &domain.LockFileLibrary{
		Name: item.Identity.Name, Version: item.Identity.Version, Type: domain.LibraryTypePackage, Files: files,
	})
	lib.Name = item.Identity.Name
	lib.Version = item.Identity.Version
	lib.Type = domain.LibraryTypePackage
	f.target.Libraries = append(f.target.Libraries, lib)
}

func TestNew_NilLogger(t *testing.T) {
	t.Parallel()
	_, err := compat.New(nil)
	require.ErrorContains(t, err, domain.ErrNilCollaborator.Error())
}

func TestCheck_PackageWithAssetsForTarget(t *testing.T) {
	t.Parallel()

	f := newFixture("net45", "")
	f.add(pkg("A", "1.0.0"), []string{"lib/net45/A.dll"}, &domain.LockFileTargetLibrary{
		CompileTimeAssemblies: items("lib/net45/A.dll"),
		RuntimeAssemblies:     items("lib/net45/A.dll"),
	})

	res := newChecker(t).Check(f.graph, nil, f.lockFile)
	assert.True(t, res.Success)
	assert.Equal(t, "net45", res.Graph)
	assert.Empty(t, res.Issues)
}

func TestCheck_PackageWithoutAssetsForTarget(t *testing.T) {
	t.Parallel()

	f := newFixture("net45", "")
	a := pkg("A", "1.0.0")
	f.add(a, []string{"lib/netstandard1.3/A.dll", "ref/netcoreapp1.0/A.dll", "readme.txt"}, &domain.LockFileTargetLibrary{})

	res := newChecker(t).Check(f.graph, nil, f.lockFile)
	assert.False(t, res.Success)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, a.Identity, res.Issues[0].Library)
	assert.False(t, res.Issues[0].Project)
	assert.Equal(t, "package A 1.0.0 is not compatible with net45. It supports: netcoreapp1.0, netstandard1.3",
		res.Issues[0].Message)
}

func TestCheck_ContentOnlyPackagesAreCompatible(t *testing.T) {
	t.Parallel()

	f := newFixture("net45", "")
	f.add(pkg("Tools", "1.0.0"), []string{"tools/init.ps1", "content/readme.txt"}, &domain.LockFileTargetLibrary{})

	res := newChecker(t).Check(f.graph, nil, f.lockFile)
	assert.True(t, res.Success)
}

func TestCheck_ExcludedAssembliesSkipTheCheck(t *testing.T) {
	t.Parallel()

	f := newFixture("net45", "")
	f.add(pkg("A", "1.0.0"), []string{"lib/netstandard1.3/A.dll"}, &domain.LockFileTargetLibrary{})

	flags := map[string]domain.IncludeFlags{"a": domain.IncludeBuild | domain.IncludeContentFiles}
	res := newChecker(t).Check(f.graph, flags, f.lockFile)
	assert.True(t, res.Success)
}

func TestCheck_MissingLockFileEntryIsSkipped(t *testing.T) {
	t.Parallel()

	f := newFixture("net45", "")
	f.graph.Flattened = append(f.graph.Flattened, pkg("Ghost", "1.0.0"))

	res := newChecker(t).Check(f.graph, nil, f.lockFile)
	assert.True(t, res.Success)
}

func TestCheck_Projects(t *testing.T) {
	t.Parallel()

	f := newFixture("net45", "")
	lib := &domain.GraphItem{
		Identity:         domain.LibraryIdentity{Name: "Lib", Version: domain.MustParseVersion("1.0.0"), Type: domain.LibraryTypeProject},
		ProjectFramework: domain.UnsupportedFramework,
	}
	other := &domain.GraphItem{
		Identity: domain.LibraryIdentity{Name: "Other", Version: domain.MustParseVersion("1.0.0"), Type: domain.LibraryTypeExternalProject},
	}
	f.graph.Flattened = append(f.graph.Flattened, lib, other)

	res := newChecker(t).Check(f.graph, nil, f.lockFile)
	assert.False(t, res.Success)
	require.Len(t, res.Issues, 1)
	assert.True(t, res.Issues[0].Project)
	assert.Equal(t, "Lib", res.Issues[0].Library.Name)
}

func TestCheck_ReferenceAssembliesNeedRuntimeImplementation(t *testing.T) {
	t.Parallel()

	build := func() *fixture {
		f := newFixture("netcoreapp1.0", "win7-x64")
		f.add(pkg("Contract", "1.0.0"), []string{"ref/netstandard1.3/Contract.dll"}, &domain.LockFileTargetLibrary{
			CompileTimeAssemblies: items("ref/netstandard1.3/Contract.dll"),
		})
		return f
	}

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		f := build()

		res := newChecker(t).Check(f.graph, nil, f.lockFile)
		assert.False(t, res.Success)
		require.Len(t, res.Issues, 1)
		assert.Contains(t, res.Issues[0].Message, "no run-time assembly compatible with win7-x64")
	})

	t.Run("native image implementation", func(t *testing.T) {
		t.Parallel()
		f := build()
		f.add(pkg("runtime.win7.Contract", "1.0.0"), []string{"runtimes/win7/lib/netstandard1.3/Contract.ni.dll"}, &domain.LockFileTargetLibrary{
			RuntimeAssemblies: items("runtimes/win7/lib/netstandard1.3/Contract.ni.dll"),
		})

		res := newChecker(t).Check(f.graph, nil, f.lockFile)
		assert.True(t, res.Success)
	})

	t.Run("runtime excluded", func(t *testing.T) {
		t.Parallel()
		f := build()

		flags := map[string]domain.IncludeFlags{"contract": domain.IncludeCompile}
		res := newChecker(t).Check(f.graph, flags, f.lockFile)
		assert.True(t, res.Success)
	})

	t.Run("validation disabled", func(t *testing.T) {
		t.Parallel()
		f := build()

		ctrl := gomock.NewController(t)
		log := mocks.NewMockLogger(ctrl)
		log.EXPECT().Debug(gomock.Any()).AnyTimes()
		c, err := compat.New(log, compat.WithoutRuntimeAssetValidation())
		require.NoError(t, err)

		assert.True(t, c.Check(f.graph, nil, f.lockFile).Success)
	})
}
