package walker_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/restore/internal/adapters/conventions"
	"go.trai.ch/restore/internal/adapters/feed"
	"go.trai.ch/restore/internal/adapters/packages"
	"go.trai.ch/restore/internal/adapters/packages/packagestest"
	"go.trai.ch/restore/internal/adapters/walker"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
	"go.trai.ch/restore/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var net45 = domain.MustParseFramework("net45")

type dep = packagestest.Dependency

func pkg(id, version string, deps ...dep) packagestest.Package {
	p := packagestest.Package{ID: id, Version: version}
	if len(deps) > 0 {
		p.Dependencies = map[string][]dep{"net45": deps}
	}
	return p
}

func project(deps ...domain.LibraryDependency) *domain.ProjectSpec {
	return &domain.ProjectSpec{
		Name:          "App",
		Version:       domain.MustParseVersion("1.0.0"),
		BaseDirectory: "/src/app",
		Frameworks:    []domain.TargetFrameworkInfo{{Framework: net45}},
		Dependencies:  deps,
	}
}

func packageDep(id, r string) domain.LibraryDependency {
	return domain.NewPackageDependency(id, domain.MustParseVersionRange(r))
}

func projectDep(name string) domain.LibraryDependency {
	return domain.LibraryDependency{
		Range: domain.LibraryRange{
			Name:           name,
			VersionRange:   domain.AllVersions,
			TypeConstraint: domain.TargetProject | domain.TargetExternalProject,
		},
		IncludeType:    domain.IncludeAll,
		SuppressParent: domain.DefaultSuppressParent,
	}
}

type fixture struct {
	root   string
	feed   string
	logger *mocks.MockLogger
}

func newFixture(t *testing.T, feedPackages ...packagestest.Package) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	f := &fixture{root: t.TempDir(), feed: t.TempDir(), logger: logger}
	for _, p := range feedPackages {
		packagestest.AddToFeed(t, f.feed, p)
	}
	return f
}

func (f *fixture) walker(t *testing.T, spec *domain.ProjectSpec, sources ...string) *walker.Walker {
	t.Helper()

	if len(sources) == 0 {
		sources = []string{f.feed}
	}
	reader, err := packages.NewReader(16)
	require.NoError(t, err)
	w, err := walker.New(spec, packages.NewRepository(f.root), reader, feed.NewSet(sources, f.logger), conventions.NewMatcher(), f.logger)
	require.NoError(t, err)
	return w
}

func walk(t *testing.T, w *walker.Walker, spec *domain.ProjectSpec, rid string, rg *domain.RuntimeGraph) *domain.WalkResult {
	t.Helper()

	res, err := w.Walk(t.Context(), ports.WalkRequest{
		Range:        spec.RootRange(),
		Framework:    net45,
		RuntimeID:    rid,
		RuntimeGraph: rg,
		Recursive:    true,
	})
	require.NoError(t, err)
	return res
}

func child(t *testing.T, n *domain.GraphNode, name string) *domain.GraphNode {
	t.Helper()

	for _, c := range n.Children {
		if c.Range.Name == name {
			return c
		}
	}
	require.Failf(t, "missing child", "%s has no child %s", n.Range.Name, name)
	return nil
}

func TestWalk_LowestApplicableVersion(t *testing.T) {
	t.Parallel()

	f := newFixture(t, pkg("A", "1.0.0"), pkg("A", "1.5.0"), pkg("A", "2.0.0"))
	spec := project(packageDep("A", "1.2.0"))
	res := walk(t, f.walker(t, spec), spec, "", nil)

	require.NotNil(t, res.Root.Item)
	assert.Equal(t, domain.LibraryTypeProject, res.Root.Item.Identity.Type)
	assert.Equal(t, net45, res.Root.Item.ProjectFramework)
	assert.Equal(t, "/src/app", res.Root.Item.Path)

	a := child(t, res.Root, "A")
	assert.Equal(t, "1.5.0", a.Item.Identity.Version.String())
	assert.Equal(t, domain.LibraryTypePackage, a.Item.Identity.Type)
	assert.Equal(t, f.feed, a.Item.Source)
	assert.Empty(t, res.Conflicts)
	assert.Empty(t, res.Cycles)
	assert.Empty(t, res.Downgrades)
}

func TestWalk_InstalledPackageNeedsNoSource(t *testing.T) {
	t.Parallel()

	f := newFixture(t, pkg("A", "1.0.0"))
	packagestest.Install(t, f.root, pkg("a", "1.0.0"))
	spec := project(packageDep("A", "1.0.0"))
	res := walk(t, f.walker(t, spec), spec, "", nil)

	a := child(t, res.Root, "A")
	assert.Empty(t, a.Item.Source)
	assert.Equal(t, "a", a.Item.Identity.Name, "the manifest id names the library")

	graph := domain.NewRestoreTargetGraph(domain.FrameworkRuntimePair{Framework: net45}, nil, nil, res)
	assert.Empty(t, graph.Install)
}

func TestWalk_DependenciesOfNearestGroup(t *testing.T) {
	t.Parallel()

	a := packagestest.Package{
		ID:      "A",
		Version: "1.0.0",
		Dependencies: map[string][]dep{
			"net40":          {{ID: "B", Range: "1.0.0"}},
			"netstandard1.3": {{ID: "C", Range: "1.0.0"}},
		},
	}
	f := newFixture(t, a, pkg("B", "1.0.0"), pkg("C", "1.0.0"))
	spec := project(packageDep("A", "1.0.0"))
	res := walk(t, f.walker(t, spec), spec, "", nil)

	aNode := child(t, res.Root, "A")
	require.Len(t, aNode.Children, 1)
	assert.Equal(t, "B", aNode.Children[0].Range.Name)

	graph := domain.NewRestoreTargetGraph(domain.FrameworkRuntimePair{Framework: net45}, nil, nil, res)
	assert.Len(t, graph.Install, 2)
}

func TestWalk_Unresolved(t *testing.T) {
	t.Parallel()

	f := newFixture(t, pkg("A", "1.0.0"))
	spec := project(packageDep("A", "2.0.0"), packageDep("Missing", "1.0.0"))
	res := walk(t, f.walker(t, spec), spec, "", nil)

	assert.True(t, child(t, res.Root, "A").Item.IsUnresolved())
	assert.True(t, child(t, res.Root, "Missing").Item.IsUnresolved())

	graph := domain.NewRestoreTargetGraph(domain.FrameworkRuntimePair{Framework: net45}, nil, nil, res)
	assert.Len(t, graph.Unresolved, 2)
}

func TestWalk_Cycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		pkg("A", "1.0.0", dep{ID: "B", Range: "1.0.0"}),
		pkg("B", "1.0.0", dep{ID: "A", Range: "1.0.0"}),
	)
	spec := project(packageDep("A", "1.0.0"))
	res := walk(t, f.walker(t, spec), spec, "", nil)

	require.Len(t, res.Cycles, 1)
	assert.Equal(t, domain.DispositionCycle, res.Cycles[0].Disposition)
	assert.Equal(t, "App 1.0.0 -> A 1.0.0 -> B 1.0.0 -> A (>= 1.0.0)", res.Cycles[0].Path())
}

func TestWalk_Downgrade(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		pkg("A", "1.0.0"), pkg("A", "2.0.0"),
		pkg("B", "1.0.0", dep{ID: "A", Range: "2.0.0"}),
	)
	spec := project(packageDep("A", "1.0.0"), packageDep("B", "1.0.0"))
	res := walk(t, f.walker(t, spec), spec, "", nil)

	require.Len(t, res.Downgrades, 1)
	d := res.Downgrades[0]
	assert.Equal(t, "App 1.0.0 -> B 1.0.0 -> A (>= 2.0.0)", d.DowngradedFrom.Path())
	assert.Equal(t, "1.0.0", d.DowngradedTo.Item.Identity.Version.String())
	assert.Empty(t, child(t, res.Root, "B").Children, "the hidden request is not walked")
	assert.Empty(t, res.Conflicts)
}

func TestWalk_NearerHigherRequestIsNoDowngrade(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		pkg("A", "1.0.0"), pkg("A", "2.0.0"),
		pkg("B", "1.0.0", dep{ID: "A", Range: "1.0.0"}),
	)
	spec := project(packageDep("A", "2.0.0"), packageDep("B", "1.0.0"))
	res := walk(t, f.walker(t, spec), spec, "", nil)

	assert.Empty(t, res.Downgrades)
	assert.Empty(t, child(t, res.Root, "B").Children)
}

func TestWalk_CousinConflict(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		pkg("A", "1.0.0", dep{ID: "C", Range: "[1.0.0]"}),
		pkg("B", "1.0.0", dep{ID: "C", Range: "2.0.0"}),
		pkg("C", "1.0.0"), pkg("C", "2.0.0"),
	)
	spec := project(packageDep("A", "1.0.0"), packageDep("B", "1.0.0"))
	res := walk(t, f.walker(t, spec), spec, "", nil)

	require.Len(t, res.Conflicts, 1)
	c := res.Conflicts[0]
	assert.Equal(t, "2.0.0", c.Selected.Item.Identity.Version.String())
	assert.Equal(t, "1.0.0", c.Conflicting.Item.Identity.Version.String())
	assert.Equal(t, domain.DispositionRejected, c.Conflicting.Disposition)
}

func TestWalk_CousinsHighestWins(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		pkg("A", "1.0.0", dep{ID: "C", Range: "1.0.0"}),
		pkg("B", "1.0.0", dep{ID: "C", Range: "2.0.0"}),
		pkg("C", "1.0.0"), pkg("C", "2.0.0"),
	)
	spec := project(packageDep("A", "1.0.0"), packageDep("B", "1.0.0"))
	res := walk(t, f.walker(t, spec), spec, "", nil)

	assert.Empty(t, res.Conflicts)
	graph := domain.NewRestoreTargetGraph(domain.FrameworkRuntimePair{Framework: net45}, nil, nil, res)
	c, ok := graph.Lookup("C")
	require.True(t, ok)
	assert.Equal(t, "2.0.0", c.Identity.Version.String())
}

func TestWalk_NonRecursive(t *testing.T) {
	t.Parallel()

	f := newFixture(t, pkg("A", "1.0.0", dep{ID: "B", Range: "1.0.0"}), pkg("A", "2.0.0"), pkg("B", "1.0.0"))
	spec := project()
	w := f.walker(t, spec)

	res, err := w.Walk(t.Context(), ports.WalkRequest{
		Range: domain.LibraryRange{
			Name:           "A",
			VersionRange:   domain.Exactly(domain.MustParseVersion("1.0.0")),
			TypeConstraint: domain.TargetPackage,
		},
		Framework: net45,
	})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", res.Root.Item.Identity.Version.String())
	assert.Len(t, res.Root.Item.Dependencies, 1)
	assert.Empty(t, res.Root.Children)
}

func TestWalk_RuntimeDependencies(t *testing.T) {
	t.Parallel()

	f := newFixture(t, pkg("A", "1.0.0"), pkg("runtime.win7.A", "1.0.0"))
	spec := project(packageDep("A", "1.0.0"))
	rg := domain.NewRuntimeGraph()
	rg.Runtimes["win7-x64"] = domain.RuntimeDescription{RuntimeID: "win7-x64", Imports: []string{"win7"}}
	rg.Runtimes["win7"] = domain.RuntimeDescription{
		RuntimeID: "win7",
		DependencySets: map[string][]domain.LibraryDependency{
			"A": {packageDep("runtime.win7.A", "1.0.0")},
		},
	}

	w := f.walker(t, spec)
	withRID := walk(t, w, spec, "win7-x64", rg)
	a := child(t, withRID.Root, "A")
	require.Len(t, a.Children, 1)
	assert.Equal(t, "runtime.win7.A", a.Children[0].Item.Identity.Name)

	withoutRID := walk(t, w, spec, "", rg)
	assert.Empty(t, child(t, withoutRID.Root, "A").Children)
}

func TestWalk_ProjectReferences(t *testing.T) {
	t.Parallel()

	f := newFixture(t, pkg("X", "1.0.0"))
	lib := &domain.ProjectSpec{
		Name:       "Lib",
		Version:    domain.MustParseVersion("2.0.0"),
		Frameworks: []domain.TargetFrameworkInfo{{Framework: domain.MustParseFramework("net40"), Dependencies: []domain.LibraryDependency{packageDep("X", "1.0.0")}}},
	}
	core := &domain.ProjectSpec{
		Name:       "Core",
		Version:    domain.MustParseVersion("1.0.0"),
		Frameworks: []domain.TargetFrameworkInfo{{Framework: domain.MustParseFramework("netcoreapp1.0")}},
	}
	spec := project(projectDep("Lib"), projectDep("Legacy"), projectDep("Core"))
	spec.ExternalProjects = []domain.ExternalProject{
		{Name: "Lib", Path: filepath.FromSlash("/src/lib"), Spec: lib},
		{Name: "Legacy", Path: filepath.FromSlash("/src/legacy")},
		{Name: "Core", Path: filepath.FromSlash("/src/core"), Spec: core},
	}
	res := walk(t, f.walker(t, spec), spec, "", nil)

	libNode := child(t, res.Root, "Lib")
	assert.Equal(t, domain.LibraryTypeProject, libNode.Item.Identity.Type)
	assert.Equal(t, "2.0.0", libNode.Item.Identity.Version.String())
	assert.Equal(t, domain.MustParseFramework("net40"), libNode.Item.ProjectFramework)
	assert.Equal(t, filepath.FromSlash("/src/lib"), libNode.Item.Path)
	require.Len(t, libNode.Children, 1)
	assert.Equal(t, "X", libNode.Children[0].Item.Identity.Name)

	legacy := child(t, res.Root, "Legacy")
	assert.Equal(t, domain.LibraryTypeExternalProject, legacy.Item.Identity.Type)
	assert.Equal(t, domain.Framework{}, legacy.Item.ProjectFramework)

	coreNode := child(t, res.Root, "Core")
	assert.Equal(t, domain.UnsupportedFramework, coreNode.Item.ProjectFramework)
	assert.Empty(t, coreNode.Children)
}

func TestWalk_MissingFeedWarnsOnce(t *testing.T) {
	t.Parallel()

	f := newFixture(t, pkg("A", "1.0.0"), pkg("B", "1.0.0"))
	f.logger.EXPECT().Warn(gomock.Any()).Times(1)
	spec := project(packageDep("A", "1.0.0"), packageDep("B", "1.0.0"))
	w := f.walker(t, spec, filepath.Join(t.TempDir(), "missing"), f.feed)

	res := walk(t, w, spec, "", nil)
	assert.False(t, child(t, res.Root, "A").Item.IsUnresolved())
	assert.False(t, child(t, res.Root, "B").Item.IsUnresolved())
}

func TestNew_NilCollaborators(t *testing.T) {
	t.Parallel()

	_, err := walker.New(nil, nil, nil, nil, nil, nil)
	require.ErrorContains(t, err, domain.ErrNilCollaborator.Error())
}
