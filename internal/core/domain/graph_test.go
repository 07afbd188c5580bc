package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/restore/internal/core/domain"
)

func pkgItem(name, version string, deps ...domain.LibraryDependency) *domain.GraphItem {
	return &domain.GraphItem{
		Identity:     domain.LibraryIdentity{Name: name, Version: domain.MustParseVersion(version), Type: domain.LibraryTypePackage},
		Dependencies: deps,
	}
}

func node(item *domain.GraphItem, children ...*domain.GraphNode) *domain.GraphNode {
	n := &domain.GraphNode{
		Range: domain.LibraryRange{Name: item.Identity.Name, VersionRange: domain.AtLeast(item.Identity.Version)},
		Item:  item,
	}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

func TestNewRestoreTargetGraph(t *testing.T) {
	t.Parallel()

	shared := pkgItem("Shared", "1.0.0")
	shared.Source = "/feed"
	root := &domain.GraphItem{
		Identity: domain.LibraryIdentity{Name: "App", Version: domain.MustParseVersion("1.0.0"), Type: domain.LibraryTypeProject},
	}
	missing := &domain.GraphNode{
		Range: domain.LibraryRange{Name: "Missing", VersionRange: domain.AtLeast(domain.MustParseVersion("2.0.0"))},
		Item:  &domain.GraphItem{Identity: domain.LibraryIdentity{Name: "Missing", Type: domain.LibraryTypeUnresolved}},
	}
	rejected := node(pkgItem("Shared", "0.5.0"))
	rejected.Disposition = domain.DispositionRejected

	walk := &domain.WalkResult{
		Root: node(root,
			node(pkgItem("B", "2.0.0"), node(shared)),
			node(pkgItem("A", "1.0.0"), node(shared), rejected),
			missing,
		),
	}

	pair := domain.FrameworkRuntimePair{Framework: domain.MustParseFramework("net45"), RuntimeID: "win7-x64"}
	g := domain.NewRestoreTargetGraph(pair, nil, nil, walk)

	names := make([]string, 0, len(g.Flattened))
	for _, item := range g.Flattened {
		names = append(names, item.Identity.String())
	}
	assert.Equal(t, []string{"A/1.0.0", "App/1.0.0", "B/2.0.0", "Shared/1.0.0"}, names)

	require.Len(t, g.Unresolved, 1)
	assert.Equal(t, "Missing", g.Unresolved[0].Name)

	require.Len(t, g.Install, 1)
	assert.Equal(t, "Shared/1.0.0", g.Install[0].Identity.String())
	assert.Equal(t, "/feed", g.Install[0].Source)

	assert.Equal(t, "net45/win7-x64", g.Name())
	assert.False(t, g.InConflict())

	item, ok := g.Lookup("shared")
	require.True(t, ok)
	assert.Same(t, shared, item)
}

func TestNewRestoreTargetGraph_ProjectAndPackageWithSameName(t *testing.T) {
	t.Parallel()

	project := &domain.GraphItem{
		Identity: domain.LibraryIdentity{Name: "Lib", Version: domain.MustParseVersion("1.0.0"), Type: domain.LibraryTypeProject},
	}
	pkg := pkgItem("Lib", "1.0.0")
	root := &domain.GraphItem{
		Identity: domain.LibraryIdentity{Name: "App", Version: domain.MustParseVersion("1.0.0"), Type: domain.LibraryTypeProject},
	}

	g := domain.NewRestoreTargetGraph(
		domain.FrameworkRuntimePair{Framework: domain.MustParseFramework("net45")}, nil, nil,
		&domain.WalkResult{Root: node(root, node(project), node(pkg))},
	)
	require.Len(t, g.Flattened, 3)

	// The package sorts before the project with the same name and version, whatever the walk order.
	for range 20 {
		g := domain.NewRestoreTargetGraph(
			domain.FrameworkRuntimePair{Framework: domain.MustParseFramework("net45")}, nil, nil,
			&domain.WalkResult{Root: node(root, node(project), node(pkg))},
		)
		assert.Equal(t, domain.LibraryTypePackage, g.Flattened[1].Identity.Type)
		assert.Equal(t, domain.LibraryTypeProject, g.Flattened[2].Identity.Type)

		item, ok := g.Lookup("Lib")
		require.True(t, ok)
		assert.Same(t, pkg, item)
	}
}

func TestGraphNode_Path(t *testing.T) {
	t.Parallel()

	leaf := &domain.GraphNode{
		Range: domain.LibraryRange{Name: "C", VersionRange: domain.MustParseVersionRange("[1.0, 2.0)")},
	}
	mid := node(pkgItem("B", "2.0.0"), leaf)
	node(pkgItem("A", "1.0.0"), mid)

	assert.Equal(t, "A 1.0.0 -> B 2.0.0 -> C (>= 1.0.0 < 2.0.0)", leaf.Path())
}
