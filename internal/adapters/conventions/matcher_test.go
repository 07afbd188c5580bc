package conventions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/restore/internal/adapters/conventions"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
)

func paths(items []domain.LockFileItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Path)
	}
	return out
}

func TestNearest(t *testing.T) {
	t.Parallel()

	fw := domain.MustParseFramework
	tests := []struct {
		name       string
		target     string
		candidates []string
		want       int
		found      bool
	}{
		{"same family highest version", "net461", []string{"net40", "net45", "net462"}, 1, true},
		{"same family beats netstandard", "net461", []string{"netstandard2.0", "net45"}, 1, true},
		{"netstandard by mapping", "net45", []string{"netstandard1.3", "netstandard1.1"}, 1, true},
		{"netcoreapp consumes netstandard", "netcoreapp1.0", []string{"net45", "netstandard1.6"}, 1, true},
		{"net5 is netcoreapp", "net8.0", []string{"netcoreapp3.1", "netstandard2.1"}, 0, true},
		{"any is last resort", "netstandard1.3", []string{"any", "netstandard1.0"}, 1, true},
		{"any matches alone", "dnxcore50", []string{"any"}, 0, true},
		{"portable profile", "net45", []string{"portable-net45+win8"}, 0, true},
		{"incompatible", "netstandard1.3", []string{"net45", "netstandard2.0"}, 0, false},
		{"unsupported folder", "net45", []string{"unsupported"}, 0, false},
		{"client profile usable by full framework", "net45", []string{"net40-client"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			candidates := make([]domain.Framework, 0, len(tt.candidates))
			for _, c := range tt.candidates {
				candidates = append(candidates, fw(c))
			}
			got, ok := conventions.Nearest(fw(tt.target), candidates)
			require.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMatcher_FindBestGroup(t *testing.T) {
	t.Parallel()

	files := []string{
		"lib/net45/A.dll",
		"lib/net45/A.xml",
		"lib/net45/fr/A.resources.dll",
		"lib/netstandard1.3/A.dll",
		"ref/netstandard1.3/A.dll",
		"runtimes/win/lib/netstandard1.3/A.dll",
		"runtimes/win7-x64/native/a.so",
		"build/net45/A.props",
		"build/A.targets",
		"lib/contract/A.dll",
	}
	m := conventions.NewMatcher()

	t.Run("ref wins over lib", func(t *testing.T) {
		t.Parallel()
		g, ok := m.FindBestGroup(files, ports.SelectionCriteria{Framework: domain.MustParseFramework("netstandard1.5")},
			ports.AssetCompileRef, ports.AssetCompileLib)
		require.True(t, ok)
		assert.Equal(t, []string{"ref/netstandard1.3/A.dll"}, paths(g.Items))
	})

	t.Run("desktop target picks lib", func(t *testing.T) {
		t.Parallel()
		g, ok := m.FindBestGroup(files, ports.SelectionCriteria{Framework: domain.MustParseFramework("net45")},
			ports.AssetCompileRef, ports.AssetCompileLib)
		require.True(t, ok)
		assert.Equal(t, []string{"lib/net45/A.dll"}, paths(g.Items))
	})

	t.Run("runtime specific group first", func(t *testing.T) {
		t.Parallel()
		criteria := ports.SelectionCriteria{
			Framework:  domain.MustParseFramework("netstandard1.3"),
			RuntimeIDs: []string{"win7-x64", "win7", "win"},
		}
		g, ok := m.FindBestGroup(files, criteria, ports.AssetRuntime)
		require.True(t, ok)
		assert.Equal(t, "win", g.RuntimeID)
		assert.Equal(t, []string{"runtimes/win/lib/netstandard1.3/A.dll"}, paths(g.Items))

		native, ok := m.FindBestGroup(files, criteria, ports.AssetNative)
		require.True(t, ok)
		assert.Equal(t, []string{"runtimes/win7-x64/native/a.so"}, paths(native.Items))
	})

	t.Run("runtime agnostic target ignores runtimes folder", func(t *testing.T) {
		t.Parallel()
		_, ok := m.FindBestGroup(files, ports.SelectionCriteria{Framework: domain.MustParseFramework("netstandard1.3")}, ports.AssetNative)
		assert.False(t, ok)
	})

	t.Run("resources carry locale", func(t *testing.T) {
		t.Parallel()
		g, ok := m.FindBestGroup(files, ports.SelectionCriteria{Framework: domain.MustParseFramework("net45")}, ports.AssetResource)
		require.True(t, ok)
		require.Len(t, g.Items, 1)
		assert.Equal(t, "fr", g.Items[0].Property(domain.PropertyLocale))
	})

	t.Run("build folder specific framework beats root", func(t *testing.T) {
		t.Parallel()
		g, ok := m.FindBestGroup(files, ports.SelectionCriteria{Framework: domain.MustParseFramework("net45")}, ports.AssetBuild)
		require.True(t, ok)
		assert.Equal(t, []string{"build/net45/A.props"}, paths(g.Items))

		g, ok = m.FindBestGroup(files, ports.SelectionCriteria{Framework: domain.MustParseFramework("netstandard1.3")}, ports.AssetBuild)
		require.True(t, ok)
		assert.Equal(t, []string{"build/A.targets"}, paths(g.Items))
	})
}

func TestMatcher_FindContentGroups(t *testing.T) {
	t.Parallel()

	files := []string{
		"contentFiles/cs/net45/a.cs",
		"contentFiles/cs/any/b.cs",
		"contentFiles/vb/any/a.vb",
		"contentFiles/any/netstandard2.0/c.txt",
	}
	groups := conventions.NewMatcher().FindContentGroups(files, domain.MustParseFramework("net46"))

	require.Len(t, groups, 2)
	assert.Equal(t, "cs", groups[0].Language)
	assert.Equal(t, []string{"contentFiles/cs/net45/a.cs"}, paths(groups[0].Items))
	assert.Equal(t, "vb", groups[1].Language)
}
