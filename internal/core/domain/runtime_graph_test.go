package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/restore/internal/core/domain"
)

func TestRuntimeGraph_ExpandRuntime(t *testing.T) {
	t.Parallel()

	g := domain.NewRuntimeGraph()
	g.Runtimes["win7-x64"] = domain.RuntimeDescription{RuntimeID: "win7-x64", Imports: []string{"win7", "win-x64"}}
	g.Runtimes["win7"] = domain.RuntimeDescription{RuntimeID: "win7", Imports: []string{"win"}}
	g.Runtimes["win-x64"] = domain.RuntimeDescription{RuntimeID: "win-x64", Imports: []string{"win"}}
	g.Runtimes["win"] = domain.RuntimeDescription{RuntimeID: "win", Imports: []string{"any"}}

	assert.Equal(t, []string{"win7-x64", "win7", "win-x64", "win", "any"}, g.ExpandRuntime("win7-x64"))
	assert.Equal(t, []string{"linux-x64"}, g.ExpandRuntime("linux-x64"))
	assert.Nil(t, g.ExpandRuntime(""))
}

func TestRuntimeGraph_Merge(t *testing.T) {
	t.Parallel()

	dep := domain.NewPackageDependency("runtime.win.A", domain.MustParseVersionRange("1.0.0"))
	other := domain.NewPackageDependency("runtime.other.A", domain.MustParseVersionRange("1.0.0"))

	left := domain.NewRuntimeGraph()
	left.Runtimes["win"] = domain.RuntimeDescription{
		RuntimeID:      "win",
		DependencySets: map[string][]domain.LibraryDependency{"A": {dep}},
	}
	left.Supports["net46.app"] = domain.CompatibilityProfile{Name: "net46.app"}

	right := domain.NewRuntimeGraph()
	right.Runtimes["win"] = domain.RuntimeDescription{
		RuntimeID:      "win",
		Imports:        []string{"any"},
		DependencySets: map[string][]domain.LibraryDependency{"A": {other}, "B": {other}},
	}
	right.Runtimes["win7"] = domain.RuntimeDescription{RuntimeID: "win7", Imports: []string{"win"}}

	merged := left.Merge(right)
	assert.Len(t, merged.Runtimes, 2)
	assert.Equal(t, []string{"any"}, merged.Runtimes["win"].Imports)
	assert.Equal(t, []domain.LibraryDependency{dep}, merged.FindRuntimeDependencies("win7", "a"))
	assert.Equal(t, []domain.LibraryDependency{other}, merged.FindRuntimeDependencies("win", "B"))
	assert.Equal(t, []string{"net46.app"}, merged.ProfileNames())

	// Merging must not alias the inputs.
	assert.Len(t, left.Runtimes["win"].DependencySets, 1)
}
