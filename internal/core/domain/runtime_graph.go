package domain

import (
	"maps"
	"slices"
	"strings"
)

// RuntimeDescription describes one runtime identifier: the identifiers it inherits from
// and the runtime-specific packages it adds to other packages' dependencies.
type RuntimeDescription struct {
	RuntimeID string
	Imports   []string
	// DependencySets maps a package id to the extra dependencies it has on this runtime.
	DependencySets map[string][]LibraryDependency
}

// CompatibilityProfile is a named set of framework and runtime pairs a project promises to support.
type CompatibilityProfile struct {
	Name            string
	RestoreContexts []FrameworkRuntimePair
}

// RuntimeGraph is the merged content of runtime description files.
type RuntimeGraph struct {
	Runtimes map[string]RuntimeDescription
	Supports map[string]CompatibilityProfile
}

// NewRuntimeGraph returns an empty runtime graph.
func NewRuntimeGraph() *RuntimeGraph {
	return &RuntimeGraph{
		Runtimes: make(map[string]RuntimeDescription),
		Supports: make(map[string]CompatibilityProfile),
	}
}

// Merge returns a new graph holding the content of g and other.
// Entries already in g win. Runtime descriptions present in both are combined:
// the first non-empty import list is kept and dependency sets are unioned by package id.
func (g *RuntimeGraph) Merge(other *RuntimeGraph) *RuntimeGraph {
	merged := NewRuntimeGraph()
	for _, src := range []*RuntimeGraph{g, other} {
		if src == nil {
			continue
		}
		for rid, desc := range src.Runtimes {
			existing, ok := merged.Runtimes[rid]
			if !ok {
				merged.Runtimes[rid] = cloneDescription(desc)
				continue
			}
			if len(existing.Imports) == 0 {
				existing.Imports = slices.Clone(desc.Imports)
			}
			for id, deps := range desc.DependencySets {
				if _, has := existing.DependencySets[id]; !has {
					existing.DependencySets[id] = slices.Clone(deps)
				}
			}
			merged.Runtimes[rid] = existing
		}
		for name, profile := range src.Supports {
			if _, ok := merged.Supports[name]; !ok {
				merged.Supports[name] = profile
			}
		}
	}
	return merged
}

func cloneDescription(d RuntimeDescription) RuntimeDescription {
	out := RuntimeDescription{
		RuntimeID:      d.RuntimeID,
		Imports:        slices.Clone(d.Imports),
		DependencySets: make(map[string][]LibraryDependency, len(d.DependencySets)),
	}
	for id, deps := range d.DependencySets {
		out.DependencySets[id] = slices.Clone(deps)
	}
	return out
}

// ExpandRuntime returns rid followed by every identifier it imports, nearest first, without duplicates.
func (g *RuntimeGraph) ExpandRuntime(rid string) []string {
	if rid == "" {
		return nil
	}
	expanded := []string{rid}
	seen := map[string]bool{rid: true}
	for i := 0; i < len(expanded); i++ {
		if g == nil {
			break
		}
		desc, ok := g.Runtimes[expanded[i]]
		if !ok {
			continue
		}
		for _, imp := range desc.Imports {
			if !seen[imp] {
				seen[imp] = true
				expanded = append(expanded, imp)
			}
		}
	}
	return expanded
}

// FindRuntimeDependencies returns the runtime-specific dependencies of packageID for rid,
// taken from the nearest runtime in the import chain that declares any.
func (g *RuntimeGraph) FindRuntimeDependencies(rid, packageID string) []LibraryDependency {
	if g == nil {
		return nil
	}
	for _, r := range g.ExpandRuntime(rid) {
		desc, ok := g.Runtimes[r]
		if !ok {
			continue
		}
		for id, deps := range desc.DependencySets {
			if strings.EqualFold(id, packageID) {
				return deps
			}
		}
	}
	return nil
}

// ProfileNames returns the names of all compatibility profiles in sorted order.
func (g *RuntimeGraph) ProfileNames() []string {
	if g == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(g.Supports))
}
