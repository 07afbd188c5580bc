package domain

import (
	"slices"
	"strings"
)

// Disposition records how the walker judged a node.
type Disposition int

// Node dispositions.
const (
	DispositionAccepted Disposition = iota
	DispositionRejected
	DispositionCycle
)

// GraphItem is a resolved library together with the dependencies it declares.
type GraphItem struct {
	Identity     LibraryIdentity
	Dependencies []LibraryDependency
	// Source is the feed the package was found in when it is not installed yet.
	Source string
	// Path is the directory of a project library.
	Path string
	// ProjectFramework is the framework a project library was resolved for.
	ProjectFramework Framework
}

// IsUnresolved reports whether the item is a placeholder for a range no source could satisfy.
func (i *GraphItem) IsUnresolved() bool {
	return i.Identity.Type == LibraryTypeUnresolved
}

// GraphNode is one occurrence of a library in a walked dependency tree.
// Several nodes may share the same GraphItem.
type GraphNode struct {
	Range       LibraryRange
	Item        *GraphItem
	Children    []*GraphNode
	Parent      *GraphNode
	Disposition Disposition
}

// AddChild appends child under n and links it back to n.
func (n *GraphNode) AddChild(child *GraphNode) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Path renders the chain of libraries from the root to n, e.g. "App 1.0.0 -> A 2.0.0 -> B (>= 1.0.0)".
func (n *GraphNode) Path() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.Parent {
		parts = append(parts, cur.label())
	}
	slices.Reverse(parts)
	return strings.Join(parts, " -> ")
}

func (n *GraphNode) label() string {
	if n.Item != nil && !n.Item.IsUnresolved() {
		return n.Item.Identity.Name + " " + n.Item.Identity.Version.String()
	}
	bounds := n.Range.VersionRange.ComparisonString()
	if bounds == "" {
		return n.Range.Name
	}
	return n.Range.Name + " (" + bounds + ")"
}

// VersionConflict pairs the node that won with a request it cannot satisfy.
type VersionConflict struct {
	Selected    *GraphNode
	Conflicting *GraphNode
}

// Downgrade pairs a dependency request with the nearer, lower request that won over it.
type Downgrade struct {
	DowngradedFrom *GraphNode
	DowngradedTo   *GraphNode
}

// WalkResult is what a dependency walk produces: the tree plus the walker's analysis of it.
type WalkResult struct {
	Root       *GraphNode
	Conflicts  []VersionConflict
	Cycles     []*GraphNode
	Downgrades []Downgrade
}

// InstallCandidate is a package that was resolved from a source and must be installed.
type InstallCandidate struct {
	Identity LibraryIdentity
	Source   string
}

// RestoreTargetGraph is the walked graph for one framework and runtime identifier.
type RestoreTargetGraph struct {
	Framework Framework
	// Fallback lists frameworks tried, in order, when the primary framework matches nothing.
	Fallback     []Framework
	RuntimeID    string
	RuntimeGraph *RuntimeGraph
	Roots        []*GraphNode
	// Flattened holds every accepted library once, ordered by identity.
	Flattened  []*GraphItem
	Install    []InstallCandidate
	Unresolved []LibraryRange
	Conflicts  []VersionConflict
	Cycles     []*GraphNode
	Downgrades []Downgrade
}

// NewRestoreTargetGraph collects the libraries and diagnostics of the given walks.
func NewRestoreTargetGraph(pair FrameworkRuntimePair, fallback []Framework, runtimeGraph *RuntimeGraph, walks ...*WalkResult) *RestoreTargetGraph {
	g := &RestoreTargetGraph{
		Framework:    pair.Framework,
		Fallback:     fallback,
		RuntimeID:    pair.RuntimeID,
		RuntimeGraph: runtimeGraph,
	}

	items := make(map[string]*GraphItem)
	unresolved := make(map[string]LibraryRange)
	installs := make(map[string]InstallCandidate)

	for _, w := range walks {
		if w == nil || w.Root == nil {
			continue
		}
		g.Roots = append(g.Roots, w.Root)
		g.Conflicts = append(g.Conflicts, w.Conflicts...)
		g.Cycles = append(g.Cycles, w.Cycles...)
		g.Downgrades = append(g.Downgrades, w.Downgrades...)

		stack := []*GraphNode{w.Root}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if node.Disposition != DispositionAccepted {
				continue
			}

			if node.Item == nil || node.Item.IsUnresolved() {
				unresolved[NameKey(node.Range.Name)+" "+node.Range.VersionRange.String()] = node.Range
				continue
			}

			key := string(node.Item.Identity.Type) + ":" + node.Item.Identity.Key()
			if _, seen := items[key]; !seen {
				items[key] = node.Item
				if node.Item.Source != "" {
					installs[key] = InstallCandidate{Identity: node.Item.Identity, Source: node.Item.Source}
				}
			}
			stack = append(stack, node.Children...)
		}
	}

	for _, item := range items {
		g.Flattened = append(g.Flattened, item)
	}
	slices.SortFunc(g.Flattened, func(a, b *GraphItem) int {
		if c := CompareIdentities(a.Identity, b.Identity); c != 0 {
			return c
		}
		return strings.Compare(string(a.Identity.Type), string(b.Identity.Type))
	})

	for _, r := range unresolved {
		g.Unresolved = append(g.Unresolved, r)
	}
	slices.SortFunc(g.Unresolved, func(a, b LibraryRange) int {
		return strings.Compare(a.String(), b.String())
	})

	for _, c := range installs {
		g.Install = append(g.Install, c)
	}
	slices.SortFunc(g.Install, func(a, b InstallCandidate) int {
		return CompareIdentities(a.Identity, b.Identity)
	})

	return g
}

// Pair returns the framework and runtime identifier of the graph.
func (g *RestoreTargetGraph) Pair() FrameworkRuntimePair {
	return FrameworkRuntimePair{Framework: g.Framework, RuntimeID: g.RuntimeID}
}

// Name returns the lock file target name of the graph.
func (g *RestoreTargetGraph) Name() string {
	return g.Pair().Name()
}

// InConflict reports whether the graph has hard resolution failures.
func (g *RestoreTargetGraph) InConflict() bool {
	return len(g.Conflicts) > 0 || len(g.Cycles) > 0
}

// Lookup returns the flattened item with the given name, if any.
func (g *RestoreTargetGraph) Lookup(name string) (*GraphItem, bool) {
	for _, item := range g.Flattened {
		if strings.EqualFold(item.Identity.Name, name) {
			return item, true
		}
	}
	return nil, false
}
