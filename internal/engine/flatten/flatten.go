// Package flatten computes the effective include flags of every library in a restore target graph.
package flatten

import (
	"go.trai.ch/restore/internal/core/domain"
)

// Result maps case-folded library names to their effective include flags.
type Result map[string]domain.IncludeFlags

// Lookup returns the flags of the named library.
func (r Result) Lookup(name string) (domain.IncludeFlags, bool) {
	flags, ok := r[domain.NameKey(name)]
	return flags, ok
}

// FlagsOrDefault returns the flags of the named library, or def when the library is not in the result.
func (r Result) FlagsOrDefault(name string, def domain.IncludeFlags) domain.IncludeFlags {
	if flags, ok := r.Lookup(name); ok {
		return flags
	}
	return def
}

// typePriority orders library types for unification. Lower wins.
func typePriority(t domain.LibraryType) int {
	switch t {
	case domain.LibraryTypeProject:
		return 0
	case domain.LibraryTypeExternalProject:
		return 1
	case domain.LibraryTypePackage:
		return 2
	}
	return 3
}

// arena holds one unified node per library name, addressed by index.
type arena struct {
	items []*domain.GraphItem
	index map[string]int
}

func newArena(flattened []*domain.GraphItem) *arena {
	a := &arena{index: make(map[string]int, len(flattened))}
	for _, item := range flattened {
		key := domain.NameKey(item.Identity.Name)
		idx, ok := a.index[key]
		if !ok {
			a.index[key] = len(a.items)
			a.items = append(a.items, item)
			continue
		}
		if typePriority(item.Identity.Type) < typePriority(a.items[idx].Identity.Type) {
			a.items[idx] = item
		}
	}
	return a
}

func (a *arena) lookup(name string) (int, bool) {
	idx, ok := a.index[domain.NameKey(name)]
	return idx, ok
}

// frame is one entry of the traversal stack.
type frame struct {
	node  int
	flags domain.IncludeFlags
	// next is the index of the next dependency of node to visit.
	next int
}

// Flatten computes the effective include flags of every library reachable from the graph's roots.
// A library's flags are the union, over every path from the root, of the declared include types
// along the path minus the suppressParent sets of every edge after the first. Libraries declared
// in direct take their declared include type verbatim.
func Flatten(graph *domain.RestoreTargetGraph, direct []domain.LibraryDependency) Result {
	result := make(Result)
	if graph == nil {
		return result
	}

	nodes := newArena(graph.Flattened)
	onPath := make([]int, len(nodes.items))

	for _, root := range graph.Roots {
		if root == nil || root.Item == nil {
			continue
		}
		rootIdx, ok := nodes.lookup(root.Item.Identity.Name)
		if !ok {
			continue
		}

		stack := []frame{{node: rootIdx, flags: domain.IncludeAll}}
		onPath[rootIdx]++

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := nodes.items[top.node].Dependencies

			if top.next >= len(deps) {
				// Post-order: every dependency of this node has been visited.
				finished := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onPath[finished.node]--
				if len(stack) > 0 {
					merge(result, nodes.items[finished.node].Identity.Name, finished.flags)
				}
				continue
			}

			dep := deps[top.next]
			top.next++

			if !flowsThrough(dep) {
				continue
			}
			child, ok := nodes.lookup(dep.Name())
			if !ok {
				continue
			}

			flags := top.flags.Intersect(dep.IncludeType)
			if len(stack) > 1 {
				flags = flags.Except(dep.SuppressParent)
			}

			if onPath[child] > 0 {
				// Cycle: the edge contributes but the traversal does not continue through it.
				merge(result, nodes.items[child].Identity.Name, flags)
				continue
			}

			onPath[child]++
			stack = append(stack, frame{node: child, flags: flags})
		}
	}

	for _, dep := range direct {
		result[domain.NameKey(dep.Name())] = dep.IncludeType
	}
	return result
}

// flowsThrough reports whether an edge takes part in flattening. Reference edges are resolved
// through framework references instead.
func flowsThrough(dep domain.LibraryDependency) bool {
	constraint := dep.Range.TypeConstraint
	if constraint != domain.TargetNone && !constraint.Allows(domain.TargetPackageProjectExternal) {
		return false
	}
	return dep.FlowsAssets()
}

func merge(result Result, name string, flags domain.IncludeFlags) {
	key := domain.NameKey(name)
	result[key] = result[key].Union(flags)
}
