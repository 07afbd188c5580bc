package walker

import (
	"slices"

	"go.trai.ch/restore/internal/core/domain"
)

// resolveConflicts settles libraries that were resolved to several versions in different branches.
// The highest version wins and the nodes of other versions are rejected together with their
// subtrees, one library at a time, until every library has one version. A rejected request the
// winning version does not satisfy is a conflict.
func resolveConflicts(root *domain.GraphNode) []domain.VersionConflict {
	for {
		groups := acceptedByName(root)
		name, ok := firstContested(groups)
		if !ok {
			break
		}
		winner := highest(groups[name])
		for _, n := range groups[name] {
			if !n.Item.Identity.Version.Equal(winner.Item.Identity.Version) {
				n.Disposition = domain.DispositionRejected
			}
		}
	}

	groups := acceptedByName(root)
	var conflicts []domain.VersionConflict
	visit(root, func(n *domain.GraphNode) {
		if n.Disposition != domain.DispositionRejected || n.Item == nil || n.Item.IsUnresolved() {
			return
		}
		nodes := groups[domain.NameKey(n.Item.Identity.Name)]
		if len(nodes) == 0 {
			return
		}
		winner := nodes[0]
		if !n.Range.VersionRange.Satisfies(winner.Item.Identity.Version) {
			conflicts = append(conflicts, domain.VersionConflict{Selected: winner, Conflicting: n})
		}
	})
	return conflicts
}

// acceptedByName groups the resolved nodes reachable through accepted nodes by library name,
// in breadth first order.
func acceptedByName(root *domain.GraphNode) map[string][]*domain.GraphNode {
	groups := make(map[string][]*domain.GraphNode)
	visit(root, func(n *domain.GraphNode) {
		if n.Disposition != domain.DispositionAccepted || n.Item == nil || n.Item.IsUnresolved() {
			return
		}
		key := domain.NameKey(n.Item.Identity.Name)
		groups[key] = append(groups[key], n)
	})
	return groups
}

// visit calls fn for root and, breadth first, for every child of an accepted node.
func visit(root *domain.GraphNode, fn func(n *domain.GraphNode)) {
	fn(root)
	queue := []*domain.GraphNode{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Disposition != domain.DispositionAccepted {
			continue
		}
		for _, child := range cur.Children {
			fn(child)
			queue = append(queue, child)
		}
	}
}

// firstContested returns the first library name, in name order, resolved to more than one version.
func firstContested(groups map[string][]*domain.GraphNode) (string, bool) {
	names := make([]string, 0, len(groups))
	for name, nodes := range groups {
		first := nodes[0].Item.Identity.Version
		if slices.ContainsFunc(nodes[1:], func(n *domain.GraphNode) bool { return !n.Item.Identity.Version.Equal(first) }) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", false
	}
	slices.Sort(names)
	return names[0], true
}

// highest returns the nearest node of the highest version.
func highest(nodes []*domain.GraphNode) *domain.GraphNode {
	best := nodes[0]
	for _, n := range nodes[1:] {
		if best.Item.Identity.Version.Less(n.Item.Identity.Version) {
			best = n
		}
	}
	return best
}
