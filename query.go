package bvh

import "github.com/akmonengine/bvh/actor"

// Query returns the objects whose box intersects search. Subtrees whose box
// does not intersect search are skipped. The order of the result is
// unspecified.
func (h *Hierarchy) Query(search actor.AABB) []actor.Object {
	var found []actor.Object
	h.QueryFunc(search, func(o actor.Object) {
		found = append(found, o)
	})
	return found
}

// QueryFunc calls fn for each object whose box intersects search.
func (h *Hierarchy) QueryFunc(search actor.AABB, fn func(actor.Object)) {
	h.traverse(search, func(node int) {
		for _, ref := range h.Nodes[node].Objects {
			o := h.objects[ref]
			if h.Policy.Intersects(search, o.Box) {
				fn(o)
			}
		}
	})
}

// QueryLeaves returns the leaves reached by a query, before their objects are
// tested.
func (h *Hierarchy) QueryLeaves(search actor.AABB) []int {
	var leaves []int
	h.traverse(search, func(node int) {
		leaves = append(leaves, node)
	})
	return leaves
}

func (h *Hierarchy) traverse(search actor.AABB, visitLeaf func(node int)) {
	if len(h.Nodes) == 0 {
		return
	}

	var recurse func(int)
	recurse = func(idx int) {
		n := &h.Nodes[idx]
		if n.IsLeaf && len(n.Objects) == 0 {
			return
		}
		if !h.Policy.Intersects(search, n.Box) {
			return
		}
		if n.IsLeaf {
			visitLeaf(idx)
			return
		}
		recurse(n.ChildA)
		recurse(n.ChildB)
	}
	recurse(h.Root)
}
