package bvh

import "github.com/akmonengine/bvh/actor"

// NodeBox is the drawable part of a hierarchy node.
type NodeBox struct {
	Box    actor.AABB
	Depth  int
	IsLeaf bool
}

// ObjectBoxes returns the box of every object, in hierarchy order.
func (h *Hierarchy) ObjectBoxes() []actor.AABB {
	boxes := make([]actor.AABB, len(h.objects))
	for i, o := range h.objects {
		boxes[i] = o.Box
	}
	return boxes
}

// NodeBoxes returns the box of every node in arena order. Empty leaves are
// included with their zero box.
func (h *Hierarchy) NodeBoxes() []NodeBox {
	boxes := make([]NodeBox, len(h.Nodes))
	depths := make([]int, len(h.Nodes))
	for i, n := range h.Nodes {
		// parents come before their children in the arena
		if n.Parent != NoNode {
			depths[i] = depths[n.Parent] + 1
		}
		boxes[i] = NodeBox{Box: n.Box, Depth: depths[i], IsLeaf: n.IsLeaf}
	}
	return boxes
}
