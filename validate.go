package bvh

import (
	"github.com/akmonengine/bvh/actor"
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Validate checks the structural invariants of a built hierarchy:
//   - every node box contains its children, or its objects for a leaf, and is
//     their union
//   - leaves hold at most LeafCapacity objects and no children
//   - internal nodes hold two children whose parent is the node, and no objects
//   - every object is referenced by exactly one leaf
func (h *Hierarchy) Validate() error {
	if len(h.Nodes) == 0 {
		return errors.New("hierarchy has no nodes").WithType(ErrTypeInvariant)
	}
	if h.Nodes[h.Root].Parent != NoNode {
		return errors.New("root has a parent").WithType(ErrTypeInvariant).WithTag("root", h.Root)
	}

	refCount := make([]int, len(h.objects))
	for i, n := range h.Nodes {
		if n.IsLeaf {
			if n.ChildA != NoNode || n.ChildB != NoNode {
				return errors.New("leaf has children").WithType(ErrTypeInvariant).WithTag("node", i)
			}
			if len(n.Objects) > h.LeafCapacity {
				return errors.New("leaf exceeds capacity").WithType(ErrTypeInvariant).
					WithTag("node", i).
					WithTag("objects", len(n.Objects)).
					WithTag("leaf_capacity", h.LeafCapacity)
			}
			for _, ref := range n.Objects {
				if ref < 0 || ref >= len(h.objects) {
					return errors.New("leaf references an unknown object").WithType(ErrTypeInvariant).
						WithTag("node", i).
						WithTag("ref", ref)
				}
				refCount[ref]++
				if !n.Box.Contains(h.objects[ref].Box) {
					return containmentError(i, n.Box, h.objects[ref].Box)
				}
			}
			if box := h.leafBounds(n.Objects); box != n.Box {
				return boundsError(i, n.Box, box)
			}
			continue
		}

		if len(n.Objects) != 0 {
			return errors.New("internal node holds objects").WithType(ErrTypeInvariant).WithTag("node", i)
		}
		if !h.validChild(n.ChildA) || !h.validChild(n.ChildB) || n.ChildA == n.ChildB {
			return errors.New("internal node must have two children").WithType(ErrTypeInvariant).
				WithTag("node", i).
				WithTag("child_a", n.ChildA).
				WithTag("child_b", n.ChildB)
		}
		if h.Nodes[n.ChildA].Parent != i || h.Nodes[n.ChildB].Parent != i {
			return errors.New("child parent link is broken").WithType(ErrTypeInvariant).WithTag("node", i)
		}
		for _, child := range [...]int{n.ChildA, n.ChildB} {
			if !n.Box.Contains(h.Nodes[child].Box) {
				return containmentError(i, n.Box, h.Nodes[child].Box)
			}
		}
		if box := h.Nodes[n.ChildA].Box.Union(h.Nodes[n.ChildB].Box); box != n.Box {
			return boundsError(i, n.Box, box)
		}
	}

	for ref, count := range refCount {
		if count != 1 {
			return errors.New("object must be in exactly one leaf").WithType(ErrTypeInvariant).
				WithTag("object_id", h.objects[ref].ID).
				WithTag("leaves", count)
		}
	}
	return nil
}

func (h *Hierarchy) validChild(idx int) bool {
	return idx > 0 && idx < len(h.Nodes)
}

func boundsError(node int, got, want actor.AABB) error {
	return errors.New("node box is not the union of its content").WithType(ErrTypeInvariant).
		WithTag("node", node).
		WithTag("box", got).
		WithTag("expected", want)
}

func containmentError(node int, box, content actor.AABB) error {
	return errors.New("node box does not contain its content").WithType(ErrTypeInvariant).
		WithTag("node", node).
		WithTag("box", box).
		WithTag("content", content)
}
