package bvh

import (
	"github.com/akmonengine/bvh/actor"
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// DEFAULT_LEAF_CAPACITY is the maximum number of objects held by a leaf when no
// capacity is configured.
const DEFAULT_LEAF_CAPACITY = 2

// NoNode marks an absent child or parent.
const NoNode = -1

// Node is an element of the hierarchy arena. A leaf holds object references
// and no children; an internal node holds exactly two children and no
// objects.
type Node struct {
	Box    actor.AABB
	IsLeaf bool
	ChildA int
	ChildB int
	// Parent is only used for diagnostics, the tree is walked from the root.
	Parent int
	// Objects are positions in the hierarchy's object slice.
	Objects []int
}

// Hierarchy is a bounding volume hierarchy built once over a sorted object
// slice. It is read-only after Build returns and safe for concurrent queries.
type Hierarchy struct {
	Nodes        []Node
	Root         int
	LeafCapacity int
	Policy       actor.IntersectionPolicy

	objects []actor.Object
}

type buildConfig struct {
	leafCapacity int
	policy       actor.IntersectionPolicy
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithLeafCapacity sets the maximum number of objects held by a leaf.
func WithLeafCapacity(n int) BuildOption {
	return func(c *buildConfig) {
		c.leafCapacity = n
	}
}

// WithPolicy sets the intersection policy used by the hierarchy queries.
func WithPolicy(p actor.IntersectionPolicy) BuildOption {
	return func(c *buildConfig) {
		c.policy = p
	}
}

// Build creates a hierarchy over objects, which must already be sorted (see
// Store.OrganizeByLeft). Objects are split recursively at the median index
// until a slice fits in a leaf, then every node box is computed in a single
// bottom-up pass.
func Build(objects []actor.Object, opts ...BuildOption) (*Hierarchy, error) {
	conf := buildConfig{
		leafCapacity: DEFAULT_LEAF_CAPACITY,
		policy:       actor.DefaultPolicy,
	}
	for _, opt := range opts {
		opt(&conf)
	}

	if conf.leafCapacity < 1 {
		return nil, errors.New("leaf capacity must be at least 1").
			WithType(ErrTypeInvalidCapacity).
			WithTag("leaf_capacity", conf.leafCapacity)
	}

	h := &Hierarchy{
		Nodes:        make([]Node, 0, nodeCountHint(len(objects), conf.leafCapacity)),
		LeafCapacity: conf.leafCapacity,
		Policy:       conf.policy,
		objects:      objects,
	}

	refs := make([]int, len(objects))
	for i := range refs {
		refs[i] = i
	}

	h.Root = h.split(refs, NoNode)
	h.computeBounds()

	instrumentBuild(h)
	return h, nil
}

// split allocates the node covering refs, then its children. Children are
// always appended after their parent.
func (h *Hierarchy) split(refs []int, parent int) int {
	idx := len(h.Nodes)

	if len(refs) <= h.LeafCapacity {
		h.Nodes = append(h.Nodes, Node{
			IsLeaf:  true,
			ChildA:  NoNode,
			ChildB:  NoNode,
			Parent:  parent,
			Objects: refs,
		})
		return idx
	}

	h.Nodes = append(h.Nodes, Node{
		ChildA: NoNode,
		ChildB: NoNode,
		Parent: parent,
	})

	mid := len(refs) / 2
	childA := h.split(refs[:mid:mid], idx)
	childB := h.split(refs[mid:], idx)

	// h.Nodes may have grown, index again
	h.Nodes[idx].ChildA = childA
	h.Nodes[idx].ChildB = childB
	return idx
}

// computeBounds walks the arena backwards so both children of a node are done
// before the node itself.
func (h *Hierarchy) computeBounds() {
	for i := len(h.Nodes) - 1; i >= 0; i-- {
		n := &h.Nodes[i]
		if n.IsLeaf {
			n.Box = h.leafBounds(n.Objects)
			continue
		}
		n.Box = h.Nodes[n.ChildA].Box.Union(h.Nodes[n.ChildB].Box)
	}
}

// leafBounds is the tight union of the referenced boxes. An empty leaf gets a
// zero box.
func (h *Hierarchy) leafBounds(refs []int) actor.AABB {
	if len(refs) == 0 {
		return actor.AABB{}
	}
	box := h.objects[refs[0]].Box
	for _, ref := range refs[1:] {
		box = box.Union(h.objects[ref].Box)
	}
	return box
}

func nodeCountHint(objects, leafCapacity int) int {
	if objects <= leafCapacity {
		return 1
	}
	leaves := (objects + leafCapacity - 1) / leafCapacity
	return 4 * leaves
}

// Objects returns the sorted objects the hierarchy was built from.
func (h *Hierarchy) Objects() []actor.Object {
	return h.objects
}

// Object resolves an object reference held by a leaf.
func (h *Hierarchy) Object(ref int) actor.Object {
	return h.objects[ref]
}

// RootNode returns the root of the hierarchy.
func (h *Hierarchy) RootNode() Node {
	return h.Nodes[h.Root]
}

// LeafCount returns the number of leaves.
func (h *Hierarchy) LeafCount() int {
	count := 0
	for _, n := range h.Nodes {
		if n.IsLeaf {
			count++
		}
	}
	return count
}

// Depth returns the number of edges between the root and the deepest leaf.
func (h *Hierarchy) Depth() int {
	depth := 0
	for i, n := range h.Nodes {
		if !n.IsLeaf {
			continue
		}
		depth = max(depth, len(h.Path(i))-1)
	}
	return depth
}

// Path returns the node indices from the root down to node, following parent
// links.
func (h *Hierarchy) Path(node int) []int {
	var path []int
	for n := node; n != NoNode; n = h.Nodes[n].Parent {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
