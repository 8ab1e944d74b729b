package bvh

import "github.com/akmonengine/bvh/actor"

// LinearQuery tests search against every object. It is the reference Query is
// checked and timed against, and must be called with the same policy.
func LinearQuery(objects []actor.Object, search actor.AABB, policy actor.IntersectionPolicy) []actor.Object {
	var found []actor.Object
	for _, o := range objects {
		if policy.Intersects(search, o.Box) {
			found = append(found, o)
		}
	}
	return found
}

// LinearQuery runs the brute-force scan over the hierarchy's own objects with
// the hierarchy's policy.
func (h *Hierarchy) LinearQuery(search actor.AABB) []actor.Object {
	return LinearQuery(h.objects, search, h.Policy)
}

// SameObjects reports whether two results hold the same object IDs,
// regardless of order.
func SameObjects(a, b []actor.Object) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]int, len(a))
	for _, o := range a {
		seen[o.ID]++
	}
	for _, o := range b {
		if seen[o.ID] == 0 {
			return false
		}
		seen[o.ID]--
	}
	return true
}
