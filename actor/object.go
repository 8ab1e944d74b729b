package actor

// Object is an indexed rectangle. ID is the insertion index in the store and
// stays the same after the store is sorted.
type Object struct {
	ID   int
	Name string
	Box  AABB
}

// NewObject creates an object after checking its box.
func NewObject(id int, name string, box AABB) (Object, error) {
	if err := box.Validate(); err != nil {
		return Object{}, err
	}
	return Object{ID: id, Name: name, Box: box}, nil
}

// IDs returns the IDs of the given objects, in order.
func IDs(objects []Object) []int {
	ids := make([]int, len(objects))
	for i, o := range objects {
		ids[i] = o.ID
	}
	return ids
}
