package bvh

import (
	"cmp"

	"github.com/akmonengine/bvh/actor"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"golang.org/x/exp/slices"
)

// Entry is a named box waiting to be added to a Store.
type Entry struct {
	Name string     `json:"name"`
	Box  actor.AABB `json:"box"`
}

// Store owns the indexed objects. It is filled once, sorted once by
// OrganizeByLeft and is read-only afterwards.
type Store struct {
	objects []actor.Object
	frozen  bool
}

// CreateObjects validates and appends the entries. Object IDs are assigned in
// insertion order. When one entry is invalid none of the entries are added.
func (s *Store) CreateObjects(entries []Entry) error {
	if s.frozen {
		return errors.New("store is frozen").
			WithType(ErrTypeStoreFrozen).
			WithTag("objects", len(s.objects))
	}

	created := make([]actor.Object, 0, len(entries))
	for i, e := range entries {
		object, err := actor.NewObject(len(s.objects)+i, e.Name, e.Box)
		if err != nil {
			return errors.New("creating object failed").
				WithType(actor.ErrTypeInvalidGeometry).
				WithTag("name", e.Name).
				WithTag("index", i).
				Wrap(err)
		}
		created = append(created, object)
	}

	s.objects = append(s.objects, created...)
	return nil
}

// OrganizeByLeft sorts the objects by the left edge of their box and freezes
// the store. Ties keep insertion order.
func (s *Store) OrganizeByLeft() {
	slices.SortStableFunc(s.objects, func(a, b actor.Object) int {
		return cmp.Compare(a.Box.Left, b.Box.Left)
	})
	s.frozen = true
}

// Objects returns the stored objects. Callers must not modify the slice.
func (s *Store) Objects() []actor.Object {
	return s.objects
}

func (s *Store) Len() int {
	return len(s.objects)
}

func (s *Store) Frozen() bool {
	return s.frozen
}

// Get returns the object with the given ID.
func (s *Store) Get(id int) (actor.Object, bool) {
	for _, o := range s.objects {
		if o.ID == id {
			return o, true
		}
	}
	return actor.Object{}, false
}

// Lookup returns the first object with the given name.
func (s *Store) Lookup(name string) (actor.Object, bool) {
	for _, o := range s.objects {
		if o.Name == name {
			return o, true
		}
	}
	return actor.Object{}, false
}
