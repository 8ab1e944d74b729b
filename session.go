package bvh

import (
	"github.com/akmonengine/bvh/actor"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/google/uuid"
)

const DEFAULT_WORKERS = 1

// Session holds the object store and the hierarchy built from it. A session
// goes through Setup once; moving objects means calling Rebuild, which
// replaces both the store and the hierarchy.
type Session struct {
	ID           string
	LeafCapacity int
	Policy       actor.IntersectionPolicy
	Workers      int

	store     *Store
	hierarchy *Hierarchy
}

// SessionOption configures a Session.
type SessionOption func(*Session)

func WithSessionLeafCapacity(n int) SessionOption {
	return func(s *Session) {
		s.LeafCapacity = n
	}
}

func WithSessionPolicy(p actor.IntersectionPolicy) SessionOption {
	return func(s *Session) {
		s.Policy = p
	}
}

func WithWorkers(n int) SessionOption {
	return func(s *Session) {
		s.Workers = n
	}
}

// NewSession creates an empty session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		ID:           uuid.NewString(),
		LeafCapacity: DEFAULT_LEAF_CAPACITY,
		Policy:       actor.DefaultPolicy,
		Workers:      DEFAULT_WORKERS,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Setup creates the objects, sorts them by left edge and builds the
// hierarchy.
func (s *Session) Setup(entries []Entry) error {
	store := &Store{}
	if err := store.CreateObjects(entries); err != nil {
		return errors.New("session setup failed").
			WithType(errors.Type(err)).
			WithTag("session_id", s.ID).
			Wrap(err)
	}
	store.OrganizeByLeft()

	h, err := Build(store.Objects(),
		WithLeafCapacity(s.LeafCapacity),
		WithPolicy(s.Policy),
	)
	if err != nil {
		return errors.New("session setup failed").
			WithType(errors.Type(err)).
			WithTag("session_id", s.ID).
			Wrap(err)
	}

	s.store = store
	s.hierarchy = h

	logs.WithTag("session_id", s.ID).
		WithTag("objects", store.Len()).
		WithTag("nodes", len(h.Nodes)).
		WithTag("depth", h.Depth()).
		WithTag("policy", s.Policy.String()).
		Debug("hierarchy built")
	return nil
}

// Rebuild discards the current store and hierarchy and runs Setup again. The
// previous hierarchy is kept when the new entries are invalid.
func (s *Session) Rebuild(entries []Entry) error {
	return s.Setup(entries)
}

// Store returns the frozen object store, nil before Setup.
func (s *Session) Store() *Store {
	return s.store
}

// Hierarchy returns the current hierarchy, nil before Setup.
func (s *Session) Hierarchy() *Hierarchy {
	return s.hierarchy
}

// Ready reports whether Setup succeeded at least once.
func (s *Session) Ready() bool {
	return s.hierarchy != nil
}

// Query runs a hierarchy query.
func (s *Session) Query(search actor.AABB) ([]actor.Object, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	return s.hierarchy.Query(search), nil
}

// LinearQuery runs a brute-force query over the store.
func (s *Session) LinearQuery(search actor.AABB) ([]actor.Object, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	return LinearQuery(s.store.Objects(), search, s.Policy), nil
}

// QueryBatch runs one hierarchy query per search rectangle over s.Workers
// goroutines. results[i] holds the objects found for searches[i].
func (s *Session) QueryBatch(searches []actor.AABB) ([][]actor.Object, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}

	results := make([][]actor.Object, len(searches))
	task(max(DEFAULT_WORKERS, s.Workers), searches, func(i int, search actor.AABB) {
		results[i] = s.hierarchy.Query(search)
	})
	return results, nil
}

func (s *Session) checkReady() error {
	if s.Ready() {
		return nil
	}
	return errors.New("session has no hierarchy, call Setup first").
		WithType(ErrTypeEmptySession).
		WithTag("session_id", s.ID)
}
