package bvh

import (
	"math/rand"
	"testing"

	"github.com/akmonengine/bvh/actor"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	s := NewSession()
	require.NotEmpty(t, s.ID)
	require.Equal(t, DEFAULT_LEAF_CAPACITY, s.LeafCapacity)
	require.Equal(t, actor.OpenInterval, s.Policy)
	require.False(t, s.Ready())

	other := NewSession(
		WithSessionLeafCapacity(4),
		WithSessionPolicy(actor.ClosedInterval),
		WithWorkers(8),
	)
	require.NotEqual(t, s.ID, other.ID)
	require.Equal(t, 4, other.LeafCapacity)
	require.Equal(t, actor.ClosedInterval, other.Policy)
	require.Equal(t, 8, other.Workers)
}

func TestSessionQueryBeforeSetup(t *testing.T) {
	s := NewSession()

	_, err := s.Query(actor.AABB{Width: 1, Height: 1})
	require.True(t, errors.IsType(err, ErrTypeEmptySession))

	_, err = s.LinearQuery(actor.AABB{Width: 1, Height: 1})
	require.True(t, errors.IsType(err, ErrTypeEmptySession))

	_, err = s.QueryBatch([]actor.AABB{{Width: 1, Height: 1}})
	require.True(t, errors.IsType(err, ErrTypeEmptySession))
}

func TestSessionSetup(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Setup(tileEntries()))
	require.True(t, s.Ready())
	require.True(t, s.Store().Frozen())
	require.NoError(t, s.Hierarchy().Validate())

	search := actor.AABB{Left: 48, Top: 48, Width: 32, Height: 32}
	found, err := s.Query(search)
	require.NoError(t, err)
	linear, err := s.LinearQuery(search)
	require.NoError(t, err)

	require.ElementsMatch(t, []int{0, 1, 4, 5}, actor.IDs(found))
	require.True(t, SameObjects(found, linear))
}

func TestSessionSetupEmpty(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Setup(nil))

	found, err := s.Query(actor.AABB{Left: -100, Top: -100, Width: 200, Height: 200})
	require.NoError(t, err)
	require.Empty(t, found)

	linear, err := s.LinearQuery(actor.AABB{Left: -100, Top: -100, Width: 200, Height: 200})
	require.NoError(t, err)
	require.Empty(t, linear)
}

func TestSessionSetupErrors(t *testing.T) {
	t.Run("invalid geometry", func(t *testing.T) {
		s := NewSession()
		err := s.Setup([]Entry{{Name: "bad", Box: actor.AABB{Width: 1, Height: -1}}})
		require.Error(t, err)
		require.True(t, errors.IsType(err, actor.ErrTypeInvalidGeometry))
		require.False(t, s.Ready())
	})

	t.Run("invalid capacity", func(t *testing.T) {
		s := NewSession(WithSessionLeafCapacity(-1))
		err := s.Setup(tileEntries())
		require.Error(t, err)
		require.True(t, errors.IsType(err, ErrTypeInvalidCapacity))
		require.False(t, s.Ready())
	})
}

func TestSessionRebuild(t *testing.T) {
	s := NewSession()
	entries := tileEntries()
	require.NoError(t, s.Setup(entries))

	search := actor.AABB{Left: 1000, Top: 1000, Width: 10, Height: 10}
	found, err := s.Query(search)
	require.NoError(t, err)
	require.Empty(t, found)

	previous := s.Hierarchy()

	// move the shark into the search rectangle
	entries[7].Box.Left = 995
	entries[7].Box.Top = 995
	require.NoError(t, s.Rebuild(entries))
	require.NotSame(t, previous, s.Hierarchy())
	require.NoError(t, s.Hierarchy().Validate())

	found, err = s.Query(search)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "shark", found[0].Name)

	// the previous hierarchy is left untouched
	require.Empty(t, previous.Query(search))

	// an invalid rebuild keeps the current hierarchy
	current := s.Hierarchy()
	entries[0].Box.Width = -1
	require.Error(t, s.Rebuild(entries))
	require.Same(t, current, s.Hierarchy())
}

func TestSessionQueryBatch(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	s := NewSession(WithWorkers(4))
	require.NoError(t, s.Setup(randomEntries(rnd, 500, 1000, 50)))

	searches := make([]actor.AABB, 97)
	for i := range searches {
		searches[i] = randomBox(rnd, 1000, 200)
	}

	results, err := s.QueryBatch(searches)
	require.NoError(t, err)
	require.Len(t, results, len(searches))

	for i, search := range searches {
		linear, err := s.LinearQuery(search)
		require.NoError(t, err)
		require.Equal(t, sortedIDs(linear), sortedIDs(results[i]))
	}
}

func TestSessionQueryBatchEmpty(t *testing.T) {
	s := NewSession(WithWorkers(4))
	require.NoError(t, s.Setup(tileEntries()))

	results, err := s.QueryBatch(nil)
	require.NoError(t, err)
	require.Empty(t, results)
}
