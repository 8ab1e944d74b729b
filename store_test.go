package bvh

import (
	"math"
	"testing"

	"github.com/akmonengine/bvh/actor"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestStoreCreateObjects(t *testing.T) {
	var store Store
	require.NoError(t, store.CreateObjects(tileEntries()[:3]))
	require.NoError(t, store.CreateObjects(tileEntries()[3:]))

	require.Equal(t, 8, store.Len())
	for i, o := range store.Objects() {
		require.Equal(t, i, o.ID)
		require.Equal(t, tileEntries()[i].Name, o.Name)
	}
}

func TestStoreCreateObjectsInvalidGeometry(t *testing.T) {
	var store Store
	require.NoError(t, store.CreateObjects(tileEntries()[:2]))

	err := store.CreateObjects([]Entry{
		{Name: "ok", Box: actor.AABB{Width: 1, Height: 1}},
		{Name: "inverted", Box: actor.AABB{Width: -1, Height: 1}},
	})
	require.Error(t, err)
	require.True(t, errors.IsType(err, actor.ErrTypeInvalidGeometry))
	require.Equal(t, 2, store.Len())
}

func TestStoreCreateObjectsNonFinite(t *testing.T) {
	boxes := []actor.AABB{
		{Left: math.NaN(), Top: 0, Width: 1, Height: 1},
		{Left: 0, Top: math.NaN(), Width: 1, Height: 1},
		{Left: math.Inf(-1), Top: 0, Width: math.Inf(1), Height: 1},
		{Left: 0, Top: 0, Width: 1, Height: math.Inf(1)},
	}

	for _, box := range boxes {
		var store Store
		err := store.CreateObjects([]Entry{
			{Name: "bad", Box: box},
			{Name: "ok", Box: actor.AABB{Left: 0, Top: 0, Width: 10, Height: 10}},
		})
		require.Error(t, err, "box %v", box)
		require.True(t, errors.IsType(err, actor.ErrTypeInvalidGeometry))
		require.Zero(t, store.Len())
	}
}

func TestStoreOrganizeByLeft(t *testing.T) {
	var store Store
	require.NoError(t, store.CreateObjects([]Entry{
		{Name: "c", Box: actor.AABB{Left: 30, Width: 1, Height: 1}},
		{Name: "a1", Box: actor.AABB{Left: -5, Width: 1, Height: 1}},
		{Name: "b", Box: actor.AABB{Left: 10, Width: 1, Height: 1}},
		{Name: "a2", Box: actor.AABB{Left: -5, Top: -100, Width: 1, Height: 1}},
		{Name: "a3", Box: actor.AABB{Left: -5, Top: 100, Width: 1, Height: 1}},
	}))
	store.OrganizeByLeft()

	var names []string
	for _, o := range store.Objects() {
		names = append(names, o.Name)
	}
	require.Equal(t, []string{"a1", "a2", "a3", "b", "c"}, names)
	require.Equal(t, []int{1, 3, 4, 2, 0}, actor.IDs(store.Objects()))
	require.True(t, store.Frozen())
}

func TestStoreFrozen(t *testing.T) {
	var store Store
	require.NoError(t, store.CreateObjects(tileEntries()))
	store.OrganizeByLeft()

	err := store.CreateObjects(tileEntries())
	require.Error(t, err)
	require.True(t, errors.IsType(err, ErrTypeStoreFrozen))
	require.Equal(t, 8, store.Len())
}

func TestStoreLookup(t *testing.T) {
	var store Store
	require.NoError(t, store.CreateObjects(tileEntries()))
	store.OrganizeByLeft()

	frog, ok := store.Lookup("frog")
	require.True(t, ok)
	require.Equal(t, 6, frog.ID)

	byID, ok := store.Get(6)
	require.True(t, ok)
	require.Equal(t, frog, byID)

	_, ok = store.Lookup("unicorn")
	require.False(t, ok)
	_, ok = store.Get(42)
	require.False(t, ok)
}
