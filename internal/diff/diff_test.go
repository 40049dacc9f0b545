package diff

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	ID   uint
	Name string
}

func pointKey(p point) uint { return p.ID }

func desiredPointKey(p point) (uint, bool) { return p.ID, p.ID != 0 }

func TestValuesTagsRemovedOnly(t *testing.T) {
	res, err := Values([]string{"nature", "hiking"}, []string{"nature"})
	require.NoError(t, err)

	assert.Empty(t, res.ToCreate)
	assert.Equal(t, []string{"hiking"}, res.ToDelete)
	require.Len(t, res.ToUpdate, 1)
	assert.Equal(t, "nature", res.ToUpdate[0].Current)
}

func TestValuesTagIdentityIsCaseSensitive(t *testing.T) {
	res, err := Values([]string{"nature"}, []string{"Nature"})
	require.NoError(t, err)

	require.Len(t, res.ToCreate, 1)
	assert.Equal(t, "Nature", res.ToCreate[0].Item)
	assert.Equal(t, []string{"nature"}, res.ToDelete)
	assert.Empty(t, res.ToUpdate)
}

func TestComputePointsReorderAndReplace(t *testing.T) {
	current := []point{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	desired := []point{{ID: 2, Name: "B"}, {Name: "C"}}

	res, err := Compute(current, desired, pointKey, desiredPointKey)
	require.NoError(t, err)

	require.Len(t, res.ToDelete, 1)
	assert.Equal(t, uint(1), res.ToDelete[0].ID)

	require.Len(t, res.ToUpdate, 1)
	assert.Equal(t, 0, res.ToUpdate[0].Index)
	assert.Equal(t, uint(2), res.ToUpdate[0].Current.ID)

	require.Len(t, res.ToCreate, 1)
	assert.Equal(t, 1, res.ToCreate[0].Index)
	assert.Equal(t, "C", res.ToCreate[0].Item.Name)
}

func TestComputeItemsWithoutIdentityAreAlwaysCreated(t *testing.T) {
	desired := []point{{Name: "X"}, {Name: "X"}}

	res, err := Compute([]point{{ID: 9}}, desired, pointKey, desiredPointKey)
	require.NoError(t, err)

	assert.Len(t, res.ToCreate, 2)
	assert.Empty(t, res.ToUpdate)
	assert.Len(t, res.ToDelete, 1)
}

func TestComputeDuplicateDesiredIdentityFails(t *testing.T) {
	urls := []string{"https://cdn/a.png", "https://cdn/b.png", "https://cdn/a.png"}

	_, err := Values(nil, urls)
	require.Error(t, err)

	var dup *DuplicateEntryError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "https://cdn/a.png", dup.Key)
	assert.Equal(t, 0, dup.First)
	assert.Equal(t, 2, dup.Second)
}

func TestComputeDuplicateCurrentIdentityDeletesExtras(t *testing.T) {
	res, err := Values([]string{"a", "a"}, []string{"a"})
	require.NoError(t, err)

	assert.Len(t, res.ToUpdate, 1)
	assert.Equal(t, []string{"a"}, res.ToDelete)
}

func TestComputeSameDocumentTwiceHasNoChanges(t *testing.T) {
	desired := []point{{ID: 3, Name: "C"}, {ID: 1, Name: "A"}, {ID: 2, Name: "B"}}

	res, err := Compute(desired, desired, pointKey, desiredPointKey)
	require.NoError(t, err)

	assert.False(t, res.HasChanges())
	require.Len(t, res.ToUpdate, 3)
	for i, u := range res.ToUpdate {
		assert.Equal(t, i, u.Index)
		assert.Equal(t, u.Current, u.Desired)
	}
}

func TestComputePartitionsEveryIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 500; round++ {
		current := distinct(rng, rng.Intn(12))
		desired := distinct(rng, rng.Intn(12))

		res, err := Values(current, desired)
		require.NoError(t, err)

		seen := map[int]string{}
		mark := func(k int, set string) {
			prev, dup := seen[k]
			require.Falsef(t, dup, "round %d: %d in both %s and %s", round, k, prev, set)
			seen[k] = set
		}
		for _, c := range res.ToCreate {
			mark(c.Item, "create")
		}
		for _, u := range res.ToUpdate {
			require.Equal(t, u.Current, u.Desired)
			require.Equal(t, desired[u.Index], u.Desired)
			mark(u.Current, "update")
		}
		for _, d := range res.ToDelete {
			mark(d, "delete")
		}

		union := map[int]bool{}
		for _, k := range current {
			union[k] = true
		}
		for _, k := range desired {
			union[k] = true
		}
		require.Len(t, seen, len(union), "round %d", round)
		for k := range union {
			_, ok := seen[k]
			require.True(t, ok, "round %d: %d unaccounted", round, k)
		}
	}
}

func distinct(rng *rand.Rand, n int) []int {
	perm := rng.Perm(20)
	return perm[:n]
}
