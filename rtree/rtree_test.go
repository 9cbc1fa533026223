package rtree_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgalab/genpoly-fpg/rtree"
)

func randomBox(rng *rand.Rand) rtree.Box {
	x := rng.Float64() * 100
	y := rng.Float64() * 100
	return rtree.Box{
		MinX: x,
		MinY: y,
		MaxX: x + rng.Float64()*10,
		MaxY: y + rng.Float64()*10,
	}
}

func overlaps(a, b rtree.Box) bool {
	return a.MinX <= b.MaxX && a.MaxX >= b.MinX &&
		a.MinY <= b.MaxY && a.MaxY >= b.MinY
}

func TestRangeSearchMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	var tree rtree.RTree
	boxes := make([]rtree.Box, 200)
	for i := range boxes {
		boxes[i] = randomBox(rng)
		tree.Insert(boxes[i], i)
	}

	for trial := 0; trial < 50; trial++ {
		query := randomBox(rng)

		var want []int
		for i, b := range boxes {
			if overlaps(b, query) {
				want = append(want, i)
			}
		}

		var got []int
		require.NoError(t, tree.RangeSearch(query, func(id int) error {
			got = append(got, id)
			return nil
		}))
		sort.Ints(got)
		assert.Equal(t, want, got, "query %+v", query)
	}
}

func TestRangeSearchEmptyTree(t *testing.T) {
	var tree rtree.RTree
	err := tree.RangeSearch(rtree.Box{MaxX: 1, MaxY: 1}, func(int) error {
		t.Fatal("callback on empty tree")
		return nil
	})
	assert.NoError(t, err)
}

func TestRangeSearchStop(t *testing.T) {
	var tree rtree.RTree
	all := rtree.Box{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}
	for i := 0; i < 10; i++ {
		tree.Insert(all, i)
	}

	calls := 0
	err := tree.RangeSearch(all, func(int) error {
		calls++
		return rtree.Stop
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRangeSearchDisjointQuery(t *testing.T) {
	var tree rtree.RTree
	for i := 0; i < 20; i++ {
		tree.Insert(rtree.Box{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}, i)
	}
	err := tree.RangeSearch(rtree.Box{MinX: 5, MinY: 5, MaxX: 6, MaxY: 6}, func(int) error {
		t.Fatal("callback for a disjoint query")
		return nil
	})
	assert.NoError(t, err)
}
