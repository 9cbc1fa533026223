package seltree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyTree(t *testing.T) {
	tr := New(true)
	assert.Equal(t, 0, tr.Count())
	assert.Equal(t, 0.0, tr.TotalWeight())
	_, ok := tr.Sample(0)
	assert.False(t, ok)
}

func TestInsertAndTotals(t *testing.T) {
	tr := New(true)
	tr.Insert(1, 2.0)
	tr.Insert(2, 3.0)
	tr.Insert(3, 5.0)
	assert.Equal(t, 3, tr.Count())
	assert.InDelta(t, 10.0, tr.TotalWeight(), 1e-12)
}

func TestRemoveAndSlotReuse(t *testing.T) {
	tr := New(true)
	tr.Insert(1, 1.0)
	slot := tr.Insert(2, 2.0)
	tr.Insert(3, 3.0)

	tr.Remove(slot)
	assert.Equal(t, 2, tr.Count())
	assert.InDelta(t, 4.0, tr.TotalWeight(), 1e-12)

	// The freed slot must be reused before the tree grows.
	got := tr.Insert(4, 7.0)
	assert.Equal(t, slot, got)
	assert.Equal(t, 3, tr.Count())
	assert.InDelta(t, 11.0, tr.TotalWeight(), 1e-12)
}

func TestUpdateWeight(t *testing.T) {
	tr := New(true)
	slot := tr.Insert(1, 1.0)
	tr.Insert(2, 1.0)
	tr.Update(slot, 9.0)
	assert.InDelta(t, 10.0, tr.TotalWeight(), 1e-12)
}

func TestUnweightedIgnoresWeights(t *testing.T) {
	tr := New(false)
	tr.Insert(1, 100.0)
	tr.Insert(2, 0.5)
	assert.InDelta(t, 2.0, tr.TotalWeight(), 1e-12)
}

func TestSampleNeverReturnsRemoved(t *testing.T) {
	tr := New(true)
	var slots []int
	for i := int64(1); i <= 16; i++ {
		slots = append(slots, tr.Insert(i, float64(i)))
	}
	for i, slot := range slots {
		if i%2 == 0 {
			tr.Remove(slot)
		}
	}
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		item, ok := tr.Sample(rnd.Float64() * tr.TotalWeight())
		require.True(t, ok)
		assert.Equal(t, int64(0), item%2, "sampled removed item %d", item)
	}
}

// Sampling probabilities must match the weight proportions. Checked with a
// chi-squared statistic over 1e5 draws; the 99.9% quantile for 3 degrees
// of freedom is about 16.27.
func TestSampleDistribution(t *testing.T) {
	tr := New(true)
	weights := map[int64]float64{1: 1.0, 2: 2.0, 3: 3.0, 4: 4.0}
	for item, w := range weights {
		tr.Insert(item, w)
	}

	const draws = 100000
	rnd := rand.New(rand.NewSource(42))
	counts := make(map[int64]int)
	for i := 0; i < draws; i++ {
		item, ok := tr.Sample(rnd.Float64() * tr.TotalWeight())
		require.True(t, ok)
		counts[item]++
	}

	total := tr.TotalWeight()
	var chi2 float64
	for item, w := range weights {
		expected := float64(draws) * w / total
		diff := float64(counts[item]) - expected
		chi2 += diff * diff / expected
	}
	assert.Less(t, chi2, 16.27, "chi-squared statistic too large: %f", chi2)
}

func TestUnweightedSampleDistribution(t *testing.T) {
	tr := New(false)
	for i := int64(1); i <= 4; i++ {
		tr.Insert(i, float64(i)*10)
	}

	const draws = 100000
	rnd := rand.New(rand.NewSource(3))
	counts := make(map[int64]int)
	for i := 0; i < draws; i++ {
		item, ok := tr.Sample(rnd.Float64() * tr.TotalWeight())
		require.True(t, ok)
		counts[item]++
	}

	var chi2 float64
	expected := float64(draws) / 4
	for i := int64(1); i <= 4; i++ {
		diff := float64(counts[i]) - expected
		chi2 += diff * diff / expected
	}
	assert.Less(t, chi2, 16.27)
}

// The lighter-subtree insertion rule keeps element counts balanced to
// within one at every node.
func TestBalance(t *testing.T) {
	tr := New(true)
	for i := int64(1); i <= 1000; i++ {
		tr.Insert(i, 1.0)
	}
	for idx := 1; idx < len(tr.nodes); idx++ {
		n := &tr.nodes[idx]
		assert.LessOrEqual(t, math.Abs(float64(n.leftCount-n.rightCount)), 1.0,
			"unbalanced node %d", idx)
	}
}
