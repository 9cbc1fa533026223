package transform_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/settings"
	"github.com/cgalab/genpoly-fpg/stats"
	"github.com/cgalab/genpoly-fpg/transform"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

// runGenerator drives a full generation the way the CLI does and returns
// the finished mesh with its statistics.
func runGenerator(t *testing.T, set *settings.Settings) (*trimesh.Mesh, *stats.Stats) {
	t.Helper()
	require.NoError(t, set.Validate())

	rng := rand.New(rand.NewSource(set.Seed))
	m := trimesh.NewMesh(set)
	require.NoError(t, transform.BuildInitialPolygon(m))

	st := stats.New(set.Seed)
	tr := transform.New(m, rng, st)

	var err error
	switch {
	case set.NrOfHoles == 0:
		err = transform.StrategyNoHoles0(tr)
	case set.HoleInsertionAtStart:
		err = transform.StrategyWithHoles0(tr)
	default:
		err = transform.StrategyWithHoles1(tr)
	}
	require.NoError(t, err)
	require.NoError(t, m.CheckSimplicity())
	return m, st
}

// ringPoints collects the ring's vertex positions in chain order.
func ringPoints(m *trimesh.Mesh, ring int) []geom.XY {
	n := m.RingSize(ring)
	pts := make([]geom.XY, 0, n)
	v := m.RingVertex(ring, 0)
	for i := 0; i < n; i++ {
		pts = append(pts, m.Pos(v))
		v = m.NextVertex(v)
	}
	return pts
}

// pointInRing is a plain crossing-number test, good enough for test
// assertions away from boundary degeneracies.
func pointInRing(pts []geom.XY, p geom.XY) bool {
	inside := false
	n := len(pts)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		if (a.Y > p.Y) == (b.Y > p.Y) {
			continue
		}
		x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
		if x > p.X {
			inside = !inside
		}
	}
	return inside
}

func TestGeneratePlainPolygon(t *testing.T) {
	set := settings.New()
	set.OuterSize = 100
	set.FixedSeed = true
	set.Seed = 1

	m, _ := runGenerator(t, set)
	assert.Equal(t, 100, m.RingSize(0))
	assert.Equal(t, 1, m.RingCount())
}

func TestGeneratePolygonWithTwoHoles(t *testing.T) {
	if testing.Short() {
		t.Skip("full 500 vertex generation")
	}
	set := settings.New()
	set.OuterSize = 500
	set.NrOfHoles = 2
	set.InnerSizes = []int{30, 50}
	set.FixedSeed = true
	set.Seed = 42
	set.Arithmetic = settings.Exact

	m, _ := runGenerator(t, set)
	require.Equal(t, 3, m.RingCount())
	assert.Equal(t, 500, m.RingSize(0))
	assert.Equal(t, 30, m.RingSize(1))
	assert.Equal(t, 50, m.RingSize(2))

	outer := ringPoints(m, 0)
	for ring := 1; ring < m.RingCount(); ring++ {
		for _, p := range ringPoints(m, ring) {
			assert.True(t, pointInRing(outer, p),
				"hole %d vertex outside the outer ring", ring)
		}
	}
}

func TestGenerateTriangle(t *testing.T) {
	set := settings.New()
	set.OuterSize = 3
	set.InitialSize = 3
	set.FixedSeed = true
	set.Seed = 7

	m, _ := runGenerator(t, set)
	assert.Equal(t, 3, m.RingSize(0))
}

func TestGenerateUnweightedWithHole(t *testing.T) {
	set := settings.New()
	set.OuterSize = 50
	set.NrOfHoles = 1
	set.InnerSizes = []int{3}
	set.FixedSeed = true
	set.Seed = 100
	set.WeightedEdgeSelection = false

	m, _ := runGenerator(t, set)
	require.Equal(t, 2, m.RingCount())
	assert.Equal(t, 50, m.RingSize(0))
	assert.Equal(t, 3, m.RingSize(1))

	// Every ring vertex, the three hole vertices included, carries exactly
	// two polygon edges and valid chain links.
	for ring := 0; ring < m.RingCount(); ring++ {
		for i := 0; i < m.RingSize(ring); i++ {
			require.NoError(t, m.CheckVertex(m.RingVertex(ring, i)))
		}
	}
}

func TestGenerateWithoutInsertions(t *testing.T) {
	set := settings.New()
	set.OuterSize = 20
	set.FixedSeed = true
	set.Seed = 1

	m, st := runGenerator(t, set)
	assert.Equal(t, 20, m.RingSize(0))
	assert.Zero(t, st.Insertions)
	assert.Zero(t, st.InsertionTries)
	assert.Greater(t, st.TranslationTries, 0)
}

func TestGenerateWithRuntimeHoles(t *testing.T) {
	if testing.Short() {
		t.Skip("full 200 vertex generation with three holes")
	}
	set := settings.New()
	set.OuterSize = 200
	set.NrOfHoles = 3
	set.InnerSizes = []int{10, 10, 10}
	set.FixedSeed = true
	set.Seed = 123

	m, _ := runGenerator(t, set)
	require.Equal(t, 4, m.RingCount())
	assert.Equal(t, 200, m.RingSize(0))
	for ring := 1; ring <= 3; ring++ {
		assert.Equal(t, 10, m.RingSize(ring))
	}

	for ring := 0; ring < m.RingCount(); ring++ {
		sh := stats.MeasureRing(ring, ringPoints(m, ring))
		assert.Zero(t, sh.TwistNumber%2, "odd twist number on ring %d", ring)
	}
}

func TestGenerateWithRetriangulation(t *testing.T) {
	set := settings.New()
	set.OuterSize = 60
	set.FixedSeed = true
	set.Seed = 5
	set.Retriangulate = true

	m, st := runGenerator(t, set)
	assert.Equal(t, 60, m.RingSize(0))
	assert.Greater(t, st.Translations, 0)
	assert.Zero(t, st.Flips)
}

func TestTranslateVertexOutcomes(t *testing.T) {
	set := settings.New()
	set.OuterSize = 20
	set.GlobalChecking = true
	require.NoError(t, set.Validate())

	m := trimesh.NewMesh(set)
	require.NoError(t, transform.BuildInitialPolygon(m))
	tr := transform.New(m, rand.New(rand.NewSource(9)), stats.New(9))

	v := m.RingVertex(0, 0)
	before := m.Pos(v)

	// A tiny inward nudge keeps the fan intact and succeeds.
	out, err := tr.TranslateVertex(v, geom.XY{X: -1e-4, Y: -1e-4})
	require.NoError(t, err)
	require.Equal(t, transform.Full, out)
	assert.NotEqual(t, before, m.Pos(v))
	require.NoError(t, m.Check())
}

func TestTriangleRingRejectsFlip(t *testing.T) {
	set := settings.New()
	set.OuterSize = 3
	set.InitialSize = 3
	require.NoError(t, set.Validate())

	m := trimesh.NewMesh(set)
	require.NoError(t, transform.BuildInitialPolygon(m))
	tr := transform.New(m, rand.New(rand.NewSource(3)), stats.New(3))

	// Dragging one corner across the opposite edge would flip the whole
	// triangle, which a ring of three vertices cannot survive.
	v := m.RingVertex(0, 0)
	before := m.Pos(v)
	d := geom.XY{X: -4 * before.X, Y: -4 * before.Y}

	out, err := tr.TranslateVertex(v, d)
	require.NoError(t, err)
	assert.Equal(t, transform.Rejected, out)
	assert.Equal(t, before, m.Pos(v))
}
