package trimesh_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/settings"
	"github.com/cgalab/genpoly-fpg/transform"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

func newInitialMesh(t *testing.T, mutate func(*settings.Settings)) *trimesh.Mesh {
	t.Helper()
	set := settings.New()
	set.OuterSize = 20
	if mutate != nil {
		mutate(set)
	}
	require.NoError(t, set.Validate())
	m := trimesh.NewMesh(set)
	require.NoError(t, transform.BuildInitialPolygon(m))
	return m
}

func TestInitialTriangulationInvariants(t *testing.T) {
	m := newInitialMesh(t, func(set *settings.Settings) {
		set.GlobalChecking = true
	})

	require.NoError(t, m.Check())

	n := m.RingSize(0)
	assert.Equal(t, 20, n)

	// Following toNext visits every ring vertex exactly once.
	start := m.RingVertex(0, 0)
	v := start
	for i := 0; i < n; i++ {
		assert.Equal(t, 0, m.VertexRing(v))
		require.NoError(t, m.CheckVertex(v))
		v = m.NextVertex(v)
	}
	assert.Equal(t, start, v)

	// The surrounding polygon closes on itself.
	sur := m.SurroundingVertices(start)
	require.GreaterOrEqual(t, len(sur), 4)
	assert.Equal(t, sur[0], sur[len(sur)-1])
}

func TestInitialMeshWithHoles(t *testing.T) {
	m := newInitialMesh(t, func(set *settings.Settings) {
		set.NrOfHoles = 2
		set.InnerSizes = []int{30, 50}
		set.GlobalChecking = true
	})

	require.NoError(t, m.Check())
	require.Equal(t, 3, m.RingCount())
	assert.Equal(t, 3, m.RingSize(1))
	assert.Equal(t, 3, m.RingSize(2))
	require.NoError(t, m.CheckSimplicity())
}

func TestIntersectPts(t *testing.T) {
	m := newInitialMesh(t, nil)

	pt := func(uid int64, x, y float64) trimesh.Pt {
		return trimesh.Pt{UID: uid, XY: geom.XY{X: x, Y: y}}
	}

	t.Run("proper crossing", func(t *testing.T) {
		kind := m.IntersectPts(pt(2, 0, 0), pt(4, 2, 2), pt(6, 0, 2), pt(8, 2, 0), true)
		assert.Equal(t, trimesh.EdgeIntersection, kind)
	})
	t.Run("disjoint", func(t *testing.T) {
		kind := m.IntersectPts(pt(2, 0, 0), pt(4, 1, 0), pt(6, 0, 1), pt(8, 1, 1), true)
		assert.Equal(t, trimesh.NoIntersection, kind)
	})
	t.Run("endpoint on segment", func(t *testing.T) {
		kind := m.IntersectPts(pt(2, 0, 0), pt(4, 2, 0), pt(6, 1, 0), pt(8, 1, 1), true)
		assert.Equal(t, trimesh.VertexIntersection, kind)
	})
	t.Run("symmetry", func(t *testing.T) {
		a0, a1 := pt(2, 0, 0), pt(4, 3, 1)
		b0, b1 := pt(6, 1, 2), pt(8, 2, -1)
		assert.Equal(t,
			m.IntersectPts(a0, a1, b0, b1, true),
			m.IntersectPts(b0, b1, a0, a1, true))
	})
}

func TestSignedAreaPtsDeterministicOrdering(t *testing.T) {
	m := newInitialMesh(t, nil)

	a := trimesh.Pt{UID: 2, XY: geom.XY{X: 0.1, Y: 0.7}}
	b := trimesh.Pt{UID: 4, XY: geom.XY{X: 0.30000000000000004, Y: 0.2}}
	c := trimesh.Pt{UID: 6, XY: geom.XY{X: -0.4, Y: 0.9}}

	base := m.SignedAreaPts(a, b, c)
	require.NotZero(t, base)

	// Cyclic permutations give the identical double, odd permutations the
	// exact negation. The determinant is evaluated in uid order, so there
	// is no rounding drift between the variants.
	assert.Equal(t, base, m.SignedAreaPts(b, c, a))
	assert.Equal(t, base, m.SignedAreaPts(c, a, b))
	assert.Equal(t, -base, m.SignedAreaPts(b, a, c))
	assert.Equal(t, -base, m.SignedAreaPts(a, c, b))
	assert.Equal(t, -base, m.SignedAreaPts(c, b, a))
}

func TestCollapseTime(t *testing.T) {
	set := settings.New()
	set.OuterSize = 3
	set.InitialSize = 3
	require.NoError(t, set.Validate())
	m := trimesh.NewMesh(set)

	v0 := m.NewVertex(geom.XY{X: 0, Y: 0})
	v1 := m.NewVertex(geom.XY{X: 1, Y: 0})
	v2 := m.NewVertex(geom.XY{X: 0.5, Y: 1})

	e0, err := m.NewEdge(v0, v1, trimesh.TriangulationEdge)
	require.NoError(t, err)
	e1, err := m.NewEdge(v1, v2, trimesh.TriangulationEdge)
	require.NoError(t, err)
	e2, err := m.NewEdge(v2, v0, trimesh.TriangulationEdge)
	require.NoError(t, err)

	tri, err := m.NewTriangle(e0, e1, e2, v0, v1, v2, true)
	require.NoError(t, err)

	// Moving the apex straight down by 2 crosses the base halfway.
	got := m.CollapseTime(tri, v2, geom.XY{X: 0, Y: -2})
	assert.InDelta(t, 0.5, got, 1e-12)

	// Moving away from the base never collapses the triangle in [0, 1].
	got = m.CollapseTime(tri, v2, geom.XY{X: 0, Y: 1})
	assert.False(t, got >= 0 && got <= 1)

	// A vertex not on the triangle reports no collapse.
	v3 := m.NewVertex(geom.XY{X: 5, Y: 5})
	assert.Equal(t, -1.0, m.CollapseTime(tri, v3, geom.XY{X: 1, Y: 0}))
}

func TestLongestEdgeAvoidsPolygonEdge(t *testing.T) {
	set := settings.New()
	set.OuterSize = 3
	set.InitialSize = 3
	// Keep polygon edges out of the selection tree for this bare mesh.
	set.WeightedEdgeSelection = false
	require.NoError(t, set.Validate())
	m := trimesh.NewMesh(set)

	v0 := m.NewVertex(geom.XY{X: 0, Y: 0})
	v1 := m.NewVertex(geom.XY{X: 1, Y: 0})
	v2 := m.NewVertex(geom.XY{X: 0.5, Y: 0.001})
	for _, v := range []trimesh.VertexID{v0, v1, v2} {
		require.NoError(t, m.AddVertexToRing(v, 0))
	}

	e0, err := m.NewEdge(v0, v1, trimesh.PolygonEdge)
	require.NoError(t, err)
	e1, err := m.NewEdge(v1, v2, trimesh.TriangulationEdge)
	require.NoError(t, err)
	e2, err := m.NewEdge(v2, v0, trimesh.TriangulationEdge)
	require.NoError(t, err)
	tri, err := m.NewTriangle(e0, e1, e2, v0, v1, v2, true)
	require.NoError(t, err)

	// e0 is clearly longest and may be returned despite being POLYGON.
	assert.Equal(t, e0, m.LongestEdge(tri, 1e-9))

	// The alternative picks the edge not containing the middle vertex of
	// the nearly collinear triple, which is e0 as well.
	assert.Equal(t, e0, m.LongestEdgeAlt(tri))
}

func TestWriters(t *testing.T) {
	m := newInitialMesh(t, nil)

	t.Run("dat", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, m.WritePolygonDat(&sb))
		out := sb.String()
		assert.True(t, strings.HasPrefix(out, "\"outer polygon\""))
		// The first vertex is repeated at the end, so a ring of n
		// vertices prints n+1 coordinate lines.
		lines := strings.Count(strings.TrimSpace(out), "\n")
		assert.Equal(t, m.RingSize(0)+1, lines)
	})

	t.Run("line", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, m.WritePolygonLine(&sb))
		assert.True(t, strings.HasPrefix(sb.String(), "21\n"))
	})

	t.Run("graphml", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, m.WriteTriangulation(&sb))
		out := sb.String()
		assert.Contains(t, out, "<graphml")
		assert.Contains(t, out, "</graphml>")
		assert.Contains(t, out, "<node")
		assert.Contains(t, out, "<edge")
	})
}

func TestDirectedEdgeLength(t *testing.T) {
	m := newInitialMesh(t, nil)

	v := m.RingVertex(0, 0)
	found := false
	for i := 0; i < 16; i++ {
		alpha := -math.Pi + 2*math.Pi*float64(i)/16
		if l := m.DirectedEdgeLength(v, alpha); l > 0 {
			found = true
			assert.Less(t, l, 2*m.Settings().BoxSize)
		}
	}
	assert.True(t, found, "no direction points into the triangle fan")
}

func TestMediumEdgeLength(t *testing.T) {
	m := newInitialMesh(t, nil)
	v := m.RingVertex(0, 0)
	l := m.MediumEdgeLength(v)
	assert.Greater(t, l, 0.0)
	assert.Less(t, l, 3*m.Settings().BoxSize)
}
