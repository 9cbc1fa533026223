package transform

import (
	"math"

	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

// builder wraps a mesh with a sticky error so the long entity-creation
// sequences of the initial triangulation read linearly.
type builder struct {
	m   *trimesh.Mesh
	err error
}

func (b *builder) vertex(p geom.XY, ring int) trimesh.VertexID {
	if b.err != nil {
		return 0
	}
	v := b.m.NewVertex(p)
	b.err = b.m.AddVertexToRing(v, ring)
	return v
}

func (b *builder) edge(v0, v1 trimesh.VertexID, kind trimesh.EdgeKind) trimesh.EdgeID {
	if b.err != nil {
		return 0
	}
	e, err := b.m.NewEdge(v0, v1, kind)
	b.err = err
	return e
}

func (b *builder) triangle(e0, e1, e2 trimesh.EdgeID, v0, v1, v2 trimesh.VertexID, internal bool) trimesh.TriangleID {
	if b.err != nil {
		return 0
	}
	t, err := b.m.NewTriangle(e0, e1, e2, v0, v1, v2, internal)
	b.err = err
	return t
}

// BuildInitialPolygon distributes the start vertices regularly on a circle,
// triangulates the polygon interior (plain zig-zag, or with the requested
// holes pre-seeded), and boxes everything with the bounding square.
func BuildInitialPolygon(m *trimesh.Mesh) error {
	set := m.Settings()
	b := &builder{m: m}

	alpha := 2 * math.Pi / float64(set.InitialSize)
	for i := 0; i < set.InitialSize; i++ {
		b.vertex(geom.XY{
			X: set.RadiusPolygon * math.Cos(float64(i)*alpha),
			Y: set.RadiusPolygon * math.Sin(float64(i)*alpha),
		}, 0)
	}

	if set.NrOfHoles == 0 || !set.HoleInsertionAtStart {
		b.zigZag()
	} else {
		b.holeTriangle()
		for i := 1; i < set.NrOfHoles; i++ {
			b.splitHoleTriangle()
		}
	}

	b.boxPolygon()
	return b.err
}

// zigZag triangulates the interior of the regular polygon by alternately
// clipping a vertex from the low and the high end of the index range, which
// keeps the triangles fat.
func (b *builder) zigZag() {
	m := b.m
	n := m.Settings().InitialSize

	v0 := m.RingVertex(0, 0)
	v1 := m.RingVertex(0, n-1)
	e0 := b.edge(v1, v0, trimesh.PolygonEdge)

	var v2 trimesh.VertexID
	var e1, e2 trimesh.EdgeID

	for i := 0; i < n-2; i++ {
		if i%2 == 0 {
			v2 = v1
			v1 = m.RingVertex(0, i/2+1)

			e2 = e0
			e0 = b.edge(v0, v1, trimesh.PolygonEdge)
			e1 = b.edge(v1, v2, trimesh.TriangulationEdge)

			b.triangle(e0, e1, e2, v0, v1, v2, true)
		} else {
			v0 = v1
			v1 = m.RingVertex(0, n-i/2-2)

			e2 = e1
			e0 = b.edge(v0, v1, trimesh.TriangulationEdge)
			e1 = b.edge(v1, v2, trimesh.PolygonEdge)

			b.triangle(e0, e1, e2, v0, v1, v2, true)
		}
	}

	// The last triangulation edge doubles as the closing polygon edge.
	// Which one that is depends on the parity of the vertex count.
	if b.err == nil {
		if n%2 == 0 {
			m.SetEdgeKind(e0, trimesh.PolygonEdge, false)
		} else {
			m.SetEdgeKind(e1, trimesh.PolygonEdge, false)
		}
	}
}

// holeTriangle places a triangular hole in the middle of the start polygon
// and triangulates the ring between hole and polygon by fanning each third
// of the outer vertices to the nearest hole corner.
func (b *builder) holeTriangle() {
	m := b.m
	set := m.Settings()
	n := set.InitialSize

	ring := m.AddInnerRing(set.InnerSizes[0])

	alpha := 2 * math.Pi / 3
	h0 := b.vertex(geom.XY{X: set.RadiusHole}, ring)
	h1 := b.vertex(geom.XY{
		X: set.RadiusHole * math.Cos(alpha),
		Y: set.RadiusHole * math.Sin(alpha),
	}, ring)
	h2 := b.vertex(geom.XY{
		X: set.RadiusHole * math.Cos(2*alpha),
		Y: set.RadiusHole * math.Sin(2*alpha),
	}, ring)

	// First third, fanned to the first hole corner.
	v0 := m.RingVertex(0, 0)
	v1 := m.RingVertex(0, 1)

	e0 := b.edge(v0, v1, trimesh.PolygonEdge)
	e1 := b.edge(v0, h0, trimesh.TriangulationEdge)
	e2 := b.edge(v1, h0, trimesh.TriangulationEdge)
	start := e1

	b.triangle(e0, e1, e2, v0, v1, h0, true)

	i := 2
	for ; i <= n/3; i++ {
		v0 = v1
		v1 = m.RingVertex(0, i)

		e0 = b.edge(v0, v1, trimesh.PolygonEdge)
		e1 = e2
		e2 = b.edge(v1, h0, trimesh.TriangulationEdge)

		b.triangle(e0, e1, e2, v0, v1, h0, true)
	}

	// Connect the first third with the second one.
	e0 = b.edge(h1, h0, trimesh.PolygonEdge)
	e1 = e2
	e2 = b.edge(v1, h1, trimesh.TriangulationEdge)
	b.triangle(e0, e1, e2, v1, h0, h1, true)
	holeE0 := e0

	for ; i <= 2*n/3; i++ {
		v0 = v1
		v1 = m.RingVertex(0, i)

		e0 = b.edge(v0, v1, trimesh.PolygonEdge)
		e1 = e2
		e2 = b.edge(v1, h1, trimesh.TriangulationEdge)

		b.triangle(e0, e1, e2, v0, v1, h1, true)
	}

	// Connect the second third with the third one.
	e0 = b.edge(h2, h1, trimesh.PolygonEdge)
	e1 = e2
	e2 = b.edge(v1, h2, trimesh.TriangulationEdge)
	b.triangle(e0, e1, e2, v1, h1, h2, true)
	holeE1 := e0

	for ; i <= n-1; i++ {
		v0 = v1
		v1 = m.RingVertex(0, i)

		e0 = b.edge(v0, v1, trimesh.PolygonEdge)
		e1 = e2
		e2 = b.edge(v1, h2, trimesh.TriangulationEdge)

		b.triangle(e0, e1, e2, v0, v1, h2, true)
	}

	// Close the hole ring and the outer polygon.
	e0 = b.edge(h0, h2, trimesh.PolygonEdge)
	e1 = e2
	e2 = b.edge(v1, h0, trimesh.TriangulationEdge)
	b.triangle(e0, e1, e2, v1, h2, h0, true)
	holeE2 := e0

	b.triangle(holeE0, holeE1, holeE2, h0, h1, h2, false)

	e0 = b.edge(v1, m.RingVertex(0, 0), trimesh.PolygonEdge)
	b.triangle(e0, e2, start, v1, m.RingVertex(0, 0), h0, true)
}

// splitHoleTriangle splits the latest triangular hole into two triangular
// holes. It can be applied successively to seed more than two holes.
func (b *builder) splitHoleTriangle() {
	if b.err != nil {
		return
	}
	m := b.m
	set := m.Settings()

	n := m.InnerRingCount()

	v0 := m.RingVertex(n, 0)
	v1 := m.RingVertex(n, 1)
	v2 := m.RingVertex(n, 2)
	e0 := m.EdgeBetween(v0, v1)
	e1 := m.EdgeBetween(v1, v2)
	e2 := m.EdgeBetween(v2, v0)

	t := m.TriangleWith(v0, v1, v2)

	// Remember the apexes of the neighbor triangles that die with the
	// two removed edges.
	t0 := m.EdgeOtherTriangle(e0, t)
	t1 := m.EdgeOtherTriangle(e2, t)
	store0 := m.TriangleOtherVertex(t0, e0)
	store1 := m.TriangleOtherVertex(t1, e2)

	m.RemoveEdge(e0)
	m.RemoveEdge(e2)

	p0 := m.Pos(v0)
	p1 := m.Pos(v1)
	p2 := m.Pos(v2)

	m.AddInnerRing(set.InnerSizes[n])

	// Rebuild the old hole with a fresh third corner.
	n2 := b.vertex(geom.XY{
		X: math.Abs(p0.X-p1.X)/4 + p1.X,
		Y: (p1.Y + p2.Y) / 2,
	}, n)

	p1e0 := b.edge(v1, n2, trimesh.PolygonEdge)
	p1e1 := b.edge(n2, v2, trimesh.PolygonEdge)
	b.triangle(p1e0, p1e1, e1, v1, v2, n2, false)

	// The shared corner moves to the new hole.
	if b.err == nil {
		b.err = m.MoveVertexToRing(0, n, n+1)
	}

	n0 := b.vertex(geom.XY{
		X: 2*math.Abs(p0.X-p1.X)/3 + p1.X,
		Y: p1.Y / 3,
	}, n+1)
	n1 := b.vertex(geom.XY{
		X: 2*math.Abs(p0.X-p2.X)/3 + p2.X,
		Y: p2.Y / 3,
	}, n+1)

	p2e0 := b.edge(n0, v0, trimesh.PolygonEdge)
	p2e1 := b.edge(n1, n0, trimesh.PolygonEdge)
	p2e2 := b.edge(v0, n1, trimesh.PolygonEdge)
	b.triangle(p2e0, p2e1, p2e2, v0, n0, n1, false)

	// Retriangulate the area around the two holes.
	h0 := b.edge(store1, n1, trimesh.TriangulationEdge)
	h1 := m.EdgeBetween(v0, store1)
	b.triangle(h0, h1, p2e2, v0, store1, n1, true)

	h1 = b.edge(n1, v2, trimesh.TriangulationEdge)
	h2 := m.EdgeBetween(store1, v2)
	b.triangle(h0, h1, h2, store1, n1, v2, true)

	h0 = b.edge(store0, n0, trimesh.TriangulationEdge)
	h1 = m.EdgeBetween(v0, store0)
	b.triangle(h0, h1, p2e0, v0, store0, n0, true)

	h1 = b.edge(n0, v1, trimesh.TriangulationEdge)
	h2 = m.EdgeBetween(store0, v1)
	b.triangle(h0, h1, h2, store0, n0, v1, true)

	h0 = b.edge(n1, n2, trimesh.TriangulationEdge)
	h1 = b.edge(n0, n2, trimesh.TriangulationEdge)
	b.triangle(h0, h1, p2e1, n0, n1, n2, true)

	b.triangle(h0, m.EdgeBetween(n1, v2), m.EdgeBetween(n2, v2), n1, n2, v2, true)
	b.triangle(h1, m.EdgeBetween(n0, v1), m.EdgeBetween(n2, v1), n0, n2, v1, true)
}

// boxPolygon surrounds the polygon with a square and triangulates the area
// between polygon and square by fanning each quadrant of the circle to the
// nearest box corner.
func (b *builder) boxPolygon() {
	if b.err != nil {
		return
	}
	m := b.m
	set := m.Settings()
	n := set.InitialSize
	half := set.BoxSize / 2

	rv0 := m.NewVertex(geom.XY{X: half, Y: half})
	rv1 := m.NewVertex(geom.XY{X: -half, Y: half})
	rv2 := m.NewVertex(geom.XY{X: -half, Y: -half})
	rv3 := m.NewVertex(geom.XY{X: half, Y: -half})
	m.SetFrame(rv0, rv1, rv2, rv3)

	re0 := b.edge(rv0, rv1, trimesh.FrameEdge)
	re1 := b.edge(rv1, rv2, trimesh.FrameEdge)
	re2 := b.edge(rv2, rv3, trimesh.FrameEdge)
	re3 := b.edge(rv3, rv0, trimesh.FrameEdge)

	limit0 := (n + 1) / 4
	limit1 := n / 2
	limit2 := 3 * n / 4

	v0 := m.RingVertex(0, 0)
	start := b.edge(v0, rv0, trimesh.TriangulationEdge)
	prev := start

	i := 1
	for ; i <= limit0; i++ {
		v1 := m.RingVertex(0, i)
		next := b.edge(v1, rv0, trimesh.TriangulationEdge)
		b.triangle(prev, m.EdgeBetween(v0, v1), next, v0, v1, rv0, false)
		v0 = v1
		prev = next
	}

	next := b.edge(v0, rv1, trimesh.TriangulationEdge)
	b.triangle(prev, next, re0, v0, rv0, rv1, false)
	prev = next

	for ; i <= limit1; i++ {
		v1 := m.RingVertex(0, i)
		next = b.edge(v1, rv1, trimesh.TriangulationEdge)
		b.triangle(prev, m.EdgeBetween(v0, v1), next, v0, v1, rv1, false)
		v0 = v1
		prev = next
	}

	next = b.edge(v0, rv2, trimesh.TriangulationEdge)
	b.triangle(prev, next, re1, v0, rv1, rv2, false)
	prev = next

	for ; i <= limit2; i++ {
		v1 := m.RingVertex(0, i)
		next = b.edge(v1, rv2, trimesh.TriangulationEdge)
		b.triangle(prev, m.EdgeBetween(v0, v1), next, v0, v1, rv2, false)
		v0 = v1
		prev = next
	}

	next = b.edge(v0, rv3, trimesh.TriangulationEdge)
	b.triangle(prev, next, re2, v0, rv2, rv3, false)
	prev = next

	for ; i < n; i++ {
		v1 := m.RingVertex(0, i)
		next = b.edge(v1, rv3, trimesh.TriangulationEdge)
		b.triangle(prev, m.EdgeBetween(v0, v1), next, v0, v1, rv3, false)
		v0 = v1
		prev = next
	}

	v1 := m.RingVertex(0, 0)
	next = b.edge(v1, rv3, trimesh.TriangulationEdge)
	b.triangle(prev, m.EdgeBetween(v0, v1), next, v0, v1, rv3, false)
	b.triangle(next, start, re3, v1, rv0, rv3, false)
}
