package transform

import (
	"math"

	"github.com/cgalab/genpoly-fpg/exitcode"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

// subPolygonKind selects the triangulation scheme of a sub-polygon.
type subPolygonKind int

const (
	// starShaped polygons are triangulated by ear clipping around a
	// kernel point that sees the whole boundary.
	starShaped subPolygonKind = iota
	// edgeVisible polygons are triangulated from a base edge every
	// vertex can see.
	edgeVisible
)

// chainVertex and chainEdge form the alternating doubly-linked boundary
// chain of a sub-polygon under retriangulation.
type chainVertex struct {
	v     trimesh.VertexID
	prevE *chainEdge
	nextE *chainEdge
}

type chainEdge struct {
	e     trimesh.EdgeID
	prevV *chainVertex
	nextV *chainVertex
}

// subPolygon is the boundary of one region emptied by a retriangulation
// translation. It is built strictly alternating vertex, edge, vertex and
// closed with a final edge back to the start vertex.
type subPolygon struct {
	m    *trimesh.Mesh
	kind subPolygonKind

	start  *chainVertex
	lastV  *chainVertex
	lastE  *chainEdge
	n      int
	closed bool

	kernel    trimesh.Pt
	hasKernel bool
	internal  bool
}

func newSubPolygon(m *trimesh.Mesh, kind subPolygonKind, internal bool) *subPolygon {
	return &subPolygon{m: m, kind: kind, internal: internal}
}

func (p *subPolygon) addVertex(v trimesh.VertexID) error {
	if p.closed {
		return exitcode.Errorf(exitcode.PolygonBuild, "sub-polygon has already been closed")
	}
	if p.n != 0 && p.lastV != nil {
		return exitcode.Errorf(exitcode.PolygonBuild,
			"sub-polygon chain broken: two vertices next to each other")
	}

	entry := &chainVertex{v: v, prevE: p.lastE}
	if p.n == 0 {
		p.start = entry
	} else {
		p.lastE.nextV = entry
	}
	p.lastV = entry
	p.lastE = nil
	p.n++
	return nil
}

func (p *subPolygon) addEdge(e trimesh.EdgeID) error {
	if p.closed {
		return exitcode.Errorf(exitcode.PolygonBuild, "sub-polygon has already been closed")
	}
	if p.n == 0 {
		return exitcode.Errorf(exitcode.PolygonBuild,
			"sub-polygon chain broken: must not start with an edge")
	}
	if p.lastE != nil {
		return exitcode.Errorf(exitcode.PolygonBuild,
			"sub-polygon chain broken: two edges next to each other")
	}

	entry := &chainEdge{e: e, prevV: p.lastV}
	p.lastV.nextE = entry
	p.lastV = nil
	p.lastE = entry
	return nil
}

// close completes the chain with the edge running from the last vertex back
// to the start vertex. For edge-visible polygons this is the base edge.
func (p *subPolygon) close(e trimesh.EdgeID) error {
	if p.n < 3 {
		return exitcode.Errorf(exitcode.PolygonBuild,
			"sub-polygon chain broken: less than three vertices")
	}
	if p.lastE != nil {
		return exitcode.Errorf(exitcode.PolygonBuild,
			"sub-polygon chain broken: two edges next to each other")
	}

	entry := &chainEdge{e: e, prevV: p.lastV, nextV: p.start}
	p.lastV.nextE = entry
	p.start.prevE = entry
	p.lastV = nil
	p.closed = true
	return nil
}

func (p *subPolygon) setKernel(k trimesh.Pt) {
	p.kernel = k
	p.hasKernel = true
}

func (p *subPolygon) triangulate() error {
	if p.kind == starShaped {
		if !p.hasKernel {
			return exitcode.Errorf(exitcode.StarWithoutKernel,
				"star-shaped sub-polygon can not be triangulated without a kernel point")
		}
		return p.triangulateStar()
	}
	return p.triangulateVisible()
}

// triangulateStar clips ears off the chain. An ear at v1 may be clipped if
// it is convex, seen from the kernel side, and does not contain the
// kernel. After each clip the window backs up one vertex, as the clip may
// have made the previous vertex convex.
func (p *subPolygon) triangulateStar() error {
	m := p.m

	v0 := p.start
	e0 := v0.nextE
	v1 := e0.nextV
	e1 := v1.nextE
	v2 := e1.nextV

	for p.n > 3 {
		p0 := m.VertexPt(v0.v)
		p1 := m.VertexPt(v1.v)
		p2 := m.VertexPt(v2.v)

		area := m.SignedAreaPts(p0, p1, p2)
		convex := area != 0 &&
			math.Signbit(area) == math.Signbit(m.SignedAreaPts(p0, p1, p.kernel))
		inside := m.InsideTrianglePts(p0, p1, p2, p.kernel)

		if convex && !inside {
			newEdge, err := m.NewEdge(v0.v, v2.v, trimesh.TriangulationEdge)
			if err != nil {
				return err
			}
			if _, err := m.NewTriangle(e0.e, e1.e, newEdge,
				v0.v, v1.v, v2.v, p.internal); err != nil {
				return err
			}

			e1 = &chainEdge{e: newEdge, prevV: v0, nextV: v2}
			v0.nextE = e1
			v2.prevE = e1

			v1 = v0
			e0 = v1.prevE
			v0 = e0.prevV

			p.n--
		} else {
			v0 = v1
			e0 = e1
			v1 = v2
			e1 = v1.nextE
			v2 = e1.nextV
		}
	}

	e2 := v2.nextE
	_, err := p.m.NewTriangle(e0.e, e1.e, e2.e, v0.v, v1.v, v2.v, p.internal)
	p.n = 0
	return err
}

// triangulateVisible clips convex ears off the chain of a polygon whose
// vertices all see the base edge. The base edge's endpoints are always
// convex, which fixes which determinant sign marks a convex vertex.
func (p *subPolygon) triangulateVisible() error {
	m := p.m

	v0 := p.start
	e0 := v0.nextE
	v1 := e0.nextV
	e1 := v1.nextE
	v2 := e1.nextV

	additional := p.start.prevE.prevV
	referenceDet := m.SignedAreaPts(
		m.VertexPt(additional.v), m.VertexPt(v0.v), m.VertexPt(v1.v))

	for p.n > 3 {
		area := m.SignedAreaPts(m.VertexPt(v0.v), m.VertexPt(v1.v), m.VertexPt(v2.v))

		if v1 != p.start && math.Signbit(area) == math.Signbit(referenceDet) {
			newEdge, err := m.NewEdge(v0.v, v2.v, trimesh.TriangulationEdge)
			if err != nil {
				return err
			}
			if _, err := m.NewTriangle(e0.e, e1.e, newEdge,
				v0.v, v1.v, v2.v, p.internal); err != nil {
				return err
			}

			e1 = &chainEdge{e: newEdge, prevV: v0, nextV: v2}
			v0.nextE = e1
			v2.prevE = e1

			v1 = v0
			e0 = v1.prevE
			v0 = e0.prevV

			p.n--
		} else {
			v0 = v1
			e0 = e1
			v1 = v2
			e1 = v1.nextE
			v2 = e1.nextV
		}
	}

	e2 := v2.nextE
	_, err := p.m.NewTriangle(e0.e, e1.e, e2.e, v0.v, v1.v, v2.v, p.internal)
	p.n = 0
	return err
}
