package trimesh

import (
	"math"

	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/settings"
)

// IntersectPts classifies the intersection of the segments (a0, a1) and
// (b0, b1). An endpoint whose orientation against the other segment is
// within epsilon of zero and that lies inside the other segment's bounding
// rectangle yields VertexIntersection; a proper sign change on both sides
// yields EdgeIntersection. With precise set, epsilon is zero, so only an
// exact zero (trustworthy in Exact arithmetic) counts as an endpoint hit.
func (m *Mesh) IntersectPts(a0, a1, b0, b1 Pt, precise bool) IntersectionKind {
	eps := settings.EpsInt
	if precise {
		eps = 0
	}

	oB0 := m.SignedAreaPts(a0, a1, b0)
	oB1 := m.SignedAreaPts(a0, a1, b1)
	oA0 := m.SignedAreaPts(b0, b1, a0)
	oA1 := m.SignedAreaPts(b0, b1, a1)

	segA := geom.Seg{A: a0.XY, B: a1.XY}
	segB := geom.Seg{A: b0.XY, B: b1.XY}

	if math.Abs(oB0) <= eps && segA.InBoundingRect(b0.XY) {
		return VertexIntersection
	}
	if math.Abs(oB1) <= eps && segA.InBoundingRect(b1.XY) {
		return VertexIntersection
	}
	if math.Abs(oA0) <= eps && segB.InBoundingRect(a0.XY) {
		return VertexIntersection
	}
	if math.Abs(oA1) <= eps && segB.InBoundingRect(a1.XY) {
		return VertexIntersection
	}

	if math.Signbit(oB0) != math.Signbit(oB1) && math.Signbit(oA0) != math.Signbit(oA1) {
		return EdgeIntersection
	}
	return NoIntersection
}

// IntersectEdges classifies the intersection of two mesh edges.
func (m *Mesh) IntersectEdges(e0, e1 EdgeID, precise bool) IntersectionKind {
	r0, r1 := m.edge(e0), m.edge(e1)
	return m.IntersectPts(
		m.VertexPt(r0.v0), m.VertexPt(r0.v1),
		m.VertexPt(r1.v0), m.VertexPt(r1.v1), precise)
}

// IntersectEdgeSeg classifies the intersection of a mesh edge with a
// free-standing segment given by two ordering points.
func (m *Mesh) IntersectEdgeSeg(e EdgeID, s0, s1 Pt, precise bool) IntersectionKind {
	rec := m.edge(e)
	return m.IntersectPts(m.VertexPt(rec.v0), m.VertexPt(rec.v1), s0, s1, precise)
}
