package trimesh

import (
	"math"

	"github.com/cgalab/genpoly-fpg/exitcode"
	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/settings"
)

// SignedAreaPts returns twice the signed area of the triangle (a, b, c),
// evaluated with the configured arithmetic. In Double mode the operands are
// ordered by uid before the determinant so the result is identical for
// every permutation of the same three points; the sign is fixed by the
// parity of the permutation.
func (m *Mesh) SignedAreaPts(a, b, c Pt) float64 {
	if m.set.Arithmetic == settings.Exact {
		return geom.Orient2D(a.XY, b.XY, c.XY)
	}
	return signedAreaDouble(a, b, c)
}

func signedAreaDouble(a, b, c Pt) float64 {
	switch {
	case a.UID < b.UID && a.UID < c.UID:
		if b.UID < c.UID {
			return geom.Det(a.XY, b.XY, c.XY)
		}
		return -geom.Det(a.XY, c.XY, b.XY)
	case b.UID < a.UID && b.UID < c.UID:
		if a.UID < c.UID {
			return -geom.Det(b.XY, a.XY, c.XY)
		}
		return geom.Det(b.XY, c.XY, a.XY)
	default:
		if a.UID < b.UID {
			return geom.Det(c.XY, a.XY, b.XY)
		}
		return -geom.Det(c.XY, b.XY, a.XY)
	}
}

// SignedArea returns twice the signed area of a mesh triangle.
func (m *Mesh) SignedArea(t TriangleID) float64 {
	rec := m.triangle(t)
	return m.SignedAreaPts(m.VertexPt(rec.v[0]), m.VertexPt(rec.v[1]), m.VertexPt(rec.v[2]))
}

// InsideTrianglePts reports whether p lies inside the triangle (a, b, c),
// decided by comparing the signs of the three sub-triangle areas.
func (m *Mesh) InsideTrianglePts(a, b, c, p Pt) bool {
	area0 := m.SignedAreaPts(a, b, p)
	area1 := m.SignedAreaPts(b, c, p)
	if math.Signbit(area0) != math.Signbit(area1) {
		return false
	}
	area1 = m.SignedAreaPts(c, a, p)
	return math.Signbit(area0) == math.Signbit(area1)
}

// CollapseTime returns the time t in the translation of moving by (d.X,
// d.Y) at which the triangle's area passes zero. Times outside [0, 1] mean
// the triangle does not collapse during the translation. Plain
// floating-point arithmetic is used regardless of the configured mode.
func (m *Mesh) CollapseTime(t TriangleID, moving VertexID, d geom.XY) float64 {
	rec := m.triangle(t)
	if !m.TriangleContainsVertex(t, moving) {
		return -1
	}

	c := m.vertex(moving).pos
	var a, b geom.XY
	switch moving {
	case rec.v[0]:
		a, b = m.vertex(rec.v[1]).pos, m.vertex(rec.v[2]).pos
	case rec.v[1]:
		a, b = m.vertex(rec.v[0]).pos, m.vertex(rec.v[2]).pos
	default:
		a, b = m.vertex(rec.v[0]).pos, m.vertex(rec.v[1]).pos
	}

	// Shift a to the origin.
	b = b.Sub(a)
	c = c.Sub(a)
	e := c.Add(d)

	areaOld := c.X*b.Y - c.Y*b.X
	areaNew := b.X*e.Y - b.Y*e.X

	portion := areaNew / areaOld
	return 1 / (portion + 1)
}

// LongestEdge returns the longest edge of t by Euclidean length. If the
// longest edge is POLYGON and the second longest is within epsilon of its
// length, the second longest is returned instead.
func (m *Mesh) LongestEdge(t TriangleID, epsilon float64) EdgeID {
	rec := m.triangle(t)
	type el struct {
		e EdgeID
		l float64
	}
	es := [3]el{}
	for i, e := range rec.e {
		es[i] = el{e, m.EdgeLength(e)}
	}
	if es[1].l > es[0].l {
		es[0], es[1] = es[1], es[0]
	}
	if es[2].l > es[0].l {
		es[0], es[2] = es[2], es[0]
	}
	if es[2].l > es[1].l {
		es[1], es[2] = es[2], es[1]
	}
	longest, second := es[0], es[1]
	if m.edge(longest.e).kind == PolygonEdge && longest.l-epsilon <= second.l {
		return second.e
	}
	return longest.e
}

// LongestEdgeAlt finds the longest edge of a nearly collinear triangle by
// coordinate comparison: the longest edge is the one not containing the
// middle vertex. Falls back to LongestEdge if no middle vertex can be
// identified.
func (m *Mesh) LongestEdgeAlt(t TriangleID) EdgeID {
	rec := m.triangle(t)
	for _, e := range rec.e {
		v := m.TriangleOtherVertex(t, e)
		if m.EdgeSeg(e).IsBetween(m.vertex(v).pos) {
			return e
		}
	}
	return m.LongestEdge(t, 0.0001)
}

// TriangleRange reports whether the triangle lies in direction alpha seen
// from its vertex v, and if so estimates how far v can move in that
// direction as the mean length of its two incident triangle edges.
// Returns -1 when alpha does not point into the triangle.
func (m *Mesh) TriangleRange(t TriangleID, v VertexID, alpha float64) float64 {
	rec := m.triangle(t)
	var e, f EdgeID
	switch {
	case !m.EdgeContains(rec.e[0], v):
		e, f = rec.e[1], rec.e[2]
	case !m.EdgeContains(rec.e[1], v):
		e, f = rec.e[0], rec.e[2]
	default:
		e, f = rec.e[0], rec.e[1]
	}

	alpha1 := m.edgeAngle(e, v)
	alpha2 := m.edgeAngle(f, v)
	if alpha1 < alpha2 {
		alpha1, alpha2 = alpha2, alpha1
		e, f = f, e
	}
	l := (m.EdgeLength(e) + m.EdgeLength(f)) / 2

	if alpha1-alpha2 <= math.Pi {
		if alpha <= alpha1 && alpha >= alpha2 {
			return l
		}
	} else {
		if alpha >= alpha1 || alpha <= alpha2 {
			return l
		}
	}
	return -1
}

// edgeAngle returns the direction of e seen from its endpoint v, in
// (-pi, pi].
func (m *Mesh) edgeAngle(e EdgeID, v VertexID) float64 {
	other := m.EdgeOtherVertex(e, v)
	d := m.vertex(other).pos.Sub(m.vertex(v).pos)
	return math.Atan2(d.Y, d.X)
}

// triangleWeight is the selection weight of an internal triangle:
// (1 + k)^2 where k is the number of its outer-ring polygon edges.
func (m *Mesh) triangleWeight(t TriangleID) float64 {
	rec := m.triangle(t)
	n := 1
	for _, e := range rec.e {
		er := m.edge(e)
		if er.kind == PolygonEdge && m.vertex(er.v0).ring == 0 {
			n++
		}
	}
	return float64(n * n)
}

// UpdateEdgeWeight refreshes the selector weight of a polygon edge after
// one of its endpoints moved.
func (m *Mesh) UpdateEdgeWeight(e EdgeID) {
	rec := m.edge(e)
	if rec.slot >= 0 && rec.ring >= 0 {
		m.rings[rec.ring].edges.Update(rec.slot, m.edgeSeg(rec).Length())
	}
}

// UpdateTriangleWeight refreshes the selector weight of an internal
// triangle.
func (m *Mesh) UpdateTriangleWeight(t TriangleID) {
	rec := m.triangle(t)
	if rec.slot >= 0 {
		m.internalTris.Update(rec.slot, m.triangleWeight(t))
	}
}

// RandomEdgeWeighted samples a polygon edge of the ring with probability
// proportional to its length. u must come from [0, 1).
func (m *Mesh) RandomEdgeWeighted(ring int, u float64) (EdgeID, error) {
	tree := m.rings[ring].edges
	item, ok := tree.Sample(u * tree.TotalWeight())
	if !ok {
		return 0, exitcode.Errorf(exitcode.SelectionTree,
			"edge selection on empty tree for ring %d", ring)
	}
	return EdgeID(item), nil
}

// RandomInternalTriangleWeighted samples an internal triangle with
// probability proportional to its polygon-incidence weight. u must come
// from [0, 1).
func (m *Mesh) RandomInternalTriangleWeighted(u float64) (TriangleID, error) {
	item, ok := m.internalTris.Sample(u * m.internalTris.TotalWeight())
	if !ok {
		return 0, exitcode.Errorf(exitcode.SelectionTree,
			"internal triangle selection on empty tree")
	}
	return TriangleID(item), nil
}
