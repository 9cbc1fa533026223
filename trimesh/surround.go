package trimesh

import (
	"math"

	"github.com/cgalab/genpoly-fpg/exitcode"
	"github.com/cgalab/genpoly-fpg/geom"
)

// SurroundingEdges returns, for each triangle incident to v, the edge of
// that triangle not incident to v. Together these edges form the
// surrounding polygon of v.
func (m *Mesh) SurroundingEdges(v VertexID) []EdgeID {
	vr := m.vertex(v)
	out := make([]EdgeID, 0, len(vr.triangles))
	for _, t := range vr.triangles {
		out = append(out, m.TriangleEdgeNotContaining(t, v))
	}
	return out
}

// SurroundingVertices returns the vertices of the surrounding polygon of v
// in cyclic order, with the first vertex repeated at the end.
func (m *Mesh) SurroundingVertices(v VertexID) []VertexID {
	vr := m.vertex(v)
	t0 := vr.triangles[0]

	var out []VertexID
	e := m.TriangleEdgeContaining(t0, v)
	out = append(out, m.EdgeOtherVertex(e, v))

	e = m.TriangleOtherEdgeContaining(t0, v, e)
	out = append(out, m.EdgeOtherVertex(e, v))

	t := m.EdgeOtherTriangle(e, t0)
	for t != t0 {
		e = m.TriangleOtherEdgeContaining(t, v, e)
		out = append(out, m.EdgeOtherVertex(e, v))
		t = m.EdgeOtherTriangle(e, t)
	}
	return out
}

// CheckSurroundingPolygon examines whether v still lies strictly inside its
// surrounding polygon, by comparing the orientation of every fan triangle
// (w_i, w_i+1, v) against the first non-degenerate one. A vertex lying
// exactly on a polygon edge of the surrounding polygon is a hard error.
func (m *Mesh) CheckSurroundingPolygon(v VertexID) (bool, error) {
	verts := m.SurroundingVertices(v)
	pv := m.VertexPt(v)

	first, second := verts[0], verts[1]
	area0 := m.SignedAreaPts(m.VertexPt(first), m.VertexPt(second), pv)
	if area0 == 0 {
		if err := m.zeroAreaEdgeCheck(v, first, second); err != nil {
			return false, err
		}
	}

	for i := 2; i < len(verts); i++ {
		first, second = second, verts[i]
		area := m.SignedAreaPts(m.VertexPt(first), m.VertexPt(second), pv)
		if area == 0 {
			if err := m.zeroAreaEdgeCheck(v, first, second); err != nil {
				return false, err
			}
			continue
		}
		if math.Signbit(area) != math.Signbit(area0) {
			if area0 == 0 {
				area0 = area
				continue
			}
			return false, nil
		}
	}
	return true, nil
}

// zeroAreaEdgeCheck handles a fan triangle of exactly zero area: the vertex
// lies on the line of the surrounding edge. That is tolerable for
// triangulation edges but fatal for polygon edges.
func (m *Mesh) zeroAreaEdgeCheck(v, first, second VertexID) error {
	t := m.triangleWith(v, first, second)
	if t == 0 {
		return nil
	}
	e := m.LongestEdgeAlt(t)
	if m.edge(e).kind == PolygonEdge {
		return exitcode.Errorf(exitcode.VertexOnEdgeInCheck,
			"vertex %d lies exactly on a polygon edge", v)
	}
	return nil
}

// triangleWith returns the incident triangle of v formed with v0 and v1,
// or 0.
// TriangleWith returns the triangle spanned by the three vertices, or 0.
func (m *Mesh) TriangleWith(v, v0, v1 VertexID) TriangleID {
	return m.triangleWith(v, v0, v1)
}

func (m *Mesh) triangleWith(v, v0, v1 VertexID) TriangleID {
	for _, t := range m.vertex(v).triangles {
		if m.TriangleContainsVertex(t, v0) && m.TriangleContainsVertex(t, v1) {
			return t
		}
	}
	return 0
}

// MediumEdgeLength returns the mean length of the incident edges of v.
func (m *Mesh) MediumEdgeLength(v VertexID) float64 {
	vr := m.vertex(v)
	sum := 0.0
	for _, e := range vr.edges {
		sum += m.EdgeLength(e)
	}
	return sum / float64(len(vr.edges))
}

// DirectedEdgeLength estimates how far v can move in direction alpha: the
// mean length of the incident edges of the triangle lying in that
// direction. If no triangle matches, the negated medium edge length is
// returned so the caller can detect the miss.
func (m *Mesh) DirectedEdgeLength(v VertexID, alpha float64) float64 {
	for _, t := range m.vertex(v).triangles {
		if l := m.TriangleRange(t, v, alpha); l > 0 {
			return l
		}
	}
	return -m.MediumEdgeLength(v)
}

// InsideAngle returns the interior angle of the polygon at v.
func (m *Mesh) InsideAngle(v VertexID) float64 {
	vr := m.vertex(v)
	prev := m.EdgeOtherVertex(vr.toPrev, v)
	next := m.EdgeOtherVertex(vr.toNext, v)

	alpha0 := math.Abs(m.edgeAngle(vr.toPrev, v))
	alpha1 := math.Abs(m.edgeAngle(vr.toNext, v))

	y := vr.pos.Y
	if y-m.vertex(prev).pos.Y < 0 {
		if m.vertex(next).pos.Y-y < 0 {
			return alpha0 + alpha1
		}
		if alpha1 > alpha0 {
			return 2*math.Pi - (alpha1 - alpha0)
		}
		return alpha0 - alpha1
	}
	if m.vertex(next).pos.Y-y < 0 {
		if alpha1 > alpha0 {
			return alpha1 - alpha0
		}
		return 2*math.Pi - (alpha0 - alpha1)
	}
	return 2*math.Pi - alpha0 - alpha1
}

// NormalDirectionOutside returns the direction normal to the ring boundary
// at v pointing away from the ring's body, in (-pi, pi].
func (m *Mesh) NormalDirectionOutside(v VertexID) float64 {
	vr := m.vertex(v)
	prev := m.EdgeOtherVertex(vr.toPrev, v)
	next := m.EdgeOtherVertex(vr.toNext, v)
	mid := m.vertex(prev).pos.Mid(m.vertex(next).pos)

	d := vr.pos.Sub(mid)
	if d.Length() == 0 {
		// Neighbors straddle v symmetrically; use the perpendicular of
		// the chord instead.
		c := m.vertex(next).pos.Sub(m.vertex(prev).pos)
		d = geom.XY{X: -c.Y, Y: c.X}
	}
	return math.Atan2(d.Y, d.X)
}

// DistanceToOrigin returns the Euclidean distance of v to the origin.
func (m *Mesh) DistanceToOrigin(v VertexID) float64 {
	return m.vertex(v).pos.Length()
}

// CheckVertex verifies the polygon-edge links of a single ring vertex.
func (m *Mesh) CheckVertex(v VertexID) error {
	vr := m.vertex(v)
	if vr.ring == frameRing {
		return nil
	}
	n := 0
	for _, e := range vr.edges {
		if m.edge(e).kind == PolygonEdge {
			n++
		}
	}
	if n != 2 || vr.toPrev == 0 || vr.toNext == 0 {
		return exitcode.Errorf(exitcode.StageCheck,
			"vertex %d has %d polygon edges", v, n)
	}
	if m.edge(vr.toPrev).kind != PolygonEdge || m.edge(vr.toNext).kind != PolygonEdge {
		return exitcode.Errorf(exitcode.StageCheck,
			"ring links of vertex %d are not polygon edges", v)
	}
	return nil
}
