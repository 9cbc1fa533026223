package trimesh

import "github.com/cgalab/genpoly-fpg/geom"

// Pos returns the position of a vertex.
func (m *Mesh) Pos(v VertexID) geom.XY {
	return m.vertex(v).pos
}

// SetPos moves a vertex. Selector weights of affected edges are not
// refreshed here; callers update them once the surrounding translation has
// settled.
func (m *Mesh) SetPos(v VertexID, p geom.XY) {
	m.vertex(v).pos = p
}

// VertexPt returns the vertex as an ordering point for determinants. The
// ordering id leaves a gap after every vertex so a translated phantom copy
// can slot in directly behind its source.
func (m *Mesh) VertexPt(v VertexID) Pt {
	vr := m.vertex(v)
	return Pt{UID: 2 * vr.uid, XY: vr.pos}
}

// TranslatedPt returns a phantom copy of v shifted by d. A nonzero shift
// orders the phantom directly after its source, a zero shift keeps the
// source's ordering id.
func (m *Mesh) TranslatedPt(v VertexID, d geom.XY) Pt {
	vr := m.vertex(v)
	uid := 2 * vr.uid
	if d.X != 0 || d.Y != 0 {
		uid++
	}
	return Pt{UID: uid, XY: vr.pos.Add(d)}
}

// VertexRing returns the ring a vertex belongs to, or -1 for a
// bounding-box corner.
func (m *Mesh) VertexRing(v VertexID) int {
	return m.vertex(v).ring
}

// IsFrameVertex reports whether v is a bounding-box corner.
func (m *Mesh) IsFrameVertex(v VertexID) bool {
	return m.vertex(v).ring == frameRing
}

// ToPrev returns the polygon edge arriving at v, 0 for frame corners.
func (m *Mesh) ToPrev(v VertexID) EdgeID {
	return m.vertex(v).toPrev
}

// ToNext returns the polygon edge leaving v, 0 for frame corners.
func (m *Mesh) ToNext(v VertexID) EdgeID {
	return m.vertex(v).toNext
}

// PrevVertex returns the ring predecessor of v.
func (m *Mesh) PrevVertex(v VertexID) VertexID {
	return m.EdgeOtherVertex(m.vertex(v).toPrev, v)
}

// NextVertex returns the ring successor of v.
func (m *Mesh) NextVertex(v VertexID) VertexID {
	return m.EdgeOtherVertex(m.vertex(v).toNext, v)
}

// VertexEdges returns the incident edges of v. The returned slice is the
// mesh's own; callers that mutate the mesh while iterating must copy it.
func (m *Mesh) VertexEdges(v VertexID) []EdgeID {
	return m.vertex(v).edges
}

// VertexTriangles returns the incident triangles of v, under the same
// aliasing caveat as VertexEdges.
func (m *Mesh) VertexTriangles(v VertexID) []TriangleID {
	return m.vertex(v).triangles
}

// EdgeBetween returns the edge connecting v0 and v1, or 0 if none exists.
func (m *Mesh) EdgeBetween(v0, v1 VertexID) EdgeID {
	for _, e := range m.vertex(v0).edges {
		if m.EdgeContains(e, v1) {
			return e
		}
	}
	return 0
}

// EdgeV0 returns the first endpoint of e.
func (m *Mesh) EdgeV0(e EdgeID) VertexID {
	return m.edge(e).v0
}

// EdgeV1 returns the second endpoint of e.
func (m *Mesh) EdgeV1(e EdgeID) VertexID {
	return m.edge(e).v1
}

// EdgeContains reports whether v is an endpoint of e.
func (m *Mesh) EdgeContains(e EdgeID, v VertexID) bool {
	rec := m.edge(e)
	return rec.v0 == v || rec.v1 == v
}

// EdgeOtherVertex returns the endpoint of e that is not v.
func (m *Mesh) EdgeOtherVertex(e EdgeID, v VertexID) VertexID {
	rec := m.edge(e)
	if rec.v0 == v {
		return rec.v1
	}
	return rec.v0
}

// EdgeKindOf returns the kind of e.
func (m *Mesh) EdgeKindOf(e EdgeID) EdgeKind {
	return m.edge(e).kind
}

// EdgeRing returns the ring of a polygon edge, -1 otherwise.
func (m *Mesh) EdgeRing(e EdgeID) int {
	return m.edge(e).ring
}

func (m *Mesh) edgeSeg(rec *edgeRecord) geom.Seg {
	return geom.Seg{A: m.vertex(rec.v0).pos, B: m.vertex(rec.v1).pos}
}

// EdgeSeg returns the segment spanned by e.
func (m *Mesh) EdgeSeg(e EdgeID) geom.Seg {
	return m.edgeSeg(m.edge(e))
}

// EdgeLength returns the Euclidean length of e.
func (m *Mesh) EdgeLength(e EdgeID) float64 {
	return m.EdgeSeg(e).Length()
}

// EdgeTriangles returns the incident triangles of e; absent ones are 0.
func (m *Mesh) EdgeTriangles(e EdgeID) (TriangleID, TriangleID) {
	rec := m.edge(e)
	return rec.t0, rec.t1
}

// EdgeAnyTriangle returns one incident triangle of e.
func (m *Mesh) EdgeAnyTriangle(e EdgeID) TriangleID {
	rec := m.edge(e)
	if rec.t0 != 0 {
		return rec.t0
	}
	return rec.t1
}

// EdgeOtherTriangle returns the incident triangle of e that is not t.
func (m *Mesh) EdgeOtherTriangle(e EdgeID, t TriangleID) TriangleID {
	rec := m.edge(e)
	if rec.t0 == t {
		return rec.t1
	}
	return rec.t0
}

// EdgeTriangleContaining returns the incident triangle of e that contains
// v, or 0 if none does.
func (m *Mesh) EdgeTriangleContaining(e EdgeID, v VertexID) TriangleID {
	rec := m.edge(e)
	if rec.t0 != 0 && m.TriangleContainsVertex(rec.t0, v) {
		return rec.t0
	}
	if rec.t1 != 0 && m.TriangleContainsVertex(rec.t1, v) {
		return rec.t1
	}
	return 0
}

// EdgeTriangleNotContaining returns the incident triangle of e that does
// not contain v, or 0 if both do.
func (m *Mesh) EdgeTriangleNotContaining(e EdgeID, v VertexID) TriangleID {
	rec := m.edge(e)
	if rec.t0 != 0 && !m.TriangleContainsVertex(rec.t0, v) {
		return rec.t0
	}
	if rec.t1 != 0 && !m.TriangleContainsVertex(rec.t1, v) {
		return rec.t1
	}
	return 0
}

// SetIntersected sets or clears the transient intersection mark of e.
func (m *Mesh) SetIntersected(e EdgeID, marked bool) {
	m.edge(e).intersected = marked
}

// IsIntersected returns the transient intersection mark of e.
func (m *Mesh) IsIntersected(e EdgeID) bool {
	return m.edge(e).intersected
}

// EdgeAlive reports whether the handle still names a live edge.
func (m *Mesh) EdgeAlive(e EdgeID) bool {
	return e != 0 && m.edge(e).alive
}

// TriangleVertices returns the three vertices of t in constructor order.
func (m *Mesh) TriangleVertices(t TriangleID) [3]VertexID {
	return m.triangle(t).v
}

// TriangleEdges returns the three edges of t in constructor order.
func (m *Mesh) TriangleEdges(t TriangleID) [3]EdgeID {
	return m.triangle(t).e
}

// TriangleContainsVertex reports whether v is a vertex of t.
func (m *Mesh) TriangleContainsVertex(t TriangleID, v VertexID) bool {
	rec := m.triangle(t)
	return rec.v[0] == v || rec.v[1] == v || rec.v[2] == v
}

// TriangleContainsEdge reports whether e is an edge of t.
func (m *Mesh) TriangleContainsEdge(t TriangleID, e EdgeID) bool {
	rec := m.triangle(t)
	return rec.e[0] == e || rec.e[1] == e || rec.e[2] == e
}

// TriangleOtherVertex returns the vertex of t not contained by its edge e.
func (m *Mesh) TriangleOtherVertex(t TriangleID, e EdgeID) VertexID {
	rec := m.triangle(t)
	for _, v := range rec.v {
		if !m.EdgeContains(e, v) {
			return v
		}
	}
	return 0
}

// TriangleEdgeNotContaining returns the edge of t not incident to v.
func (m *Mesh) TriangleEdgeNotContaining(t TriangleID, v VertexID) EdgeID {
	rec := m.triangle(t)
	for _, e := range rec.e {
		if !m.EdgeContains(e, v) {
			return e
		}
	}
	return 0
}

// TriangleEdgeContaining returns one edge of t incident to v.
func (m *Mesh) TriangleEdgeContaining(t TriangleID, v VertexID) EdgeID {
	rec := m.triangle(t)
	for _, e := range rec.e {
		if m.EdgeContains(e, v) {
			return e
		}
	}
	return 0
}

// TriangleOtherEdgeContaining returns the edge of t incident to v that is
// not e.
func (m *Mesh) TriangleOtherEdgeContaining(t TriangleID, v VertexID, e EdgeID) EdgeID {
	rec := m.triangle(t)
	for _, other := range rec.e {
		if other != e && m.EdgeContains(other, v) {
			return other
		}
	}
	return 0
}

// TriangleEdgeBetween returns the edge of t connecting v0 and v1, or 0.
func (m *Mesh) TriangleEdgeBetween(t TriangleID, v0, v1 VertexID) EdgeID {
	rec := m.triangle(t)
	for _, e := range rec.e {
		if m.EdgeContains(e, v0) && m.EdgeContains(e, v1) {
			return e
		}
	}
	return 0
}

// TriangleOtherEdges returns the two edges of t that are not e.
func (m *Mesh) TriangleOtherEdges(t TriangleID, e EdgeID) [2]EdgeID {
	rec := m.triangle(t)
	var out [2]EdgeID
	i := 0
	for _, other := range rec.e {
		if other != e {
			out[i] = other
			i++
		}
	}
	return out
}

// TriangleNotIntersectedEdge returns the first edge of t whose intersection
// mark is clear, or 0.
func (m *Mesh) TriangleNotIntersectedEdge(t TriangleID) EdgeID {
	rec := m.triangle(t)
	for _, e := range rec.e {
		if !m.edge(e).intersected {
			return e
		}
	}
	return 0
}

// IsInternal reports whether t lies in the polygon interior.
func (m *Mesh) IsInternal(t TriangleID) bool {
	return m.triangle(t).internal
}

// SetEnqueued sets or clears the event-queue mark of t.
func (m *Mesh) SetEnqueued(t TriangleID, enqueued bool) {
	m.triangle(t).enqueued = enqueued
}

// IsEnqueued returns the event-queue mark of t.
func (m *Mesh) IsEnqueued(t TriangleID) bool {
	return m.triangle(t).enqueued
}

// TriangleAlive reports whether the handle still names a live triangle.
func (m *Mesh) TriangleAlive(t TriangleID) bool {
	return t != 0 && m.triangle(t).alive
}
