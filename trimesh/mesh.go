package trimesh

import (
	"github.com/cgalab/genpoly-fpg/exitcode"
	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/seltree"
	"github.com/cgalab/genpoly-fpg/settings"
)

// Ring is one connected polygonal boundary: the outer boundary (id 0) or a
// hole (id 1..k). It records its vertices in construction order and keeps a
// length-weighted selection tree over its polygon edges.
type Ring struct {
	id       int
	vertices []VertexID
	edges    *seltree.Tree
	target   int
}

// Target returns the ring's target vertex count.
func (r *Ring) Target() int {
	return r.target
}

// Mesh owns every vertex, edge and triangle of the constrained
// triangulation, the polygon rings, the internal-triangle selector, and the
// four bounding-box corners. All cross-references between entities are
// arena handles, never pointers.
type Mesh struct {
	set *settings.Settings

	// Arenas, 1-indexed; slot 0 stands for "nil". Edge and triangle
	// slots freed by destruction are reused.
	vertices  []vertexRecord
	edges     []edgeRecord
	triangles []triangleRecord

	freeEdges     []EdgeID
	freeTriangles []TriangleID

	nextUID int64

	rings        []*Ring
	internalTris *seltree.Tree
	frame        [4]VertexID
}

// NewMesh creates an empty mesh with the outer ring installed.
func NewMesh(set *settings.Settings) *Mesh {
	m := &Mesh{
		set:          set,
		vertices:     make([]vertexRecord, 1),
		edges:        make([]edgeRecord, 1),
		triangles:    make([]triangleRecord, 1),
		internalTris: seltree.New(true),
	}
	m.rings = []*Ring{{id: 0, edges: seltree.New(true), target: set.OuterSize}}
	return m
}

// Settings returns the run configuration the mesh was built with.
func (m *Mesh) Settings() *settings.Settings {
	return m.set
}

func (m *Mesh) vertex(v VertexID) *vertexRecord {
	return &m.vertices[v]
}

func (m *Mesh) edge(e EdgeID) *edgeRecord {
	return &m.edges[e]
}

func (m *Mesh) triangle(t TriangleID) *triangleRecord {
	return &m.triangles[t]
}

// NextUID reserves a fresh ordering uid without creating a vertex. The
// translation helpers use this for their unregistered start and target
// copies of the moving vertex.
func (m *Mesh) NextUID() int64 {
	uid := m.nextUID
	m.nextUID++
	return uid
}

// NewVertex creates a vertex at p belonging to no ring yet.
func (m *Mesh) NewVertex(p geom.XY) VertexID {
	m.vertices = append(m.vertices, vertexRecord{
		uid:   m.NextUID(),
		pos:   p,
		ring:  frameRing,
		alive: true,
	})
	return VertexID(len(m.vertices) - 1)
}

// AddVertexToRing registers v as a member of the given ring.
func (m *Mesh) AddVertexToRing(v VertexID, ring int) error {
	if ring < 0 || ring >= len(m.rings) {
		return exitcode.Errorf(exitcode.BadRingID,
			"insertion of vertex %d into not existing polygon with id %d", v, ring)
	}
	m.vertex(v).ring = ring
	r := m.rings[ring]
	r.vertices = append(r.vertices, v)
	return nil
}

// MoveVertexToRing removes the vertex at index i of ring from and appends
// it to ring to.
func (m *Mesh) MoveVertexToRing(i, from, to int) error {
	if from < 0 || from >= len(m.rings) || to < 0 || to >= len(m.rings) {
		return exitcode.Errorf(exitcode.BadRingID,
			"moving a vertex between polygons %d and %d", from, to)
	}
	src := m.rings[from]
	if i < 0 || i >= len(src.vertices) {
		return exitcode.Errorf(exitcode.BadRingID,
			"no vertex at index %d of polygon %d", i, from)
	}
	v := src.vertices[i]
	src.vertices = append(src.vertices[:i], src.vertices[i+1:]...)
	m.vertex(v).ring = to
	m.rings[to].vertices = append(m.rings[to].vertices, v)
	return nil
}

// AddInnerRing installs a new hole ring with the given target size and
// returns its ring id.
func (m *Mesh) AddInnerRing(target int) int {
	id := len(m.rings)
	m.rings = append(m.rings, &Ring{id: id, edges: seltree.New(true), target: target})
	return id
}

// SetFrame records the four bounding-box corners, in the order
// top-right, top-left, bottom-left, bottom-right.
func (m *Mesh) SetFrame(v0, v1, v2, v3 VertexID) {
	m.frame = [4]VertexID{v0, v1, v2, v3}
	for _, v := range m.frame {
		m.vertex(v).ring = frameRing
	}
}

// Frame returns the four bounding-box corners.
func (m *Mesh) Frame() [4]VertexID {
	return m.frame
}

// RingCount returns the number of rings including the outer one.
func (m *Mesh) RingCount() int {
	return len(m.rings)
}

// InnerRingCount returns the number of holes.
func (m *Mesh) InnerRingCount() int {
	return len(m.rings) - 1
}

// Ring returns the ring with the given id.
func (m *Mesh) Ring(ring int) *Ring {
	return m.rings[ring]
}

// RingSize returns the actual number of vertices of the ring.
func (m *Mesh) RingSize(ring int) int {
	return len(m.rings[ring].vertices)
}

// RingVertex returns the i-th vertex of the ring in construction order,
// with i taken modulo the ring size.
func (m *Mesh) RingVertex(ring, i int) VertexID {
	r := m.rings[ring]
	return r.vertices[i%len(r.vertices)]
}

// VertexCount returns the total number of ring vertices.
func (m *Mesh) VertexCount() int {
	n := 0
	for _, r := range m.rings {
		n += len(r.vertices)
	}
	return n
}

// VertexAt returns the i-th ring vertex counting across the outer ring and
// then the holes in order.
func (m *Mesh) VertexAt(i int) VertexID {
	for _, r := range m.rings {
		if i < len(r.vertices) {
			return r.vertices[i]
		}
		i -= len(r.vertices)
	}
	return 0
}

// NewEdge creates an edge between two distinct vertices and registers it at
// both. Polygon edges are directed v0 -> v1 along their ring: they become
// toNext of v0 and toPrev of v1, and enter the ring's selection tree when
// weighted edge selection is enabled.
func (m *Mesh) NewEdge(v0, v1 VertexID, kind EdgeKind) (EdgeID, error) {
	if v0 == v1 {
		return 0, exitcode.Errorf(exitcode.CircleEdge,
			"edge with identical endpoints at vertex %d", v0)
	}

	var e EdgeID
	if n := len(m.freeEdges); n > 0 {
		e = m.freeEdges[n-1]
		m.freeEdges = m.freeEdges[:n-1]
	} else {
		m.edges = append(m.edges, edgeRecord{})
		e = EdgeID(len(m.edges) - 1)
	}
	*m.edge(e) = edgeRecord{v0: v0, v1: v1, kind: kind, ring: frameRing, slot: -1, alive: true}

	m.vertex(v0).edges = append(m.vertex(v0).edges, e)
	m.vertex(v1).edges = append(m.vertex(v1).edges, e)

	if kind == PolygonEdge {
		m.linkPolygonEdge(e)
	}
	return e, nil
}

// linkPolygonEdge installs the ring links and selector entry of a polygon
// edge.
func (m *Mesh) linkPolygonEdge(e EdgeID) {
	rec := m.edge(e)
	m.vertex(rec.v0).toNext = e
	m.vertex(rec.v1).toPrev = e
	rec.ring = m.vertex(rec.v0).ring
	if m.set.WeightedEdgeSelection && rec.ring >= 0 && rec.slot < 0 {
		rec.slot = m.rings[rec.ring].edges.Insert(int64(e), m.edgeSeg(rec).Length())
	}
}

// SetEdgeKind changes the kind of an edge. A temporary change (used by the
// simplicity walk to re-label the moving vertex's polygon edges) touches
// only the kind; a permanent promotion to POLYGON also installs ring links
// and the selector entry. Permanently demoting a polygon edge is not
// supported.
func (m *Mesh) SetEdgeKind(e EdgeID, kind EdgeKind, temp bool) {
	rec := m.edge(e)
	rec.kind = kind
	if !temp && kind == PolygonEdge {
		m.linkPolygonEdge(e)
	}
}

// RemoveEdge destroys an edge. Incident triangles are destroyed first, then
// the edge deregisters from its endpoints, its ring links, and its selector
// entry.
func (m *Mesh) RemoveEdge(e EdgeID) {
	rec := m.edge(e)
	if rec.t0 != 0 {
		m.RemoveTriangle(rec.t0)
	}
	if rec.t1 != 0 {
		m.RemoveTriangle(rec.t1)
	}

	for _, v := range [2]VertexID{rec.v0, rec.v1} {
		vr := m.vertex(v)
		vr.edges = removeEdgeID(vr.edges, e)
		if vr.toPrev == e {
			vr.toPrev = 0
		}
		if vr.toNext == e {
			vr.toNext = 0
		}
	}

	if rec.slot >= 0 && rec.ring >= 0 {
		m.rings[rec.ring].edges.Remove(rec.slot)
	}
	rec.alive = false
	rec.slot = -1
	m.freeEdges = append(m.freeEdges, e)
}

// NewTriangle creates a triangle from three edges and the correspondingly
// ordered vertices and registers it everywhere. A second triangle over the
// same three edges and a third triangle on any edge are hard errors.
func (m *Mesh) NewTriangle(e0, e1, e2 EdgeID, v0, v1, v2 VertexID, internal bool) (TriangleID, error) {
	if v0 == v1 || v0 == v2 || v1 == v2 {
		return 0, exitcode.Errorf(exitcode.DuplicateTriangle,
			"two vertices of the new triangle are identical")
	}

	var t TriangleID
	if n := len(m.freeTriangles); n > 0 {
		t = m.freeTriangles[n-1]
		m.freeTriangles = m.freeTriangles[:n-1]
	} else {
		m.triangles = append(m.triangles, triangleRecord{})
		t = TriangleID(len(m.triangles) - 1)
	}
	*m.triangle(t) = triangleRecord{
		v:        [3]VertexID{v0, v1, v2},
		e:        [3]EdgeID{e0, e1, e2},
		internal: internal,
		slot:     -1,
		alive:    true,
	}

	for _, e := range [3]EdgeID{e0, e1, e2} {
		if err := m.setEdgeTriangle(e, t); err != nil {
			return 0, err
		}
	}
	for _, v := range [3]VertexID{v0, v1, v2} {
		vr := m.vertex(v)
		vr.triangles = append(vr.triangles, t)
	}

	if other := m.EdgeOtherTriangle(e0, t); other != 0 {
		if m.TriangleContainsEdge(other, e1) && m.TriangleContainsEdge(other, e2) {
			return 0, exitcode.Errorf(exitcode.DuplicateTriangle,
				"the same triangle already exists")
		}
	}

	if internal && !m.set.HoleInsertionAtStart {
		m.triangle(t).slot = m.internalTris.Insert(int64(t), m.triangleWeight(t))
	}
	return t, nil
}

func (m *Mesh) setEdgeTriangle(e EdgeID, t TriangleID) error {
	rec := m.edge(e)
	switch {
	case rec.t0 == 0:
		rec.t0 = t
	case rec.t1 == 0:
		if rec.t0 == t {
			return exitcode.Errorf(exitcode.DuplicateTriangle,
				"triangle %d registered twice at edge %d", t, e)
		}
		rec.t1 = t
	default:
		return exitcode.Errorf(exitcode.TriangleOverflow,
			"third triangle at edge %d", e)
	}
	return nil
}

// RemoveTriangle destroys a triangle, deregistering it from its edges, its
// vertices, and the internal-triangle selector.
func (m *Mesh) RemoveTriangle(t TriangleID) {
	rec := m.triangle(t)
	for _, e := range rec.e {
		er := m.edge(e)
		if er.t0 == t {
			er.t0 = 0
		} else if er.t1 == t {
			er.t1 = 0
		}
	}
	for _, v := range rec.v {
		vr := m.vertex(v)
		vr.triangles = removeTriangleID(vr.triangles, t)
	}
	if rec.slot >= 0 {
		m.internalTris.Remove(rec.slot)
	}
	rec.alive = false
	rec.slot = -1
	m.freeTriangles = append(m.freeTriangles, t)
}

// RemoveVertex destroys a vertex. The vertex must be fully unlinked.
func (m *Mesh) RemoveVertex(v VertexID) error {
	vr := m.vertex(v)
	if len(vr.edges) > 0 || len(vr.triangles) > 0 {
		return exitcode.Errorf(exitcode.VertexStillLinked,
			"deleting vertex %d with %d edges and %d triangles",
			v, len(vr.edges), len(vr.triangles))
	}
	vr.alive = false
	return nil
}

func removeEdgeID(s []EdgeID, e EdgeID) []EdgeID {
	for i, x := range s {
		if x == e {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func removeTriangleID(s []TriangleID, t TriangleID) []TriangleID {
	for i, x := range s {
		if x == t {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
