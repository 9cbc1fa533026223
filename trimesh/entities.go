// Package trimesh implements the constrained triangulation the generator
// mutates: vertices, edges, and triangles held in arenas addressed by
// stable integer handles, the polygon rings living inside it, and the
// global integrity checks.
package trimesh

import "github.com/cgalab/genpoly-fpg/geom"

// Handles into the mesh arenas. 0 represents "nil" for all three.
type (
	VertexID   int
	EdgeID     int
	TriangleID int
)

// EdgeKind classifies an edge of the constrained triangulation.
type EdgeKind int

const (
	// PolygonEdge lies on the boundary of a ring.
	PolygonEdge EdgeKind = iota
	// FrameEdge lies on the bounding rectangle.
	FrameEdge
	// TriangulationEdge is any other edge.
	TriangulationEdge
)

func (k EdgeKind) String() string {
	switch k {
	case PolygonEdge:
		return "POLYGON"
	case FrameEdge:
		return "FRAME"
	default:
		return "TRIANGULATION"
	}
}

// frameRing marks the ring field of the four bounding-box corners.
const frameRing = -1

// vertexRecord is a vertex of the triangulation. The uid orders vertices
// by creation time and feeds the deterministic double-arithmetic
// determinant; it is distinct from the arena handle.
type vertexRecord struct {
	uid  int64
	pos  geom.XY
	ring int

	// toPrev and toNext are the two incident polygon edges, 0 iff the
	// vertex is a bounding-box corner.
	toPrev EdgeID
	toNext EdgeID

	edges     []EdgeID
	triangles []TriangleID
	alive     bool
}

// edgeRecord is an edge of the triangulation.
type edgeRecord struct {
	v0, v1 VertexID
	t0, t1 TriangleID
	kind   EdgeKind
	ring   int

	// slot is the handle of this edge's ring selection-tree entry, -1
	// when the edge has none.
	slot int

	// intersected is a transient mark owned by a single in-progress
	// translation.
	intersected bool

	alive bool
}

func (e *edgeRecord) triangleCount() int {
	n := 0
	if e.t0 != 0 {
		n++
	}
	if e.t1 != 0 {
		n++
	}
	return n
}

// triangleRecord is a triangle of the triangulation. Edge i is opposite
// vertex i is not guaranteed; the correlation the mesh maintains is the
// constructor ordering only.
type triangleRecord struct {
	v [3]VertexID
	e [3]EdgeID

	// internal is true iff the triangle lies in the polygon interior,
	// hole interiors counted as exterior.
	internal bool

	// enqueued is a transient mark owned by one translation's event queue.
	enqueued bool

	// slot is the handle of the internal-triangle selection-tree entry,
	// -1 when the triangle has none.
	slot int

	alive bool
}

// Pt is a position paired with the deterministic ordering uid of the vertex
// it represents. Translations use free-standing Pts for the start and
// target copies of the moving vertex without registering them in the mesh.
type Pt struct {
	UID int64
	XY  geom.XY
}

// IntersectionKind classifies how two segments intersect.
type IntersectionKind int

const (
	// NoIntersection means the segments are disjoint.
	NoIntersection IntersectionKind = iota
	// EdgeIntersection means the segments properly cross.
	EdgeIntersection
	// VertexIntersection means an endpoint of one segment lies on the
	// other segment.
	VertexIntersection
)
