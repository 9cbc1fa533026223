// Package exitcode defines the fixed taxonomy of fatal error codes the
// generator aborts with. The codes are stable across releases so scripted
// callers can distinguish failure classes.
package exitcode

import "fmt"

const (
	// CircleEdge signals an edge whose two endpoints are the same vertex.
	CircleEdge = 1
	// VertexOnEdgeAfterMove signals a vertex lying exactly on a polygon
	// edge after a translation that could not be repaired.
	VertexOnEdgeAfterMove = 2
	// PolygonEdgeFlip signals an attempt to flip a polygon edge.
	PolygonEdgeFlip = 3
	// TriangleOverflow signals a third triangle registered at an edge.
	TriangleOverflow = 4
	// DuplicateTriangle signals two triangles sharing all three edges.
	DuplicateTriangle = 5
	// SurroundingPolygonCheck signals a moved vertex outside its
	// surrounding polygon at the end of a translation.
	SurroundingPolygonCheck = 6
	// VertexOnEdgeAtStart signals a vertex on a polygon edge when a
	// translation starts.
	VertexOnEdgeAtStart = 7
	// VertexStillLinked signals deletion of a vertex that still has
	// incident edges or triangles.
	VertexStillLinked = 8
	// StageCheck signals a failed inter-stage integrity check.
	StageCheck = 9
	// VertexOnEdgeInCheck signals a vertex on a polygon edge found during
	// a surrounding-polygon check.
	VertexOnEdgeInCheck = 10
	// NonSimple signals a non-simple polygon found by the global check.
	NonSimple = 11
	// BadRingID signals an insert with an invalid ring id.
	BadRingID = 12
	// ConfigType signals a malformed configuration value.
	ConfigType = 13
	// ConfigValidation signals an inconsistent configuration.
	ConfigValidation = 14
	// PolygonBuild signals a malformed sub-polygon chain.
	PolygonBuild = 15
	// StarWithoutKernel signals a star-shaped retriangulation requested
	// without a kernel point.
	StarWithoutKernel = 16
	// SelectionTree signals a corrupted selection tree.
	SelectionTree = 17
)

// Error is a fatal failure carrying the process exit code it maps to.
type Error struct {
	Code int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (exit code %d)", e.Msg, e.Code)
}

// Errorf builds a fatal error with the given code.
func Errorf(code int, format string, args ...interface{}) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}
