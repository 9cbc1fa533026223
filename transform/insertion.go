package transform

import (
	"math"

	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/settings"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

// insertion places a new vertex at the midpoint of one polygon edge. The
// edge and its two triangles are replaced by a fan of four triangles
// around the new vertex, which afterwards gets moved off the old edge by
// a series of random translation attempts.
type insertion struct {
	tr   *Transformer
	m    *trimesh.Mesh
	ring int
	e    trimesh.EdgeID
	v0   trimesh.VertexID
	v1   trimesh.VertexID
	newV trimesh.VertexID
}

func (tr *Transformer) newInsertion(e trimesh.EdgeID) *insertion {
	m := tr.mesh
	return &insertion{
		tr:   tr,
		m:    m,
		ring: m.EdgeRing(e),
		e:    e,
		v0:   m.EdgeV0(e),
		v1:   m.EdgeV1(e),
	}
}

// checkStability reports whether the midpoint insertion is numerically
// safe. The edge must not be shorter than MinLength, and with plain double
// determinants both adjacent triangles must have an area of at least
// MinDetInsertion.
func (ins *insertion) checkStability() bool {
	m := ins.m
	if m.EdgeLength(ins.e) < m.Settings().MinLength {
		return false
	}
	if m.Settings().Arithmetic == settings.Double {
		t0, t1 := m.EdgeTriangles(ins.e)
		if math.Abs(m.SignedArea(t0)) < settings.MinDetInsertion {
			return false
		}
		if math.Abs(m.SignedArea(t1)) < settings.MinDetInsertion {
			return false
		}
	}
	return true
}

// execute replaces the edge by the new midpoint vertex: two polygon edges
// along the ring, one triangulation edge to the far vertex of each old
// triangle, and the four triangles of the emptied quadrilateral. The
// internal flags of the old triangles carry over to their halves.
func (ins *insertion) execute() error {
	m := ins.m

	mid := m.Pos(ins.v0).Mid(m.Pos(ins.v1))
	newV := m.NewVertex(mid)
	if err := m.AddVertexToRing(newV, ins.ring); err != nil {
		return err
	}
	ins.newV = newV

	t0, t1 := m.EdgeTriangles(ins.e)
	other0 := m.TriangleOtherVertex(t0, ins.e)
	other1 := m.TriangleOtherVertex(t1, ins.e)
	internal0 := m.IsInternal(t0)
	internal1 := m.IsInternal(t1)

	m.RemoveEdge(ins.e)

	toOther00 := m.EdgeBetween(ins.v0, other0)
	toOther01 := m.EdgeBetween(ins.v0, other1)
	toOther10 := m.EdgeBetween(ins.v1, other0)
	toOther11 := m.EdgeBetween(ins.v1, other1)

	fromV0, err := m.NewEdge(ins.v0, newV, trimesh.PolygonEdge)
	if err != nil {
		return err
	}
	fromV1, err := m.NewEdge(newV, ins.v1, trimesh.PolygonEdge)
	if err != nil {
		return err
	}
	toNew0, err := m.NewEdge(newV, other0, trimesh.TriangulationEdge)
	if err != nil {
		return err
	}
	toNew1, err := m.NewEdge(newV, other1, trimesh.TriangulationEdge)
	if err != nil {
		return err
	}

	if _, err := m.NewTriangle(fromV0, toOther00, toNew0,
		ins.v0, newV, other0, internal0); err != nil {
		return err
	}
	if _, err := m.NewTriangle(fromV0, toOther01, toNew1,
		ins.v0, newV, other1, internal1); err != nil {
		return err
	}
	if _, err := m.NewTriangle(fromV1, toOther10, toNew0,
		ins.v1, newV, other0, internal0); err != nil {
		return err
	}
	if _, err := m.NewTriangle(fromV1, toOther11, toNew1,
		ins.v1, newV, other1, internal1); err != nil {
		return err
	}

	ins.tr.stats.Insertions++
	return nil
}

// translate tries to move the new vertex off the old edge. Up to
// InsertionTries random directions are attempted; the first translation
// that moves the vertex ends the search. A vertex that cannot be moved
// simply stays at the midpoint.
func (ins *insertion) translate() error {
	tr := ins.tr
	m := ins.m

	for try := 0; try < m.Settings().InsertionTries; try++ {
		tr.stats.InsertionTries++

		alpha := -math.Pi + 2*math.Pi*tr.rng.Float64()
		stddev := m.DirectedEdgeLength(ins.newV, alpha)
		r := tr.rng.NormFloat64()*stddev/6 + stddev/2

		d := geom.XY{X: r * math.Cos(alpha), Y: r * math.Sin(alpha)}
		out, err := tr.TranslateVertex(ins.newV, d)
		if err != nil {
			return err
		}
		if out == Full || out == Partial {
			return nil
		}
	}

	tr.log.Debugw("no suitable translation after insertion",
		"vertex", ins.newV, "ring", ins.ring)
	return nil
}
