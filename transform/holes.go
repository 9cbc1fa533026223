package transform

import (
	"math"

	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

// InsertHole carves a new hole ring with the given target size into a
// randomly selected internal triangle. The hole is the triangle shrunk by
// half towards its centroid; the triangle's interior outside the hole gets
// retriangulated with six internal triangles, the hole itself is covered
// by one non-internal triangle.
func (tr *Transformer) InsertHole(target int) error {
	m := tr.mesh

	t, err := m.RandomInternalTriangleWeighted(tr.rng.Float64())
	if err != nil {
		return err
	}

	vs := m.TriangleVertices(t)
	// The boundary edges in ring order of the triangle's vertices.
	var outer [3]trimesh.EdgeID
	for i := 0; i < 3; i++ {
		outer[i] = m.EdgeBetween(vs[i], vs[(i+1)%3])
	}

	m.RemoveTriangle(t)

	ring := m.AddInnerRing(target)

	centroid := m.Pos(vs[0]).Add(m.Pos(vs[1])).Add(m.Pos(vs[2])).Scale(1.0 / 3.0)
	var hole [3]trimesh.VertexID
	for i := 0; i < 3; i++ {
		hole[i] = m.NewVertex(m.Pos(vs[i]).Mid(centroid))
		if err := m.AddVertexToRing(hole[i], ring); err != nil {
			return err
		}
	}

	var holeE [3]trimesh.EdgeID
	for i := 0; i < 3; i++ {
		holeE[i], err = m.NewEdge(hole[i], hole[(i+1)%3], trimesh.PolygonEdge)
		if err != nil {
			return err
		}
	}

	// The hole interior stays triangulated but is no longer part of the
	// polygon body.
	if _, err := m.NewTriangle(holeE[0], holeE[1], holeE[2],
		hole[0], hole[1], hole[2], false); err != nil {
		return err
	}

	var spoke [3]trimesh.EdgeID
	for i := 0; i < 3; i++ {
		spoke[i], err = m.NewEdge(vs[i], hole[i], trimesh.TriangulationEdge)
		if err != nil {
			return err
		}
	}

	// Each third of the surrounding band gets one diagonal and two
	// triangles.
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		diag, err := m.NewEdge(vs[i], hole[j], trimesh.TriangulationEdge)
		if err != nil {
			return err
		}
		if _, err := m.NewTriangle(spoke[i], holeE[i], diag,
			vs[i], hole[i], hole[j], true); err != nil {
			return err
		}
		if _, err := m.NewTriangle(diag, outer[i], spoke[j],
			vs[i], vs[j], hole[j], true); err != nil {
			return err
		}
	}

	return nil
}

// InflateHole tries to grow the hole ring outward. One attempt per hole
// vertex: a random ring vertex is pushed along its outward normal, with a
// small angular jitter so repeated passes do not retrace each other.
func (tr *Transformer) InflateHole(ring int) error {
	m := tr.mesh
	n := m.RingSize(ring)

	for i := 0; i < n; i++ {
		v := m.RingVertex(ring, tr.rng.Intn(n))

		alpha := m.NormalDirectionOutside(v) + (tr.rng.Float64()-0.5)*math.Pi/6
		if alpha > math.Pi {
			alpha -= 2 * math.Pi
		} else if alpha <= -math.Pi {
			alpha += 2 * math.Pi
		}

		stddev := m.DirectedEdgeLength(v, alpha)
		r := tr.rng.NormFloat64()*stddev/6 + stddev/2

		d := geom.XY{X: r * math.Cos(alpha), Y: r * math.Sin(alpha)}
		if _, err := tr.TranslateVertex(v, d); err != nil {
			return err
		}
	}
	return nil
}

// ShrinkAroundHole tries to pull the surroundings of the hole ring closer.
// One attempt per hole vertex: a random ring vertex v is picked, and the
// offset-th vertex of another ring among its neighbors is moved halfway
// towards v.
func (tr *Transformer) ShrinkAroundHole(ring, offset int) error {
	m := tr.mesh
	n := m.RingSize(ring)

	for i := 0; i < n; i++ {
		v := m.RingVertex(ring, tr.rng.Intn(n))

		var candidates []trimesh.VertexID
		surrounding := m.SurroundingVertices(v)
		for _, w := range surrounding[:len(surrounding)-1] {
			if m.IsFrameVertex(w) || m.VertexRing(w) == ring {
				continue
			}
			candidates = append(candidates, w)
		}
		if len(candidates) == 0 {
			continue
		}
		w := candidates[offset%len(candidates)]

		d := m.Pos(v).Sub(m.Pos(w)).Scale(0.5)
		if _, err := tr.TranslateVertex(w, d); err != nil {
			return err
		}
	}
	return nil
}
