package trimesh

import (
	"math"

	"github.com/cgalab/genpoly-fpg/exitcode"
	"github.com/cgalab/genpoly-fpg/rtree"
)

// Check verifies the structural invariants of the whole triangulation:
// each frame edge carries exactly one triangle and every other edge exactly
// two, no edge connects a vertex with itself, every polygon vertex is linked
// to a previous and a next polygon edge, and every vertex lies strictly
// inside its surrounding polygon. It is a no-op unless global checking is
// enabled.
func (m *Mesh) Check() error {
	if !m.set.GlobalChecking {
		return nil
	}

	for id := 1; id < len(m.edges); id++ {
		rec := &m.edges[id]
		if !rec.alive {
			continue
		}
		n := rec.triangleCount()
		if rec.kind == FrameEdge {
			if n != 1 {
				return exitcode.Errorf(exitcode.StageCheck,
					"frame edge %d has %d triangles", id, n)
			}
		} else if n != 2 {
			return exitcode.Errorf(exitcode.StageCheck,
				"%v edge %d has %d triangles", rec.kind, id, n)
		}
		if rec.v0 == rec.v1 {
			return exitcode.Errorf(exitcode.StageCheck,
				"edge %d connects vertex %d with itself", id, rec.v0)
		}
	}

	for _, r := range m.rings {
		for _, v := range r.vertices {
			if err := m.CheckVertex(v); err != nil {
				return err
			}
			inside, err := m.CheckSurroundingPolygon(v)
			if err != nil {
				return err
			}
			if !inside {
				return exitcode.Errorf(exitcode.StageCheck,
					"vertex %d is outside of its surrounding polygon", m.vertex(v).uid)
			}
		}
	}

	return nil
}

// Rings at least this large are checked with an edge index instead of the
// quadratic scan.
const simplicityIndexThreshold = 64

// CheckSimplicity tests each ring for self-intersections, skipping for each
// polygon edge the two neighbors sharing a vertex with it. It uses the
// precise classifier, so intersections are reported only when the
// orientation signs say so exactly. Small rings use the plain quadratic
// scan, large ones an R-tree over the edge bounding boxes.
func (m *Mesh) CheckSimplicity() error {
	for _, r := range m.rings {
		var err error
		if len(r.vertices) >= simplicityIndexThreshold {
			err = m.checkRingSimplicityIndexed(r)
		} else {
			err = m.checkRingSimplicity(r)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Mesh) checkRingSimplicityIndexed(r *Ring) error {
	n := len(r.vertices)

	// The ring's edges in chain order, so neighborship is index adjacency.
	edges := make([]EdgeID, 0, n)
	v := r.vertices[0]
	for i := 0; i < n; i++ {
		edges = append(edges, m.ToNext(v))
		v = m.NextVertex(v)
	}

	var tree rtree.RTree
	boxes := make([]rtree.Box, n)
	for i, e := range edges {
		s := m.EdgeSeg(e)
		boxes[i] = rtree.Box{
			MinX: math.Min(s.A.X, s.B.X),
			MinY: math.Min(s.A.Y, s.B.Y),
			MaxX: math.Max(s.A.X, s.B.X),
			MaxY: math.Max(s.A.Y, s.B.Y),
		}
		tree.Insert(boxes[i], i)
	}

	for i, e := range edges {
		err := tree.RangeSearch(boxes[i], func(j int) error {
			// Each unordered pair once, chain neighbors excluded.
			if j <= i || j == i+1 || (i == 0 && j == n-1) {
				return nil
			}
			if kind := m.IntersectEdges(e, edges[j], true); kind != NoIntersection {
				return exitcode.Errorf(exitcode.NonSimple,
					"polygon %d self-intersects: edges %d and %d (%d)",
					r.id, e, edges[j], kind)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Mesh) checkRingSimplicity(r *Ring) error {
	size := len(r.vertices)
	if size < 4 {
		return nil
	}

	v := r.vertices[0]
	toCheck := m.ToNext(v)
	u := m.NextVertex(v)

	// Each edge is compared with all edges after it except its direct
	// successor, so the first edge sees size-3 others and the counts
	// decrease from there.
	n := size - 3
	n++
	i := 1
	for n > 0 {
		u = m.NextVertex(u)
		other := m.ToNext(u)
		w := u

		for i < n {
			if kind := m.IntersectEdges(toCheck, other, true); kind != NoIntersection {
				return exitcode.Errorf(exitcode.NonSimple,
					"polygon %d self-intersects: edges %d and %d (%d)",
					r.id, toCheck, other, kind)
			}
			w = m.NextVertex(w)
			other = m.ToNext(w)
			i++
		}
		i = 0
		n--

		v = m.NextVertex(v)
		toCheck = m.ToNext(v)
	}
	return nil
}
