package transform

import (
	"math"

	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/settings"
	"github.com/cgalab/genpoly-fpg/stats"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

// Outcome reports how far a translation got.
type Outcome int

const (
	// Full means the vertex reached its target position cleanly.
	Full Outcome = iota
	// Rejected means the translation was refused before any mutation.
	Rejected
	// Partial means the translation was aborted mid-way and the vertex
	// rests at an intermediate position.
	Partial
	// Undone means the translation was aborted and rolled back.
	Undone
)

func (o Outcome) String() string {
	switch o {
	case Full:
		return "FULL"
	case Rejected:
		return "REJECTED"
	case Partial:
		return "PARTIAL"
	default:
		return "UNDONE"
	}
}

// TranslationKind selects the execution engine of a translation.
type TranslationKind int

const (
	// Kinetic slides the vertex along its path and flips triangles as
	// they collapse.
	Kinetic TranslationKind = iota
	// Retriangulation removes the swept region wholesale and
	// retriangulates it around the moved vertex.
	Retriangulation
)

// splitPhase marks sub-translations of a decomposed translation.
type splitPhase int

const (
	phaseDefault splitPhase = iota
	phaseSplitPart1
	phaseSplitPart2
)

// span is a helper segment between two determinant-ordered points. It is a
// plain value, never registered with the mesh.
type span struct {
	a, b trimesh.Pt
}

// translation is the shared snapshot of one vertex move: the moving vertex,
// phantom copies of its start and target position, its ring neighbors and
// the four boundary segments of the translation quadrilateral.
type translation struct {
	tr   *Transformer
	m    *trimesh.Mesh
	kind TranslationKind

	v     trimesh.VertexID
	prevV trimesh.VertexID
	nextV trimesh.VertexID

	oldP trimesh.Pt
	newP trimesh.Pt
	d    geom.XY

	prevOldE trimesh.EdgeID
	nextOldE trimesh.EdgeID
	prevNewE span
	nextNewE span

	phase splitPhase

	// Kinetic state.
	split     bool
	queue     *eventQueue
	flipStack []flipRecord
	now       float64
}

func (tr *Transformer) newTranslation(v trimesh.VertexID, d geom.XY, kind TranslationKind, phase splitPhase) *translation {
	m := tr.mesh
	t := &translation{
		tr:    tr,
		m:     m,
		kind:  kind,
		v:     v,
		prevV: m.PrevVertex(v),
		nextV: m.NextVertex(v),
		oldP:  m.TranslatedPt(v, geom.XY{}),
		newP:  m.TranslatedPt(v, d),
		d:     d,
		phase: phase,
	}
	t.prevOldE = m.ToPrev(v)
	t.nextOldE = m.ToNext(v)
	t.prevNewE = span{a: m.VertexPt(t.prevV), b: t.newP}
	t.nextNewE = span{a: t.newP, b: m.VertexPt(t.nextV)}
	return t
}

// intersectSpanEdge classifies the intersection between a helper segment
// and a mesh edge.
func (t *translation) intersectSpanEdge(s span, e trimesh.EdgeID) trimesh.IntersectionKind {
	return t.m.IntersectEdgeSeg(e, s.a, s.b, false)
}

// insideQuadrilateral reports whether p lies inside the translation
// quadrilateral by counting ray crossings against its four sides. Any
// VERTEX-grade hit makes the answer false, which rejects the translation;
// with a grazing ray nothing can be said for sure.
func (t *translation) insideQuadrilateral(p trimesh.Pt) bool {
	m := t.m

	maxX := t.oldP.XY.X
	if t.newP.XY.X > maxX {
		maxX = t.newP.XY.X
	}
	if x := m.Pos(t.prevV).X; x > maxX {
		maxX = x
	}
	if x := m.Pos(t.nextV).X; x > maxX {
		maxX = x
	}
	if p.XY.X > maxX {
		return false
	}

	// A phantom far to the right of every quadrilateral corner. Its UID
	// only has to order after every real vertex.
	outside := trimesh.Pt{UID: math.MaxInt64, XY: geom.XY{X: maxX + 10, Y: p.XY.Y}}
	ray := span{a: p, b: outside}

	count := 0
	vertexInt := false

	classify := func(kind trimesh.IntersectionKind) {
		if kind == trimesh.VertexIntersection {
			vertexInt = true
		}
		if kind != trimesh.NoIntersection {
			count++
		}
	}

	classify(t.intersectSpanEdge(ray, t.prevOldE))
	classify(t.intersectSpanEdge(ray, t.nextOldE))
	classify(m.IntersectPts(ray.a, ray.b, t.prevNewE.a, t.prevNewE.b, false))
	classify(m.IntersectPts(ray.a, ray.b, t.nextNewE.a, t.nextNewE.b, false))

	if vertexInt {
		return false
	}
	return count%2 == 1
}

// checkEdge reports whether the helper segment newE starting at fromV
// reaches its far end without crossing any POLYGON or FRAME edge. It walks
// the triangulation triangle by triangle, starting at the surrounding
// polygon of fromV. Vertex-grade hits and multiple crossings inside one
// triangle count as failure.
func (t *translation) checkEdge(fromV trimesh.VertexID, newE span) bool {
	m := t.m
	st := t.tr.stats

	st.NrChecks++
	st.NrTriangles++

	surEdges := m.SurroundingEdges(fromV)
	st.RecordSPSize(len(surEdges))

	count := 0
	var intersected trimesh.EdgeID
	for _, e := range surEdges {
		switch t.intersectSpanEdge(newE, e) {
		case trimesh.VertexIntersection:
			return false
		case trimesh.EdgeIntersection:
			count++
			intersected = e
		}
	}

	if count == 0 {
		return true
	}
	if count > 1 {
		t.tr.log.Debugw("translation rejected: segment crosses multiple surrounding polygon edges",
			"vertex", fromV)
		return false
	}

	if m.EdgeKindOf(intersected) != trimesh.TriangulationEdge {
		return false
	}
	nextT := m.EdgeTriangleNotContaining(intersected, fromV)
	other := m.TriangleOtherEdges(nextT, intersected)

	passed := 2
	st.NrTriangles++

	for {
		kind0 := t.intersectSpanEdge(newE, other[0])
		kind1 := t.intersectSpanEdge(newE, other[1])

		if kind0 == trimesh.NoIntersection && kind1 == trimesh.NoIntersection {
			return true
		}
		if kind0 == trimesh.VertexIntersection || kind1 == trimesh.VertexIntersection {
			return false
		}
		if kind0 != trimesh.NoIntersection && kind1 != trimesh.NoIntersection {
			t.tr.log.Debugw("translation rejected: segment crosses multiple edges of one triangle",
				"vertex", fromV)
			return false
		}

		if kind0 != trimesh.NoIntersection {
			intersected = other[0]
		} else {
			intersected = other[1]
		}

		if m.EdgeKindOf(intersected) != trimesh.TriangulationEdge {
			return false
		}
		nextT = m.EdgeOtherTriangle(intersected, nextT)
		other = m.TriangleOtherEdges(nextT, intersected)

		passed++
		st.NrTriangles++
		st.RecordWalkLength(passed)
	}
}

// checkOrientation reports whether the translation would flip the ring's
// orientation or sweep it across another ring. For the kinetic engine a
// crossing that traps a hole between the two sweep triangles sets the split
// flag instead of rejecting.
func (t *translation) checkOrientation() bool {
	m := t.m

	prevP := m.VertexPt(t.prevV)
	nextP := m.VertexPt(t.nextV)
	ownRing := m.VertexRing(t.v)

	// A moving vertex can pass by a hole, never by the outer ring.
	for ring := 1; ring < m.RingCount(); ring++ {
		if ownRing == ring {
			continue
		}
		w := m.VertexPt(m.RingVertex(ring, 0))
		inside0 := m.InsideTrianglePts(t.oldP, t.newP, prevP, w)
		inside1 := m.InsideTrianglePts(t.oldP, t.newP, nextP, w)

		if t.kind == Kinetic && inside0 && inside1 {
			t.split = true
			continue
		}
		if inside0 || inside1 {
			return true
		}
	}

	// A non-simple translation quadrilateral cannot roll the ring over.
	nonSimpleQuad := t.intersectSpanEdge(t.nextNewE, t.prevOldE) != trimesh.NoIntersection ||
		t.intersectSpanEdge(t.prevNewE, t.nextOldE) != trimesh.NoIntersection
	if nonSimpleQuad {
		return false
	}

	if m.RingSize(ownRing) == 3 {
		// The moving vertex must not cross or touch its opposing edge.
		areaOld := m.SignedAreaPts(prevP, nextP, t.oldP)
		areaNew := m.SignedAreaPts(prevP, nextP, t.newP)
		if math.Signbit(areaOld) != math.Signbit(areaNew) ||
			math.Abs(areaNew) <= settings.EpsInt {
			return true
		}
	} else {
		// Test the two ring vertices adjacent to the quadrilateral; if
		// either is inside, the whole ring is.
		if t.insideQuadrilateral(m.VertexPt(m.PrevVertex(t.prevV))) {
			return true
		}
		if t.insideQuadrilateral(m.VertexPt(m.NextVertex(t.nextV))) {
			return true
		}
	}

	// The changing ring must not roll over a hole either.
	for ring := 1; ring < m.RingCount(); ring++ {
		if ownRing == ring {
			continue
		}
		if t.insideQuadrilateral(m.VertexPt(m.RingVertex(ring, 0))) {
			return true
		}
	}

	return false
}

// checkSimplicityOfTranslation reports whether the polygon stays simple
// when the vertex jumps to its target: neither new polygon edge may cross
// an existing POLYGON or FRAME edge. The moving vertex's own polygon edges
// are relabeled for the duration of the walk so they do not count.
func (t *translation) checkSimplicityOfTranslation() bool {
	m := t.m

	m.SetEdgeKind(t.prevOldE, trimesh.TriangulationEdge, true)
	m.SetEdgeKind(t.nextOldE, trimesh.TriangulationEdge, true)

	simple := t.checkEdge(t.prevV, t.prevNewE)
	simple = simple && t.checkEdge(t.nextV, t.nextNewE)

	m.SetEdgeKind(t.prevOldE, trimesh.PolygonEdge, true)
	m.SetEdgeKind(t.nextOldE, trimesh.PolygonEdge, true)

	return simple
}

// settle is run after every executed translation: it refreshes the
// selector weights of the moved polygon edges and incident internal
// triangles, repairs zero-area leftovers, and verifies the moved vertex
// still lies inside its surrounding polygon.
func (t *translation) settle() error {
	m := t.m

	if m.Settings().WeightedEdgeSelection {
		m.UpdateEdgeWeight(t.prevOldE)
		m.UpdateEdgeWeight(t.nextOldE)
	}
	if !m.Settings().HoleInsertionAtStart {
		for _, tri := range m.VertexTriangles(t.v) {
			m.UpdateTriangleWeight(tri)
		}
	}

	t.flipStack = t.flipStack[:0]

	if t.kind == Kinetic {
		if err := t.repairEnd(); err != nil {
			return err
		}
	}

	return t.checkSurroundingAfterMove()
}

func (t *translation) checkSurroundingAfterMove() error {
	ok, err := t.m.CheckSurroundingPolygon(t.v)
	if err != nil {
		return err
	}
	if !ok {
		return surroundingCheckError(t.m, t.v, t.d)
	}
	return nil
}

// Stats exposes the translation counters for reporting.
func (t *translation) Stats() *stats.Stats {
	return t.tr.stats
}
