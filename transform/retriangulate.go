package transform

import (
	"math"

	"github.com/cgalab/genpoly-fpg/trimesh"
)

// executeRetriangulation moves the vertex in one jump and retriangulates
// the emptied regions from scratch. Both dispatch targets empty a
// star-shaped region behind the vertex and up to two edge-visible
// corridors ahead of it; they differ in how the star region is closed. A
// move whose regions cannot be planned safely is UNDONE before anything
// is touched, so the triangulation survives bit for bit. The engine never
// yields PARTIAL.
func (t *translation) executeRetriangulation() (Outcome, error) {
	m := t.m

	prevP := m.VertexPt(t.prevV)
	nextP := m.VertexPt(t.nextV)
	areaOld := m.SignedAreaPts(prevP, nextP, t.oldP)
	areaNew := m.SignedAreaPts(prevP, nextP, t.newP)

	if math.Signbit(areaOld) == math.Signbit(areaNew) {
		return t.executeSideRetained()
	}
	return t.executeSideChange()
}

// executeSideChange performs the move across the neighbor line in one
// piece. Building the regions happens before the vertex moves; their
// triangulation after.
func (t *translation) executeSideChange() (Outcome, error) {
	m := t.m

	p0, internal, err := t.buildOppositeDirection()
	if err != nil {
		return Undone, err
	}
	p1, p2, err := t.buildTranslationDirection(internal)
	if err != nil {
		return Undone, err
	}

	m.SetPos(t.v, t.newP.XY)

	for _, p := range []*subPolygon{p0, p1, p2} {
		if p == nil {
			continue
		}
		if err := p.triangulate(); err != nil {
			return Undone, err
		}
	}

	return Full, nil
}

// buildOppositeDirection walks the fan of the moving vertex from prevOldE
// the long way around to nextOldE, collecting the outer edges into a
// star-shaped region and deleting the walked triangles and interior fan
// edges. The region is closed with the edge between the two neighbors,
// which is created together with a repair triangle if absent. The old
// position serves as the region's kernel.
func (t *translation) buildOppositeDirection() (*subPolygon, bool, error) {
	m := t.m

	prevP := m.VertexPt(t.prevV)
	areaNew := m.SignedAreaPts(prevP, t.oldP, m.VertexPt(t.nextV))

	// Of the two triangles on prevOldE, take the one leading away from
	// the translation direction.
	tri, triOther := m.EdgeTriangles(t.prevOldE)
	v := m.TriangleOtherVertex(tri, t.prevOldE)
	areaOld := m.SignedAreaPts(prevP, t.oldP, m.VertexPt(v))
	if math.Signbit(areaOld) == math.Signbit(areaNew) || v == t.nextV {
		tri = triOther
	}

	internal := m.IsInternal(tri)

	p0 := newSubPolygon(m, starShaped, internal)
	if err := p0.addVertex(t.prevV); err != nil {
		return nil, internal, err
	}

	var spokes []trimesh.EdgeID
	e := t.prevOldE
	for e != t.nextOldE {
		if err := p0.addEdge(m.TriangleEdgeNotContaining(tri, t.v)); err != nil {
			return nil, internal, err
		}

		e = m.TriangleOtherEdgeContaining(tri, t.v, e)
		if err := p0.addVertex(m.EdgeOtherVertex(e, t.v)); err != nil {
			return nil, internal, err
		}

		walked := tri
		tri = m.EdgeOtherTriangle(e, walked)
		m.RemoveTriangle(walked)

		if e != t.nextOldE {
			spokes = append(spokes, e)
		}
	}
	for _, s := range spokes {
		m.RemoveEdge(s)
	}

	ce := m.EdgeBetween(t.prevV, t.nextV)
	if ce == 0 {
		var err error
		ce, err = m.NewEdge(t.prevV, t.nextV, trimesh.TriangulationEdge)
		if err != nil {
			return nil, internal, err
		}
		if _, err := m.NewTriangle(ce, t.prevOldE, t.nextOldE,
			t.prevV, t.nextV, t.v, internal); err != nil {
			return nil, internal, err
		}
	}

	if err := p0.close(ce); err != nil {
		return nil, internal, err
	}
	p0.setKernel(t.oldP)
	return p0, internal, nil
}

// buildTranslationDirection traces both new polygon edges through the
// triangulation, marking and later deleting every crossed edge, and builds
// the edge-visible regions on both sides of the translation direction. The
// many closing cases depend on whether each trace leaves the surrounding
// polygon of its neighbor vertex and on the shape of the triangle the
// translation ends in.
func (t *translation) buildTranslationDirection(oppositeInternal bool) (*subPolygon, *subPolygon, error) {
	m := t.m
	internal := !oppositeInternal

	prevP := m.VertexPt(t.prevV)
	nextP := m.VertexPt(t.nextV)

	var edgesToRemove []trimesh.EdgeID
	mark := func(e trimesh.EdgeID) {
		if !m.IsIntersected(e) {
			m.SetIntersected(e, true)
			edgesToRemove = append(edgesToRemove, e)
		}
	}

	p1 := newSubPolygon(m, edgeVisible, internal)
	if err := p1.addVertex(t.prevV); err != nil {
		return nil, nil, err
	}

	var e, lastE1 trimesh.EdgeID
	var tri trimesh.TriangleID

	// Trace of the edge from prevV to the target position.
	for _, se := range m.SurroundingEdges(t.prevV) {
		if t.intersectSpanEdge(t.prevNewE, se) != trimesh.NoIntersection {
			mark(se)
			e = se
			break
		}
	}

	leavesSP1 := e != 0
	if leavesSP1 {
		areaOther := m.SignedAreaPts(prevP, t.newP, nextP)

		v := m.EdgeV0(e)
		if math.Signbit(areaOther) == math.Signbit(m.SignedAreaPts(prevP, t.newP, m.VertexPt(v))) {
			v = m.EdgeV1(e)
		}

		tri = m.EdgeTriangleContaining(e, t.prevV)
		if err := p1.addEdge(m.TriangleEdgeBetween(tri, t.prevV, v)); err != nil {
			return nil, nil, err
		}
		tri = m.EdgeOtherTriangle(e, tri)

		for {
			others := m.TriangleOtherEdges(tri, e)
			if t.intersectSpanEdge(t.prevNewE, others[0]) != trimesh.NoIntersection {
				e = others[0]
			} else if t.intersectSpanEdge(t.prevNewE, others[1]) != trimesh.NoIntersection {
				e = others[1]
			} else {
				break
			}
			mark(e)

			v = m.TriangleOtherVertex(tri, e)
			if math.Signbit(m.SignedAreaPts(prevP, t.newP, m.VertexPt(v))) != math.Signbit(areaOther) {
				if err := p1.addVertex(v); err != nil {
					return nil, nil, err
				}
				if err := p1.addEdge(m.TriangleNotIntersectedEdge(tri)); err != nil {
					return nil, nil, err
				}
			}

			tri = m.EdgeOtherTriangle(e, tri)
		}
	}
	lastE1 = e

	// Trace of the edge from nextV to the target position.
	p2 := newSubPolygon(m, edgeVisible, internal)
	if err := p2.addVertex(t.nextV); err != nil {
		return nil, nil, err
	}

	e = 0
	for _, se := range m.SurroundingEdges(t.nextV) {
		if t.intersectSpanEdge(t.nextNewE, se) != trimesh.NoIntersection {
			mark(se)
			e = se
			break
		}
	}

	leavesSP2 := e != 0
	if leavesSP2 {
		areaOther := m.SignedAreaPts(nextP, t.newP, prevP)

		v := m.EdgeV0(e)
		if math.Signbit(areaOther) == math.Signbit(m.SignedAreaPts(nextP, t.newP, m.VertexPt(v))) {
			v = m.EdgeV1(e)
		}

		tri = m.EdgeTriangleContaining(e, t.nextV)
		if err := p2.addEdge(m.TriangleEdgeBetween(tri, t.nextV, v)); err != nil {
			return nil, nil, err
		}
		tri = m.EdgeOtherTriangle(e, tri)

		for {
			others := m.TriangleOtherEdges(tri, e)
			if t.intersectSpanEdge(t.nextNewE, others[0]) != trimesh.NoIntersection {
				e = others[0]
			} else if t.intersectSpanEdge(t.nextNewE, others[1]) != trimesh.NoIntersection {
				e = others[1]
			} else {
				break
			}
			mark(e)

			v = m.TriangleOtherVertex(tri, e)
			if math.Signbit(m.SignedAreaPts(nextP, t.newP, m.VertexPt(v))) != math.Signbit(areaOther) {
				if err := p2.addVertex(v); err != nil {
					return nil, nil, err
				}
				if err := p2.addEdge(m.TriangleNotIntersectedEdge(tri)); err != nil {
					return nil, nil, err
				}
			}

			tri = m.EdgeOtherTriangle(e, tri)
		}
	}

	// The target lies inside the surrounding polygons of both neighbors:
	// a single new edge repairs the triangulation, no regions remain.
	if !leavesSP1 && !leavesSP2 {
		ce := m.EdgeBetween(t.prevV, t.nextV)
		endTri := m.EdgeTriangleNotContaining(ce, t.v)
		v := m.TriangleOtherVertex(endTri, ce)
		endInternal := m.IsInternal(endTri)

		e1, err := m.NewEdge(t.v, v, trimesh.TriangulationEdge)
		if err != nil {
			return nil, nil, err
		}
		m.RemoveTriangle(endTri)

		if _, err := m.NewTriangle(t.prevOldE, e1, m.EdgeBetween(t.prevV, v),
			t.prevV, t.v, v, endInternal); err != nil {
			return nil, nil, err
		}
		if _, err := m.NewTriangle(t.nextOldE, e1, m.EdgeBetween(t.nextV, v),
			t.nextV, t.v, v, endInternal); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	}

	if e == 0 {
		e = lastE1
	}

	// The corners of the triangle the translation ends in, captured
	// before the crossed edges disappear.
	v1 := m.EdgeV0(e)
	v2 := m.EdgeV1(e)
	v3 := m.TriangleOtherVertex(tri, e)

	for _, de := range edgesToRemove {
		m.RemoveEdge(de)
	}

	if v1 == t.v || v2 == t.v || v3 == t.v {
		// The final triangle is incident to the moving vertex.
		switch {
		case !leavesSP1:
			// Then it is incident to prevV as well, so v3 is prevV.
			p1 = nil

			link := v2
			if v1 != t.v {
				link = v1
			}
			e1, err := m.NewEdge(t.v, link, trimesh.TriangulationEdge)
			if err != nil {
				return nil, nil, err
			}
			if _, err := m.NewTriangle(t.prevOldE, e1, m.EdgeBetween(v3, link),
				t.prevV, t.v, link, internal); err != nil {
				return nil, nil, err
			}

			if err := closeChain(p2, link, e1, t.v, t.nextOldE); err != nil {
				return nil, nil, err
			}

		case !leavesSP2:
			// Incident to nextV, so v3 is nextV.
			p2 = nil

			link := v2
			if v1 != t.v {
				link = v1
			}
			e1, err := m.NewEdge(t.v, link, trimesh.TriangulationEdge)
			if err != nil {
				return nil, nil, err
			}
			if _, err := m.NewTriangle(t.nextOldE, e1, m.EdgeBetween(v3, link),
				t.nextV, t.v, link, internal); err != nil {
				return nil, nil, err
			}

			if err := closeChain(p1, link, e1, t.v, t.prevOldE); err != nil {
				return nil, nil, err
			}

		default:
			// Incident to the moving vertex only; v3 closes the chain
			// of prevV's region.
			e1, err := m.NewEdge(t.v, v3, trimesh.TriangulationEdge)
			if err != nil {
				return nil, nil, err
			}
			if err := closeChain(p1, v3, e1, t.v, t.prevOldE); err != nil {
				return nil, nil, err
			}

			link := v2
			if v1 != t.v {
				link = v1
			}
			e2, err := m.NewEdge(t.v, link, trimesh.TriangulationEdge)
			if err != nil {
				return nil, nil, err
			}
			if _, err := m.NewTriangle(e1, e2, m.EdgeBetween(v3, link),
				t.v, link, v3, internal); err != nil {
				return nil, nil, err
			}
			if err := closeChain(p2, link, e2, t.v, t.nextOldE); err != nil {
				return nil, nil, err
			}
		}

		return p1, p2, nil
	}

	// The final triangle is not incident to the moving vertex; v3 is the
	// vertex opposite the last crossed edge.
	switch {
	case !leavesSP1:
		p1 = nil

		e1, err := m.NewEdge(t.v, v3, trimesh.TriangulationEdge)
		if err != nil {
			return nil, nil, err
		}
		if _, err := m.NewTriangle(t.prevOldE, e1, m.EdgeBetween(t.prevV, v3),
			t.v, t.prevV, v3, internal); err != nil {
			return nil, nil, err
		}

		link := v2
		if v1 != t.prevV {
			link = v1
		}
		e2, err := m.NewEdge(t.v, link, trimesh.TriangulationEdge)
		if err != nil {
			return nil, nil, err
		}
		if _, err := m.NewTriangle(e1, e2, m.EdgeBetween(v3, link),
			t.v, link, v3, internal); err != nil {
			return nil, nil, err
		}
		if err := closeChain(p2, link, e2, t.v, t.nextOldE); err != nil {
			return nil, nil, err
		}

	case !leavesSP2:
		p2 = nil

		e1, err := m.NewEdge(t.v, v3, trimesh.TriangulationEdge)
		if err != nil {
			return nil, nil, err
		}
		if _, err := m.NewTriangle(t.nextOldE, e1, m.EdgeBetween(t.nextV, v3),
			t.v, t.nextV, v3, internal); err != nil {
			return nil, nil, err
		}

		link := v2
		if v1 != t.nextV {
			link = v1
		}
		e2, err := m.NewEdge(t.v, link, trimesh.TriangulationEdge)
		if err != nil {
			return nil, nil, err
		}
		if _, err := m.NewTriangle(e1, e2, m.EdgeBetween(v3, link),
			t.v, link, v3, internal); err != nil {
			return nil, nil, err
		}
		if err := closeChain(p1, link, e2, t.v, t.prevOldE); err != nil {
			return nil, nil, err
		}

	default:
		e1, err := m.NewEdge(v1, t.v, trimesh.TriangulationEdge)
		if err != nil {
			return nil, nil, err
		}
		e2, err := m.NewEdge(v2, t.v, trimesh.TriangulationEdge)
		if err != nil {
			return nil, nil, err
		}
		e3, err := m.NewEdge(v3, t.v, trimesh.TriangulationEdge)
		if err != nil {
			return nil, nil, err
		}

		if _, err := m.NewTriangle(e1, e3, m.EdgeBetween(v1, v3),
			v1, t.v, v3, internal); err != nil {
			return nil, nil, err
		}
		if _, err := m.NewTriangle(e2, e3, m.EdgeBetween(v2, v3),
			t.v, v2, v3, internal); err != nil {
			return nil, nil, err
		}

		// v1 closes the region of whichever neighbor shares its side of
		// the translation direction.
		areaOther := m.SignedAreaPts(nextP, t.newP, prevP)
		areaTest := m.SignedAreaPts(nextP, t.newP, m.VertexPt(v1))

		if math.Signbit(areaOther) == math.Signbit(areaTest) {
			if err := closeChain(p1, v1, e1, t.v, t.prevOldE); err != nil {
				return nil, nil, err
			}
			if err := closeChain(p2, v2, e2, t.v, t.nextOldE); err != nil {
				return nil, nil, err
			}
		} else {
			if err := closeChain(p1, v2, e2, t.v, t.prevOldE); err != nil {
				return nil, nil, err
			}
			if err := closeChain(p2, v1, e1, t.v, t.nextOldE); err != nil {
				return nil, nil, err
			}
		}
	}

	return p1, p2, nil
}

// closeChain appends the final vertex, connecting edge and the moving
// vertex to a region chain and closes it with its base edge.
func closeChain(p *subPolygon, v trimesh.VertexID, e trimesh.EdgeID,
	moving trimesh.VertexID, base trimesh.EdgeID) error {

	if err := p.addVertex(v); err != nil {
		return err
	}
	if err := p.addEdge(e); err != nil {
		return err
	}
	if err := p.addVertex(moving); err != nil {
		return err
	}
	return p.close(base)
}

// fanBundle is one of the two halves of the fan of the moving vertex,
// split at its polygon edges. chain runs from prevV to nextV along the
// fan boundary; tris[i] has the corners (v, chain[i], chain[i+1]),
// outers[i] runs between chain[i] and chain[i+1], and spokes holds the
// interior fan edges shared by consecutive triangles.
type fanBundle struct {
	tris     []trimesh.TriangleID
	outers   []trimesh.EdgeID
	spokes   []trimesh.EdgeID
	chain    []trimesh.VertexID
	internal bool
}

// sideRetainedPlan is the read-only survey taken before a side-retained
// move mutates anything. The motion bundle is the fan half whose triangle
// end contains the target position; the opposite bundle is the other half.
type sideRetainedPlan struct {
	motion   fanBundle
	opposite fanBundle
	end      int
}

// walkFan collects one fan half, starting on the given triangle at
// prevOldE and ending at nextOldE. It does not modify the mesh.
func (t *translation) walkFan(tri trimesh.TriangleID) fanBundle {
	m := t.m

	b := fanBundle{
		internal: m.IsInternal(tri),
		chain:    []trimesh.VertexID{t.prevV},
	}

	e := t.prevOldE
	for {
		b.tris = append(b.tris, tri)
		b.outers = append(b.outers, m.TriangleEdgeNotContaining(tri, t.v))

		e = m.TriangleOtherEdgeContaining(tri, t.v, e)
		b.chain = append(b.chain, m.EdgeOtherVertex(e, t.v))
		if e == t.nextOldE {
			return b
		}
		b.spokes = append(b.spokes, e)
		tri = m.EdgeOtherTriangle(e, tri)
	}
}

// fanTriangleContaining returns the index of the bundle triangle the point
// lies in, or -1.
func (t *translation) fanTriangleContaining(b fanBundle, p trimesh.Pt) int {
	m := t.m
	for i := range b.tris {
		a := m.VertexPt(b.chain[i])
		c := m.VertexPt(b.chain[i+1])
		if m.InsideTrianglePts(t.oldP, a, c, p) {
			return i
		}
	}
	return -1
}

// planSideRetained surveys the fan for a move that keeps the vertex on its
// side of the neighbor line. The plan is refused when the target leaves
// the surrounding polygon, when a new polygon edge would cross the fan
// boundary, or when a fan vertex obstructs the star region the move would
// carve out. Nothing is mutated here, so a refusal costs nothing.
func (t *translation) planSideRetained() (sideRetainedPlan, bool) {
	m := t.m

	triA, triB := m.EdgeTriangles(t.prevOldE)
	a := t.walkFan(triA)
	b := t.walkFan(triB)

	plan := sideRetainedPlan{motion: a, opposite: b}
	plan.end = t.fanTriangleContaining(a, t.newP)
	if plan.end < 0 {
		plan.motion, plan.opposite = b, a
		plan.end = t.fanTriangleContaining(b, t.newP)
		if plan.end < 0 {
			return plan, false
		}
	}

	// The new polygon edges have to stay inside the fan. Boundary edges
	// incident to a neighbor vertex always touch that neighbor's new edge
	// in the shared vertex, which is no obstruction.
	for _, bundle := range []fanBundle{plan.motion, plan.opposite} {
		for _, oe := range bundle.outers {
			touchesPrev := m.EdgeV0(oe) == t.prevV || m.EdgeV1(oe) == t.prevV
			touchesNext := m.EdgeV0(oe) == t.nextV || m.EdgeV1(oe) == t.nextV
			if !touchesPrev && t.intersectSpanEdge(t.prevNewE, oe) != trimesh.NoIntersection {
				return plan, false
			}
			if !touchesNext && t.intersectSpanEdge(t.nextNewE, oe) != trimesh.NoIntersection {
				return plan, false
			}
		}
	}

	// Every interior fan vertex on the motion side must clear the star
	// region: up to the end triangle it belongs to prevV's corridor,
	// beyond it to nextV's.
	prevP := m.VertexPt(t.prevV)
	nextP := m.VertexPt(t.nextV)
	side1 := math.Signbit(m.SignedAreaPts(prevP, t.newP, nextP))
	side2 := math.Signbit(m.SignedAreaPts(nextP, t.newP, prevP))
	for i := 1; i < len(plan.motion.chain)-1; i++ {
		w := m.VertexPt(plan.motion.chain[i])
		if i <= plan.end {
			if math.Signbit(m.SignedAreaPts(prevP, t.newP, w)) == side1 {
				return plan, false
			}
		} else {
			if math.Signbit(m.SignedAreaPts(nextP, t.newP, w)) == side2 {
				return plan, false
			}
		}
	}

	return plan, true
}

// executeSideRetained performs a move that keeps the vertex on its side of
// the neighbor line. The whole fan is emptied and rebuilt: the half away
// from the motion becomes one star-shaped region around the old position,
// closed through the moving vertex by its polygon edges; the half the
// motion runs into is covered by up to two edge-visible corridors along
// the new polygon edges plus one bridging triangle below the end triangle.
// A move the planning step refuses is UNDONE with the triangulation
// untouched.
func (t *translation) executeSideRetained() (Outcome, error) {
	m := t.m

	plan, ok := t.planSideRetained()
	if !ok {
		return Undone, nil
	}

	p0, err := t.clearOppositeRetained(plan.opposite)
	if err != nil {
		return Undone, err
	}

	wa := plan.motion.chain[plan.end]
	wb := plan.motion.chain[plan.end+1]
	single := len(plan.motion.tris) == 1

	if !single {
		for _, tri := range plan.motion.tris {
			m.RemoveTriangle(tri)
		}
		for _, s := range plan.motion.spokes {
			m.RemoveEdge(s)
		}
	}

	m.SetPos(t.v, t.newP.XY)

	var p1, p2 *subPolygon
	if !single {
		e1 := t.prevOldE
		if wa != t.prevV {
			if e1, err = m.NewEdge(t.v, wa, trimesh.TriangulationEdge); err != nil {
				return Undone, err
			}
		}
		e2 := t.nextOldE
		if wb != t.nextV {
			if e2, err = m.NewEdge(t.v, wb, trimesh.TriangulationEdge); err != nil {
				return Undone, err
			}
		}
		if _, err := m.NewTriangle(e1, e2, m.EdgeBetween(wa, wb),
			t.v, wa, wb, plan.motion.internal); err != nil {
			return Undone, err
		}

		if wa != t.prevV {
			if p1, err = t.motionCorridor(plan, e1, true); err != nil {
				return Undone, err
			}
		}
		if wb != t.nextV {
			if p2, err = t.motionCorridor(plan, e2, false); err != nil {
				return Undone, err
			}
		}
	}

	for _, p := range []*subPolygon{p0, p1, p2} {
		if p == nil {
			continue
		}
		if err := p.triangulate(); err != nil {
			return Undone, err
		}
	}

	return Full, nil
}

// clearOppositeRetained empties the fan half away from the motion and
// returns it as a star-shaped region around the old position, closed
// through the moving vertex by the two surviving polygon edges.
func (t *translation) clearOppositeRetained(b fanBundle) (*subPolygon, error) {
	m := t.m

	p0 := newSubPolygon(m, starShaped, b.internal)
	if err := p0.addVertex(t.prevV); err != nil {
		return nil, err
	}
	for i, oe := range b.outers {
		if err := p0.addEdge(oe); err != nil {
			return nil, err
		}
		if err := p0.addVertex(b.chain[i+1]); err != nil {
			return nil, err
		}
	}
	if err := p0.addEdge(t.nextOldE); err != nil {
		return nil, err
	}
	if err := p0.addVertex(t.v); err != nil {
		return nil, err
	}
	if err := p0.close(t.prevOldE); err != nil {
		return nil, err
	}
	p0.setKernel(t.oldP)

	for _, tri := range b.tris {
		m.RemoveTriangle(tri)
	}
	for _, s := range b.spokes {
		m.RemoveEdge(s)
	}
	return p0, nil
}

// motionCorridor builds the edge-visible region between one new polygon
// edge and the motion-side fan boundary. fromPrev selects the corridor
// along prevV's edge; the other runs along nextV's.
func (t *translation) motionCorridor(plan sideRetainedPlan, link trimesh.EdgeID, fromPrev bool) (*subPolygon, error) {
	b := plan.motion
	p := newSubPolygon(t.m, edgeVisible, b.internal)

	if fromPrev {
		if err := p.addVertex(t.prevV); err != nil {
			return nil, err
		}
		for i := 0; i < plan.end; i++ {
			if err := p.addEdge(b.outers[i]); err != nil {
				return nil, err
			}
			if err := p.addVertex(b.chain[i+1]); err != nil {
				return nil, err
			}
		}
		if err := p.addEdge(link); err != nil {
			return nil, err
		}
		if err := p.addVertex(t.v); err != nil {
			return nil, err
		}
		return p, p.close(t.prevOldE)
	}

	if err := p.addVertex(t.nextV); err != nil {
		return nil, err
	}
	for i := len(b.outers) - 1; i > plan.end; i-- {
		if err := p.addEdge(b.outers[i]); err != nil {
			return nil, err
		}
		if err := p.addVertex(b.chain[i]); err != nil {
			return nil, err
		}
	}
	if err := p.addEdge(link); err != nil {
		return nil, err
	}
	if err := p.addVertex(t.v); err != nil {
		return nil, err
	}
	return p, p.close(t.nextOldE)
}
