package transform

import (
	"math"

	"github.com/cgalab/genpoly-fpg/exitcode"
	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

// flipRecord remembers one executed flip so an aborted translation can be
// rolled back: the removed diagonal ran between oldD0 and oldD1, the
// inserted one runs between newD0 and newD1.
type flipRecord struct {
	oldD0, oldD1 trimesh.VertexID
	newD0, newD1 trimesh.VertexID
}

// executeKinetic slides the vertex along its translation path, flipping
// each fan triangle at the moment it collapses. Translations whose path
// crosses a polygon edge are decomposed into two parts first.
func (t *translation) executeKinetic() (Outcome, error) {
	if t.phase == phaseDefault {
		t.checkSplit()
	}

	if t.split {
		prevP := t.m.VertexPt(t.prevV)
		nextP := t.m.VertexPt(t.nextV)
		oldArea := t.m.SignedAreaPts(prevP, nextP, t.oldP)
		newArea := t.m.SignedAreaPts(prevP, nextP, t.newP)

		if math.Signbit(oldArea) == math.Signbit(newArea) {
			return t.executeSplitRetainSide()
		}
		return t.executeSplitChangeSide()
	}

	ok, err := t.generateInitialQueue()
	if err != nil {
		return Rejected, err
	}
	if !ok {
		return Rejected, nil
	}

	for t.queue.size() > 0 {
		time, tri := t.queue.pop()
		t.now = time

		stable, err := t.flip(tri, false)
		if err != nil {
			return Partial, err
		}
		if !stable {
			undone, err := t.undo()
			if err != nil {
				return Partial, err
			}
			if undone {
				return Undone, nil
			}
			return Partial, nil
		}
	}

	t.m.SetPos(t.v, t.newP.XY)
	return Full, nil
}

// checkSplit decides whether the translation path crosses a polygon edge,
// in which case the translation cannot run in one piece. checkOrientation
// may have demanded a split already.
func (t *translation) checkSplit() {
	if t.split {
		return
	}
	t.split = !t.checkEdge(t.v, span{a: t.oldP, b: t.newP})
}

// generateInitialQueue enqueues every fan triangle whose opposite edge
// lies between the start and the target position. A fan triangle that is
// already degenerate at the start gets a security flip instead, which
// rejects the translation for this round.
func (t *translation) generateInitialQueue() (bool, error) {
	m := t.m
	t.queue = newEventQueue(m)

	for _, tri := range m.VertexTriangles(t.v) {
		opposite := m.TriangleEdgeNotContaining(tri, t.v)
		p0 := m.VertexPt(m.EdgeV0(opposite))
		p1 := m.VertexPt(m.EdgeV1(opposite))

		areaOld := m.SignedAreaPts(p0, p1, t.oldP)

		if areaOld == 0 {
			longest := m.LongestEdgeAlt(tri)
			if m.EdgeKindOf(longest) == trimesh.PolygonEdge {
				return false, exitcode.Errorf(exitcode.VertexOnEdgeAtStart,
					"the vertex %d to be translated lays exactly on a polygon edge", t.v)
			}

			// The flip invalidates the fan iteration, so reject and let
			// the caller try again with a repaired triangulation.
			t.tr.log.Debugw("numerical correction: moving vertex lays exactly on an edge, security flip")
			if _, err := t.flip(tri, true); err != nil {
				return false, err
			}
			return false, nil
		}

		areaNew := m.SignedAreaPts(p0, p1, t.newP)

		// areaNew of exactly zero counts as a collapse, zero carries
		// either sign.
		if areaNew != 0 && math.Signbit(areaOld) == math.Signbit(areaNew) {
			continue
		}

		ct := m.CollapseTime(tri, t.v, t.d)
		if ct < 0 {
			t.tr.log.Debugw("numerical correction: collapse time clamped", "time", ct)
			ct = 0
		}
		if ct > 1 {
			t.tr.log.Debugw("numerical correction: collapse time clamped", "time", ct)
			ct = 1
		}
		t.queue.insertWithoutCheck(ct, tri)
	}

	return t.queue.makeStable(), nil
}

// flip removes the longest edge of the collapsing triangle and inserts the
// other diagonal of the resulting quadrilateral. For queue-driven flips the
// moving vertex is first advanced to the event time, and the two new
// triangles are tested for collapses later in the translation.
func (t *translation) flip(t0 trimesh.TriangleID, singleFlip bool) (bool, error) {
	m := t.m

	if !singleFlip {
		m.SetPos(t.v, t.oldP.XY.Add(t.d.Scale(t.now)))
	}

	e := m.LongestEdgeAlt(t0)
	if m.EdgeKindOf(e) == trimesh.PolygonEdge {
		return false, exitcode.Errorf(exitcode.PolygonEdgeFlip,
			"flip would delete a polygon edge at vertex %d, dx: %f dy: %f", t.v, t.d.X, t.d.Y)
	}

	oppositeFlip := !m.EdgeContains(e, t.v)

	t1 := m.EdgeOtherTriangle(e, t0)
	if t.queue != nil && m.IsEnqueued(t1) {
		t.queue.remove(t1)
	}

	vj0 := m.EdgeV0(e)
	vj1 := m.EdgeV1(e)
	vn0 := m.TriangleOtherVertex(t0, e)
	vn1 := m.TriangleOtherVertex(t1, e)

	// e is not a polygon edge, so both triangles lie on the same side of
	// the polygon.
	internal := m.IsInternal(t0)

	m.RemoveEdge(e)

	e, err := m.NewEdge(vn0, vn1, trimesh.TriangulationEdge)
	if err != nil {
		return false, err
	}

	e1 := m.EdgeBetween(vj0, vn0)
	e2 := m.EdgeBetween(vj0, vn1)
	nt0, err := m.NewTriangle(e, e1, e2, vn0, vn1, vj0, internal)
	if err != nil {
		return false, err
	}

	e1 = m.EdgeBetween(vj1, vn0)
	e2 = m.EdgeBetween(vj1, vn1)
	nt1, err := m.NewTriangle(e, e1, e2, vn0, vn1, vj1, internal)
	if err != nil {
		return false, err
	}

	t.tr.stats.Flips++

	if singleFlip {
		return true, nil
	}

	if t.tr.set.LocalChecking {
		t.flipStack = append(t.flipStack, flipRecord{oldD0: vj0, oldD1: vj1, newD0: vn0, newD1: vn1})
	}

	// The collapse decisions below must not see the error-afflicted
	// interpolated position, so the vertex temporarily reports its start
	// position.
	actual := m.Pos(t.v)
	m.SetPos(t.v, t.oldP.XY)

	insertion := false
	if oppositeFlip {
		common := vn0
		if vn0 == t.v {
			common = vn1
		}
		insertion = t.insertAfterOppositeFlip(nt0, nt1, vj0, vj1, common)
	} else {
		opposite := vj0
		if vj0 == t.v {
			opposite = vj1
		}
		if m.TriangleContainsVertex(nt0, t.v) {
			insertion = t.insertAfterNonOppositeFlip(nt0, vn0, vn1, opposite)
		} else {
			insertion = t.insertAfterNonOppositeFlip(nt1, vn0, vn1, opposite)
		}
	}

	m.SetPos(t.v, actual)

	if insertion {
		return t.queue.makeStable(), nil
	}
	return true, nil
}

// insertAfterOppositeFlip decides which of the two triangles of an
// opposite flip will collapse later in the translation. The decision only
// uses static vertices and the exact start and target position; the actual
// interpolated position is too error-afflicted for it.
func (t *translation) insertAfterOppositeFlip(leftT, rightT trimesh.TriangleID,
	leftV, rightV, common trimesh.VertexID) bool {

	m := t.m
	insertion := false

	commonP := m.VertexPt(common)
	leftP := m.VertexPt(leftV)
	rightP := m.VertexPt(rightV)

	// Is the common vertex inside the corridor built by the two lines
	// parallel to the translation path through the non-shared vertices?
	area0 := m.SignedAreaPts(leftP, m.TranslatedPt(leftV, t.d), commonP)
	area1 := m.SignedAreaPts(rightP, m.TranslatedPt(rightV, t.d), commonP)

	enqueueIfCollapsing := func(tri trimesh.TriangleID, sideP trimesh.Pt) {
		a0 := m.SignedAreaPts(sideP, commonP, t.oldP)
		a1 := m.SignedAreaPts(sideP, commonP, t.newP)
		if a1 == 0 || math.Signbit(a0) != math.Signbit(a1) {
			ct := m.CollapseTime(tri, t.v, t.d)
			t.queue.insertWithoutCheck(ct, tri)
			insertion = true
		}
	}

	if math.Signbit(area0) != math.Signbit(area1) {
		// Inside the corridor both new triangles collapse eventually;
		// check each one against the end of the translation.
		enqueueIfCollapsing(leftT, leftP)
		enqueueIfCollapsing(rightT, rightP)
	} else {
		// Outside the corridor exactly one of the triangles collapses:
		// if the common vertex lays out to the left, the right triangle
		// does.
		area0 = m.SignedAreaPts(leftP, m.TranslatedPt(leftV, t.d), commonP)
		area1 = m.SignedAreaPts(leftP, m.TranslatedPt(leftV, t.d), m.VertexPt(t.v))

		if math.Signbit(area0) == math.Signbit(area1) {
			enqueueIfCollapsing(leftT, leftP)
		} else {
			enqueueIfCollapsing(rightT, rightP)
		}
	}

	return insertion
}

// insertAfterNonOppositeFlip decides whether the new triangle still
// containing the moving vertex will collapse later in the translation.
func (t *translation) insertAfterNonOppositeFlip(tri trimesh.TriangleID,
	shared0, shared1, opposite trimesh.VertexID) bool {

	m := t.m

	s0 := m.VertexPt(shared0)
	s1 := m.VertexPt(shared1)

	// The triangle collapses in the future if the non-shared vertex of
	// the settled triangle lies on the same side of the new edge as the
	// target position.
	area0 := m.SignedAreaPts(s0, s1, m.VertexPt(opposite))
	area1 := m.SignedAreaPts(s0, s1, t.newP)

	if math.Signbit(area0) == math.Signbit(area1) {
		area0 = m.SignedAreaPts(s0, s1, t.oldP)

		if area1 == 0 || math.Signbit(area0) != math.Signbit(area1) {
			ct := m.CollapseTime(tri, t.v, t.d)
			t.queue.insertWithoutCheck(ct, tri)
			return true
		}
	}

	return false
}

// undo rolls an aborted translation back if the moving vertex no longer
// lies inside its surrounding polygon: all flips are replayed in reverse
// order and the vertex returns to its start position.
func (t *translation) undo() (bool, error) {
	m := t.m

	if !t.tr.set.LocalChecking {
		return false, nil
	}

	ok, err := m.CheckSurroundingPolygon(t.v)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}

	t.tr.log.Debugw("surrounding polygon check after abortion failed, undoing translation", "vertex", t.v)

	for len(t.flipStack) > 0 {
		f := t.flipStack[len(t.flipStack)-1]
		t.flipStack = t.flipStack[:len(t.flipStack)-1]

		e := m.EdgeBetween(f.newD0, f.newD1)
		internal := m.IsInternal(m.EdgeAnyTriangle(e))
		m.RemoveEdge(e)

		e, err := m.NewEdge(f.oldD0, f.oldD1, trimesh.TriangulationEdge)
		if err != nil {
			return false, err
		}

		if _, err := m.NewTriangle(e,
			m.EdgeBetween(f.oldD0, f.newD0), m.EdgeBetween(f.oldD1, f.newD0),
			f.oldD0, f.oldD1, f.newD0, internal); err != nil {
			return false, err
		}
		if _, err := m.NewTriangle(e,
			m.EdgeBetween(f.oldD0, f.newD1), m.EdgeBetween(f.oldD1, f.newD1),
			f.oldD0, f.oldD1, f.newD1, internal); err != nil {
			return false, err
		}
	}

	m.SetPos(t.v, t.oldP.XY)
	return true, nil
}

// repairEnd flips away any fan triangle left with zero area after the
// translation. A degenerate triangle whose longest edge is a polygon edge
// cannot be flipped, so the vertex is backed off by a tenth of the
// translation instead.
func (t *translation) repairEnd() error {
	m := t.m

	fan := append([]trimesh.TriangleID(nil), m.VertexTriangles(t.v)...)
	for _, tri := range fan {
		if !m.TriangleAlive(tri) || !m.TriangleContainsVertex(tri, t.v) {
			continue
		}
		if m.SignedArea(tri) != 0 {
			continue
		}

		if t.phase == phaseDefault {
			t.tr.log.Debugw("triangle area 0 after translation, repairing", "vertex", t.v)
		}

		edge := m.LongestEdgeAlt(tri)
		if m.EdgeKindOf(edge) != trimesh.PolygonEdge {
			if _, err := t.flip(tri, true); err != nil {
				return err
			}
			continue
		}

		back := t.tr.newTranslation(t.v, geom.XY{X: -t.d.X * 0.1, Y: -t.d.Y * 0.1}, Kinetic, phaseDefault)
		out, err := back.execute()
		if err != nil {
			return err
		}
		if out, err = back.finish(out); err != nil {
			return err
		}
		if out == Rejected {
			return exitcode.Errorf(exitcode.VertexOnEdgeAfterMove,
				"triangle area = 0 after translation: polygon edge can not be flipped at vertex %d", t.v)
		}
	}

	return nil
}

// executeSplitRetainSide decomposes a translation whose path crosses a
// polygon edge but whose vertex stays on one side of the line through its
// neighbors. The vertex first moves to the crossing of one old quad
// diagonal with the opposing new one, then onward to the target.
func (t *translation) executeSplitRetainSide() (Outcome, error) {
	m := t.m
	t.tr.stats.Splits++

	mid, ok := t.splitPointRetainSide()
	if !ok {
		return Rejected, nil
	}

	part1 := t.tr.newTranslation(t.v, mid.Sub(t.oldP.XY), Kinetic, phaseSplitPart1)
	out, err := part1.execute()
	if err != nil {
		return out, err
	}
	if out, err = part1.finish(out); err != nil {
		return out, err
	}
	if out != Full {
		return out, nil
	}

	// The second leg starts wherever the vertex actually rests now.
	part2 := t.tr.newTranslation(t.v, t.newP.XY.Sub(m.Pos(t.v)), Kinetic, phaseSplitPart2)
	out, err = part2.execute()
	if err != nil {
		return out, err
	}
	if out, err = part2.finish(out); err != nil {
		return out, err
	}
	if out == Full {
		return Full, nil
	}
	return Partial, nil
}

// splitPointRetainSide intersects the old quad sides with the crossing new
// ones. Exactly one of the two pairs intersects for a retain-side split;
// none intersecting means the geometry is too degenerate to split.
func (t *translation) splitPointRetainSide() (geom.XY, bool) {
	m := t.m

	if t.intersectSpanEdge(t.nextNewE, t.prevOldE) != trimesh.NoIntersection {
		p, ok := geom.IntersectionPoint(m.EdgeSeg(t.prevOldE),
			geom.Seg{A: t.nextNewE.a.XY, B: t.nextNewE.b.XY})
		if ok {
			return p, true
		}
	}
	if t.intersectSpanEdge(t.prevNewE, t.nextOldE) != trimesh.NoIntersection {
		p, ok := geom.IntersectionPoint(m.EdgeSeg(t.nextOldE),
			geom.Seg{A: t.prevNewE.a.XY, B: t.prevNewE.b.XY})
		if ok {
			return p, true
		}
	}
	return geom.XY{}, false
}

// executeSplitChangeSide decomposes a translation whose vertex crosses the
// line through its neighbors: first to the midpoint between the neighbors,
// then onward to the target.
func (t *translation) executeSplitChangeSide() (Outcome, error) {
	m := t.m
	t.tr.stats.Splits++

	middle := m.Pos(t.prevV).Mid(m.Pos(t.nextV))

	part1 := t.tr.newTranslation(t.v, middle.Sub(t.oldP.XY), Kinetic, phaseSplitPart1)
	out, err := part1.execute()
	if err != nil {
		return out, err
	}
	if out, err = part1.finish(out); err != nil {
		return out, err
	}
	if out != Full {
		return out, nil
	}

	// Numerically the triangle over the neighboring vertices may survive
	// the vertex arriving between them, which the second leg cannot
	// start from.
	if e := m.EdgeBetween(t.prevV, t.nextV); e != 0 {
		tri := m.EdgeTriangleContaining(e, t.v)
		if tri != 0 {
			if _, err := t.flip(tri, true); err != nil {
				return Partial, err
			}
		}
	}

	part2 := t.tr.newTranslation(t.v, t.newP.XY.Sub(m.Pos(t.v)), Kinetic, phaseSplitPart2)
	out, err = part2.execute()
	if err != nil {
		return out, err
	}
	if out, err = part2.finish(out); err != nil {
		return out, err
	}
	if out == Full {
		return Full, nil
	}
	return Partial, nil
}
