package transform

import (
	"math"
	"time"

	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

// TransformByMoves mutates the polygon by the given number of random
// vertex translations. Each move picks a vertex uniformly over all rings,
// a uniform direction and a normally distributed distance scaled to the
// local triangle fan. The number of moves executed at least partially is
// returned.
func (tr *Transformer) TransformByMoves(iterations int) (int, error) {
	m := tr.mesh
	performed := 0

	div := iterations / 100
	if div == 0 {
		div = 1
	}

	for i := 0; i < iterations; i++ {
		v := m.VertexAt(tr.rng.Intn(m.VertexCount()))

		alpha := -math.Pi + 2*math.Pi*tr.rng.Float64()
		stddev := m.DirectedEdgeLength(v, alpha)
		r := tr.rng.NormFloat64()*stddev/6 + stddev/2

		d := geom.XY{X: r * math.Cos(alpha), Y: r * math.Sin(alpha)}
		out, err := tr.TranslateVertex(v, d)
		if err != nil {
			return performed, err
		}
		if out != Rejected {
			performed++
		}

		if i%div == 0 {
			tr.log.Infof("%.0f%% of %d translations tried after %v",
				float64(i)/float64(iterations)*100, iterations,
				time.Since(tr.stats.Start).Round(time.Millisecond))
		}
	}

	return performed, nil
}

// GrowPolygonBy inserts n vertices into the ring, each at the midpoint of
// a randomly chosen polygon edge. Edges failing the stability criteria do
// not count as iterations; a long streak of unstable picks is reported.
func (tr *Transformer) GrowPolygonBy(ring, n int) error {
	m := tr.mesh

	div := n / 100
	if div == 0 {
		div = 1
	}

	unstable := 0
	for i := 0; i < n; {
		var e trimesh.EdgeID
		if m.Settings().WeightedEdgeSelection {
			var err error
			e, err = m.RandomEdgeWeighted(ring, tr.rng.Float64())
			if err != nil {
				return err
			}
		} else {
			v := m.RingVertex(ring, tr.rng.Intn(m.RingSize(ring)))
			e = m.ToNext(v)
		}

		ins := tr.newInsertion(e)
		if !ins.checkStability() {
			unstable++
			if unstable > 10000 {
				tr.log.Warnf("%d tries to find a suitable edge to insert in", unstable)
			}
			continue
		}
		unstable = 0

		if err := ins.execute(); err != nil {
			return err
		}
		if err := ins.translate(); err != nil {
			return err
		}

		i++
		if i%div == 0 {
			tr.log.Infof("%.0f%% of %d insertions into ring %d performed after %v",
				float64(i)/float64(n)*100, n, ring,
				time.Since(tr.stats.Start).Round(time.Millisecond))
		}
	}
	return nil
}

// growRingTowardsTarget doubles the ring size, capped at its target, and
// returns the number of inserted vertices.
func (tr *Transformer) growRingTowardsTarget(ring int) (int, error) {
	m := tr.mesh

	actual := m.RingSize(ring)
	target := m.Ring(ring).Target()

	n := target - actual
	if target >= 2*actual {
		n = actual
	}
	if n <= 0 {
		return 0, nil
	}
	if err := tr.GrowPolygonBy(ring, n); err != nil {
		return 0, err
	}
	tr.log.Infof("grew ring %d by %d vertices to %d", ring, n, actual+n)
	return n, nil
}

// doubleRingsUntilTargets runs the size-doubling rounds over all rings:
// each round doubles every hole and then the outer ring, capped at the
// ring targets, until a round performs no insertion. The round count is
// bounded since repeated doubling reaches any target quickly.
func (tr *Transformer) doubleRingsUntilTargets() error {
	m := tr.mesh

	for k := 0; k < 20; k++ {
		performed := 0
		for ring := 1; ring < m.RingCount(); ring++ {
			n, err := tr.growRingTowardsTarget(ring)
			if err != nil {
				return err
			}
			performed += n
		}
		n, err := tr.growRingTowardsTarget(0)
		if err != nil {
			return err
		}
		performed += n

		if performed == 0 {
			return nil
		}
	}
	return nil
}

// StrategyNoHoles0 generates a polygon without holes: transform the
// initial polygon, grow it to its final size, transform again.
func StrategyNoHoles0(tr *Transformer) error {
	m := tr.mesh
	set := m.Settings()

	performed, err := tr.TransformByMoves(set.InitialTranslationNumber)
	if err != nil {
		return err
	}
	tr.log.Infof("transformed initial polygon with %d of %d translations",
		performed, set.InitialTranslationNumber)
	if err := m.Check(); err != nil {
		return err
	}

	if err := tr.GrowPolygonBy(0, set.OuterSize-m.RingSize(0)); err != nil {
		return err
	}
	if err := m.Check(); err != nil {
		return err
	}

	performed, err = tr.TransformByMoves(set.OuterSize)
	if err != nil {
		return err
	}
	tr.log.Infof("transformed polygon with %d of %d translations",
		performed, set.OuterSize)
	return m.Check()
}

// StrategyWithHoles0 generates a polygon whose holes were already carved
// into the initial polygon: transform, then run the doubling rounds.
func StrategyWithHoles0(tr *Transformer) error {
	m := tr.mesh
	set := m.Settings()

	performed, err := tr.TransformByMoves(set.InitialTranslationNumber)
	if err != nil {
		return err
	}
	tr.log.Infof("transformed initial polygon with %d of %d translations",
		performed, set.InitialTranslationNumber)
	if err := m.Check(); err != nil {
		return err
	}

	if err := tr.doubleRingsUntilTargets(); err != nil {
		return err
	}
	return m.Check()
}

// StrategyWithHoles1 generates a polygon whose holes are carved at
// runtime: grow the outer ring until the holes fit, insert them, shape
// them with inflate and shrink passes, then run the doubling rounds.
func StrategyWithHoles1(tr *Transformer) error {
	m := tr.mesh
	set := m.Settings()

	performed, err := tr.TransformByMoves(set.InitialTranslationNumber)
	if err != nil {
		return err
	}
	tr.log.Infof("transformed initial polygon with %d of %d translations",
		performed, set.InitialTranslationNumber)
	if err := m.Check(); err != nil {
		return err
	}

	// The outer ring must dominate the holes before carving starts.
	if n := 10*set.NrOfHoles - m.RingSize(0); n > 0 {
		if err := tr.GrowPolygonBy(0, min(n, set.OuterSize-m.RingSize(0))); err != nil {
			return err
		}
	}

	for _, target := range set.InnerSizes {
		if err := tr.InsertHole(target); err != nil {
			return err
		}
	}
	if err := m.Check(); err != nil {
		return err
	}

	for ring := 1; ring < m.RingCount(); ring++ {
		grow := min(20, m.Ring(ring).Target()) - m.RingSize(ring)
		if grow > 0 {
			if err := tr.GrowPolygonBy(ring, grow); err != nil {
				return err
			}
		}
	}

	if _, err := tr.TransformByMoves(m.VertexCount()); err != nil {
		return err
	}

	for pass := 0; pass < 10; pass++ {
		for ring := 1; ring < m.RingCount(); ring++ {
			if err := tr.InflateHole(ring); err != nil {
				return err
			}
		}
	}
	for pass := 0; pass < 10; pass++ {
		for ring := 1; ring < m.RingCount(); ring++ {
			if err := tr.ShrinkAroundHole(ring, pass); err != nil {
				return err
			}
		}
	}

	if _, err := tr.TransformByMoves(m.VertexCount()); err != nil {
		return err
	}
	if err := m.Check(); err != nil {
		return err
	}

	if err := tr.doubleRingsUntilTargets(); err != nil {
		return err
	}
	return m.Check()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
