// Package stats collects counters over one generator run and derives shape
// measures of the finished polygon.
package stats

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/cgalab/genpoly-fpg/geom"
)

// Stats accumulates counters while the polygon is being transformed.
type Stats struct {
	Seed  int64
	Start time.Time

	// Translation counters.
	TranslationTries int
	Translations     int
	Splits           int
	Undone           int
	Partials         int
	Flips            int

	// Insertion counters.
	InsertionTries int
	Insertions     int

	// checkEdge walk counters. NrChecks counts walks, NrTriangles the
	// triangles visited in total, MaxTriangles the longest single walk.
	// The SP pair counts the surrounding polygon sizes scanned at walk
	// starts.
	NrChecks       int
	NrTriangles    int
	MaxTriangles   int
	NrSPTriangles  int
	MaxSPTriangles int
}

// New returns a zeroed statistics collector stamped with the run's seed.
func New(seed int64) *Stats {
	return &Stats{Seed: seed, Start: time.Now()}
}

// RecordSPSize notes the size of a surrounding polygon scanned at the start
// of a triangulation walk.
func (s *Stats) RecordSPSize(n int) {
	s.NrSPTriangles += n
	if n > s.MaxSPTriangles {
		s.MaxSPTriangles = n
	}
}

// RecordWalkLength notes the running length of a triangulation walk.
func (s *Stats) RecordWalkLength(n int) {
	if n > s.MaxTriangles {
		s.MaxTriangles = n
	}
}

// Shape holds derived measures of one polygon ring.
type Shape struct {
	Ring            int
	Vertices        int
	Perimeter       float64
	Sinuosity       float64
	TwistNumber     int
	MaxTwist        float64
	RadialDeviation float64
}

// MeasureRing derives the shape measures of one ring given its vertex
// positions in chain order.
func MeasureRing(ring int, pts []geom.XY) Shape {
	sh := Shape{Ring: ring, Vertices: len(pts)}
	n := len(pts)
	if n < 3 {
		return sh
	}

	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(n)
	cy /= float64(n)

	for i := 0; i < n; i++ {
		sh.Perimeter += pts[(i+1)%n].Sub(pts[i]).Length()
	}

	// Exterior turning angles along the chain.
	turns := make([]float64, n)
	var total, absTurn float64
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		c := pts[(i+2)%n]
		u := b.Sub(a)
		w := c.Sub(b)
		turns[i] = math.Atan2(u.X*w.Y-u.Y*w.X, u.X*w.X+u.Y*w.Y)
		total += turns[i]
		absTurn += math.Abs(turns[i])
	}
	sh.Sinuosity = absTurn / (2 * math.Pi)

	// Turns with the opposite sign of the total are reflex corners; the
	// number of convex/reflex switches around a cycle is always even.
	reflex := func(t float64) bool { return math.Signbit(t) != math.Signbit(total) }
	last := reflex(turns[n-1])
	for i := 0; i < n; i++ {
		cur := reflex(turns[i])
		if cur != last {
			sh.TwistNumber++
		}
		last = cur
	}

	// Amplitude of the cumulative deviation from the mean turn.
	meanTurn := total / float64(n)
	var sum, lo, hi float64
	for i := 0; i < n; i++ {
		sum += turns[i] - meanTurn
		lo = math.Min(lo, sum)
		hi = math.Max(hi, sum)
	}
	sh.MaxTwist = (hi - lo) / (2 * math.Pi)

	var mean, dev float64
	radii := make([]float64, n)
	for i, p := range pts {
		radii[i] = math.Hypot(p.X-cx, p.Y-cy)
		mean += radii[i]
	}
	mean /= float64(n)
	for _, r := range radii {
		dev += (r - mean) * (r - mean)
	}
	if mean > 0 {
		sh.RadialDeviation = math.Sqrt(dev/float64(n)) / mean
	}
	return sh
}

// WriteXML writes the collected counters and shape measures as a flat XML
// report.
func (s *Stats) WriteXML(w io.Writer, shapes []Shape) error {
	write := func(format string, args ...interface{}) error {
		_, err := fmt.Fprintf(w, format, args...)
		return errors.Wrap(err, "write statistics")
	}

	elapsed := time.Since(s.Start).Seconds()

	if err := write("<statistics>\n"); err != nil {
		return err
	}
	if err := write("\t<run seed=\"%d\" seconds=\"%f\"></run>\n", s.Seed, elapsed); err != nil {
		return err
	}
	if err := write("\t<translations tries=\"%d\" performed=\"%d\" splits=\"%d\" partials=\"%d\" undone=\"%d\" flips=\"%d\"></translations>\n",
		s.TranslationTries, s.Translations, s.Splits, s.Partials, s.Undone, s.Flips); err != nil {
		return err
	}
	if err := write("\t<insertions tries=\"%d\" performed=\"%d\"></insertions>\n",
		s.InsertionTries, s.Insertions); err != nil {
		return err
	}

	avgWalk := 0.0
	avgSP := 0.0
	if s.NrChecks > 0 {
		avgWalk = float64(s.NrTriangles) / float64(s.NrChecks)
		avgSP = float64(s.NrSPTriangles) / float64(s.NrChecks)
	}
	if err := write("\t<checks nr=\"%d\" avgtriangles=\"%f\" maxtriangles=\"%d\" avgsp=\"%f\" maxsp=\"%d\"></checks>\n",
		s.NrChecks, avgWalk, s.MaxTriangles, avgSP, s.MaxSPTriangles); err != nil {
		return err
	}

	for _, sh := range shapes {
		if err := write("\t<shape ring=\"%d\" vertices=\"%d\" perimeter=\"%f\" sinuosity=\"%f\" twistnumber=\"%d\" maxtwist=\"%f\" radialdeviation=\"%f\"></shape>\n",
			sh.Ring, sh.Vertices, sh.Perimeter, sh.Sinuosity, sh.TwistNumber, sh.MaxTwist, sh.RadialDeviation); err != nil {
			return err
		}
	}

	return write("</statistics>\n")
}
