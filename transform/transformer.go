// Package transform mutates an initial polygon into a random simple one.
// The moving parts are vertex translations, which keep the constrained
// triangulation intact while one polygon vertex slides to a random target,
// and midpoint insertions, which grow a ring by one vertex. A Transformer
// owns the mesh, the random source and the statistics of one run.
package transform

import (
	"math/rand"
	"os"

	"go.uber.org/zap"

	"github.com/cgalab/genpoly-fpg/exitcode"
	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/settings"
	"github.com/cgalab/genpoly-fpg/stats"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

// Transformer drives all mutations of one generator run.
type Transformer struct {
	mesh  *trimesh.Mesh
	set   *settings.Settings
	rng   *rand.Rand
	stats *stats.Stats
	log   *zap.SugaredLogger
	kind  TranslationKind
}

// New returns a Transformer over the given mesh. The random source is the
// single source of nondeterminism of the run.
func New(m *trimesh.Mesh, rng *rand.Rand, st *stats.Stats) *Transformer {
	set := m.Settings()
	kind := Kinetic
	if set.Retriangulate {
		kind = Retriangulation
	}
	return &Transformer{
		mesh:  m,
		set:   set,
		rng:   rng,
		stats: st,
		log:   set.Log,
		kind:  kind,
	}
}

// Mesh returns the mesh under transformation.
func (tr *Transformer) Mesh() *trimesh.Mesh { return tr.mesh }

// Stats returns the run's statistics collector.
func (tr *Transformer) Stats() *stats.Stats { return tr.stats }

// TranslateVertex checks and executes one vertex translation by d. The
// checks run before any mutation, so a Rejected outcome leaves the mesh
// untouched.
func (tr *Transformer) TranslateVertex(v trimesh.VertexID, d geom.XY) (Outcome, error) {
	tr.stats.TranslationTries++

	t := tr.newTranslation(v, d, tr.kind, phaseDefault)

	if t.checkOrientation() {
		return t.finish(Rejected)
	}
	if !t.checkSimplicityOfTranslation() {
		return t.finish(Rejected)
	}

	out, err := t.execute()
	if err != nil {
		return out, err
	}
	out, err = t.finish(out)
	if err != nil {
		return out, err
	}

	switch out {
	case Full:
		tr.stats.Translations++
	case Partial:
		tr.stats.Translations++
		tr.stats.Partials++
	case Undone:
		tr.stats.Undone++
	}
	return out, nil
}

// finish runs the post-translation bookkeeping and folds its result into
// the outcome.
func (t *translation) finish(out Outcome) (Outcome, error) {
	if t.queue != nil {
		t.queue.drain()
	}
	if err := t.settle(); err != nil {
		return out, err
	}
	return out, nil
}

// execute dispatches on the translation engine.
func (t *translation) execute() (Outcome, error) {
	if t.kind == Retriangulation {
		return t.executeRetriangulation()
	}
	return t.executeKinetic()
}

// surroundingCheckError dumps the triangulation for post-mortem inspection
// and reports the moved vertex that ended up outside its surrounding
// polygon.
func surroundingCheckError(m *trimesh.Mesh, v trimesh.VertexID, d geom.XY) error {
	if f, err := os.Create("failure.graphml"); err == nil {
		m.WriteTriangulation(f)
		f.Close()
	}
	pos := m.Pos(v)
	return exitcode.Errorf(exitcode.SurroundingPolygonCheck,
		"vertex %d at (%.20f, %.20f) outside its surrounding polygon after translating by dx = %.20f dy = %.20f",
		v, pos.X, pos.Y, d.X, d.Y)
}
