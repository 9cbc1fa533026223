package transform_test

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/settings"
	"github.com/cgalab/genpoly-fpg/stats"
	"github.com/cgalab/genpoly-fpg/transform"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

func retriangulationFixture(t *testing.T, seed int64) (*trimesh.Mesh, *transform.Transformer, *stats.Stats) {
	t.Helper()
	set := settings.New()
	set.OuterSize = 20
	set.Retriangulate = true
	require.NoError(t, set.Validate())

	m := trimesh.NewMesh(set)
	require.NoError(t, transform.BuildInitialPolygon(m))
	st := stats.New(seed)
	return m, transform.New(m, rand.New(rand.NewSource(seed)), st), st
}

func triangulationBytes(t *testing.T, m *trimesh.Mesh) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, m.WriteTriangulation(&buf))
	return buf.Bytes()
}

func TestRetriangulationSideRetained(t *testing.T) {
	m, tr, _ := retriangulationFixture(t, 11)

	// Pushing the first vertex straight outward keeps it on its side of
	// the neighbor line and crosses the whole outer fan, so both
	// corridors and the bridging triangle are exercised.
	v := m.RingVertex(0, 0)
	out, err := tr.TranslateVertex(v, geom.XY{X: 0.1, Y: 0})
	require.NoError(t, err)
	require.Equal(t, transform.Full, out)

	assert.Equal(t, geom.XY{X: 0.2, Y: 0}, m.Pos(v))
	require.NoError(t, m.CheckVertex(v))
	require.NoError(t, m.Check())
	require.NoError(t, m.CheckSimplicity())
}

func TestRetriangulationUndoneKeepsTriangulation(t *testing.T) {
	m, tr, st := retriangulationFixture(t, 11)
	before := triangulationBytes(t, m)

	// The target stays on the vertex's side of the neighbor line but
	// leaves its surrounding polygon, so no region plan exists and the
	// move is rolled up before anything is touched.
	v := m.RingVertex(0, 0)
	out, err := tr.TranslateVertex(v, geom.XY{X: 0.1, Y: 0.5})
	require.NoError(t, err)
	require.Equal(t, transform.Undone, out)

	assert.Equal(t, before, triangulationBytes(t, m))
	assert.Equal(t, geom.XY{X: 0.1, Y: 0}, m.Pos(v))
	assert.Equal(t, 1, st.Undone)
}

func TestRetriangulationOutcomeSet(t *testing.T) {
	for seed := int64(1); seed <= 6; seed++ {
		m, tr, _ := retriangulationFixture(t, seed)
		rng := rand.New(rand.NewSource(seed * 31))

		for i := 0; i < 120; i++ {
			v := m.RingVertex(0, rng.Intn(20))
			r := 0.05 * rng.Float64()
			phi := 2 * math.Pi * rng.Float64()
			d := geom.XY{X: r * math.Cos(phi), Y: r * math.Sin(phi)}

			before := triangulationBytes(t, m)
			out, err := tr.TranslateVertex(v, d)
			require.NoError(t, err)
			require.NotEqual(t, transform.Partial, out, "seed %d move %d", seed, i)

			// Anything but a full move leaves the triangulation alone.
			if out != transform.Full {
				require.Equal(t, before, triangulationBytes(t, m), "seed %d move %d", seed, i)
			}
		}

		require.NoError(t, m.Check())
		require.NoError(t, m.CheckSimplicity())
	}
}
