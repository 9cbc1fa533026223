package stats_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/stats"
)

func TestMeasureRingSquare(t *testing.T) {
	square := []geom.XY{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}
	sh := stats.MeasureRing(0, square)

	assert.Equal(t, 0, sh.Ring)
	assert.Equal(t, 4, sh.Vertices)
	assert.InDelta(t, 4.0, sh.Perimeter, 1e-12)
	// A convex polygon turns through exactly one revolution.
	assert.InDelta(t, 1.0, sh.Sinuosity, 1e-12)
	assert.Zero(t, sh.TwistNumber)
	assert.InDelta(t, 0.0, sh.MaxTwist, 1e-12)
	assert.InDelta(t, 0.0, sh.RadialDeviation, 1e-12)
}

func TestMeasureRingStar(t *testing.T) {
	// A four pointed star alternates convex tips and reflex notches, so
	// the corner orientation switches at every vertex.
	var star []geom.XY
	for i := 0; i < 8; i++ {
		r := 2.0
		if i%2 == 1 {
			r = 0.5
		}
		a := float64(i) * math.Pi / 4
		star = append(star, geom.XY{X: r * math.Cos(a), Y: r * math.Sin(a)})
	}
	sh := stats.MeasureRing(1, star)

	assert.Equal(t, 8, sh.TwistNumber)
	assert.Zero(t, sh.TwistNumber%2)
	assert.Greater(t, sh.Sinuosity, 1.0)
	assert.Greater(t, sh.MaxTwist, 0.0)
	assert.Greater(t, sh.RadialDeviation, 0.0)
}

func TestMeasureRingDegenerate(t *testing.T) {
	sh := stats.MeasureRing(0, []geom.XY{{X: 0, Y: 0}, {X: 1, Y: 0}})
	assert.Equal(t, 2, sh.Vertices)
	assert.Zero(t, sh.Perimeter)
	assert.Zero(t, sh.TwistNumber)
}

func TestWriteXML(t *testing.T) {
	s := stats.New(42)
	s.TranslationTries = 10
	s.Translations = 7
	s.Undone = 2
	s.InsertionTries = 5
	s.Insertions = 4
	s.NrChecks = 2
	s.NrTriangles = 12
	s.MaxTriangles = 9

	shapes := []stats.Shape{{Ring: 0, Vertices: 4, Perimeter: 4}}

	var buf bytes.Buffer
	require.NoError(t, s.WriteXML(&buf, shapes))
	out := buf.String()

	assert.Contains(t, out, "<statistics>")
	assert.Contains(t, out, "</statistics>")
	assert.Contains(t, out, `seed="42"`)
	assert.Contains(t, out, `<translations tries="10" performed="7"`)
	assert.Contains(t, out, `undone="2"`)
	assert.Contains(t, out, `<insertions tries="5" performed="4"`)
	assert.Contains(t, out, `avgtriangles="6.000000"`)
	assert.Contains(t, out, `<shape ring="0" vertices="4"`)
}
