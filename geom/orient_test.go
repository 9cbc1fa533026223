package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cgalab/genpoly-fpg/geom"
)

func TestOrient2D(t *testing.T) {
	a := geom.XY{X: 0, Y: 0}
	b := geom.XY{X: 1, Y: 0}
	c := geom.XY{X: 0, Y: 1}

	assert.Positive(t, geom.Orient2D(a, b, c))
	assert.Negative(t, geom.Orient2D(a, c, b))
	assert.Zero(t, geom.Orient2D(a, b, geom.XY{X: 2, Y: 0}))
}

func TestOrient2DNearCollinear(t *testing.T) {
	// A point one ulp off the diagonal midpoint yields a determinant of
	// 2^-53, below the rounding-error filter, so the exact fallback is
	// the path that classifies these.
	const ulp = 1.1102230246251565e-16 // 2^-53
	a := geom.XY{X: 0, Y: 0}
	b := geom.XY{X: 1, Y: 1}
	up := geom.XY{X: 0.5, Y: 0.5 + ulp}
	down := geom.XY{X: 0.5, Y: 0.5 - ulp}
	on := geom.XY{X: 0.5, Y: 0.5}

	assert.Positive(t, geom.Orient2D(a, b, up))
	assert.Negative(t, geom.Orient2D(a, b, down))
	assert.Zero(t, geom.Orient2D(a, b, on))
}

func TestDetTranslatesFirstOperand(t *testing.T) {
	a := geom.XY{X: 10, Y: 10}
	b := geom.XY{X: 11, Y: 10}
	c := geom.XY{X: 10, Y: 11}
	assert.InDelta(t, 1.0, geom.Det(a, b, c), 1e-12)
}

func TestSegIsBetween(t *testing.T) {
	s := geom.Seg{A: geom.XY{X: 0, Y: 0}, B: geom.XY{X: 4, Y: 1}}
	assert.True(t, s.IsBetween(geom.XY{X: 2, Y: 0.5}))
	assert.False(t, s.IsBetween(geom.XY{X: 5, Y: 1.25}))
	assert.False(t, s.IsBetween(geom.XY{X: -1, Y: -0.25}))
}
