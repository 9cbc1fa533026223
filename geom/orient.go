package geom

import "math/big"

// epsilon is half the distance between 1.0 and the next representable
// double, i.e. 2^-53.
const epsilon = 1.1102230246251565e-16

// ccwErrBound is the relative error bound below which the fast orientation
// determinant cannot be trusted and the exact fallback is consulted.
const ccwErrBound = (3.0 + 16.0*epsilon) * epsilon

// Orient2D returns twice the signed area of the triangle (a, b, c). The
// sign of the result is exact: positive for counter-clockwise order,
// negative for clockwise order, and zero only for truly collinear input.
// The fast floating-point determinant is used whenever its magnitude
// exceeds the rounding-error bound; otherwise the determinant is
// re-evaluated in exact rational arithmetic.
func Orient2D(a, b, c XY) float64 {
	detLeft := (a.X - c.X) * (b.Y - c.Y)
	detRight := (a.Y - c.Y) * (b.X - c.X)
	det := detLeft - detRight

	var detSum float64
	switch {
	case detLeft > 0:
		if detRight <= 0 {
			return det
		}
		detSum = detLeft + detRight
	case detLeft < 0:
		if detRight >= 0 {
			return det
		}
		detSum = -detLeft - detRight
	default:
		return det
	}

	if errBound := ccwErrBound * detSum; det >= errBound || -det >= errBound {
		return det
	}
	return orient2DExact(a, b, c)
}

func orient2DExact(a, b, c XY) float64 {
	ax := new(big.Rat).SetFloat64(a.X)
	ay := new(big.Rat).SetFloat64(a.Y)
	bx := new(big.Rat).SetFloat64(b.X)
	by := new(big.Rat).SetFloat64(b.Y)
	cx := new(big.Rat).SetFloat64(c.X)
	cy := new(big.Rat).SetFloat64(c.Y)

	left := new(big.Rat).Mul(ax.Sub(ax, cx), by.Sub(by, cy))
	right := new(big.Rat).Mul(ay.Sub(ay, cy), bx.Sub(bx, cx))
	det := left.Sub(left, right)

	f, _ := det.Float64()
	return f
}

// Det returns twice the signed area of the triangle (a, b, c) in plain
// floating-point arithmetic. The first operand is shifted to the origin
// before the determinant is evaluated, which keeps the magnitudes small.
// Callers that need a deterministic result under vertex permutation must
// order the operands before calling.
func Det(a, b, c XY) float64 {
	bx := b.X - a.X
	by := b.Y - a.Y
	cx := c.X - a.X
	cy := c.Y - a.Y
	return cy*bx - by*cx
}
