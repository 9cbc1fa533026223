package geom

import "math"

// XY is a 2D point or vector.
type XY struct {
	X, Y float64
}

// Sub returns the vector from o to p.
func (p XY) Sub(o XY) XY {
	return XY{p.X - o.X, p.Y - o.Y}
}

// Add returns the componentwise sum of p and o.
func (p XY) Add(o XY) XY {
	return XY{p.X + o.X, p.Y + o.Y}
}

// Scale returns p scaled by f.
func (p XY) Scale(f float64) XY {
	return XY{p.X * f, p.Y * f}
}

// Cross returns the 2D cross product of p and o.
func (p XY) Cross(o XY) float64 {
	return p.X*o.Y - p.Y*o.X
}

// Dot returns the dot product of p and o.
func (p XY) Dot(o XY) float64 {
	return p.X*o.X + p.Y*o.Y
}

// Length returns the Euclidean norm of p.
func (p XY) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Distance returns the Euclidean distance between p and o.
func (p XY) Distance(o XY) float64 {
	return p.Sub(o).Length()
}

// Mid returns the midpoint of p and o.
func (p XY) Mid(o XY) XY {
	return XY{(p.X + o.X) / 2, (p.Y + o.Y) / 2}
}

// Seg is a line segment between two points. It is a plain value and carries
// no adjacency; the triangulation's edges reference their endpoints by id
// instead.
type Seg struct {
	A, B XY
}

// Length returns the Euclidean length of the segment.
func (s Seg) Length() float64 {
	return s.A.Distance(s.B)
}

// InBoundingRect reports whether p lies inside the closed bounding
// rectangle of the segment.
func (s Seg) InBoundingRect(p XY) bool {
	minX, maxX := math.Min(s.A.X, s.B.X), math.Max(s.A.X, s.B.X)
	minY, maxY := math.Min(s.A.Y, s.B.Y), math.Max(s.A.Y, s.B.Y)
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}

// IsBetween reports whether p is the middle one of the three nearly
// collinear points {s.A, s.B, p}, decided by comparing coordinates along
// the longer axis of the segment's bounding rectangle.
func (s Seg) IsBetween(p XY) bool {
	if math.Abs(s.A.X-s.B.X) >= math.Abs(s.A.Y-s.B.Y) {
		if s.A.X <= s.B.X {
			return p.X >= s.A.X && p.X <= s.B.X
		}
		return p.X >= s.B.X && p.X <= s.A.X
	}
	if s.A.Y <= s.B.Y {
		return p.Y >= s.A.Y && p.Y <= s.B.Y
	}
	return p.Y >= s.B.Y && p.Y <= s.A.Y
}

// IntersectionPoint returns the intersection of the supporting lines of s
// and o, computed with Goldman's parametric form. The second return is
// false for parallel lines.
func IntersectionPoint(s, o Seg) (XY, bool) {
	d0 := s.B.Sub(s.A)
	d1 := o.B.Sub(o.A)
	denom := d0.Cross(d1)
	if denom == 0 {
		return XY{}, false
	}
	t := o.A.Sub(s.A).Cross(d1) / denom
	return s.A.Add(d0.Scale(t)), true
}
