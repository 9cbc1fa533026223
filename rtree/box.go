package rtree

// Box is an axis-aligned bounding box. The generator builds one per polygon
// edge when a large ring is checked for self-intersection.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// union gives the smallest box containing both a and b.
func union(a, b Box) Box {
	return Box{
		MinX: minf(a.MinX, b.MinX),
		MinY: minf(a.MinY, b.MinY),
		MaxX: maxf(a.MaxX, b.MaxX),
		MaxY: maxf(a.MaxY, b.MaxY),
	}
}

// overlaps reports whether the closed boxes a and b share a point.
func overlaps(a, b Box) bool {
	return a.MinX <= b.MaxX && a.MaxX >= b.MinX &&
		a.MinY <= b.MaxY && a.MaxY >= b.MinY
}

func area(b Box) float64 {
	return (b.MaxX - b.MinX) * (b.MaxY - b.MinY)
}

// enlargement is the area growth of b when extended to contain extra.
func enlargement(b, extra Box) float64 {
	return area(union(b, extra)) - area(b)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
