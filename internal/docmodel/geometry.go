package docmodel

import "math"

// Point represents a point in PDF coordinate space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect represents a rectangular area in PDF coordinate space.
// Coordinates follow the decoder's convention: origin at the lower-left
// corner of the page, Y increasing upward. (X0, Y0) is the lower-left
// corner and (X1, Y1) the upper-right corner.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// NewRect creates a rectangle, normalizing corner order so that
// X0 <= X1 and Y0 <= Y1.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{
		X: (r.X0 + r.X1) / 2,
		Y: (r.Y0 + r.Y1) / 2,
	}
}

// WithinTolerance reports whether every edge of r is within eps of the
// corresponding edge of other.
func (r Rect) WithinTolerance(other Rect, eps float64) bool {
	return math.Abs(r.X0-other.X0) <= eps &&
		math.Abs(r.Y0-other.Y0) <= eps &&
		math.Abs(r.X1-other.X1) <= eps &&
		math.Abs(r.Y1-other.Y1) <= eps
}
