package geom

import "math"

// Point is a position or offset in board units (millimetres).
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// KicadRotate returns p rotated by deg degrees with [KicadRotate].
func (p Point) KicadRotate(deg float64) Point {
	x, y := KicadRotate(p.X, p.Y, deg)
	return Point{x, y}
}

// PointSet is a set of distinct points. Coincident points collapse into one.
type PointSet map[Point]struct{}

// Add inserts p into the set.
func (s PointSet) Add(p Point) { s[p] = struct{}{} }

// Len returns the number of distinct points.
func (s PointSet) Len() int { return len(s) }

// HalfPerimeter returns (xmax-xmin) + (ymax-ymin) over the set, or 0 for
// an empty set.
func (s PointSet) HalfPerimeter() float64 {
	if len(s) == 0 {
		return 0
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for p := range s {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return (maxX - minX) + (maxY - minY)
}
