package core

// Point2i is an integer pixel coordinate
type Point2i struct {
	X, Y int
}

// Bounds2i is a half-open integer rectangle [Min, Max)
type Bounds2i struct {
	Min Point2i
	Max Point2i
}

// NewBounds2i creates bounds covering [x0, x1) x [y0, y1)
func NewBounds2i(x0, y0, x1, y1 int) Bounds2i {
	return Bounds2i{Min: Point2i{x0, y0}, Max: Point2i{x1, y1}}
}

// Width returns the number of columns
func (b Bounds2i) Width() int {
	return max(0, b.Max.X-b.Min.X)
}

// Height returns the number of rows
func (b Bounds2i) Height() int {
	return max(0, b.Max.Y-b.Min.Y)
}

// Area returns the number of pixels inside the bounds
func (b Bounds2i) Area() int {
	return b.Width() * b.Height()
}

// IsEmpty reports whether the bounds contain no pixels
func (b Bounds2i) IsEmpty() bool {
	return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y
}

// Contains reports whether p lies inside the bounds
func (b Bounds2i) Contains(p Point2i) bool {
	return p.X >= b.Min.X && p.X < b.Max.X && p.Y >= b.Min.Y && p.Y < b.Max.Y
}

// Intersect returns the overlap of two bounds
func (b Bounds2i) Intersect(other Bounds2i) Bounds2i {
	return Bounds2i{
		Min: Point2i{max(b.Min.X, other.Min.X), max(b.Min.Y, other.Min.Y)},
		Max: Point2i{min(b.Max.X, other.Max.X), min(b.Max.Y, other.Max.Y)},
	}
}

// Points calls fn for every pixel in row-major order
func (b Bounds2i) Points(fn func(p Point2i)) {
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			fn(Point2i{x, y})
		}
	}
}
