package model

import "math"

// Point is a position on a page or image.
type Point struct {
	X, Y float64
}

// Distance returns the euclidean distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// BBox is an axis-aligned box. X, Y is the bottom-left corner in PDF
// coordinates; image coordinates use Y as the top edge and callers never
// mix the two.
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewBBox creates a box from its origin and size.
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// BBoxFromCorners creates the smallest box covering both points.
func BBoxFromCorners(p1, p2 Point) BBox {
	x0, x1 := math.Min(p1.X, p2.X), math.Max(p1.X, p2.X)
	y0, y1 := math.Min(p1.Y, p2.Y), math.Max(p1.Y, p2.Y)
	return BBox{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func (b BBox) Left() float64   { return b.X }
func (b BBox) Right() float64  { return b.X + b.Width }
func (b BBox) Bottom() float64 { return b.Y }
func (b BBox) Top() float64    { return b.Y + b.Height }

// Center returns the midpoint of the box.
func (b BBox) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Contains reports whether p lies inside the box, edges included.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() && p.Y >= b.Bottom() && p.Y <= b.Top()
}

// Union returns the smallest box covering both boxes. An empty box is
// treated as absent.
func (b BBox) Union(other BBox) BBox {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}
	x0 := math.Min(b.Left(), other.Left())
	y0 := math.Min(b.Bottom(), other.Bottom())
	x1 := math.Max(b.Right(), other.Right())
	y1 := math.Max(b.Top(), other.Top())
	return BBox{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// IsEmpty reports whether the box has no area.
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}
