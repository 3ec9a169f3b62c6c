package model

import "math"

// TextFragment is a run of text with its position on the page.
type TextFragment struct {
	Text     string
	BBox     BBox
	FontSize float64
	FontName string
}

// Line is a straight ruling line drawn on a page.
type Line struct {
	Start Point
	End   Point
	Width float64
}

// IsHorizontal reports whether the line is horizontal within tolerance.
func (l Line) IsHorizontal(tolerance float64) bool {
	return math.Abs(l.Start.Y-l.End.Y) <= tolerance
}

// IsVertical reports whether the line is vertical within tolerance.
func (l Line) IsVertical(tolerance float64) bool {
	return math.Abs(l.Start.X-l.End.X) <= tolerance
}

// Length returns the length of the line.
func (l Line) Length() float64 {
	return l.Start.Distance(l.End)
}

// LinesFromRect returns the four edges of a filled or stroked rectangle.
// Thin rectangles are how most producers draw table rules, so a rectangle
// narrower than maxThickness collapses to a single line along its long axis.
func LinesFromRect(r BBox, maxThickness float64) []Line {
	switch {
	case r.Height <= maxThickness && r.Width > maxThickness:
		y := r.Y + r.Height/2
		return []Line{{Start: Point{r.Left(), y}, End: Point{r.Right(), y}, Width: r.Height}}
	case r.Width <= maxThickness && r.Height > maxThickness:
		x := r.X + r.Width/2
		return []Line{{Start: Point{x, r.Bottom()}, End: Point{x, r.Top()}, Width: r.Width}}
	case r.Width <= maxThickness && r.Height <= maxThickness:
		return nil
	}
	return []Line{
		{Start: Point{r.Left(), r.Bottom()}, End: Point{r.Right(), r.Bottom()}},
		{Start: Point{r.Left(), r.Top()}, End: Point{r.Right(), r.Top()}},
		{Start: Point{r.Left(), r.Bottom()}, End: Point{r.Left(), r.Top()}},
		{Start: Point{r.Right(), r.Bottom()}, End: Point{r.Right(), r.Top()}},
	}
}
