package layout

import "math"

// Point is a position in logical pixels.
type Point struct {
	X float64
	Y float64
}

// Size is a dimension in logical pixels.
type Size struct {
	W float64
	H float64
}

// Rect describes a rectangular region in logical pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// CenterX returns the x coordinate of the horizontal center.
func (r Rect) CenterX() float64 {
	return r.X + r.Width/2
}

// Intersects reports whether two rectangles overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Inset shrinks the rectangle by the given margins on each side.
func (r Rect) Inset(left, top, right, bottom float64) Rect {
	return Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  r.Width - left - right,
		Height: r.Height - top - bottom,
	}
}

// round snaps a logical coordinate to a whole pixel. All settled geometry is
// whole-pixel so replaying an operation sequence reproduces bit-identical
// rectangles.
func round(v float64) float64 {
	return math.Floor(v + 0.5)
}

func clamp(v, lo, hi float64) float64 {
	if hi > 0 && v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
