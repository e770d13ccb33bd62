package design

import "math"

// Epsilon absorbs floating point drift in containment checks so a box that
// exactly matches its container is never rejected.
const Epsilon = 1e-6

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// RectFromCenter builds a rectangle of the given extent around (cx, cy).
func RectFromCenter(cx, cy, width, height float64) Rect {
	hw, hh := math.Abs(width)/2, math.Abs(height)/2
	return Rect{MinX: cx - hw, MinY: cy - hh, MaxX: cx + hw, MaxY: cy + hh}
}

func (r Rect) Width() float64 { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (float64, float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Contains reports whether inner lies fully inside r, boundaries inclusive.
func (r Rect) Contains(inner Rect) bool {
	return inner.MinX >= r.MinX-Epsilon &&
		inner.MinY >= r.MinY-Epsilon &&
		inner.MaxX <= r.MaxX+Epsilon &&
		inner.MaxY <= r.MaxY+Epsilon
}

// Fits reports whether a box of the given size could be placed inside r.
func (r Rect) Fits(width, height float64) bool {
	return width <= r.Width()+Epsilon && height <= r.Height()+Epsilon
}

// Distance returns the euclidean distance between the centers of r and o.
func (r Rect) Distance(o Rect) float64 {
	ax, ay := r.Center()
	bx, by := o.Center()
	return math.Hypot(ax-bx, ay-by)
}
