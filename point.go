package maskpaint

import "math"

// Point represents a 2D point. Depending on context it is in display
// (client) or bitmap coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Distance returns the distance to another point.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Viewport is the rectangle, in client coordinates, that a surface is
// rendered into on screen. The displayed size may differ from the bitmap
// size when the image is scaled to fit.
type Viewport struct {
	Left, Top     float64
	Width, Height float64
}

// IsZero reports whether the viewport has no usable display size.
// A zero viewport maps client coordinates to bitmap coordinates unchanged.
func (v Viewport) IsZero() bool {
	return v.Width <= 0 || v.Height <= 0
}

// ToBitmap maps a client-space point into the bitmap space of a w x h
// surface:
//
//	bx = (p.X - Left) / Width * w
//	by = (p.Y - Top) / Height * h
func (v Viewport) ToBitmap(p Point, w, h int) Point {
	if v.IsZero() {
		return p
	}
	return Point{
		X: (p.X - v.Left) / v.Width * float64(w),
		Y: (p.Y - v.Top) / v.Height * float64(h),
	}
}

// ToClient maps a bitmap-space point back to client space.
func (v Viewport) ToClient(p Point, w, h int) Point {
	if v.IsZero() || w == 0 || h == 0 {
		return p
	}
	return Point{
		X: v.Left + p.X/float64(w)*v.Width,
		Y: v.Top + p.Y/float64(h)*v.Height,
	}
}

// Contains reports whether a client-space point lies inside the viewport.
func (v Viewport) Contains(p Point) bool {
	return p.X >= v.Left && p.X < v.Left+v.Width &&
		p.Y >= v.Top && p.Y < v.Top+v.Height
}

// FitViewport returns the viewport of a w x h image scaled uniformly to fit
// inside a displayW x displayH area and centered in it.
func FitViewport(w, h int, displayW, displayH float64) Viewport {
	if w <= 0 || h <= 0 || displayW <= 0 || displayH <= 0 {
		return Viewport{}
	}
	s := math.Min(displayW/float64(w), displayH/float64(h))
	vw := float64(w) * s
	vh := float64(h) * s
	return Viewport{
		Left:   (displayW - vw) / 2,
		Top:    (displayH - vh) / 2,
		Width:  vw,
		Height: vh,
	}
}
