// Package coverage computes anti-aliased brush coverage for round-capped
// line segments.
//
// A brush of radius r swept from one point to another covers a capsule: a
// rectangle of width 2r along the segment closed by two half discs. A
// zero-length segment covers a disc. Coverage is returned as an
// *image.Alpha tile in absolute bitmap coordinates, clipped to the target
// surface, where 255 means the pixel is fully under the brush.
package coverage

import (
	"image"
	"math"
)

// Rasterizer computes the coverage of a round brush swept along a segment.
//
// Segment returns (nil, nil) when the brush does not touch clip.
type Rasterizer interface {
	Segment(clip image.Rectangle, x0, y0, x1, y1, r float64) (*image.Alpha, error)
}

// snapThreshold is the distance from empty or full coverage, in 1/255
// steps, under which coverage snaps to exactly 0 or 255. Backends differ in
// how they round interior pixels; snapping makes interiors exact.
const snapThreshold = 1

// Bounds returns the integer pixel rectangle that can receive coverage from
// the capsule, clipped to clip. Non-finite input yields an empty rectangle.
func Bounds(clip image.Rectangle, x0, y0, x1, y1, r float64) image.Rectangle {
	for _, v := range [...]float64{x0, y0, x1, y1, r} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return image.Rectangle{}
		}
	}
	minX := clampf(math.Floor(math.Min(x0, x1)-r)-1, clip.Min.X, clip.Max.X)
	minY := clampf(math.Floor(math.Min(y0, y1)-r)-1, clip.Min.Y, clip.Max.Y)
	maxX := clampf(math.Ceil(math.Max(x0, x1)+r)+1, clip.Min.X, clip.Max.X)
	maxY := clampf(math.Ceil(math.Max(y0, y1)+r)+1, clip.Min.Y, clip.Max.Y)
	return image.Rect(minX, minY, maxX, maxY).Intersect(clip)
}

func clampf(v float64, lo, hi int) int {
	if v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}

// Snap rounds near-empty coverage to 0 and near-full coverage to 255.
func Snap(a *image.Alpha) {
	if a == nil {
		return
	}
	for i, v := range a.Pix {
		switch {
		case v <= snapThreshold:
			a.Pix[i] = 0
		case v >= 255-snapThreshold:
			a.Pix[i] = 255
		}
	}
}

// Covers reports whether the disc or capsule of radius r around the segment
// contains the point (px, py). It is the exact geometric predicate the
// rasterizers approximate and is used to pick interior pixels in tests and
// hit testing.
func Covers(x0, y0, x1, y1, r, px, py float64) bool {
	return distToSegment(x0, y0, x1, y1, px, py) <= r
}

func distToSegment(x0, y0, x1, y1, px, py float64) float64 {
	dx, dy := x1-x0, y1-y0
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px-x0, py-y0)
	}
	t := ((px-x0)*dx + (py-y0)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(x0+t*dx), py-(y0+t*dy))
}
