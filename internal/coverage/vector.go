package coverage

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

// kappa is the cubic Bezier control distance for a quarter circle of unit
// radius.
const kappa = 0.5522847498307936

// Vector rasterizes coverage by filling the capsule outline with
// golang.org/x/image/vector.
type Vector struct{}

// Segment implements Rasterizer.
func (Vector) Segment(clip image.Rectangle, x0, y0, x1, y1, r float64) (*image.Alpha, error) {
	rect := Bounds(clip, x0, y0, x1, y1, r)
	if rect.Empty() || r <= 0 {
		return nil, nil
	}

	w, h := rect.Dx(), rect.Dy()
	z := vector.NewRasterizer(w, h)
	ox, oy := float64(rect.Min.X), float64(rect.Min.Y)
	capsule(z, x0-ox, y0-oy, x1-ox, y1-oy, r)

	tile := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(tile, tile.Bounds(), image.Opaque, image.Point{})

	out := &image.Alpha{Pix: tile.Pix, Stride: tile.Stride, Rect: rect}
	Snap(out)
	return out, nil
}

// capsule adds the outline of a round-capped segment to z. For a zero-length
// segment the two half discs form a full circle.
func capsule(z *vector.Rasterizer, x0, y0, x1, y1, r float64) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		dx, dy, l = 1, 0, 1
	}
	// d points along the segment, n to its left; both have length r.
	d := vec{dx / l * r, dy / l * r}
	n := vec{-d.y, d.x}
	p0 := vec{x0, y0}
	p1 := vec{x1, y1}

	start := p0.add(n)
	z.MoveTo(float32(start.x), float32(start.y))
	lineTo(z, p1.add(n))
	quarter(z, p1, n, d)
	quarter(z, p1, d, n.neg())
	lineTo(z, p0.sub(n))
	quarter(z, p0, n.neg(), d.neg())
	quarter(z, p0, d.neg(), n)
	z.ClosePath()
}

// quarter adds a quarter-circle arc around c from c+u to c+v, where u and v
// are perpendicular and of equal length.
func quarter(z *vector.Rasterizer, c, u, v vec) {
	a := c.add(u)
	b := c.add(v)
	c1 := a.add(v.scale(kappa))
	c2 := b.add(u.scale(kappa))
	z.CubeTo(float32(c1.x), float32(c1.y), float32(c2.x), float32(c2.y), float32(b.x), float32(b.y))
}

func lineTo(z *vector.Rasterizer, p vec) {
	z.LineTo(float32(p.x), float32(p.y))
}

type vec struct{ x, y float64 }

func (a vec) add(b vec) vec       { return vec{a.x + b.x, a.y + b.y} }
func (a vec) sub(b vec) vec       { return vec{a.x - b.x, a.y - b.y} }
func (a vec) neg() vec            { return vec{-a.x, -a.y} }
func (a vec) scale(s float64) vec { return vec{a.x * s, a.y * s} }
