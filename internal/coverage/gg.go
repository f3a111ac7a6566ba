package coverage

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
)

// GG rasterizes coverage with the gg software renderer: segments are
// stroked with line width 2r and round caps and joins, dots are filled
// circles.
type GG struct{}

// Segment implements Rasterizer.
func (GG) Segment(clip image.Rectangle, x0, y0, x1, y1, r float64) (*image.Alpha, error) {
	rect := Bounds(clip, x0, y0, x1, y1, r)
	if rect.Empty() || r <= 0 {
		return nil, nil
	}

	dc := gg.NewContext(rect.Dx(), rect.Dy())
	defer func() {
		_ = dc.Close()
	}()

	// Tile-local coordinates.
	ox, oy := float64(rect.Min.X), float64(rect.Min.Y)
	dc.SetRGBA(1, 1, 1, 1)

	var err error
	if x0 == x1 && y0 == y1 {
		dc.DrawCircle(x0-ox, y0-oy, r)
		err = dc.Fill()
	} else {
		dc.SetLineWidth(2 * r)
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
		dc.MoveTo(x0-ox, y0-oy)
		dc.LineTo(x1-ox, y1-oy)
		err = dc.Stroke()
	}
	if err != nil {
		return nil, fmt.Errorf("coverage: gg render: %w", err)
	}

	out := image.NewAlpha(rect)
	copyAlpha(out, dc.Image())
	Snap(out)
	return out, nil
}

// copyAlpha copies the alpha channel of src, whose origin is the tile
// origin, into dst.
func copyAlpha(dst *image.Alpha, src image.Image) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	sb := src.Bounds()
	if rgba, ok := src.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			si := rgba.PixOffset(sb.Min.X, sb.Min.Y+y)
			di := y * dst.Stride
			for x := 0; x < w; x++ {
				dst.Pix[di+x] = rgba.Pix[si+x*4+3]
			}
		}
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := src.At(sb.Min.X+x, sb.Min.Y+y).RGBA()
			dst.Pix[y*dst.Stride+x] = uint8(a >> 8)
		}
	}
}
