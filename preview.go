package maskpaint

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Scale returns the display scale factors of a w x h surface shown in the
// viewport. A zero viewport has scale 1.
func (v Viewport) Scale(w, h int) (sx, sy float64) {
	if v.IsZero() || w <= 0 || h <= 0 {
		return 1, 1
	}
	return v.Width / float64(w), v.Height / float64(h)
}

// Preview returns the base image with the overlay composited over it, the
// picture a user sees while drawing.
func (e *Engine) Preview() (*image.NRGBA, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.overlay == nil {
		return nil, ErrSurfaceUnavailable
	}
	out := e.base.Clone().Image()
	draw.Draw(out, out.Rect, e.overlay.Image(), image.Point{}, draw.Over)
	return out, nil
}

// ScaleToDisplay resamples img to w x h pixels for display. Non-positive
// dimensions yield an empty image.
func ScaleToDisplay(img image.Image, w, h int) *image.NRGBA {
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rectangle{})
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Rect, img, img.Bounds(), xdraw.Src, nil)
	return dst
}
