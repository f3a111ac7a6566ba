package maskpaint

import (
	"image"
	"image/color"
	"image/draw"
)

// Surface is a rectangular straight-alpha pixel buffer at an image's natural
// resolution. It is independent of the size the image is displayed at.
//
// The zero value is an empty 0x0 surface.
type Surface struct {
	img *image.NRGBA
}

// NewSurface creates a fully transparent surface with the given dimensions.
// Negative dimensions are treated as zero.
func NewSurface(width, height int) *Surface {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// SurfaceFromImage snapshots img into a new surface with its origin moved to
// (0, 0).
func SurfaceFromImage(img image.Image) *Surface {
	b := img.Bounds()
	s := NewSurface(b.Dx(), b.Dy())
	draw.Draw(s.img, s.img.Bounds(), img, b.Min, draw.Src)
	return s
}

// Width returns the width of the surface in pixels.
func (s *Surface) Width() int {
	return s.buf().Rect.Dx()
}

// Height returns the height of the surface in pixels.
func (s *Surface) Height() int {
	return s.buf().Rect.Dy()
}

// Empty reports whether the surface has no pixels.
func (s *Surface) Empty() bool {
	return s.Width() == 0 || s.Height() == 0
}

// AlphaAt returns the alpha channel of a single pixel.
// Out-of-bounds coordinates return 0.
func (s *Surface) AlphaAt(x, y int) uint8 {
	img := s.buf()
	if !(image.Point{x, y}.In(img.Rect)) {
		return 0
	}
	return img.Pix[img.PixOffset(x, y)+3]
}

// Clear resets every pixel to fully transparent.
func (s *Surface) Clear() {
	clear(s.buf().Pix)
}

// IsTransparent reports whether every pixel has zero alpha.
func (s *Surface) IsTransparent() bool {
	pix := s.buf().Pix
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the surface.
func (s *Surface) Clone() *Surface {
	src := s.buf()
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return &Surface{img: dst}
}

// Image returns the underlying pixel buffer. Callers must not modify it.
func (s *Surface) Image() *image.NRGBA {
	return s.buf()
}

// At implements the image.Image interface.
func (s *Surface) At(x, y int) color.Color {
	return s.buf().NRGBAAt(x, y)
}

// Bounds implements the image.Image interface.
func (s *Surface) Bounds() image.Rectangle {
	return s.buf().Rect
}

// ColorModel implements the image.Image interface.
func (s *Surface) ColorModel() color.Model {
	return color.NRGBAModel
}

func (s *Surface) buf() *image.NRGBA {
	if s.img == nil {
		s.img = image.NewNRGBA(image.Rectangle{})
	}
	return s.img
}

// mul255 returns a*b/255 rounded to nearest.
func mul255(a, b uint32) uint32 {
	t := a*b + 128
	return (t + t>>8) >> 8
}

// blendPixel composites straight-alpha color c with source alpha sa over the
// pixel at offset i (source-over).
func blendPixel(pix []uint8, i int, c color.NRGBA, sa uint32) {
	if sa == 0 {
		return
	}
	da := uint32(pix[i+3])
	// Destination contribution: da*(1-sa).
	dw := mul255(da, 255-sa)
	oa := sa + dw
	if oa == 0 {
		return
	}
	pix[i+0] = uint8((uint32(c.R)*sa + uint32(pix[i+0])*dw + oa/2) / oa)
	pix[i+1] = uint8((uint32(c.G)*sa + uint32(pix[i+1])*dw + oa/2) / oa)
	pix[i+2] = uint8((uint32(c.B)*sa + uint32(pix[i+2])*dw + oa/2) / oa)
	pix[i+3] = uint8(oa)
}

// erasePixel clears the pixel at offset i to transparent black. Erasing is
// hard-edged: any brush coverage removes the pixel entirely, so an erase
// stroke leaves no anti-aliased residue inside its footprint.
func erasePixel(pix []uint8, i int) {
	pix[i+0], pix[i+1], pix[i+2], pix[i+3] = 0, 0, 0, 0
}
