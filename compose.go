package maskpaint

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

// MaskImage is a composed binary mask: every pixel is opaque white
// (selected) or opaque black. It carries its PNG encoding.
//
// A MaskImage is immutable once created.
type MaskImage struct {
	img *image.NRGBA
	png []byte
}

// Width returns the mask width in pixels.
func (m *MaskImage) Width() int { return m.img.Rect.Dx() }

// Height returns the mask height in pixels.
func (m *MaskImage) Height() int { return m.img.Rect.Dy() }

// Image returns the mask pixels. Callers must not modify them.
func (m *MaskImage) Image() *image.NRGBA { return m.img }

// PNG returns a copy of the encoded mask.
func (m *MaskImage) PNG() []byte { return bytes.Clone(m.png) }

// DataURI returns the mask as a data:image/png;base64 URI.
func (m *MaskImage) DataURI() string {
	return EncodeDataURI("image/png", m.png)
}

// WriteTo writes the encoded PNG to w.
func (m *MaskImage) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(m.png)
	return int64(n), err
}

// Selected reports whether pixel (x, y) is part of the selected region.
func (m *MaskImage) Selected(x, y int) bool {
	if !(image.Point{x, y}.In(m.img.Rect)) {
		return false
	}
	return m.img.Pix[m.img.PixOffset(x, y)] == 0xff
}

// Coverage returns the fraction of selected pixels, in [0, 1].
func (m *MaskImage) Coverage() float64 {
	n := m.img.Rect.Dx() * m.img.Rect.Dy()
	if n == 0 {
		return 0
	}
	var sel int
	for i := 0; i < len(m.img.Pix); i += 4 {
		if m.img.Pix[i] == 0xff {
			sel++
		}
	}
	return float64(sel) / float64(n)
}

var (
	maskWhite = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	maskBlack = color.NRGBA{A: 0xff}
)

// ComposeMask produces the binary mask of overlay and encodes it as PNG.
//
// The overlay is laid over an opaque black background and every pixel the
// overlay touches, including anti-aliased edges and semi-transparent ink,
// becomes opaque white.
//
// Returns ErrSurfaceUnavailable for a nil overlay and ErrEncoding when the
// overlay has no pixels or PNG encoding fails.
func ComposeMask(overlay *Surface, opts ...ComposeOption) (*MaskImage, error) {
	if overlay == nil {
		return nil, ErrSurfaceUnavailable
	}
	if overlay.Empty() {
		return nil, fmt.Errorf("%w: empty %dx%d surface", ErrEncoding, overlay.Width(), overlay.Height())
	}
	m, err := newMaskImage(Binarize(overlay.Image()), opts...)
	if err != nil {
		return nil, err
	}
	Logger().Info("maskpaint: mask composed",
		"width", m.Width(), "height", m.Height(), "bytes", len(m.png))
	return m, nil
}

// Binarize returns the binary mask of an overlay: opaque white where the
// overlay alpha is non-zero, opaque black elsewhere. This is the result of
// compositing the overlay source-over onto opaque black and forcing every
// pixel the overlay reached to white. src is not modified.
func Binarize(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := dst.PixOffset(0, y)
		for x := 0; x < b.Dx(); x, si, di = x+1, si+4, di+4 {
			c := maskBlack
			if src.Pix[si+3] > 0 {
				c = maskWhite
			}
			dst.Pix[di+0] = c.R
			dst.Pix[di+1] = c.G
			dst.Pix[di+2] = c.B
			dst.Pix[di+3] = c.A
		}
	}
	return dst
}

// DecodeMask reads a mask image produced elsewhere. A pixel with non-zero
// luminance counts as selected and transparent pixels count as black. The
// result is binarized again so the usual MaskImage guarantees hold.
func DecodeMask(r io.Reader, opts ...ComposeOption) (*MaskImage, error) {
	src, _, err := DecodeImage(r)
	if err != nil {
		return nil, fmt.Errorf("maskpaint: decode mask: %w", err)
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty %dx%d mask", ErrEncoding, b.Dx(), b.Dy())
	}
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := maskBlack
			g := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			if g.Y > 0 {
				c = maskWhite
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return newMaskImage(img, opts...)
}

func newMaskImage(img *image.NRGBA, opts ...ComposeOption) (*MaskImage, error) {
	o := defaultComposeOptions()
	for _, opt := range opts {
		opt(&o)
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: o.compression}
	if err := enc.Encode(&buf, img); err != nil {
		Logger().Warn("maskpaint: mask encoding failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return &MaskImage{img: img, png: buf.Bytes()}, nil
}
