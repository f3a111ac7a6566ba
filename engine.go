package maskpaint

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/gogpu/maskpaint/internal/coverage"
)

// State is the pointer state of an Engine.
type State int

const (
	// StateIdle means no stroke is in progress.
	StateIdle State = iota

	// StateDrawing means a stroke has begun and pointer moves extend it.
	StateDrawing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateDrawing:
		return "Drawing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Engine is the canvas drawing engine. It owns a base surface holding the
// source image and an overlay surface holding the strokes drawn over it,
// and renders pointer input onto the overlay.
//
// Input before the first successful Load is ignored. Methods are safe for
// concurrent use; calls are serialized.
type Engine struct {
	mu sync.Mutex

	base    *Surface
	overlay *Surface

	brush    BrushConfig
	viewport Viewport
	ink      color.NRGBA
	raster   coverage.Rasterizer
	compose  []ComposeOption

	state  State
	anchor Point
}

// NewEngine creates an engine with no image loaded.
//
// Example:
//
//	eng := maskpaint.NewEngine(maskpaint.WithBrush(maskpaint.BrushConfig{Radius: 12}))
//	if err := eng.Load(img); err != nil {
//	    return err
//	}
func NewEngine(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		brush:    o.brush.normalize(),
		viewport: o.viewport,
		ink:      color.NRGBA{R: 255, G: 255, B: 255, A: uint8(math.Round(o.paintAlpha * 255))},
		raster:   o.rasterizer.rasterizer(),
		compose:  o.compose,
	}
}

// Load snapshots img into the base surface and allocates a fully
// transparent overlay of the same size. Loading again replaces both
// surfaces and ends any stroke in progress. The brush is kept.
func (e *Engine) Load(img image.Image) error {
	if img == nil {
		return ErrNilImage
	}
	base := SurfaceFromImage(img)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.base = base
	e.overlay = NewSurface(base.Width(), base.Height())
	e.state = StateIdle
	e.anchor = Point{}
	Logger().Info("maskpaint: image loaded", "width", base.Width(), "height", base.Height())
	return nil
}

// Loaded reports whether a source image has been loaded.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.overlay != nil
}

// Size returns the bitmap dimensions of the loaded image, or 0, 0.
func (e *Engine) Size() (width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.overlay == nil {
		return 0, 0
	}
	return e.overlay.Width(), e.overlay.Height()
}

// State returns the current pointer state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetViewport sets the client-space rectangle the surface is displayed in.
func (e *Engine) SetViewport(v Viewport) {
	e.mu.Lock()
	e.viewport = v
	e.mu.Unlock()
}

// Viewport returns the current display viewport.
func (e *Engine) Viewport() Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport
}

// SetBrushRadius sets the brush radius, clamped to
// [MinBrushRadius, MaxBrushRadius]. It applies from the next segment.
func (e *Engine) SetBrushRadius(r float64) {
	e.mu.Lock()
	e.brush = e.brush.WithRadius(r)
	e.mu.Unlock()
}

// SetMode sets the brush mode. It applies from the next segment.
func (e *Engine) SetMode(m BrushMode) {
	e.mu.Lock()
	e.brush = e.brush.WithMode(m).normalize()
	e.mu.Unlock()
}

// SetBrush replaces the brush configuration.
func (e *Engine) SetBrush(b BrushConfig) {
	e.mu.Lock()
	e.brush = b.normalize()
	e.mu.Unlock()
}

// Brush returns the current brush configuration.
func (e *Engine) Brush() BrushConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.brush
}

// BeginStroke starts a stroke at client position p and renders a dot of
// the brush radius there. It is ignored before Load.
func (e *Engine) BeginStroke(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logIgnored("begin", e.begin(p))
}

// ContinueStroke extends the current stroke to client position p with a
// round-capped segment. It is ignored unless a stroke is in progress.
func (e *Engine) ContinueStroke(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logIgnored("continue", e.extend(p))
}

// EndStroke finishes the current stroke. Pixels are not modified.
func (e *Engine) EndStroke() {
	e.mu.Lock()
	e.end()
	e.mu.Unlock()
}

// HandleEvent applies one event of the pointer stream: PointerDown begins a
// stroke, PointerMove continues it, PointerUp and PointerLeave end it.
//
// Returns ErrSurfaceUnavailable before Load and ErrInvalidPointerEvent for
// a down or move without coordinates. Nothing is rendered in either case,
// and callers driven by a UI may ignore both.
func (e *Engine) HandleEvent(ev PointerEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ev.Kind {
	case PointerUp, PointerLeave:
		e.end()
		return nil
	case PointerDown, PointerMove:
	default:
		return fmt.Errorf("%w: unknown kind %v", ErrInvalidPointerEvent, ev.Kind)
	}

	if e.overlay == nil {
		return ErrSurfaceUnavailable
	}
	p, ok := ev.Position()
	if !ok {
		return fmt.Errorf("%w: %v without points", ErrInvalidPointerEvent, ev.Kind)
	}
	if ev.Kind == PointerDown {
		return e.begin(p)
	}
	return e.extend(p)
}

// ClearOverlay resets every overlay pixel to fully transparent. A stroke in
// progress continues on the cleared overlay.
func (e *Engine) ClearOverlay() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.overlay == nil {
		return
	}
	e.overlay.Clear()
	Logger().Debug("maskpaint: overlay cleared")
}

// Overlay returns a copy of the overlay surface, or nil before Load.
func (e *Engine) Overlay() *Surface {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.overlay == nil {
		return nil
	}
	return e.overlay.Clone()
}

// Base returns a copy of the base surface, or nil before Load.
func (e *Engine) Base() *Surface {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.base == nil {
		return nil
	}
	return e.base.Clone()
}

// ComposeMask composes the binary mask of the current overlay.
func (e *Engine) ComposeMask() (*MaskImage, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.overlay == nil {
		return nil, ErrSurfaceUnavailable
	}
	return ComposeMask(e.overlay, e.compose...)
}

// begin must be called with e.mu held.
func (e *Engine) begin(p Point) error {
	if e.overlay == nil {
		return ErrSurfaceUnavailable
	}
	bp := e.toBitmap(p)
	e.state = StateDrawing
	e.anchor = bp
	return renderSegment(e.overlay, bp, bp, e.brush, e.ink, e.raster)
}

// extend must be called with e.mu held.
func (e *Engine) extend(p Point) error {
	if e.overlay == nil {
		return ErrSurfaceUnavailable
	}
	if e.state != StateDrawing {
		return nil
	}
	bp := e.toBitmap(p)
	from := e.anchor
	e.anchor = bp
	return renderSegment(e.overlay, from, bp, e.brush, e.ink, e.raster)
}

func (e *Engine) end() {
	e.state = StateIdle
	e.anchor = Point{}
}

func (e *Engine) toBitmap(p Point) Point {
	return e.viewport.ToBitmap(p, e.overlay.Width(), e.overlay.Height())
}

func (e *Engine) logIgnored(op string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrSurfaceUnavailable):
		Logger().Debug("maskpaint: input ignored", "op", op, "reason", "surface unavailable")
	default:
		Logger().Warn("maskpaint: segment not rendered", "op", op, "error", err)
	}
}

// renderSegment composites one brush segment from a to b (bitmap space)
// onto dst. A zero-length segment renders a dot.
func renderSegment(dst *Surface, a, b Point, brush BrushConfig, ink color.NRGBA, r coverage.Rasterizer) error {
	img := dst.Image()
	cov, err := r.Segment(img.Rect, a.X, a.Y, b.X, b.Y, brush.Radius)
	if err != nil {
		return err
	}
	if cov == nil {
		return nil
	}

	sa := uint32(ink.A)
	rect := cov.Rect
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		ci := cov.PixOffset(rect.Min.X, y)
		di := img.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x, ci, di = x+1, ci+1, di+4 {
			c := uint32(cov.Pix[ci])
			if c == 0 {
				continue
			}
			if brush.Mode == BrushErase {
				erasePixel(img.Pix, di)
			} else {
				blendPixel(img.Pix, di, ink, mul255(sa, c))
			}
		}
	}
	Logger().Debug("maskpaint: segment", "mode", brush.Mode, "radius", brush.Radius, "bounds", rect)
	return nil
}
