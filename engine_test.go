package maskpaint

import (
	"errors"
	"image"
	"image/color"
	"math"
	"sync"
	"testing"
)

var rasterizerModes = []RasterizerMode{RasterizerGG, RasterizerVector}

// newLoadedEngine returns an engine with a transparent w x h image loaded.
func newLoadedEngine(t *testing.T, w, h int, opts ...Option) *Engine {
	t.Helper()
	eng := NewEngine(opts...)
	if err := eng.Load(image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("Load() = %v", err)
	}
	return eng
}

// pixelDist returns the distance from the center of pixel (x, y) to the
// segment a-b.
func pixelDist(x, y int, a, b Point) float64 {
	px, py := float64(x)+0.5, float64(y)+0.5
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px-a.X, py-a.Y)
	}
	t := math.Max(0, math.Min(1, ((px-a.X)*dx+(py-a.Y)*dy)/l2))
	return math.Hypot(px-(a.X+t*dx), py-(a.Y+t*dy))
}

func stroke(eng *Engine, pts ...Point) {
	eng.BeginStroke(pts[0])
	for _, p := range pts[1:] {
		eng.ContinueStroke(p)
	}
	eng.EndStroke()
}

// TestEngineSingleDot tests that a tap renders a disc of the brush radius
// and composes to a white disc on black.
func TestEngineSingleDot(t *testing.T) {
	for _, mode := range rasterizerModes {
		t.Run(mode.String(), func(t *testing.T) {
			eng := newLoadedEngine(t, 100, 100,
				WithRasterizer(mode),
				WithBrush(BrushConfig{Radius: 10, Mode: BrushPaint}))

			eng.BeginStroke(Pt(50, 50))
			eng.EndStroke()

			ov := eng.Overlay().Image()
			center := Pt(50, 50)
			for y := 0; y < 100; y++ {
				for x := 0; x < 100; x++ {
					d := pixelDist(x, y, center, center)
					c := ov.NRGBAAt(x, y)
					switch {
					case d <= 8.5:
						want := color.NRGBA{R: 255, G: 255, B: 255, A: 128}
						if c != want {
							t.Fatalf("overlay (%d,%d) = %v, want %v", x, y, c, want)
						}
					case d >= 11.5:
						if c.A != 0 {
							t.Fatalf("overlay (%d,%d) alpha = %d, want 0", x, y, c.A)
						}
					}
				}
			}

			mask, err := eng.ComposeMask()
			if err != nil {
				t.Fatalf("ComposeMask() = %v", err)
			}
			for y := 0; y < 100; y++ {
				for x := 0; x < 100; x++ {
					d := pixelDist(x, y, center, center)
					if d <= 8.5 && !mask.Selected(x, y) {
						t.Fatalf("mask (%d,%d) not selected at distance %.2f", x, y, d)
					}
					if d >= 11.5 && mask.Selected(x, y) {
						t.Fatalf("mask (%d,%d) selected at distance %.2f", x, y, d)
					}
				}
			}
		})
	}
}

// TestEnginePaintThenErase tests that erasing a painted segment with a
// larger brush leaves an all-black mask.
func TestEnginePaintThenErase(t *testing.T) {
	for _, mode := range rasterizerModes {
		t.Run(mode.String(), func(t *testing.T) {
			eng := newLoadedEngine(t, 128, 128, WithRasterizer(mode))

			eng.SetBrushRadius(20)
			eng.SetMode(BrushPaint)
			stroke(eng, Pt(0, 0), Pt(100, 100))
			if eng.Overlay().IsTransparent() {
				t.Fatal("paint stroke left the overlay transparent")
			}

			eng.SetBrushRadius(25)
			eng.SetMode(BrushErase)
			stroke(eng, Pt(0, 0), Pt(100, 100))

			if !eng.Overlay().IsTransparent() {
				t.Error("overlay should be fully transparent after erase")
			}
			mask, err := eng.ComposeMask()
			if err != nil {
				t.Fatalf("ComposeMask() = %v", err)
			}
			if got := mask.Coverage(); got != 0 {
				t.Errorf("mask coverage = %v, want 0", got)
			}
		})
	}
}

// TestEngineEraseDominance tests that erasing a painted path with an equal
// or larger radius leaves the overlay as if freshly cleared.
func TestEngineEraseDominance(t *testing.T) {
	a, b := Pt(20, 30), Pt(70, 45)
	tests := []struct {
		name   string
		paintR float64
		eraseR float64
	}{
		{"equal radius", 12, 12},
		{"larger radius", 12, 16},
		{"small equal radius", 5, 5},
	}
	for _, mode := range rasterizerModes {
		for _, tt := range tests {
			t.Run(mode.String()+"/"+tt.name, func(t *testing.T) {
				eng := newLoadedEngine(t, 100, 80, WithRasterizer(mode))
				eng.SetBrushRadius(tt.paintR)
				stroke(eng, a, b)
				if eng.Overlay().IsTransparent() {
					t.Fatal("paint stroke left the overlay transparent")
				}
				eng.SetBrush(BrushConfig{Radius: tt.eraseR, Mode: BrushErase})
				stroke(eng, a, b)

				ov := eng.Overlay()
				for y := 0; y < 80; y++ {
					for x := 0; x < 100; x++ {
						if ov.AlphaAt(x, y) != 0 {
							t.Fatalf("pixel (%d,%d) alpha = %d at distance %.2f after erase",
								x, y, ov.AlphaAt(x, y), pixelDist(x, y, a, b))
						}
					}
				}
				mask, err := eng.ComposeMask()
				if err != nil {
					t.Fatalf("ComposeMask() = %v", err)
				}
				if got := mask.Coverage(); got != 0 {
					t.Errorf("mask coverage = %v, want 0", got)
				}
			})
		}
	}
}

// TestEngineEraseKeepsOutside tests that erasing leaves ink well outside the
// erase footprint untouched.
func TestEngineEraseKeepsOutside(t *testing.T) {
	for _, mode := range rasterizerModes {
		t.Run(mode.String(), func(t *testing.T) {
			eng := newLoadedEngine(t, 100, 100, WithRasterizer(mode))
			eng.SetBrushRadius(30)
			eng.BeginStroke(Pt(50, 50))
			eng.EndStroke()

			eng.SetBrush(BrushConfig{Radius: 10, Mode: BrushErase})
			eng.BeginStroke(Pt(50, 50))
			eng.EndStroke()

			ov := eng.Overlay()
			if ov.AlphaAt(50, 50) != 0 {
				t.Error("erase center still has ink")
			}
			if got := ov.AlphaAt(50, 70); got != 128 {
				t.Errorf("ink outside the erase radius alpha = %d, want 128", got)
			}
		})
	}
}

// TestEngineModeSwitchNotRetroactive tests that a mode change only
// affects segments rendered after it.
func TestEngineModeSwitchNotRetroactive(t *testing.T) {
	for _, mode := range rasterizerModes {
		t.Run(mode.String(), func(t *testing.T) {
			eng := newLoadedEngine(t, 120, 120, WithRasterizer(mode))
			eng.SetBrushRadius(8)

			first := [2]Point{Pt(10, 20), Pt(100, 20)}
			stroke(eng, first[0], first[1])

			eng.SetMode(BrushErase)
			second := [2]Point{Pt(10, 90), Pt(100, 90)}
			stroke(eng, second[0], second[1])

			// Same stroke, mode switched between segments.
			eng.SetMode(BrushPaint)
			eng.BeginStroke(Pt(10, 55))
			eng.ContinueStroke(Pt(60, 55))
			eng.SetMode(BrushErase)
			eng.ContinueStroke(Pt(110, 55))
			eng.EndStroke()

			mask, err := eng.ComposeMask()
			if err != nil {
				t.Fatalf("ComposeMask() = %v", err)
			}
			for x := 10; x < 100; x++ {
				if !mask.Selected(x, 20) {
					t.Fatalf("first segment pixel (%d,20) lost its selection", x)
				}
				if mask.Selected(x, 90) {
					t.Fatalf("erase segment pixel (%d,90) is selected", x)
				}
			}
			if !mask.Selected(30, 55) {
				t.Error("painted half of the mixed stroke should stay selected")
			}
			if mask.Selected(90, 55) {
				t.Error("erased half of the mixed stroke should not be selected")
			}
		})
	}
}

// TestEngineClearOverlayIdempotent tests that clearing twice equals clearing once.
func TestEngineClearOverlayIdempotent(t *testing.T) {
	eng := newLoadedEngine(t, 64, 64)
	stroke(eng, Pt(10, 10), Pt(50, 50))

	eng.ClearOverlay()
	once := eng.Overlay()
	eng.ClearOverlay()
	twice := eng.Overlay()

	if !once.IsTransparent() || !twice.IsTransparent() {
		t.Fatal("overlay should be transparent after ClearOverlay")
	}
	for i := range once.Image().Pix {
		if once.Image().Pix[i] != twice.Image().Pix[i] {
			t.Fatalf("Pix[%d] differs: %d vs %d", i, once.Image().Pix[i], twice.Image().Pix[i])
		}
	}
}

// TestEngineViewportMapping tests that strokes land at the mapped bitmap
// position when the image is displayed scaled.
func TestEngineViewportMapping(t *testing.T) {
	for _, s := range []float64{0.5, 1, 2} {
		eng := newLoadedEngine(t, 100, 100,
			WithBrush(BrushConfig{Radius: 5}),
			WithViewport(Viewport{Left: 10, Top: 20, Width: 100 * s, Height: 100 * s}))

		eng.BeginStroke(Pt(10+70*s, 20+30*s))
		eng.EndStroke()

		ov := eng.Overlay()
		if ov.AlphaAt(70, 30) == 0 {
			t.Errorf("scale %v: no ink at bitmap (70,30)", s)
		}
		if ov.AlphaAt(30, 70) != 0 {
			t.Errorf("scale %v: unexpected ink at bitmap (30,70)", s)
		}
	}
}

// TestEngineStateMachine tests Idle and Drawing transitions.
func TestEngineStateMachine(t *testing.T) {
	eng := newLoadedEngine(t, 50, 50)
	if got := eng.State(); got != StateIdle {
		t.Fatalf("initial state = %v, want Idle", got)
	}

	// Moves while idle render nothing.
	eng.ContinueStroke(Pt(10, 10))
	if !eng.Overlay().IsTransparent() {
		t.Error("ContinueStroke while idle should not render")
	}

	eng.BeginStroke(Pt(25, 25))
	if got := eng.State(); got != StateDrawing {
		t.Errorf("after BeginStroke state = %v, want Drawing", got)
	}
	before := eng.Overlay()
	eng.EndStroke()
	if got := eng.State(); got != StateIdle {
		t.Errorf("after EndStroke state = %v, want Idle", got)
	}
	after := eng.Overlay()
	for i := range before.Image().Pix {
		if before.Image().Pix[i] != after.Image().Pix[i] {
			t.Fatal("EndStroke modified pixels")
		}
	}
}

// TestEngineBeforeLoad tests that input before Load is ignored.
func TestEngineBeforeLoad(t *testing.T) {
	eng := NewEngine()
	eng.BeginStroke(Pt(1, 1))
	eng.ContinueStroke(Pt(2, 2))
	eng.EndStroke()
	eng.ClearOverlay()

	if eng.Loaded() {
		t.Error("Loaded() = true before Load")
	}
	if w, h := eng.Size(); w != 0 || h != 0 {
		t.Errorf("Size() = %dx%d, want 0x0", w, h)
	}
	if err := eng.HandleEvent(MouseEvent(PointerDown, 1, 1)); !errors.Is(err, ErrSurfaceUnavailable) {
		t.Errorf("HandleEvent() = %v, want ErrSurfaceUnavailable", err)
	}
	if _, err := eng.ComposeMask(); !errors.Is(err, ErrSurfaceUnavailable) {
		t.Errorf("ComposeMask() = %v, want ErrSurfaceUnavailable", err)
	}
	if _, err := eng.Preview(); !errors.Is(err, ErrSurfaceUnavailable) {
		t.Errorf("Preview() = %v, want ErrSurfaceUnavailable", err)
	}
	if eng.Overlay() != nil || eng.Base() != nil {
		t.Error("Overlay() and Base() should be nil before Load")
	}
}

// TestEngineHandleEvent tests dispatch of the pointer event stream.
func TestEngineHandleEvent(t *testing.T) {
	eng := newLoadedEngine(t, 60, 60, WithBrush(BrushConfig{Radius: 5}))

	if err := eng.HandleEvent(PointerEvent{Kind: PointerDown}); !errors.Is(err, ErrInvalidPointerEvent) {
		t.Fatalf("down without points = %v, want ErrInvalidPointerEvent", err)
	}
	if eng.State() != StateIdle || !eng.Overlay().IsTransparent() {
		t.Fatal("invalid event must not start a stroke or render")
	}

	events := []PointerEvent{
		MouseEvent(PointerDown, 10, 10),
		{Kind: PointerMove, Points: []Point{{X: 40, Y: 10}, {X: 0, Y: 59}}},
		{Kind: PointerMove},
		MouseEvent(PointerLeave, 50, 50),
		MouseEvent(PointerMove, 40, 50),
	}
	var invalid int
	for _, ev := range events {
		if err := eng.HandleEvent(ev); err != nil {
			if !errors.Is(err, ErrInvalidPointerEvent) {
				t.Fatalf("HandleEvent(%v) = %v", ev.Kind, err)
			}
			invalid++
		}
	}
	if invalid != 1 {
		t.Errorf("invalid events = %d, want 1", invalid)
	}
	if eng.State() != StateIdle {
		t.Errorf("state after leave = %v, want Idle", eng.State())
	}

	ov := eng.Overlay()
	if ov.AlphaAt(25, 10) == 0 {
		t.Error("segment from the first touch point is missing")
	}
	if ov.AlphaAt(40, 50) != 0 {
		t.Error("move after leave should not render")
	}
	if ov.AlphaAt(15, 41) != 0 {
		t.Error("secondary touch point should be ignored")
	}

	if err := eng.HandleEvent(PointerEvent{Kind: PointerKind(42)}); !errors.Is(err, ErrInvalidPointerEvent) {
		t.Errorf("unknown kind = %v, want ErrInvalidPointerEvent", err)
	}
}

// TestEngineBrushRadiusClamp tests radius clamping at the engine boundary.
func TestEngineBrushRadiusClamp(t *testing.T) {
	eng := NewEngine()
	tests := []struct {
		in, want float64
	}{
		{1, MinBrushRadius},
		{-3, MinBrushRadius},
		{40, 40},
		{1000, MaxBrushRadius},
		{math.NaN(), DefaultBrushRadius},
	}
	for _, tt := range tests {
		eng.SetBrushRadius(tt.in)
		if got := eng.Brush().Radius; got != tt.want {
			t.Errorf("SetBrushRadius(%v): radius = %v, want %v", tt.in, got, tt.want)
		}
	}
	eng.SetMode(BrushMode(9))
	if got := eng.Brush().Mode; got != BrushPaint {
		t.Errorf("unknown mode should fall back to paint, got %v", got)
	}
}

// TestEngineLoad tests loading and reloading images.
func TestEngineLoad(t *testing.T) {
	eng := NewEngine()
	if err := eng.Load(nil); !errors.Is(err, ErrNilImage) {
		t.Fatalf("Load(nil) = %v, want ErrNilImage", err)
	}

	src := image.NewNRGBA(image.Rect(5, 5, 45, 35))
	src.SetNRGBA(5, 5, color.NRGBA{R: 200, A: 255})
	if err := eng.Load(src); err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if w, h := eng.Size(); w != 40 || h != 30 {
		t.Errorf("Size() = %dx%d, want 40x30", w, h)
	}
	if got := eng.Base().Image().NRGBAAt(0, 0); got.R != 200 {
		t.Errorf("base origin = %v, want the source's top-left pixel", got)
	}
	if b := eng.Base(); b.Width() != eng.Overlay().Width() || b.Height() != eng.Overlay().Height() {
		t.Error("base and overlay dimensions differ")
	}

	eng.SetBrushRadius(12)
	eng.BeginStroke(Pt(10, 10))
	if err := eng.Load(image.NewNRGBA(image.Rect(0, 0, 20, 20))); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if eng.State() != StateIdle {
		t.Error("reload should end the stroke in progress")
	}
	if !eng.Overlay().IsTransparent() {
		t.Error("reload should start with a transparent overlay")
	}
	if eng.Brush().Radius != 12 {
		t.Error("reload should keep the brush")
	}
}

// TestEnginePreview tests compositing the overlay over the base image.
func TestEnginePreview(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+3] = 255, 255
	}
	eng := NewEngine(WithBrush(BrushConfig{Radius: 8}))
	if err := eng.Load(src); err != nil {
		t.Fatal(err)
	}
	eng.BeginStroke(Pt(20, 20))
	eng.EndStroke()

	prev, err := eng.Preview()
	if err != nil {
		t.Fatalf("Preview() = %v", err)
	}
	c := prev.NRGBAAt(20, 20)
	if c.R != 255 || c.A != 255 || c.G < 100 || c.G > 160 {
		t.Errorf("preview center = %v, want half-white over red", c)
	}
	if c := prev.NRGBAAt(2, 2); c != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("preview outside stroke = %v, want base red", c)
	}
	if eng.Base().Image().NRGBAAt(20, 20) != (color.NRGBA{R: 255, A: 255}) {
		t.Error("Preview must not modify the base surface")
	}
}

// TestEnginePaintAlpha tests the configured ink opacity.
func TestEnginePaintAlpha(t *testing.T) {
	eng := newLoadedEngine(t, 40, 40, WithPaintAlpha(1), WithBrush(BrushConfig{Radius: 6}))
	eng.BeginStroke(Pt(20, 20))
	eng.EndStroke()
	if got := eng.Overlay().AlphaAt(20, 20); got != 255 {
		t.Errorf("alpha with opaque ink = %d, want 255", got)
	}
}

// TestEngineConcurrentSave tests saving while input is processed on
// another goroutine.
func TestEngineConcurrentSave(t *testing.T) {
	eng := newLoadedEngine(t, 64, 64, WithBrush(BrushConfig{Radius: 5}))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 50 {
			eng.BeginStroke(Pt(float64(i), 10))
			eng.ContinueStroke(Pt(float64(i), 50))
			eng.EndStroke()
		}
	}()
	go func() {
		defer wg.Done()
		for range 10 {
			if _, err := eng.ComposeMask(); err != nil {
				t.Errorf("ComposeMask() = %v", err)
				return
			}
		}
	}()
	wg.Wait()
}

func BenchmarkEngineStroke(b *testing.B) {
	for _, mode := range rasterizerModes {
		b.Run(mode.String(), func(b *testing.B) {
			eng := NewEngine(WithRasterizer(mode))
			_ = eng.Load(image.NewNRGBA(image.Rect(0, 0, 1024, 768)))
			b.ReportAllocs()
			for b.Loop() {
				eng.BeginStroke(Pt(100, 100))
				eng.ContinueStroke(Pt(400, 300))
				eng.ContinueStroke(Pt(700, 200))
				eng.EndStroke()
			}
		})
	}
}
