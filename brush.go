package maskpaint

import (
	"fmt"
	"math"
)

// Brush radius bounds, in bitmap pixels.
const (
	MinBrushRadius     = 5.0
	MaxBrushRadius     = 150.0
	DefaultBrushRadius = 30.0
)

// DefaultPaintAlpha is the opacity of the selection ink laid down by
// BrushPaint strokes.
const DefaultPaintAlpha = 0.5

// BrushMode selects how a stroke combines with the overlay.
type BrushMode int

const (
	// BrushPaint adds semi-transparent white ink (source-over).
	BrushPaint BrushMode = iota

	// BrushErase removes ink under the brush (destination-out).
	BrushErase
)

// String returns the brush mode name.
func (m BrushMode) String() string {
	switch m {
	case BrushPaint:
		return "paint"
	case BrushErase:
		return "erase"
	default:
		return fmt.Sprintf("BrushMode(%d)", int(m))
	}
}

// ParseBrushMode parses "paint" or "erase".
func ParseBrushMode(s string) (BrushMode, error) {
	switch s {
	case "paint":
		return BrushPaint, nil
	case "erase":
		return BrushErase, nil
	default:
		return 0, fmt.Errorf("maskpaint: unknown brush mode %q", s)
	}
}

// BrushConfig is the brush in force for the next rendered segment.
type BrushConfig struct {
	Radius float64
	Mode   BrushMode
}

// DefaultBrush returns the brush a new engine starts with.
func DefaultBrush() BrushConfig {
	return BrushConfig{Radius: DefaultBrushRadius, Mode: BrushPaint}
}

// WithRadius returns a copy of the brush with the radius clamped to
// [MinBrushRadius, MaxBrushRadius].
func (b BrushConfig) WithRadius(r float64) BrushConfig {
	b.Radius = ClampRadius(r)
	return b
}

// WithMode returns a copy of the brush with the given mode.
func (b BrushConfig) WithMode(m BrushMode) BrushConfig {
	b.Mode = m
	return b
}

// ClampRadius clamps r to [MinBrushRadius, MaxBrushRadius].
// NaN maps to DefaultBrushRadius.
func ClampRadius(r float64) float64 {
	switch {
	case math.IsNaN(r):
		return DefaultBrushRadius
	case r < MinBrushRadius:
		return MinBrushRadius
	case r > MaxBrushRadius:
		return MaxBrushRadius
	default:
		return r
	}
}

// normalize clamps the radius and maps unknown modes to paint.
func (b BrushConfig) normalize() BrushConfig {
	b.Radius = ClampRadius(b.Radius)
	if b.Mode != BrushErase {
		b.Mode = BrushPaint
	}
	return b
}
