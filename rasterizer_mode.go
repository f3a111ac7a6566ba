package maskpaint

import (
	"fmt"

	"github.com/gogpu/maskpaint/internal/coverage"
)

// RasterizerMode controls which algorithm computes brush coverage.
//
// The mode is per-Engine, not global. Both modes produce anti-aliased
// coverage with exact interiors; they differ only in how edge pixels are
// shaded.
type RasterizerMode int

const (
	// RasterizerGG strokes segments with the gg software renderer
	// (round caps and joins). This is the default.
	RasterizerGG RasterizerMode = iota

	// RasterizerVector fills the capsule outline of each segment with
	// golang.org/x/image/vector.
	// Best for: very large images, where it avoids per-segment context setup.
	RasterizerVector
)

// String returns the rasterizer mode name.
func (m RasterizerMode) String() string {
	switch m {
	case RasterizerGG:
		return "gg"
	case RasterizerVector:
		return "vector"
	default:
		return "Unknown"
	}
}

// ParseRasterizerMode parses a rasterizer name as returned by String.
func ParseRasterizerMode(s string) (RasterizerMode, error) {
	switch s {
	case "gg":
		return RasterizerGG, nil
	case "vector":
		return RasterizerVector, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRasterizer, s)
	}
}

// rasterizer returns the coverage backend for the mode.
func (m RasterizerMode) rasterizer() coverage.Rasterizer {
	if m == RasterizerVector {
		return coverage.Vector{}
	}
	return coverage.GG{}
}
