package maskpaint

import "image/png"

// Option configures an Engine or Session during creation.
//
// Example:
//
//	// Defaults: radius 30, paint mode, gg rasterizer
//	eng := maskpaint.NewEngine()
//
//	// Fine brush on the vector rasterizer
//	eng := maskpaint.NewEngine(
//	    maskpaint.WithBrush(maskpaint.BrushConfig{Radius: 8}),
//	    maskpaint.WithRasterizer(maskpaint.RasterizerVector),
//	)
type Option func(*options)

// options holds optional configuration for Engine creation.
type options struct {
	brush      BrushConfig
	paintAlpha float64
	rasterizer RasterizerMode
	viewport   Viewport
	compose    []ComposeOption
}

// defaultOptions returns the default engine options.
func defaultOptions() options {
	return options{
		brush:      DefaultBrush(),
		paintAlpha: DefaultPaintAlpha,
		rasterizer: RasterizerGG,
	}
}

// WithBrush sets the initial brush. The radius is clamped to
// [MinBrushRadius, MaxBrushRadius].
func WithBrush(b BrushConfig) Option {
	return func(o *options) {
		o.brush = b.normalize()
	}
}

// WithPaintAlpha sets the opacity of paint ink, in (0, 1].
// Values outside the range are ignored.
func WithPaintAlpha(a float64) Option {
	return func(o *options) {
		if a > 0 && a <= 1 {
			o.paintAlpha = a
		}
	}
}

// WithRasterizer selects the coverage rasterizer.
func WithRasterizer(m RasterizerMode) Option {
	return func(o *options) {
		o.rasterizer = m
	}
}

// WithViewport sets the initial display viewport.
func WithViewport(v Viewport) Option {
	return func(o *options) {
		o.viewport = v
	}
}

// WithComposeOptions sets the options the Engine passes to ComposeMask.
func WithComposeOptions(opts ...ComposeOption) Option {
	return func(o *options) {
		o.compose = append(o.compose, opts...)
	}
}

// ComposeOption configures mask composition.
type ComposeOption func(*composeOptions)

type composeOptions struct {
	compression png.CompressionLevel
}

func defaultComposeOptions() composeOptions {
	return composeOptions{compression: png.DefaultCompression}
}

// WithCompression sets the PNG compression level of the encoded mask.
func WithCompression(level png.CompressionLevel) ComposeOption {
	return func(o *composeOptions) {
		o.compression = level
	}
}
