// Package maskpaint provides the mask drawing and compositing core of an
// image editing studio.
//
// # Overview
//
// A user paints a selection over a source image with a round brush. The
// strokes accumulate on a transparent overlay, and on save the overlay is
// turned into a strictly binary mask (opaque white for the selected region,
// opaque black elsewhere) encoded as PNG and usable as a data URI. The mask
// is what an external edit service consumes for inpainting, erasing or
// object insertion.
//
// # Quick Start
//
//	eng := maskpaint.NewEngine(maskpaint.WithBrush(maskpaint.BrushConfig{
//	    Radius: 20,
//	    Mode:   maskpaint.BrushPaint,
//	}))
//	if err := eng.Load(img); err != nil {
//	    return err
//	}
//
//	// Pointer input, in display coordinates.
//	eng.SetViewport(maskpaint.Viewport{Width: 400, Height: 300})
//	eng.BeginStroke(maskpaint.Pt(40, 40))
//	eng.ContinueStroke(maskpaint.Pt(120, 90))
//	eng.EndStroke()
//
//	mask, err := eng.ComposeMask()
//	if err != nil {
//	    return err
//	}
//	uri := mask.DataURI() // data:image/png;base64,...
//
// # Architecture
//
// The package is organized into:
//   - Engine: pointer state machine (idle, drawing) owning the base and
//     overlay surfaces
//   - Surface: straight-alpha pixel buffer at the image's natural resolution
//   - Compositor: ComposeMask and Binarize, producing MaskImage
//   - Rasterizers: coverage of round-capped segments, rendered either with
//     gg or with golang.org/x/image/vector (see RasterizerMode)
//   - Session: one editing session with an id, save and cancel
//
// # Coordinate System
//
// Bitmap coordinates follow the image: origin at top-left, X right, Y down,
// one unit per pixel, pixel (x, y) covering [x, x+1) x [y, y+1). Pointer
// positions arrive in display (client) coordinates and are mapped through
// the Viewport the surface is shown in.
//
// # Concurrency
//
// Input is processed in order and every segment renders synchronously. An
// Engine serializes its methods, so a save from another goroutine observes
// either all or none of a segment.
package maskpaint

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
