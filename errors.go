package maskpaint

import "errors"

// Common errors returned by maskpaint operations.
var (
	// ErrSurfaceUnavailable is returned when drawing or saving is attempted
	// before a source image has been loaded.
	ErrSurfaceUnavailable = errors.New("maskpaint: surface unavailable")

	// ErrInvalidPointerEvent is returned for a pointer event that carries no
	// coordinates, such as a touch event with an empty touch list.
	ErrInvalidPointerEvent = errors.New("maskpaint: invalid pointer event")

	// ErrEncoding is returned when a mask cannot be serialized.
	ErrEncoding = errors.New("maskpaint: mask encoding failed")

	// ErrNilImage is returned when a nil source image is loaded.
	ErrNilImage = errors.New("maskpaint: nil image")

	// ErrInvalidDataURI is returned when a data URI cannot be parsed.
	ErrInvalidDataURI = errors.New("maskpaint: invalid data URI")

	// ErrSessionClosed is returned by operations on a saved-and-closed or
	// cancelled Session.
	ErrSessionClosed = errors.New("maskpaint: session is closed")

	// ErrUnknownRasterizer is returned when parsing an unknown rasterizer name.
	ErrUnknownRasterizer = errors.New("maskpaint: unknown rasterizer")
)
