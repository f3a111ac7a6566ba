package maskpaint

import "fmt"

// PointerKind identifies a pointer or touch event.
type PointerKind int

const (
	// PointerDown starts a stroke (mouse down, touch start).
	PointerDown PointerKind = iota

	// PointerMove continues the current stroke (mouse or touch move).
	PointerMove

	// PointerUp ends the current stroke.
	PointerUp

	// PointerLeave ends the current stroke when the pointer leaves the surface.
	PointerLeave
)

// String returns the event kind name.
func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerLeave:
		return "leave"
	default:
		return fmt.Sprintf("PointerKind(%d)", int(k))
	}
}

// PointerEvent is one entry of the pointer event stream. Points holds the
// client-space positions carried by the event: one for a mouse event, the
// touch list for a touch event. Only the first point is used.
type PointerEvent struct {
	Kind   PointerKind
	Points []Point
}

// MouseEvent returns an event carrying a single client position.
func MouseEvent(kind PointerKind, x, y float64) PointerEvent {
	return PointerEvent{Kind: kind, Points: []Point{{X: x, Y: y}}}
}

// Position returns the first point of the event.
func (e PointerEvent) Position() (Point, bool) {
	if len(e.Points) == 0 {
		return Point{}, false
	}
	return e.Points[0], true
}
