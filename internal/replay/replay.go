// Package replay plays recorded pointer input against a maskpaint Engine.
//
// A script is a JSON document holding an ordered list of actions:
//
//	{
//	  "actions": [
//	    {"type": "radius", "radius": 12},
//	    {"type": "down", "x": 40, "y": 40},
//	    {"type": "move", "x": 120, "y": 90},
//	    {"type": "up"},
//	    {"type": "mode", "mode": "erase"}
//	  ]
//	}
//
// Pointer actions carry client coordinates and go through the engine's
// viewport, exactly as live input does.
package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/maskpaint"
)

// Action types.
const (
	ActionDown     = "down"
	ActionMove     = "move"
	ActionUp       = "up"
	ActionLeave    = "leave"
	ActionRadius   = "radius"
	ActionMode     = "mode"
	ActionClear    = "clear"
	ActionViewport = "viewport"
)

// ErrUnknownAction is returned for an action with an unrecognized type.
var ErrUnknownAction = errors.New("replay: unknown action")

// Script is an ordered list of recorded actions.
type Script struct {
	Actions []Action `json:"actions"`
}

// Action is one recorded input. Only the fields relevant to Type are set.
//
// Pointer actions without X and Y replay as events with no coordinates,
// which the engine ignores. Touches, when present, take precedence over
// X and Y.
type Action struct {
	Type     string    `json:"type"`
	X        *float64  `json:"x,omitempty"`
	Y        *float64  `json:"y,omitempty"`
	Touches  []Point   `json:"touches,omitempty"`
	Radius   float64   `json:"radius,omitempty"`
	Mode     string    `json:"mode,omitempty"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

// Point is a client-space position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the display rectangle of the image, in client units.
type Viewport struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Parse reads a JSON script from r.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("replay: parse script: %w", err)
	}
	return &s, nil
}

// Play applies the script's actions to eng in order. It stops at the first
// action that cannot be interpreted. Pointer events the engine ignores
// (input before load, events without coordinates) are skipped the way a
// UI would skip them.
func (s *Script) Play(eng *maskpaint.Engine) error {
	log := maskpaint.Logger()
	for i, a := range s.Actions {
		if err := a.apply(eng); err != nil {
			if errors.Is(err, maskpaint.ErrSurfaceUnavailable) || errors.Is(err, maskpaint.ErrInvalidPointerEvent) {
				log.Debug("replay: action ignored", "index", i, "type", a.Type, "reason", err)
				continue
			}
			return fmt.Errorf("replay: action %d (%s): %w", i, a.Type, err)
		}
	}
	log.Debug("replay: script played", "actions", len(s.Actions))
	return nil
}

func (a Action) apply(eng *maskpaint.Engine) error {
	switch a.Type {
	case ActionDown:
		return eng.HandleEvent(a.event(maskpaint.PointerDown))
	case ActionMove:
		return eng.HandleEvent(a.event(maskpaint.PointerMove))
	case ActionUp:
		return eng.HandleEvent(a.event(maskpaint.PointerUp))
	case ActionLeave:
		return eng.HandleEvent(a.event(maskpaint.PointerLeave))
	case ActionRadius:
		eng.SetBrushRadius(a.Radius)
	case ActionMode:
		m, err := maskpaint.ParseBrushMode(a.Mode)
		if err != nil {
			return err
		}
		eng.SetMode(m)
	case ActionClear:
		eng.ClearOverlay()
	case ActionViewport:
		if a.Viewport == nil {
			return errors.New("replay: viewport action without viewport")
		}
		v := a.Viewport
		eng.SetViewport(maskpaint.Viewport{Left: v.Left, Top: v.Top, Width: v.Width, Height: v.Height})
	default:
		return fmt.Errorf("%w %q", ErrUnknownAction, a.Type)
	}
	return nil
}

func (a Action) event(kind maskpaint.PointerKind) maskpaint.PointerEvent {
	ev := maskpaint.PointerEvent{Kind: kind}
	switch {
	case len(a.Touches) > 0:
		for _, p := range a.Touches {
			ev.Points = append(ev.Points, maskpaint.Pt(p.X, p.Y))
		}
	case a.X != nil && a.Y != nil:
		ev.Points = []maskpaint.Point{maskpaint.Pt(*a.X, *a.Y)}
	}
	return ev
}

// Recorder builds a script from live input, for saving and later replay.
type Recorder struct {
	script Script
}

// Event records a pointer event.
func (r *Recorder) Event(ev maskpaint.PointerEvent) {
	a := Action{Type: ev.Kind.String()}
	if len(ev.Points) == 1 {
		x, y := ev.Points[0].X, ev.Points[0].Y
		a.X, a.Y = &x, &y
	} else {
		for _, p := range ev.Points {
			a.Touches = append(a.Touches, Point{X: p.X, Y: p.Y})
		}
	}
	r.script.Actions = append(r.script.Actions, a)
}

// Radius records a brush radius change.
func (r *Recorder) Radius(radius float64) {
	r.script.Actions = append(r.script.Actions, Action{Type: ActionRadius, Radius: radius})
}

// Mode records a brush mode change.
func (r *Recorder) Mode(m maskpaint.BrushMode) {
	r.script.Actions = append(r.script.Actions, Action{Type: ActionMode, Mode: m.String()})
}

// Clear records an overlay clear.
func (r *Recorder) Clear() {
	r.script.Actions = append(r.script.Actions, Action{Type: ActionClear})
}

// Viewport records a viewport change.
func (r *Recorder) Viewport(v maskpaint.Viewport) {
	r.script.Actions = append(r.script.Actions, Action{Type: ActionViewport, Viewport: &Viewport{
		Left: v.Left, Top: v.Top, Width: v.Width, Height: v.Height,
	}})
}

// Script returns the recorded script.
func (r *Recorder) Script() *Script {
	s := Script{Actions: append([]Action(nil), r.script.Actions...)}
	return &s
}

// WriteTo writes the recorded script as indented JSON.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(r.script, "", "  ")
	if err != nil {
		return 0, err
	}
	n, err := w.Write(append(data, '\n'))
	return int64(n), err
}
