// Package fynemask provides a Fyne widget for painting masks with maskpaint.
//
// The widget shows the session image with the overlay drawn over it,
// scaled to fit the widget, and feeds mouse, touch and drag input to the
// session engine. Saving composes the mask and hands it to OnSave.
//
//	s, err := maskpaint.NewSession(img)
//	if err != nil {
//	    return err
//	}
//	w := fynemask.NewMaskWidget(s)
//	w.OnSave = func(m *maskpaint.MaskImage) { submit(m.DataURI()) }
//	win.SetContent(container.NewBorder(toolbar, nil, nil, nil, w))
package fynemask

import (
	"errors"
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"github.com/gogpu/maskpaint"
)

// MaskWidget is an interactive mask painting surface.
type MaskWidget struct {
	widget.BaseWidget

	session *maskpaint.Session

	mu      sync.Mutex
	preview *image.NRGBA

	// OnSave is called with the composed mask after a successful Save.
	OnSave func(m *maskpaint.MaskImage)

	// OnError is called when input or saving fails.
	OnError func(err error)
}

var _ fyne.Widget = (*MaskWidget)(nil)
var _ fyne.Draggable = (*MaskWidget)(nil)
var _ desktop.Mouseable = (*MaskWidget)(nil)
var _ desktop.Hoverable = (*MaskWidget)(nil)
var _ mobile.Touchable = (*MaskWidget)(nil)

// NewMaskWidget creates a widget editing the given session.
func NewMaskWidget(s *maskpaint.Session) *MaskWidget {
	w := &MaskWidget{session: s}
	w.ExtendBaseWidget(w)
	w.updatePreview()
	return w
}

// Session returns the edited session.
func (w *MaskWidget) Session() *maskpaint.Session { return w.session }

// SetBrushRadius sets the brush radius in image pixels.
func (w *MaskWidget) SetBrushRadius(r float64) {
	w.session.Engine().SetBrushRadius(r)
}

// SetMode switches between painting and erasing.
func (w *MaskWidget) SetMode(m maskpaint.BrushMode) {
	w.session.Engine().SetMode(m)
}

// Clear removes everything painted so far.
func (w *MaskWidget) Clear() {
	w.session.Engine().ClearOverlay()
	w.updatePreview()
	w.Refresh()
}

// Save composes the mask and closes the session. On failure the session
// stays usable and OnError is called.
func (w *MaskWidget) Save() (*maskpaint.MaskImage, error) {
	m, err := w.session.Save()
	if err != nil {
		w.fail(err)
		return nil, err
	}
	if w.OnSave != nil {
		w.OnSave(m)
	}
	return m, nil
}

// MouseDown starts a stroke with the primary button.
func (w *MaskWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.handle(maskpaint.PointerDown, e.Position)
}

// MouseUp ends the stroke.
func (w *MaskWidget) MouseUp(e *desktop.MouseEvent) {
	w.handle(maskpaint.PointerUp, e.Position)
}

// Dragged continues the stroke.
func (w *MaskWidget) Dragged(e *fyne.DragEvent) {
	w.handle(maskpaint.PointerMove, e.Position)
}

// DragEnd ends the stroke.
func (w *MaskWidget) DragEnd() {
	w.handleEvent(maskpaint.PointerEvent{Kind: maskpaint.PointerUp})
}

// TouchDown starts a stroke on touch devices, where no MouseDown precedes
// the drag.
func (w *MaskWidget) TouchDown(e *mobile.TouchEvent) {
	w.handle(maskpaint.PointerDown, e.Position)
}

// TouchUp ends the stroke.
func (w *MaskWidget) TouchUp(e *mobile.TouchEvent) {
	w.handle(maskpaint.PointerUp, e.Position)
}

// TouchCancel ends the stroke when the system takes over the touch.
func (w *MaskWidget) TouchCancel(*mobile.TouchEvent) {
	w.handleEvent(maskpaint.PointerEvent{Kind: maskpaint.PointerUp})
}

// MouseIn is part of desktop.Hoverable.
func (w *MaskWidget) MouseIn(*desktop.MouseEvent) {}

// MouseMoved is part of desktop.Hoverable.
func (w *MaskWidget) MouseMoved(*desktop.MouseEvent) {}

// MouseOut ends the stroke when the pointer leaves the widget.
func (w *MaskWidget) MouseOut() {
	w.handleEvent(maskpaint.PointerEvent{Kind: maskpaint.PointerLeave})
}

func (w *MaskWidget) handle(kind maskpaint.PointerKind, pos fyne.Position) {
	w.handleEvent(maskpaint.MouseEvent(kind, float64(pos.X), float64(pos.Y)))
}

func (w *MaskWidget) handleEvent(ev maskpaint.PointerEvent) {
	if w.session.Closed() {
		return
	}
	err := w.session.Engine().HandleEvent(ev)
	switch {
	case errors.Is(err, maskpaint.ErrSurfaceUnavailable), errors.Is(err, maskpaint.ErrInvalidPointerEvent):
		maskpaint.Logger().Debug("fynemask: event ignored", "kind", ev.Kind, "reason", err)
		return
	case err != nil:
		w.fail(err)
		return
	}
	if ev.Kind == maskpaint.PointerDown || ev.Kind == maskpaint.PointerMove {
		w.updatePreview()
		w.Refresh()
	}
}

func (w *MaskWidget) fail(err error) {
	maskpaint.Logger().Warn("fynemask: operation failed", "error", err)
	if w.OnError != nil {
		w.OnError(err)
	}
}

func (w *MaskWidget) updatePreview() {
	prev, err := w.session.Engine().Preview()
	if err != nil {
		return
	}
	w.mu.Lock()
	w.preview = prev
	w.mu.Unlock()
}

func (w *MaskWidget) currentPreview() *image.NRGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.preview
}

// CreateRenderer is part of fyne.Widget.
func (w *MaskWidget) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewImageFromImage(w.currentPreview())
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleFastest
	return &maskRenderer{w: w, img: img}
}

type maskRenderer struct {
	w   *MaskWidget
	img *canvas.Image
}

// Layout keeps the engine viewport on the area the image is drawn in.
func (r *maskRenderer) Layout(size fyne.Size) {
	r.img.Resize(size)
	r.img.Move(fyne.NewPos(0, 0))
	iw, ih := r.w.session.Engine().Size()
	r.w.session.Engine().SetViewport(maskpaint.FitViewport(iw, ih, float64(size.Width), float64(size.Height)))
}

func (r *maskRenderer) MinSize() fyne.Size {
	return fyne.NewSize(64, 64)
}

func (r *maskRenderer) Refresh() {
	r.img.Image = r.w.currentPreview()
	r.img.Refresh()
}

func (r *maskRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.img}
}

func (r *maskRenderer) Destroy() {}
