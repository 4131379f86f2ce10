// Package ui is the fyne front end: an editor widget driven by the
// tool engine, a toolbar, and a chat pane. All drawing goes through
// the pure renderer; the widgets hold no pixel state of their own.
package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	fcanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"PixelChat/internal/canvas"
	"PixelChat/internal/session"
)

// EditorWidget shows the live grid and turns pointer interactions
// into tool gestures. One pointer-down to pointer-up interaction is
// one gesture, so undo works per stroke, not per cell.
type EditorWidget struct {
	widget.BaseWidget
	session *session.Session

	// OnChanged fires after any gesture or edit that may have
	// altered the drawing.
	OnChanged func()
}

var _ fyne.Widget = (*EditorWidget)(nil)
var _ fyne.Draggable = (*EditorWidget)(nil)
var _ desktop.Mouseable = (*EditorWidget)(nil)

func NewEditorWidget(s *session.Session) *EditorWidget {
	e := &EditorWidget{session: s}
	e.ExtendBaseWidget(e)
	return e
}

// Session exposes the editing session the widget drives.
func (e *EditorWidget) Session() *session.Session { return e.session }

func (e *EditorWidget) viewport() canvas.Viewport {
	sz := e.Size()
	return canvas.Viewport{Width: int(sz.Width), Height: int(sz.Height)}
}

// cellAt maps a widget-local position to grid coordinates. Positions
// outside the drawn surface map to out-of-bounds cells, which the
// engine treats as a no-op.
func (e *EditorWidget) cellAt(pos fyne.Position) (int, int) {
	g := e.session.Grid()
	scale := canvas.Scale(e.viewport(), g.Width(), g.Height())
	x := int(pos.X) / scale
	y := int(pos.Y) / scale
	if pos.X < 0 {
		x = -1
	}
	if pos.Y < 0 {
		y = -1
	}
	return x, y
}

func (e *EditorWidget) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	x, y := e.cellAt(ev.Position)
	e.session.Engine().BeginStroke(x, y)
	e.Refresh()
}

func (e *EditorWidget) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	e.finishGesture()
}

func (e *EditorWidget) Dragged(ev *fyne.DragEvent) {
	x, y := e.cellAt(ev.Position)
	e.session.Engine().ContinueStroke(x, y)
	e.Refresh()
}

func (e *EditorWidget) DragEnd() {
	e.finishGesture()
}

func (e *EditorWidget) finishGesture() {
	eng := e.session.Engine()
	if !eng.Stroking() {
		return
	}
	eng.EndStroke()
	e.Refresh()
	if e.OnChanged != nil {
		e.OnChanged()
	}
}

func (e *EditorWidget) MouseIn(*desktop.MouseEvent) {}

func (e *EditorWidget) MouseOut() {}

func (e *EditorWidget) MouseMoved(*desktop.MouseEvent) {}

// Undo steps the drawing back one gesture.
func (e *EditorWidget) Undo() {
	if e.session.History().Undo(e.session.Grid()) {
		e.Refresh()
		if e.OnChanged != nil {
			e.OnChanged()
		}
	}
}

// Redo reapplies the last undone gesture.
func (e *EditorWidget) Redo() {
	if e.session.History().Redo(e.session.Grid()) {
		e.Refresh()
		if e.OnChanged != nil {
			e.OnChanged()
		}
	}
}

func (e *EditorWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &editorRenderer{editor: e}
	r.background = fcanvas.NewRectangle(color.NRGBA{R: 58, G: 58, B: 64, A: 255})
	r.surface = fcanvas.NewImageFromImage(canvas.RenderUnscaled(e.session.Grid(), e.session.Palette()))
	r.surface.ScaleMode = fcanvas.ImageScalePixels
	return r
}

type editorRenderer struct {
	editor     *EditorWidget
	background *fcanvas.Rectangle
	surface    *fcanvas.Image
}

func (r *editorRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.surface}
}

func (r *editorRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)

	g := r.editor.session.Grid()
	scale := canvas.Scale(canvas.Viewport{Width: int(size.Width), Height: int(size.Height)}, g.Width(), g.Height())
	r.surface.Resize(fyne.NewSize(float32(g.Width()*scale), float32(g.Height()*scale)))
	r.surface.Move(fyne.NewPos(0, 0))
}

func (r *editorRenderer) MinSize() fyne.Size {
	return fyne.NewSize(256, 256)
}

func (r *editorRenderer) Refresh() {
	s := r.editor.session
	r.surface.Image = canvas.Render(s.Grid(), s.Palette(), r.editor.viewport())
	r.surface.Refresh()
	fcanvas.Refresh(r.editor)
}

func (r *editorRenderer) Destroy() {}
