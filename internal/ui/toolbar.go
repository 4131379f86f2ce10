package ui

import (
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	fcanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"PixelChat/internal/canvas"
)

// swatch is one clickable palette entry. Primary tap selects the
// color, secondary tap removes it from the palette.
type swatch struct {
	widget.BaseWidget
	bar   *PaletteBar
	index int
	color color.NRGBA
}

func newSwatch(bar *PaletteBar, index int, c canvas.Color) *swatch {
	s := &swatch{
		bar:   bar,
		index: index,
		color: color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255},
	}
	s.ExtendBaseWidget(s)
	return s
}

func (s *swatch) Tapped(*fyne.PointEvent) {
	s.bar.selectIndex(s.index)
}

func (s *swatch) TappedSecondary(*fyne.PointEvent) {
	s.bar.removeIndex(s.index)
}

func (s *swatch) CreateRenderer() fyne.WidgetRenderer {
	rect := fcanvas.NewRectangle(s.color)
	rect.StrokeWidth = 2
	return &swatchRenderer{swatch: s, rect: rect}
}

type swatchRenderer struct {
	swatch *swatch
	rect   *fcanvas.Rectangle
}

func (r *swatchRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.rect} }
func (r *swatchRenderer) Layout(size fyne.Size)        { r.rect.Resize(size) }
func (r *swatchRenderer) MinSize() fyne.Size           { return fyne.NewSize(26, 26) }
func (r *swatchRenderer) Destroy()                     {}

func (r *swatchRenderer) Refresh() {
	if r.swatch.bar.editor.Session().Engine().ActiveIndex() == uint8(r.swatch.index) {
		r.rect.StrokeColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	} else {
		r.rect.StrokeColor = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	}
	r.rect.Refresh()
}

// PaletteBar lays out one swatch per palette entry plus an add
// button. It rebuilds itself whenever the palette changes shape.
type PaletteBar struct {
	editor *EditorWidget
	box    *fyne.Container
	addFn  func()
}

func NewPaletteBar(editor *EditorWidget, onAdd func()) *PaletteBar {
	b := &PaletteBar{editor: editor, box: container.NewHBox(), addFn: onAdd}
	b.Rebuild()
	return b
}

func (b *PaletteBar) Container() fyne.CanvasObject { return b.box }

// Rebuild recreates the swatches from the current palette.
func (b *PaletteBar) Rebuild() {
	b.box.RemoveAll()
	for i, c := range b.editor.Session().Palette().Snapshot() {
		b.box.Add(newSwatch(b, i, c))
	}
	if b.addFn != nil {
		b.box.Add(widget.NewButtonWithIcon("", theme.ContentAddIcon(), b.addFn))
	}
	b.box.Refresh()
}

func (b *PaletteBar) selectIndex(index int) {
	if err := b.editor.Session().Engine().SetActiveIndex(index); err != nil {
		log.Printf("[ui] select color %d: %v", index, err)
		return
	}
	b.box.Refresh()
}

func (b *PaletteBar) removeIndex(index int) {
	if err := b.editor.Session().Engine().RemoveColor(index); err != nil {
		log.Printf("[ui] remove color %d: %v", index, err)
		return
	}
	b.Rebuild()
	b.editor.Refresh()
	if b.editor.OnChanged != nil {
		b.editor.OnChanged()
	}
}

// AddColor appends a color to the palette and selects it.
func (b *PaletteBar) AddColor(c canvas.Color) {
	pal := b.editor.Session().Palette()
	pal.Append(c)
	if err := b.editor.Session().Engine().SetActiveIndex(pal.Len() - 1); err != nil {
		log.Printf("[ui] select new color: %v", err)
	}
	b.Rebuild()
}

// Actions are the file and network operations the toolbar triggers.
// The ui package owns the dialogs; callers own the side effects.
type Actions struct {
	ImportImage  func(data []byte) error
	SaveDocument func(path string) error
	ExportPDF    func(path string) error
	SendDrawing  func(title string) error
}

// NewToolbar builds the tool selector and action buttons.
func NewToolbar(win fyne.Window, editor *EditorWidget, bar *PaletteBar, act Actions) *widget.Toolbar {
	setTool := func(t canvas.Tool) {
		editor.Session().Engine().SetTool(t)
		log.Printf("[ui] tool: %s", t)
	}

	return widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { setTool(canvas.ToolPen) }),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() { setTool(canvas.ToolEraser) }),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), func() { setTool(canvas.ToolFill) }),
		widget.NewToolbarAction(theme.SearchIcon(), func() {
			setTool(canvas.ToolPicker)
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), editor.Undo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), editor.Redo),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FolderOpenIcon(), func() { showImportDialog(win, act.ImportImage, editor, bar) }),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { showSaveDialog(win, ".json", act.SaveDocument) }),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), func() { showSaveDialog(win, ".pdf", act.ExportPDF) }),
		widget.NewToolbarAction(theme.MailSendIcon(), func() { showSendDialog(win, act.SendDrawing) }),
	)
}
