package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"PixelChat/internal/canvas"
)

// RunApp assembles the main window and blocks until it closes.
// shareLink is shown in the header when hosting so other peers can
// join; pass "" when joining someone else's room.
func RunApp(editor *EditorWidget, pane *ChatPane, shareLink string, act Actions) {
	a := app.New()
	win := a.NewWindow("PixelChat")
	win.Resize(fyne.NewSize(1100, 720))

	var bar *PaletteBar
	bar = NewPaletteBar(editor, func() {
		showColorDialog(win, func(r, g, b uint8) {
			bar.AddColor(canvas.Color{R: r, G: g, B: b})
			editor.Refresh()
		})
	})

	top := container.NewVBox()
	if shareLink != "" {
		header := widget.NewLabel("Room: " + shareLink)
		header.TextStyle = fyne.TextStyle{Bold: true}
		top.Add(header)
	}
	top.Add(NewToolbar(win, editor, bar, act))
	top.Add(bar.Container())

	split := container.NewHSplit(editor, pane.Container())
	split.SetOffset(0.64)

	win.SetContent(container.NewBorder(top, nil, nil, nil, split))
	win.ShowAndRun()
}
