package ui

import (
	"image/color"
	"io"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

func showImportDialog(win fyne.Window, importFn func([]byte) error, editor *EditorWidget, bar *PaletteBar) {
	if importFn == nil {
		return
	}
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if err := importFn(data); err != nil {
			dialog.ShowError(err, win)
			return
		}
		bar.Rebuild()
		editor.Refresh()
		if editor.OnChanged != nil {
			editor.OnChanged()
		}
		log.Printf("[ui] imported %s", rc.URI().Name())
	}, win)
	fd.Show()
}

func showSaveDialog(win fyne.Window, ext string, saveFn func(path string) error) {
	if saveFn == nil {
		return
	}
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		wc.Close()
		if !strings.HasSuffix(path, ext) {
			path += ext
		}
		if err := saveFn(path); err != nil {
			dialog.ShowError(err, win)
			return
		}
		log.Printf("[ui] saved %s", path)
	}, win)
	fd.Show()
}

func showSendDialog(win fyne.Window, sendFn func(title string) error) {
	if sendFn == nil {
		return
	}
	title := widget.NewEntry()
	title.SetPlaceHolder("untitled")
	items := []*widget.FormItem{widget.NewFormItem("Title", title)}
	dialog.ShowForm("Send drawing", "Send", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		if err := sendFn(title.Text); err != nil {
			dialog.ShowError(err, win)
		}
	}, win)
}

func showColorDialog(win fyne.Window, pick func(r, g, b uint8)) {
	cd := dialog.NewColorPicker("Add color", "Pick a palette color", func(c color.Color) {
		r, g, b, _ := c.RGBA()
		pick(uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}, win)
	cd.Advanced = true
	cd.Show()
}
