package ui

import (
	"image"

	"fyne.io/fyne/v2"
	fcanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ChatPane is the scrolling message feed plus the text entry.
// Callers must invoke the Append methods on the fyne UI thread.
type ChatPane struct {
	feed   *fyne.Container
	scroll *container.Scroll
	entry  *widget.Entry
	root   fyne.CanvasObject

	// OnSendText fires when the user submits the entry.
	OnSendText func(text string)
}

func NewChatPane() *ChatPane {
	p := &ChatPane{feed: container.NewVBox()}
	p.scroll = container.NewVScroll(p.feed)
	p.entry = widget.NewEntry()
	p.entry.SetPlaceHolder("Say something")
	send := func() {
		text := p.entry.Text
		if text == "" {
			return
		}
		p.entry.SetText("")
		if p.OnSendText != nil {
			p.OnSendText(text)
		}
	}
	p.entry.OnSubmitted = func(string) { send() }
	sendBtn := widget.NewButton("Send", send)
	p.root = container.NewBorder(nil, container.NewBorder(nil, nil, nil, sendBtn, p.entry), nil, nil, p.scroll)
	return p
}

func (p *ChatPane) Container() fyne.CanvasObject { return p.root }

func (p *ChatPane) AppendText(sender, text string) {
	label := widget.NewLabel(sender + ": " + text)
	label.Wrapping = fyne.TextWrapWord
	p.add(label)
}

// AppendImage shows a received or sent drawing inline.
func (p *ChatPane) AppendImage(sender, title string, img image.Image) {
	if title == "" {
		title = "drawing"
	}
	pic := fcanvas.NewImageFromImage(img)
	pic.ScaleMode = fcanvas.ImageScalePixels
	pic.FillMode = fcanvas.ImageFillContain
	pic.SetMinSize(fyne.NewSize(160, 160))
	p.add(container.NewVBox(widget.NewLabel(sender+" sent "+title), pic))
}

// AppendUnavailable marks a drawing whose pixels could not be
// brought back.
func (p *ChatPane) AppendUnavailable(sender, title string) {
	if title == "" {
		title = "a drawing"
	}
	label := widget.NewLabel(sender + " sent " + title + " (image unavailable)")
	label.TextStyle = fyne.TextStyle{Italic: true}
	p.add(label)
}

func (p *ChatPane) add(obj fyne.CanvasObject) {
	p.feed.Add(obj)
	p.scroll.ScrollToBottom()
}
