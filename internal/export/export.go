// Package export writes finished drawings out of the editor: a
// full-resolution PNG snapshot for local save, a lossless JSON
// document for reload, and a printable PDF sheet.
package export

import (
	"encoding/json"
	"fmt"
	"image/png"
	"io"

	"PixelChat/internal/canvas"
)

// Document is the lossless on-disk form of a drawing. Loading it back
// reproduces the exact grid and palette, so it also serves as the
// degraded text payload when image encoding fails: the work travels
// as JSON instead of being lost.
type Document struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Palette     []canvas.Color `json:"palette"`
	Pixels      []uint8        `json:"pixels"`
}

// NewDocument snapshots the live grid and palette into a document.
func NewDocument(g *canvas.Grid, p *canvas.Palette, title, description string) Document {
	return Document{
		Title:       title,
		Description: description,
		Width:       g.Width(),
		Height:      g.Height(),
		Palette:     p.Snapshot(),
		Pixels:      g.Buffer(),
	}
}

// Restore rebuilds the live state from a document.
func (d Document) Restore() (*canvas.Grid, *canvas.Palette, error) {
	p, err := canvas.NewPalette(d.Palette)
	if err != nil {
		return nil, nil, fmt.Errorf("restore document palette: %w", err)
	}
	g := canvas.GridFromBuffer(d.Width, d.Height, d.Pixels)
	if g == nil {
		return nil, nil, fmt.Errorf("restore document: %d pixels for %dx%d grid",
			len(d.Pixels), d.Width, d.Height)
	}
	for _, idx := range d.Pixels {
		if int(idx) >= p.Len() {
			return nil, nil, fmt.Errorf("restore document: %w", canvas.ErrIndexOutOfRange)
		}
	}
	return g, p, nil
}

// SaveDocument writes the document as indented JSON.
func SaveDocument(w io.Writer, d Document) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// LoadDocument parses a document previously written by SaveDocument.
func LoadDocument(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("load document: %w", err)
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("load document: %w", err)
	}
	return d, nil
}

// FallbackText renders the document as a compact JSON string for
// transmission as a text-like payload.
func FallbackText(d Document) (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("fallback payload: %w", err)
	}
	return string(data), nil
}

// SavePNG writes the drawing as a full-resolution RGB bitmap, one
// image pixel per cell.
func SavePNG(w io.Writer, g *canvas.Grid, p *canvas.Palette) error {
	img := canvas.RenderUnscaled(g, p)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	return nil
}
