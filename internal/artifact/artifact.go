// Package artifact encodes finished drawings into portable paletted
// images for chat transport and recovers their ephemeral rendering
// handles when the backing resource table has been torn down.
package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"PixelChat/internal/canvas"
)

var (
	// ErrEncodeFailure wraps codec errors while building the image.
	ErrEncodeFailure = errors.New("artifact encode failed")
	// ErrNotIndexed is returned when decoded bytes are not a
	// palette-based image and so cannot round-trip losslessly.
	ErrNotIndexed = errors.New("image is not palette-indexed")
)

// thumbLongEdge caps the thumbnail's long edge. Thumbnails are
// block-sampled from the canonical grid so they stay derivable.
const thumbLongEdge = 64

// Artifact pairs the canonical payload (palette + pixel indices, the
// lossless source of truth) with the ephemeral handles rendering uses.
// The payload travels everywhere the artifact is persisted; the
// handles are only identities in the local HandleTable and may die
// with it.
type Artifact struct {
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Palette []canvas.Color `json:"palette"`
	Pixels  []uint8        `json:"pixels"`

	Title    string `json:"title,omitempty"`
	Duration int    `json:"duration,omitempty"` // display seconds

	PrimaryHandle   string `json:"primaryHandle,omitempty"`
	ThumbnailHandle string `json:"thumbnailHandle,omitempty"`
}

// HasPayload reports whether the canonical payload is intact. Without
// it the artifact is unrecoverable once its handles die.
func (a *Artifact) HasPayload() bool {
	return a != nil && len(a.Palette) >= 2 && len(a.Pixels) > 0 &&
		len(a.Pixels) == a.Width*a.Height
}

// Encoder turns (grid, palette) into artifacts whose image bytes live
// in a handle table.
type Encoder struct {
	handles *HandleTable
}

func NewEncoder(handles *HandleTable) *Encoder {
	return &Encoder{handles: handles}
}

// Encode builds the artifact for a drawing: a full-size paletted PNG
// and a thumbnail, both registered in the handle table, plus the
// canonical payload. Identical (grid, palette) inputs produce
// byte-identical payloads and image bytes; only the handle identities
// differ between calls.
func (e *Encoder) Encode(g *canvas.Grid, p *canvas.Palette, title string, duration int) (*Artifact, error) {
	a := &Artifact{
		Width:    g.Width(),
		Height:   g.Height(),
		Palette:  p.Snapshot(),
		Pixels:   g.Buffer(),
		Title:    title,
		Duration: duration,
	}
	if err := e.Refresh(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Refresh regenerates both handles from the canonical payload and
// releases whatever handles the artifact held before. This is the
// whole of handle recovery; Encode itself is just Refresh on a fresh
// payload.
func (e *Encoder) Refresh(a *Artifact) error {
	full, err := EncodePNG(a.Width, a.Height, a.Palette, a.Pixels)
	if err != nil {
		return err
	}
	thumb, err := encodeThumbnail(a)
	if err != nil {
		return err
	}

	oldPrimary, oldThumb := a.PrimaryHandle, a.ThumbnailHandle
	a.PrimaryHandle = e.handles.Put(full)
	a.ThumbnailHandle = e.handles.Put(thumb)
	e.handles.Release(oldPrimary)
	e.handles.Release(oldThumb)
	return nil
}

// EncodePNG writes the indexed raster as a paletted PNG, the portable
// container for the canonical payload.
func EncodePNG(width, height int, pal []canvas.Color, pixels []uint8) ([]byte, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height || len(pal) < 2 {
		return nil, fmt.Errorf("encode %dx%d with %d pixels, %d colors: %w",
			width, height, len(pixels), len(pal), ErrEncodeFailure)
	}

	cp := make(color.Palette, len(pal))
	for i, c := range pal {
		cp[i] = color.RGBA{c.R, c.G, c.B, 255}
	}
	img := image.NewPaletted(image.Rect(0, 0, width, height), cp)
	copy(img.Pix, pixels)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}
	return buf.Bytes(), nil
}

// DecodePNG reads a paletted PNG back into (grid, palette). Together
// with EncodePNG this is the lossless round trip the recovery
// protocol depends on.
func DecodePNG(data []byte) (*canvas.Grid, *canvas.Palette, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("decode artifact png: %w", err)
	}
	paletted, ok := img.(*image.Paletted)
	if !ok {
		return nil, nil, ErrNotIndexed
	}

	colors := make([]canvas.Color, len(paletted.Palette))
	for i, c := range paletted.Palette {
		r, g, b, _ := c.RGBA()
		colors[i] = canvas.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
	}
	pal, err := canvas.NewPalette(colors)
	if err != nil {
		return nil, nil, err
	}

	w := paletted.Bounds().Dx()
	h := paletted.Bounds().Dy()
	pixels := make([]uint8, 0, w*h)
	for y := 0; y < h; y++ {
		row := paletted.Pix[y*paletted.Stride : y*paletted.Stride+w]
		pixels = append(pixels, row...)
	}
	grid := canvas.GridFromBuffer(w, h, pixels)
	if grid == nil {
		return nil, nil, ErrNotIndexed
	}
	return grid, pal, nil
}

// encodeThumbnail renders the canonical payload at thumbnail size.
// Grids whose long edge exceeds thumbLongEdge are block-sampled down
// by an integer factor so the thumbnail bytes stay smaller than the
// primary image; grids at or under the edge are encoded at native
// size, never inflated past the primary.
func encodeThumbnail(a *Artifact) ([]byte, error) {
	long := a.Width
	if a.Height > long {
		long = a.Height
	}
	if long <= thumbLongEdge {
		return EncodePNG(a.Width, a.Height, a.Palette, a.Pixels)
	}

	factor := (long + thumbLongEdge - 1) / thumbLongEdge
	tw := (a.Width + factor - 1) / factor
	th := (a.Height + factor - 1) / factor
	pixels := make([]uint8, tw*th)
	for y := 0; y < th; y++ {
		for x := 0; x < tw; x++ {
			pixels[y*tw+x] = a.Pixels[(y*factor)*a.Width+x*factor]
		}
	}
	return EncodePNG(tw, th, a.Palette, pixels)
}
