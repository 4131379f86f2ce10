// Package importer turns arbitrary photographs into the editor's
// indexed (grid, palette) model: decode, resize or crop to the fixed
// grid size, then quantize down to a bounded palette.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/jsummers/gobmp"
	"github.com/nfnt/resize"

	"PixelChat/internal/canvas"
)

var (
	// ErrUnsupportedFormat means the decoder could not parse the bytes.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrEmptyInput means a zero-byte or zero-dimension source.
	ErrEmptyInput = errors.New("empty image input")
)

// Mode selects how a source that does not match the grid's aspect
// ratio is squeezed into it.
type Mode int

const (
	// ModeFit preserves aspect ratio and pads the leftover border
	// with the background color.
	ModeFit Mode = iota
	// ModeFill preserves aspect ratio, covers the whole grid and
	// crops the overflow from the center.
	ModeFill
)

// Options controls one import.
type Options struct {
	Width     int
	Height    int
	MaxColors int
	Mode      Mode
	Dither    bool
}

// Import decodes raw raster bytes and produces a grid and palette of
// exactly Width x Height cells and at most MaxColors entries. On any
// error nothing is produced, so the caller's live session is never
// half-mutated. The context is honored between pipeline stages;
// cancelling discards partial results.
func Import(ctx context.Context, data []byte, opts Options) (*canvas.Grid, *canvas.Palette, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("import: %w", ErrEmptyInput)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, nil, fmt.Errorf("import target %dx%d: %w", opts.Width, opts.Height, ErrEmptyInput)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("import decode: %w: %v", ErrUnsupportedFormat, err)
	}
	if src.Bounds().Dx() == 0 || src.Bounds().Dy() == 0 {
		return nil, nil, fmt.Errorf("import %s with zero dimension: %w", format, ErrEmptyInput)
	}
	log.Printf("[IMPORT] Decoded %s source %dx%d", format, src.Bounds().Dx(), src.Bounds().Dy())

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	pixels := resample(src, opts.Width, opts.Height, opts.Mode)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	palette, err := canvas.NewPalette(buildPalette(pixels, opts.MaxColors))
	if err != nil {
		return nil, nil, fmt.Errorf("import palette: %w", err)
	}

	indices := mapToPalette(pixels, opts.Width, opts.Height, palette, opts.Dither)
	grid := canvas.GridFromBuffer(opts.Width, opts.Height, indices)

	log.Printf("[IMPORT] Quantized to %dx%d grid with %d colors", opts.Width, opts.Height, palette.Len())
	return grid, palette, nil
}

// resample scales the source to the target cell count and returns one
// color per cell in row-major order. Transparency is composited over
// white, matching the editor's background.
func resample(src image.Image, width, height int, mode Mode) []canvas.Color {
	sw := src.Bounds().Dx()
	sh := src.Bounds().Dy()

	var scaled image.Image
	offX, offY := 0, 0

	switch mode {
	case ModeFill:
		// Cover both dimensions, then read a centered window.
		rw, rh := coverSize(sw, sh, width, height)
		scaled = resize.Resize(uint(rw), uint(rh), src, resize.Bilinear)
		offX = (rw - width) / 2
		offY = (rh - height) / 2
	default:
		// Fit inside, centered; the border stays unset and falls
		// through to white below.
		rw, rh := fitSize(sw, sh, width, height)
		scaled = resize.Resize(uint(rw), uint(rh), src, resize.Bilinear)
		offX = -(width - rw) / 2
		offY = -(height - rh) / 2
	}

	b := scaled.Bounds()
	out := make([]canvas.Color, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx := b.Min.X + offX + x
			sy := b.Min.Y + offY + y
			if sx < b.Min.X || sx >= b.Max.X || sy < b.Min.Y || sy >= b.Max.Y {
				out[y*width+x] = canvas.Color{R: 255, G: 255, B: 255}
				continue
			}
			r, g, bl, a := scaled.At(sx, sy).RGBA()
			out[y*width+x] = compositeOverWhite(r, g, bl, a)
		}
	}
	return out
}

// coverSize scales (sw, sh) proportionally to the smallest size that
// covers (tw, th) in both dimensions.
func coverSize(sw, sh, tw, th int) (int, int) {
	rw := tw
	rh := sh * tw / sw
	if rh < th {
		rh = th
		rw = sw * th / sh
		if rw < tw {
			rw = tw
		}
	}
	return rw, rh
}

// fitSize scales (sw, sh) proportionally to the largest size that fits
// inside (tw, th).
func fitSize(sw, sh, tw, th int) (int, int) {
	rw := tw
	rh := sh * tw / sw
	if rh > th {
		rh = th
		rw = sw * th / sh
		if rw > tw {
			rw = tw
		}
	}
	if rw < 1 {
		rw = 1
	}
	if rh < 1 {
		rh = 1
	}
	return rw, rh
}

func compositeOverWhite(r, g, b, a uint32) canvas.Color {
	if a == 0 {
		return canvas.Color{R: 255, G: 255, B: 255}
	}
	// RGBA() returns alpha-premultiplied 16-bit channels.
	blendCh := func(c uint32) uint8 {
		v := (c + (0xffff - a)) >> 8
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	return canvas.Color{R: blendCh(r), G: blendCh(g), B: blendCh(b)}
}
