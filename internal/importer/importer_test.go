package importer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// gradient builds a w x h test photo with plenty of distinct colors.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(255 * x / w),
				G: uint8(255 * y / h),
				B: uint8(255 * (x + y) / (w + h)),
				A: 255,
			})
		}
	}
	return img
}

func TestImportOutputsExactTargetSize(t *testing.T) {
	cases := []struct {
		name string
		w, h int
		mode Mode
	}{
		{"wide-fill", 100, 50, ModeFill},
		{"wide-fit", 100, 50, ModeFit},
		{"tall-fill", 20, 300, ModeFill},
		{"tall-fit", 20, 300, ModeFit},
		{"tiny", 5, 5, ModeFill},
		{"exact", 32, 32, ModeFit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := encodePNG(t, gradient(tc.w, tc.h))
			grid, pal, err := Import(context.Background(), data, Options{
				Width: 32, Height: 32, MaxColors: 8, Mode: tc.mode,
			})
			require.NoError(t, err)
			assert.Equal(t, 32, grid.Width())
			assert.Equal(t, 32, grid.Height())
			assert.LessOrEqual(t, pal.Len(), 8)
			assert.GreaterOrEqual(t, pal.Len(), 2)
		})
	}
}

func TestImportBoundsPaletteSize(t *testing.T) {
	data := encodePNG(t, gradient(100, 50))
	grid, pal, err := Import(context.Background(), data, Options{
		Width: 32, Height: 32, MaxColors: 8, Mode: ModeFill,
	})
	require.NoError(t, err)

	used := map[uint8]bool{}
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			used[grid.At(x, y)] = true
			assert.Less(t, int(grid.At(x, y)), pal.Len())
		}
	}
	assert.LessOrEqual(t, len(used), 8)
}

func TestImportFitPadsWithWhite(t *testing.T) {
	// A solid dark 100x25 source in a square target leaves white
	// bands above and below.
	src := image.NewRGBA(image.Rect(0, 0, 100, 25))
	for y := 0; y < 25; y++ {
		for x := 0; x < 100; x++ {
			src.Set(x, y, color.RGBA{20, 20, 20, 255})
		}
	}
	grid, pal, err := Import(context.Background(), encodePNG(t, src), Options{
		Width: 32, Height: 32, MaxColors: 4, Mode: ModeFit,
	})
	require.NoError(t, err)

	top, err2 := pal.ColorAt(int(grid.At(16, 0)))
	require.NoError(t, err2)
	assert.Greater(t, int(top.R), 200, "padding rows quantize to near-white")

	mid, err2 := pal.ColorAt(int(grid.At(16, 16)))
	require.NoError(t, err2)
	assert.Less(t, int(mid.R), 100, "image rows stay dark")
}

func TestImportDeterministicWithoutDither(t *testing.T) {
	data := encodePNG(t, gradient(64, 64))
	opts := Options{Width: 16, Height: 16, MaxColors: 6, Mode: ModeFill}

	a, _, err := Import(context.Background(), data, opts)
	require.NoError(t, err)
	b, _, err := Import(context.Background(), data, opts)
	require.NoError(t, err)
	assert.Equal(t, a.Buffer(), b.Buffer())
}

func TestImportEmptyInput(t *testing.T) {
	_, _, err := Import(context.Background(), nil, Options{Width: 32, Height: 32, MaxColors: 8})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, _, err = Import(context.Background(), []byte{}, Options{Width: 32, Height: 32, MaxColors: 8})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestImportUnsupportedFormat(t *testing.T) {
	_, _, err := Import(context.Background(), []byte("definitely not an image"), Options{
		Width: 32, Height: 32, MaxColors: 8,
	})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestImportHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Import(ctx, encodePNG(t, gradient(64, 64)), Options{
		Width: 32, Height: 32, MaxColors: 8,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportSingleColorSourceStillYieldsLegalPalette(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.Set(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	_, pal, err := Import(context.Background(), encodePNG(t, src), Options{
		Width: 8, Height: 8, MaxColors: 8, Mode: ModeFill,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pal.Len(), 2)
}

func TestImportDitherStaysWithinPalette(t *testing.T) {
	data := encodePNG(t, gradient(64, 64))
	grid, pal, err := Import(context.Background(), data, Options{
		Width: 16, Height: 16, MaxColors: 4, Mode: ModeFill, Dither: true,
	})
	require.NoError(t, err)
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			assert.Less(t, int(grid.At(x, y)), pal.Len())
		}
	}
}
