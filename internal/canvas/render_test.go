package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleIsIntegerFloorWithMinimum(t *testing.T) {
	assert.Equal(t, 10, Scale(Viewport{320, 320}, 32, 32))
	assert.Equal(t, 9, Scale(Viewport{319, 320}, 32, 32))
	assert.Equal(t, 5, Scale(Viewport{300, 180}, 32, 32), "limited by the shorter side")
	assert.Equal(t, MinScale, Scale(Viewport{10, 10}, 32, 32), "floored at the minimum")
}

func TestRenderDimensionsAreGridTimesScale(t *testing.T) {
	p, err := NewPalette(DefaultColors)
	require.NoError(t, err)
	g := NewGrid(16, 16, 0)

	img := Render(g, p, Viewport{Width: 200, Height: 120})
	scale := Scale(Viewport{200, 120}, 16, 16)
	assert.Equal(t, 16*scale, img.Bounds().Dx())
	assert.Equal(t, 16*scale, img.Bounds().Dy())
}

func TestRenderNearestNeighborBlocksAreUniform(t *testing.T) {
	p, err := NewPalette([]Color{{255, 255, 255}, {10, 200, 30}})
	require.NoError(t, err)
	g := NewGrid(2, 2, 0)
	g.Set(1, 0, 1)

	// Scale 3 sits below the grid-line threshold, so blocks stay
	// perfectly uniform with no overlay mixed in.
	img := Render(g, p, Viewport{Width: 6, Height: 6})
	require.Equal(t, 6, img.Bounds().Dx())

	for y := 0; y < 3; y++ {
		for x := 3; x < 6; x++ {
			c := img.RGBAAt(x, y)
			assert.Equal(t, uint8(10), c.R)
			assert.Equal(t, uint8(200), c.G)
			assert.Equal(t, uint8(30), c.B)
		}
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			c := img.RGBAAt(x, y)
			assert.Equal(t, uint8(255), c.R)
		}
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	p, err := NewPalette(DefaultColors)
	require.NoError(t, err)
	g := NewGrid(8, 8, 0)
	g.Set(3, 4, 2)
	g.Set(7, 7, 5)

	v := Viewport{Width: 100, Height: 100}
	a := Render(g, p, v)
	b := Render(g, p, v)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestGridOverlaySuppressedBelowThreshold(t *testing.T) {
	p, err := NewPalette([]Color{{255, 255, 255}, {0, 0, 0}})
	require.NoError(t, err)
	g := NewGrid(4, 4, 0)

	// Scale below the threshold: every pixel is pure background.
	small := Render(g, p, Viewport{Width: 4 * (GridLineScale - 1), Height: 4 * (GridLineScale - 1)})
	for i := 0; i < len(small.Pix); i += 4 {
		assert.Equal(t, uint8(255), small.Pix[i])
	}

	// At the threshold the cell boundary rows darken.
	big := Render(g, p, Viewport{Width: 4 * GridLineScale, Height: 4 * GridLineScale})
	boundary := big.RGBAAt(0, GridLineScale)
	assert.Less(t, boundary.R, uint8(255))
	interior := big.RGBAAt(2, 2)
	assert.Equal(t, uint8(255), interior.R)
}
