package canvas

import (
	"image"
	"image/color"
)

// Viewport is the pixel area available for the rendered surface,
// supplied by whatever shell hosts the editor.
type Viewport struct {
	Width  int
	Height int
}

const (
	// MinScale keeps the surface drawable even in a tiny viewport.
	MinScale = 1
	// GridLineScale is the smallest cell size at which the 1px cell
	// boundary overlay stays readable; below it the lines would merge
	// into a solid wash, so they are suppressed.
	GridLineScale = 6
)

var gridLineColor = color.RGBA{0, 0, 0, 60}

// Scale returns the integer upscale factor for a grid inside a
// viewport: the largest whole multiple that fits both dimensions,
// floored at MinScale.
func Scale(v Viewport, gridW, gridH int) int {
	if gridW <= 0 || gridH <= 0 {
		return MinScale
	}
	s := v.Width / gridW
	if h := v.Height / gridH; h < s {
		s = h
	}
	if s < MinScale {
		s = MinScale
	}
	return s
}

// Render maps (grid, palette, viewport) to an RGBA raster. Each cell
// becomes a scale x scale block of its palette color, nearest-neighbor
// only so pixel edges stay hard. At GridLineScale and above, 1px cell
// boundary lines are composited over the raster. Render reads its
// inputs and touches nothing else, so calling it twice with the same
// arguments yields identical rasters.
func Render(g *Grid, p *Palette, v Viewport) *image.RGBA {
	scale := Scale(v, g.Width(), g.Height())
	w := g.Width() * scale
	h := g.Height() * scale
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for gy := 0; gy < g.Height(); gy++ {
		for gx := 0; gx < g.Width(); gx++ {
			c, err := p.ColorAt(int(g.At(gx, gy)))
			if err != nil {
				// A dangling index means a caller broke the grid
				// invariant; render it as the background rather
				// than panicking mid-frame.
				c, _ = p.ColorAt(p.BackgroundIndex())
			}
			fill := color.RGBA{c.R, c.G, c.B, 255}
			for y := gy * scale; y < (gy+1)*scale; y++ {
				for x := gx * scale; x < (gx+1)*scale; x++ {
					img.SetRGBA(x, y, fill)
				}
			}
		}
	}

	if scale >= GridLineScale {
		overlayGridLines(img, g, scale)
	}
	return img
}

// RenderUnscaled produces the W x H raster with one image pixel per
// cell, used for exports and thumbnails.
func RenderUnscaled(g *Grid, p *Palette) *image.RGBA {
	return Render(g, p, Viewport{Width: g.Width(), Height: g.Height()})
}

func overlayGridLines(img *image.RGBA, g *Grid, scale int) {
	w := g.Width() * scale
	h := g.Height() * scale
	for gx := 0; gx <= g.Width(); gx++ {
		x := gx * scale
		if x >= w {
			x = w - 1
		}
		for y := 0; y < h; y++ {
			blend(img, x, y)
		}
	}
	for gy := 0; gy <= g.Height(); gy++ {
		y := gy * scale
		if y >= h {
			y = h - 1
		}
		for x := 0; x < w; x++ {
			blend(img, x, y)
		}
	}
}

// blend composites the translucent grid line color over one pixel.
func blend(img *image.RGBA, x, y int) {
	base := img.RGBAAt(x, y)
	a := int(gridLineColor.A)
	base.R = uint8((int(gridLineColor.R)*a + int(base.R)*(255-a)) / 255)
	base.G = uint8((int(gridLineColor.G)*a + int(base.G)*(255-a)) / 255)
	base.B = uint8((int(gridLineColor.B)*a + int(base.B)*(255-a)) / 255)
	img.SetRGBA(x, y, base)
}
