package importer

import (
	"sort"

	"PixelChat/internal/canvas"
)

// buildPalette runs median-cut over the pixel population and returns
// at most maxColors entries (never fewer than two, so the result is
// always a legal palette).
func buildPalette(pixels []canvas.Color, maxColors int) []canvas.Color {
	if maxColors < 2 {
		maxColors = 2
	}

	boxes := [][]canvas.Color{append([]canvas.Color(nil), pixels...)}
	for len(boxes) < maxColors {
		// Split the box with the widest channel range; stop when no
		// box has more than one distinct color left.
		widest, channel, spread := -1, 0, 0
		for i, box := range boxes {
			ch, s := widestChannel(box)
			if s > spread {
				widest, channel, spread = i, ch, s
			}
		}
		if widest < 0 || spread == 0 {
			break
		}

		box := boxes[widest]
		sort.Slice(box, func(a, b int) bool {
			return channelValue(box[a], channel) < channelValue(box[b], channel)
		})
		mid := len(box) / 2
		boxes[widest] = box[:mid]
		boxes = append(boxes, box[mid:])
	}

	out := make([]canvas.Color, 0, len(boxes))
	for _, box := range boxes {
		if len(box) > 0 {
			out = append(out, averageColor(box))
		}
	}
	out = dedupeColors(out)
	for len(out) < 2 {
		// Degenerate sources (single-color images) still need a
		// two-entry palette; pad with black or white, whichever is
		// not already there.
		if len(out) == 0 || out[0] != (canvas.Color{R: 0, G: 0, B: 0}) {
			out = append(out, canvas.Color{R: 0, G: 0, B: 0})
		} else {
			out = append(out, canvas.Color{R: 255, G: 255, B: 255})
		}
	}
	return out
}

func widestChannel(box []canvas.Color) (channel, spread int) {
	if len(box) == 0 {
		return 0, 0
	}
	var minC, maxC [3]int
	for i := 0; i < 3; i++ {
		minC[i], maxC[i] = 255, 0
	}
	for _, c := range box {
		for i, v := range [3]int{int(c.R), int(c.G), int(c.B)} {
			if v < minC[i] {
				minC[i] = v
			}
			if v > maxC[i] {
				maxC[i] = v
			}
		}
	}
	for i := 0; i < 3; i++ {
		if s := maxC[i] - minC[i]; s > spread {
			channel, spread = i, s
		}
	}
	return channel, spread
}

func channelValue(c canvas.Color, channel int) int {
	switch channel {
	case 0:
		return int(c.R)
	case 1:
		return int(c.G)
	default:
		return int(c.B)
	}
}

func averageColor(box []canvas.Color) canvas.Color {
	var r, g, b int
	for _, c := range box {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
	}
	n := len(box)
	return canvas.Color{
		R: uint8(r / n),
		G: uint8(g / n),
		B: uint8(b / n),
	}
}

func dedupeColors(colors []canvas.Color) []canvas.Color {
	seen := make(map[canvas.Color]bool, len(colors))
	out := colors[:0]
	for _, c := range colors {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// mapToPalette assigns every pixel its nearest palette index. With
// dither enabled the quantization error diffuses to unvisited
// neighbors (Floyd-Steinberg weights) before they are mapped, which
// trades exact nearest-color mapping for less banding.
func mapToPalette(pixels []canvas.Color, width, height int, p *canvas.Palette, dither bool) []uint8 {
	out := make([]uint8, len(pixels))
	if !dither {
		for i, c := range pixels {
			out[i] = uint8(p.NearestIndex(c))
		}
		return out
	}

	// Working buffer in wider ints so diffused error can go negative.
	work := make([][3]int, len(pixels))
	for i, c := range pixels {
		work[i] = [3]int{int(c.R), int(c.G), int(c.B)}
	}

	spill := func(x, y int, er, eg, eb, num int) {
		if x < 0 || x >= width || y < 0 || y >= height {
			return
		}
		i := y*width + x
		work[i][0] += er * num / 16
		work[i][1] += eg * num / 16
		work[i][2] += eb * num / 16
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			c := canvas.Color{
				R: clamp8(work[i][0]),
				G: clamp8(work[i][1]),
				B: clamp8(work[i][2]),
			}
			idx := p.NearestIndex(c)
			out[i] = uint8(idx)

			chosen, _ := p.ColorAt(idx)
			er := int(c.R) - int(chosen.R)
			eg := int(c.G) - int(chosen.G)
			eb := int(c.B) - int(chosen.B)
			spill(x+1, y, er, eg, eb, 7)
			spill(x-1, y+1, er, eg, eb, 3)
			spill(x, y+1, er, eg, eb, 5)
			spill(x+1, y+1, er, eg, eb, 1)
		}
	}
	return out
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
