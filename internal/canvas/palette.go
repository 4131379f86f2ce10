package canvas

import (
	"errors"
	"fmt"
)

var (
	// ErrPaletteUnderflow is returned when a removal would shrink the
	// palette below the two entries every grid needs (a color and a
	// background to erase to).
	ErrPaletteUnderflow = errors.New("palette must keep at least 2 colors")
	// ErrIndexOutOfRange is returned for any palette index >= Len().
	ErrIndexOutOfRange = errors.New("palette index out of range")
)

// Color is one palette entry, 8 bits per channel.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// brightness is the mean of the three channels, used to pick an
// eraser background when the palette has no pure white.
func (c Color) brightness() int {
	return (int(c.R) + int(c.G) + int(c.B)) / 3
}

// distSq is the squared Euclidean distance in RGB space.
func (c Color) distSq(o Color) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// Palette is an ordered, mutable list of colors referenced by index.
// It always holds at least two entries.
type Palette struct {
	colors []Color
}

// DefaultColors is the starting palette for a fresh editing session.
var DefaultColors = []Color{
	{255, 255, 255}, // white, doubles as the eraser background
	{0, 0, 0},
	{255, 0, 0},
	{0, 160, 0},
	{0, 64, 255},
	{255, 220, 0},
	{255, 128, 0},
	{140, 0, 200},
	{255, 105, 180},
	{128, 128, 128},
}

// NewPalette copies the given colors into a palette. Fewer than two
// colors is rejected.
func NewPalette(colors []Color) (*Palette, error) {
	if len(colors) < 2 {
		return nil, fmt.Errorf("new palette with %d colors: %w", len(colors), ErrPaletteUnderflow)
	}
	p := &Palette{colors: make([]Color, len(colors))}
	copy(p.colors, colors)
	return p, nil
}

// Len returns the number of entries.
func (p *Palette) Len() int { return len(p.colors) }

// ColorAt returns the color stored at index.
func (p *Palette) ColorAt(index int) (Color, error) {
	if index < 0 || index >= len(p.colors) {
		return Color{}, fmt.Errorf("color at %d of %d: %w", index, len(p.colors), ErrIndexOutOfRange)
	}
	return p.colors[index], nil
}

// Append adds a color at the end and returns its index.
func (p *Palette) Append(c Color) int {
	p.colors = append(p.colors, c)
	return len(p.colors) - 1
}

// Remove deletes the entry at index. Entries above it shift down by
// one. Callers still holding the removed index in a grid must remap
// those cells before treating the removal as complete; the tool engine
// owns that step.
func (p *Palette) Remove(index int) error {
	if index < 0 || index >= len(p.colors) {
		return fmt.Errorf("remove index %d of %d: %w", index, len(p.colors), ErrIndexOutOfRange)
	}
	if len(p.colors)-1 < 2 {
		return fmt.Errorf("remove from palette of %d: %w", len(p.colors), ErrPaletteUnderflow)
	}
	p.colors = append(p.colors[:index], p.colors[index+1:]...)
	return nil
}

// BackgroundIndex is the index the eraser writes: pure white when the
// palette has one, otherwise the brightest entry.
func (p *Palette) BackgroundIndex() int {
	best := 0
	bestBrightness := -1
	for i, c := range p.colors {
		if c == (Color{255, 255, 255}) {
			return i
		}
		if b := c.brightness(); b > bestBrightness {
			bestBrightness = b
			best = i
		}
	}
	return best
}

// NearestIndex returns the index of the entry closest to c in RGB
// space. Ties resolve to the lowest index.
func (p *Palette) NearestIndex(c Color) int {
	best := 0
	bestDist := p.colors[0].distSq(c)
	for i := 1; i < len(p.colors); i++ {
		if d := p.colors[i].distSq(c); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// Snapshot returns a copy of the color list.
func (p *Palette) Snapshot() []Color {
	out := make([]Color, len(p.colors))
	copy(out, p.colors)
	return out
}
