package canvas

// Grid is a fixed-size buffer of palette indices. Width and height
// never change for the life of an editing session; loading or
// importing replaces the whole grid instead.
type Grid struct {
	width  int
	height int
	cells  []uint8
}

// NewGrid creates a width x height grid with every cell set to fill.
func NewGrid(width, height int, fill uint8) *Grid {
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]uint8, width*height),
	}
	if fill != 0 {
		for i := range g.cells {
			g.cells[i] = fill
		}
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) is a real cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the index at (x, y), or 0 for out-of-bounds coordinates.
func (g *Grid) At(x, y int) uint8 {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.cells[y*g.width+x]
}

// Set writes index at (x, y). Out-of-bounds coordinates are a silent
// no-op, not an error: strokes routinely wander off the edge. Returns
// whether a cell actually changed value.
func (g *Grid) Set(x, y int, index uint8) bool {
	if !g.InBounds(x, y) {
		return false
	}
	i := y*g.width + x
	if g.cells[i] == index {
		return false
	}
	g.cells[i] = index
	return true
}

// Buffer returns a copy of the cell buffer in row-major order.
func (g *Grid) Buffer() []uint8 {
	out := make([]uint8, len(g.cells))
	copy(out, g.cells)
	return out
}

// Restore replaces the entire buffer with the given snapshot. The
// snapshot length must match; partial restores are not a thing.
func (g *Grid) Restore(buf []uint8) bool {
	if len(buf) != len(g.cells) {
		return false
	}
	copy(g.cells, buf)
	return true
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, cells: make([]uint8, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// GridFromBuffer builds a grid from an existing row-major buffer,
// copying it. Returns nil if the buffer does not match the dimensions.
func GridFromBuffer(width, height int, buf []uint8) *Grid {
	if width <= 0 || height <= 0 || len(buf) != width*height {
		return nil
	}
	g := &Grid{width: width, height: height, cells: make([]uint8, len(buf))}
	copy(g.cells, buf)
	return g
}
