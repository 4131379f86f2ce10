package canvas

import "fmt"

// Tool identifies the active drawing tool.
type Tool int

const (
	ToolPen Tool = iota
	ToolEraser
	ToolFill
	ToolPicker
)

func (t Tool) String() string {
	switch t {
	case ToolPen:
		return "pen"
	case ToolEraser:
		return "eraser"
	case ToolFill:
		return "fill"
	case ToolPicker:
		return "picker"
	}
	return "unknown"
}

// Engine applies tool gestures to a grid. A gesture is one
// pointer-down to pointer-up interaction: BeginStroke, any number of
// ContinueStroke calls, then EndStroke. The engine owns the drag state
// explicitly so gestures can be driven from tests as easily as from a
// UI event loop, and it pushes exactly one history entry per gesture
// that changed at least one cell.
type Engine struct {
	grid    *Grid
	palette *Palette
	history *History

	tool   Tool
	active uint8

	stroking bool
	lastX    int
	lastY    int
	dirty    bool
}

// NewEngine wires an engine to its grid, palette and history. The
// grid's starting state is recorded as the first snapshot so the first
// gesture can be undone back to it.
func NewEngine(grid *Grid, palette *Palette, history *History) *Engine {
	e := &Engine{grid: grid, palette: palette, history: history, tool: ToolPen}
	if history.Len() == 0 {
		history.Push(grid)
	}
	return e
}

func (e *Engine) Tool() Tool         { return e.tool }
func (e *Engine) SetTool(t Tool)     { e.tool = t }
func (e *Engine) ActiveIndex() uint8 { return e.active }
func (e *Engine) Stroking() bool     { return e.stroking }

// SetActiveIndex selects the palette entry new pen strokes use.
func (e *Engine) SetActiveIndex(index int) error {
	if index < 0 || index >= e.palette.Len() {
		return fmt.Errorf("set active index %d of %d: %w", index, e.palette.Len(), ErrIndexOutOfRange)
	}
	e.active = uint8(index)
	return nil
}

// BeginStroke starts a gesture at grid coordinates (x, y).
// Out-of-bounds coordinates still open the gesture (the pointer can
// drag back onto the grid) but touch no cells. If a gesture is still
// open, as after a missed pointer-up, it is closed first so its edits
// keep their own history entry.
func (e *Engine) BeginStroke(x, y int) {
	if e.stroking {
		e.EndStroke()
	}
	e.stroking = true
	e.dirty = false
	e.lastX, e.lastY = x, y

	switch e.tool {
	case ToolPen:
		if e.grid.Set(x, y, e.active) {
			e.dirty = true
		}
	case ToolEraser:
		if e.grid.Set(x, y, uint8(e.palette.BackgroundIndex())) {
			e.dirty = true
		}
	case ToolFill:
		if e.floodFill(x, y) {
			e.dirty = true
		}
	case ToolPicker:
		if e.grid.InBounds(x, y) {
			e.active = e.grid.At(x, y)
		}
	}
}

// ContinueStroke extends an open pen or eraser gesture to (x, y),
// rasterizing every intermediate cell with Bresenham so the path has
// no gaps whatever the slope or direction. Fill and picker act on the
// press only.
func (e *Engine) ContinueStroke(x, y int) {
	if !e.stroking {
		return
	}
	switch e.tool {
	case ToolPen:
		e.line(e.lastX, e.lastY, x, y, e.active)
	case ToolEraser:
		e.line(e.lastX, e.lastY, x, y, uint8(e.palette.BackgroundIndex()))
	}
	e.lastX, e.lastY = x, y
}

// EndStroke closes the gesture and pushes one history entry if the
// gesture changed anything.
func (e *Engine) EndStroke() {
	if !e.stroking {
		return
	}
	e.stroking = false
	if e.dirty {
		e.history.Push(e.grid)
		e.dirty = false
	}
}

// line writes index along the integer Bresenham walk from (x0, y0) to
// (x1, y1), endpoints included. Endpoints are put in canonical order
// first: the Bresenham tie-breaks round half-steps toward the walk
// direction, so rasterizing A->B and B->A from the raw endpoints can
// touch different cells. Walking the canonical order makes the cell
// set a function of the endpoint pair alone.
func (e *Engine) line(x0, y0, x1, y1 int, index uint8) {
	if x1 < x0 || (x1 == x0 && y1 < y0) {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		if e.grid.Set(x0, y0, index) {
			e.dirty = true
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// floodFill rewrites the 4-connected region containing the seed from
// its current index to the active index. A seed already holding the
// active index is a pure no-op. The stack is explicit; recursing per
// cell would blow the stack on large uniform grids.
func (e *Engine) floodFill(x, y int) bool {
	if !e.grid.InBounds(x, y) {
		return false
	}
	target := e.grid.At(x, y)
	replacement := e.active
	if target == replacement {
		return false
	}

	type cell struct{ x, y int }
	stack := []cell{{x, y}}
	changed := false
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !e.grid.InBounds(c.x, c.y) || e.grid.At(c.x, c.y) != target {
			continue
		}
		e.grid.Set(c.x, c.y, replacement)
		changed = true
		stack = append(stack,
			cell{c.x + 1, c.y},
			cell{c.x - 1, c.y},
			cell{c.x, c.y + 1},
			cell{c.x, c.y - 1},
		)
	}
	return changed
}

// RemoveColor deletes a palette entry and keeps the grid consistent:
// cells holding the removed index are remapped to the surviving color
// nearest in RGB space, cells above it shift down one, and the active
// index is clamped onto the remaining range. One history entry is
// pushed when any cell changed.
func (e *Engine) RemoveColor(index int) error {
	if index < 0 || index >= e.palette.Len() {
		return fmt.Errorf("remove color %d of %d: %w", index, e.palette.Len(), ErrIndexOutOfRange)
	}
	if e.palette.Len()-1 < 2 {
		return fmt.Errorf("remove color from palette of %d: %w", e.palette.Len(), ErrPaletteUnderflow)
	}

	removed, _ := e.palette.ColorAt(index)
	if err := e.palette.Remove(index); err != nil {
		return err
	}
	// Nearest is computed against the palette as it is after removal,
	// so the answer is already in post-removal index space.
	nearest := uint8(e.palette.NearestIndex(removed))

	changed := false
	for y := 0; y < e.grid.Height(); y++ {
		for x := 0; x < e.grid.Width(); x++ {
			idx := e.grid.At(x, y)
			switch {
			case int(idx) == index:
				if e.grid.Set(x, y, nearest) {
					changed = true
				}
			case int(idx) > index:
				e.grid.Set(x, y, idx-1)
				changed = true
			}
		}
	}

	if int(e.active) == index {
		// Nearest remaining slot, clamped onto the shrunk range.
		if index >= e.palette.Len() {
			e.active = uint8(e.palette.Len() - 1)
		} else {
			e.active = uint8(index)
		}
	} else if int(e.active) > index {
		e.active--
	}

	if changed {
		e.history.Push(e.grid)
	}
	return nil
}
