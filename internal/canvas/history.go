package canvas

// History keeps whole-buffer snapshots of a grid with a cursor for
// undo/redo. Restores always replace the entire buffer so a restored
// state is byte-for-byte what was recorded.
type History struct {
	snapshots [][]uint8
	cursor    int
}

// NewHistory starts an empty history. Cursor sits at -1 until the
// first push.
func NewHistory() *History {
	return &History{cursor: -1}
}

// Push records the grid's current buffer. Anything after the cursor
// (states that were undone) is discarded first.
func (h *History) Push(g *Grid) {
	h.snapshots = append(h.snapshots[:h.cursor+1], g.Buffer())
	h.cursor = len(h.snapshots) - 1
}

// Undo steps the cursor back one snapshot and restores it into g.
// At the oldest snapshot it does nothing and returns false.
func (h *History) Undo(g *Grid) bool {
	if h.cursor <= 0 {
		return false
	}
	h.cursor--
	g.Restore(h.snapshots[h.cursor])
	return true
}

// Redo steps the cursor forward one snapshot and restores it into g.
// At the newest snapshot it does nothing and returns false.
func (h *History) Redo(g *Grid) bool {
	if h.cursor >= len(h.snapshots)-1 {
		return false
	}
	h.cursor++
	g.Restore(h.snapshots[h.cursor])
	return true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Len returns the number of recorded snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// Cursor returns the current snapshot position, -1 when empty.
func (h *History) Cursor() int { return h.cursor }
