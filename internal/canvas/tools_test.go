package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, w, h int) (*Engine, *Grid, *History) {
	t.Helper()
	p, err := NewPalette(DefaultColors)
	require.NoError(t, err)
	g := NewGrid(w, h, 0)
	hist := NewHistory()
	return NewEngine(g, p, hist), g, hist
}

func touchedCells(g *Grid, index uint8) map[[2]int]bool {
	cells := map[[2]int]bool{}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.At(x, y) == index {
				cells[[2]int{x, y}] = true
			}
		}
	}
	return cells
}

func TestPenStrokeIsOneHistoryEntry(t *testing.T) {
	e, g, hist := newTestEngine(t, 8, 8)
	require.NoError(t, e.SetActiveIndex(1))

	e.BeginStroke(0, 0)
	e.ContinueStroke(3, 1)
	e.ContinueStroke(7, 4)
	e.EndStroke()

	assert.Equal(t, 2, hist.Len(), "initial snapshot plus one gesture")
	assert.Equal(t, uint8(1), g.At(0, 0))
	assert.Equal(t, uint8(1), g.At(7, 4))
}

func TestPenStrokeHasNoGaps(t *testing.T) {
	cases := [][4]int{
		{0, 0, 31, 1},  // near-horizontal
		{0, 0, 1, 31},  // near-vertical
		{0, 0, 31, 31}, // diagonal
		{31, 0, 0, 31}, // reversed diagonal
		{5, 20, 28, 3}, // arbitrary slope
	}
	for _, c := range cases {
		e, g, _ := newTestEngine(t, 32, 32)
		require.NoError(t, e.SetActiveIndex(1))

		e.BeginStroke(c[0], c[1])
		e.ContinueStroke(c[2], c[3])
		e.EndStroke()

		cells := touchedCells(g, 1)
		assert.True(t, cells[[2]int{c[0], c[1]}])
		assert.True(t, cells[[2]int{c[2], c[3]}])

		// Every touched cell except the endpoints must have a
		// touched 8-neighbor on both sides of the walk: no gaps.
		for cell := range cells {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if cells[[2]int{cell[0] + dx, cell[1] + dy}] {
						neighbors++
					}
				}
			}
			if cell != [2]int{c[0], c[1]} && cell != [2]int{c[2], c[3]} {
				assert.GreaterOrEqual(t, neighbors, 2, "cell %v is a gap", cell)
			}
		}
	}
}

func TestPenStrokeDirectionSymmetry(t *testing.T) {
	const size = 12
	stroke := func(x0, y0, x1, y1 int) map[[2]int]bool {
		e, g, _ := newTestEngine(t, size, size)
		require.NoError(t, e.SetActiveIndex(1))
		e.BeginStroke(x0, y0)
		e.ContinueStroke(x1, y1)
		e.EndStroke()
		return touchedCells(g, 1)
	}

	// Every endpoint pair, including the half-step ties where a
	// direction-sensitive tie-break rounds forward and reverse walks
	// onto different cells.
	for y0 := 0; y0 < size; y0++ {
		for x0 := 0; x0 < size; x0++ {
			for y1 := y0; y1 < size; y1++ {
				for x1 := 0; x1 < size; x1++ {
					forward := stroke(x0, y0, x1, y1)
					reverse := stroke(x1, y1, x0, y0)
					require.Equal(t, forward, reverse,
						"stroke (%d,%d)-(%d,%d) must touch the same cells reversed", x0, y0, x1, y1)
				}
			}
		}
	}
}

func TestBeginStrokeClosesAnOpenGesture(t *testing.T) {
	e, g, hist := newTestEngine(t, 8, 8)
	require.NoError(t, e.SetActiveIndex(1))

	// Pointer-up was missed: the second press must first close the
	// open gesture so each one gets its own history entry.
	e.BeginStroke(0, 0)
	e.ContinueStroke(3, 0)
	e.BeginStroke(0, 4)
	e.ContinueStroke(3, 4)
	e.EndStroke()

	assert.Equal(t, 3, hist.Len(), "initial snapshot plus two gestures")
	assert.Equal(t, uint8(1), g.At(3, 0))
	assert.Equal(t, uint8(1), g.At(3, 4))

	// One undo removes only the second stroke.
	require.True(t, hist.Undo(g))
	assert.Equal(t, uint8(1), g.At(3, 0))
	assert.Equal(t, uint8(0), g.At(3, 4))
}

func TestPenClampsOutOfBoundsSilently(t *testing.T) {
	e, g, hist := newTestEngine(t, 4, 4)
	require.NoError(t, e.SetActiveIndex(1))

	e.BeginStroke(-5, -5)
	e.EndStroke()
	assert.Equal(t, 1, hist.Len(), "off-grid press changes nothing")

	// A drag wandering off the edge still paints the in-bounds part.
	e.BeginStroke(0, 0)
	e.ContinueStroke(7, 0)
	e.EndStroke()
	for x := 0; x < 4; x++ {
		assert.Equal(t, uint8(1), g.At(x, 0))
	}
	assert.Equal(t, 2, hist.Len())
}

func TestEraserWritesBackgroundIndex(t *testing.T) {
	e, g, _ := newTestEngine(t, 4, 4)
	require.NoError(t, e.SetActiveIndex(2))

	e.BeginStroke(1, 1)
	e.EndStroke()
	require.Equal(t, uint8(2), g.At(1, 1))

	e.SetTool(ToolEraser)
	e.BeginStroke(1, 1)
	e.EndStroke()
	// DefaultColors has pure white at index 0.
	assert.Equal(t, uint8(0), g.At(1, 1))
	// Eraser does not disturb the active drawing color.
	assert.Equal(t, uint8(2), e.ActiveIndex())
}

func TestFillFloodsFourConnectedRegion(t *testing.T) {
	e, g, hist := newTestEngine(t, 4, 4)

	// Fill a 4x4 grid of index 1 with index 2 from a corner.
	require.NoError(t, e.SetActiveIndex(1))
	e.SetTool(ToolFill)
	e.BeginStroke(0, 0)
	e.EndStroke()
	require.Equal(t, 2, hist.Len())

	require.NoError(t, e.SetActiveIndex(2))
	e.BeginStroke(0, 0)
	e.EndStroke()

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, uint8(2), g.At(x, y))
		}
	}
	assert.Equal(t, 3, hist.Len(), "exactly one entry for the fill")
}

func TestFillRespectsDiagonalBoundaries(t *testing.T) {
	e, g, _ := newTestEngine(t, 3, 3)
	require.NoError(t, e.SetActiveIndex(1))

	// Diagonal wall of 1s: (0,2), (1,1), (2,0).
	for _, c := range [][2]int{{0, 2}, {1, 1}, {2, 0}} {
		e.BeginStroke(c[0], c[1])
		e.EndStroke()
	}

	require.NoError(t, e.SetActiveIndex(3))
	e.SetTool(ToolFill)
	e.BeginStroke(0, 0)
	e.EndStroke()

	// The wall is not 4-connected-crossable, so the far corner keeps
	// its original index.
	assert.Equal(t, uint8(3), g.At(0, 0))
	assert.Equal(t, uint8(3), g.At(1, 0))
	assert.Equal(t, uint8(3), g.At(0, 1))
	assert.Equal(t, uint8(0), g.At(2, 2))
	assert.Equal(t, uint8(0), g.At(2, 1))
}

func TestFillOnMatchingIndexIsPureNoOp(t *testing.T) {
	e, _, hist := newTestEngine(t, 4, 4)

	e.SetTool(ToolFill)
	require.NoError(t, e.SetActiveIndex(0)) // grid is already all 0
	e.BeginStroke(2, 2)
	e.EndStroke()

	assert.Equal(t, 1, hist.Len(), "no-op fill must not push history")
}

func TestPickerReadsIndexWithoutMutating(t *testing.T) {
	e, g, hist := newTestEngine(t, 4, 4)
	require.NoError(t, e.SetActiveIndex(5))
	e.BeginStroke(2, 2)
	e.EndStroke()

	require.NoError(t, e.SetActiveIndex(1))
	e.SetTool(ToolPicker)
	e.BeginStroke(2, 2)
	e.EndStroke()

	assert.Equal(t, uint8(5), e.ActiveIndex())
	assert.Equal(t, uint8(5), g.At(2, 2))
	assert.Equal(t, 2, hist.Len(), "picker pushes nothing")

	// Out of bounds: active index untouched.
	e.BeginStroke(-1, 0)
	e.EndStroke()
	assert.Equal(t, uint8(5), e.ActiveIndex())
}

func TestSetActiveIndexValidates(t *testing.T) {
	e, _, _ := newTestEngine(t, 4, 4)
	assert.ErrorIs(t, e.SetActiveIndex(len(DefaultColors)), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.SetActiveIndex(-1), ErrIndexOutOfRange)
}

func TestRemoveColorRemapsGridAndActiveIndex(t *testing.T) {
	p, err := NewPalette([]Color{
		{255, 255, 255},
		{250, 0, 0},
		{200, 0, 0}, // closest survivor to index 1
		{0, 0, 255},
	})
	require.NoError(t, err)
	g := NewGrid(4, 4, 0)
	hist := NewHistory()
	e := NewEngine(g, p, hist)

	require.NoError(t, e.SetActiveIndex(1))
	e.BeginStroke(0, 0)
	e.ContinueStroke(3, 0)
	e.EndStroke()

	require.NoError(t, e.SetActiveIndex(3))
	e.BeginStroke(0, 3)
	e.EndStroke()

	require.NoError(t, e.RemoveColor(1))

	assert.Equal(t, 3, p.Len())
	// Cells holding the removed red remap to the surviving dark red,
	// which now sits at index 1.
	for x := 0; x < 4; x++ {
		assert.Equal(t, uint8(1), g.At(x, 0))
	}
	// Cells above the removed slot shift down.
	assert.Equal(t, uint8(2), g.At(0, 3))
	// Active index pointed above the removed slot and shifts with it.
	assert.Equal(t, uint8(2), e.ActiveIndex())
}

func TestRemoveColorRejectsUnderflow(t *testing.T) {
	p, err := NewPalette([]Color{{0, 0, 0}, {255, 255, 255}})
	require.NoError(t, err)
	g := NewGrid(2, 2, 0)
	e := NewEngine(g, p, NewHistory())

	assert.ErrorIs(t, e.RemoveColor(0), ErrPaletteUnderflow)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, []uint8{0, 0, 0, 0}, g.Buffer())
}
