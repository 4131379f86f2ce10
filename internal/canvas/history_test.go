package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridWith(t *testing.T, w, h int, fill uint8) *Grid {
	t.Helper()
	return NewGrid(w, h, fill)
}

func TestUndoRestoresExactBuffer(t *testing.T) {
	g := gridWith(t, 4, 4, 0)
	h := NewHistory()

	h.Push(g) // A: all zeros
	bufA := g.Buffer()

	g.Set(1, 1, 3)
	g.Set(2, 2, 5)
	h.Push(g) // B
	bufB := g.Buffer()

	g.Set(0, 0, 7)
	h.Push(g) // C

	require.True(t, h.Undo(g))
	assert.Equal(t, bufB, g.Buffer())

	require.True(t, h.Undo(g))
	assert.Equal(t, bufA, g.Buffer())

	// Oldest snapshot: further undo is a no-op.
	assert.False(t, h.Undo(g))
	assert.Equal(t, bufA, g.Buffer())
}

func TestRedoRestoresTheUndoneSnapshot(t *testing.T) {
	g := gridWith(t, 4, 4, 0)
	h := NewHistory()

	h.Push(g)
	g.Set(3, 3, 2)
	h.Push(g)
	bufB := g.Buffer()

	require.True(t, h.Undo(g))
	require.True(t, h.Redo(g))
	assert.Equal(t, bufB, g.Buffer())

	assert.False(t, h.Redo(g))
}

func TestPushAfterUndoDiscardsRedoableEntries(t *testing.T) {
	g := gridWith(t, 2, 2, 0)
	h := NewHistory()

	h.Push(g) // A
	bufA := g.Buffer()

	g.Set(0, 0, 1)
	h.Push(g) // B

	g.Set(1, 0, 1)
	h.Push(g) // C
	assert.Equal(t, 2, h.Cursor())

	require.True(t, h.Undo(g))
	require.True(t, h.Undo(g))
	assert.Equal(t, 0, h.Cursor())
	assert.Equal(t, bufA, g.Buffer())

	g.Set(1, 1, 2)
	h.Push(g) // D replaces B and C
	bufD := g.Buffer()

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 1, h.Cursor())

	// Redo is a no-op: the branch holding B and C is gone.
	assert.False(t, h.Redo(g))
	assert.Equal(t, bufD, g.Buffer())
}

func TestSnapshotsAreIndependentOfLiveGrid(t *testing.T) {
	g := gridWith(t, 2, 2, 0)
	h := NewHistory()
	h.Push(g)

	// Mutating the grid after the push must not touch the snapshot.
	g.Set(0, 0, 9)
	g.Set(1, 1, 9)

	assert.False(t, h.Redo(g))
	h.Push(g)
	require.True(t, h.Undo(g))
	assert.Equal(t, []uint8{0, 0, 0, 0}, g.Buffer())
}
