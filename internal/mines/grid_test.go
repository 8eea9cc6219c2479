package mines

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewHidesMinesUntilGameOver(t *testing.T) {
	b := boardWithMines(t, 9, 9, wall(4)...)
	require.NoError(t, b.ToggleFlag(0, 4))
	require.NoError(t, b.ToggleFlag(0, 5))
	_, err := b.Reveal(0, 0)
	require.NoError(t, err)

	grid := b.View(false)
	assert.Len(t, grid, 81)
	assert.Equal(t, CellView(0), grid.At(9, 0, 0))
	assert.Equal(t, CellView(2), grid.At(9, 0, 3))
	assert.Equal(t, CellView(3), grid.At(9, 4, 3))
	assert.Equal(t, ViewFlagged, grid.At(9, 0, 4))
	assert.Equal(t, ViewFlagged, grid.At(9, 0, 5))
	assert.Equal(t, ViewUnknown, grid.At(9, 1, 4))

	grid = b.View(true)
	assert.Equal(t, ViewCorrectlyFlagged, grid.At(9, 0, 4))
	assert.Equal(t, ViewFalselyFlagged, grid.At(9, 0, 5))
	assert.Equal(t, ViewUnflaggedMine, grid.At(9, 1, 4))
	assert.Equal(t, ViewUnknown, grid.At(9, 1, 5))
}

func TestGridToString(t *testing.T) {
	grid := Grid{0, 1, ViewUnknown, ViewFlagged, ViewExplodedMine, ViewUnflaggedMine}
	s := grid.ToString(3)
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	assert.Equal(t, []string{"0 1 ? ", "F # * "}, lines)

	assert.True(t, CellView(8).IsNumber())
	assert.False(t, ViewFlagged.IsNumber())
	assert.Equal(t, "X", ViewFalselyFlagged.String())
}
