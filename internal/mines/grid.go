package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellView is what the player is allowed to know about a cell.
//
//   - 0 to 8 mean the cell is open with that many mined neighbours.
//   - ViewUnknown and ViewFlagged are covered cells.
//   - The values from 64 up only appear once the game is over.
type CellView int8

const (
	ViewUnknown          CellView = -2
	ViewFlagged          CellView = -1
	ViewCorrectlyFlagged CellView = 64
	ViewExplodedMine     CellView = 65
	ViewFalselyFlagged   CellView = 66
	ViewUnflaggedMine    CellView = 67
)

func (v CellView) IsNumber() bool {
	return 0 <= v && v <= 8
}

func (v CellView) String() string {
	switch {
	case v == ViewUnknown:
		return "?"
	case v == ViewFlagged, v == ViewCorrectlyFlagged:
		return "F"
	case v == ViewFalselyFlagged:
		return "X"
	case v == ViewExplodedMine:
		return "#"
	case v == ViewUnflaggedMine:
		return "*"
	case v.IsNumber():
		return strconv.Itoa(int(v))
	default:
		return "!"
	}
}

// Grid is a row-major player view of a board.
type Grid []CellView

func (g Grid) At(width, row, col int) CellView {
	return g[row*width+col]
}

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			fmt.Fprint(&b, g[y*width+x].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// View renders the board for the player. Mine positions stay hidden
// until gameOver, when flags are marked correct or false and every mine
// is shown.
func (b *Board) View(gameOver bool) Grid {
	grid := make(Grid, len(b.cells))
	for i, c := range b.cells {
		grid[i] = b.cellView(i, c, gameOver)
	}
	return grid
}

func (b *Board) cellView(i int, c Cell, gameOver bool) CellView {
	switch c.Status {
	case Revealed:
		if !c.IsMine {
			return CellView(c.AdjacentMines)
		}
		if i == b.explodedAt {
			return ViewExplodedMine
		}
		return ViewUnflaggedMine
	case Flagged:
		if !gameOver {
			return ViewFlagged
		}
		if c.IsMine {
			return ViewCorrectlyFlagged
		}
		return ViewFalselyFlagged
	default:
		if gameOver && c.IsMine {
			return ViewUnflaggedMine
		}
		return ViewUnknown
	}
}
