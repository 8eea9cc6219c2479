package mines

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// SafetyPolicy decides which cells are kept free of mines around the
// first reveal.
type SafetyPolicy int8

const (
	// SafeNeighborhood keeps the clicked cell and its 8 neighbours free,
	// so the first reveal always opens an area. Falls back to SafeCell
	// when the board is too dense for that.
	SafeNeighborhood SafetyPolicy = iota
	// SafeCell keeps only the clicked cell free.
	SafeCell
)

func (p SafetyPolicy) String() string {
	switch p {
	case SafeNeighborhood:
		return "neighborhood"
	case SafeCell:
		return "cell"
	default:
		return "SafetyPolicy(" + strconv.Itoa(int(p)) + ")"
	}
}

func ParseSafetyPolicy(s string) (SafetyPolicy, error) {
	switch strings.ToLower(s) {
	case "neighborhood", "neighbourhood", "":
		return SafeNeighborhood, nil
	case "cell":
		return SafeCell, nil
	default:
		return 0, fmt.Errorf("unknown first click policy %q", s)
	}
}

type Board struct {
	width, height, mineCount int

	cells         []Cell // row-major
	revealedCount int
	flaggedCount  int
	minesPlaced   bool
	explodedAt    int

	safety SafetyPolicy
	rnd    *rand.Rand
}

type BoardOption func(*Board)

func WithRand(r *rand.Rand) BoardOption {
	return func(b *Board) {
		b.rnd = r
	}
}

func WithSafety(p SafetyPolicy) BoardOption {
	return func(b *Board) {
		b.safety = p
	}
}

// NewBoard returns an empty board for d. Mines are placed by the first
// successful reveal.
func NewBoard(d Difficulty, opts ...BoardOption) (*Board, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return newBoard(d.Width, d.Height, d.MineCount, opts...), nil
}

// newBoard skips validation; tests use it for boards smaller than any
// playable difficulty.
func newBoard(width, height, mineCount int, opts ...BoardOption) *Board {
	b := &Board{
		width:      width,
		height:     height,
		mineCount:  mineCount,
		cells:      make([]Cell, width*height),
		explodedAt: -1,
	}
	for i := range b.cells {
		b.cells[i].Row, b.cells[i].Col = b.coords(i)
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rnd == nil {
		b.rnd = NewRand()
	}
	return b
}

func (b *Board) Width() int         { return b.width }
func (b *Board) Height() int        { return b.height }
func (b *Board) MineCount() int     { return b.mineCount }
func (b *Board) RevealedCount() int { return b.revealedCount }
func (b *Board) FlaggedCount() int  { return b.flaggedCount }
func (b *Board) MinesPlaced() bool  { return b.minesPlaced }

// MinesLeft is the mine count minus placed flags. It goes negative when
// the player over-flags.
func (b *Board) MinesLeft() int {
	return b.mineCount - b.flaggedCount
}

func (b *Board) InBounds(row, col int) bool {
	return 0 <= row && row < b.height && 0 <= col && col < b.width
}

func (b *Board) index(row, col int) (int, error) {
	if !b.InBounds(row, col) {
		return -1, fmt.Errorf(
			"%w: %d:%d is outside %dx%d board",
			ErrOutOfBounds, row, col, b.height, b.width,
		)
	}
	return row*b.width + col, nil
}

func (b *Board) coords(i int) (row, col int) {
	return i / b.width, i % b.width
}

// neighbors yields the indices of the up to 8 cells around row:col.
func (b *Board) neighbors(row, col int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, d := range neighborOffsets {
			r, c := row+d.Row, col+d.Col
			if !b.InBounds(r, c) {
				continue
			}
			if !yield(r*b.width + c) {
				return
			}
		}
	}
}

func (b *Board) Neighbors(row, col int) []Point {
	var points []Point
	for j := range b.neighbors(row, col) {
		r, c := b.coords(j)
		points = append(points, Point{r, c})
	}
	return points
}

// Cell returns a copy of the cell at row:col.
func (b *Board) Cell(row, col int) (Cell, error) {
	i, err := b.index(row, col)
	if err != nil {
		return Cell{}, err
	}
	return b.cells[i], nil
}

// reveal and flag are the only places that change cell status, so the
// counters always match the grid.
func (b *Board) reveal(i int) error {
	c := &b.cells[i]
	before := c.Status
	if err := c.Reveal(); err != nil {
		return err
	}
	b.recount(before, c.Status)
	return nil
}

func (b *Board) flag(i int) error {
	c := &b.cells[i]
	before := c.Status
	if err := c.ToggleFlag(); err != nil {
		return err
	}
	b.recount(before, c.Status)
	return nil
}

func (b *Board) recount(before, after CellStatus) {
	if before == after {
		return
	}
	switch before {
	case Revealed:
		b.revealedCount--
	case Flagged:
		b.flaggedCount--
	}
	switch after {
	case Revealed:
		b.revealedCount++
	case Flagged:
		b.flaggedCount++
	}
}

func (b *Board) candidates(excludeRow, excludeCol int, neighborhood bool) []int {
	candidates := make([]int, 0, len(b.cells))
	for i := range b.cells {
		row, col := b.coords(i)
		if neighborhood {
			if absDiff(row, excludeRow) <= 1 && absDiff(col, excludeCol) <= 1 {
				continue
			}
		} else if row == excludeRow && col == excludeCol {
			continue
		}
		candidates = append(candidates, i)
	}
	return candidates
}

// PlaceMines puts mineCount mines on distinct cells chosen uniformly at
// random among the cells the safety policy allows, then computes the
// adjacency counts. It runs once per board.
func (b *Board) PlaceMines(excludeRow, excludeCol int) error {
	if b.minesPlaced {
		return ErrMinesPlaced
	}
	if _, err := b.index(excludeRow, excludeCol); err != nil {
		return err
	}

	candidates := b.candidates(excludeRow, excludeCol, b.safety == SafeNeighborhood)
	if len(candidates) < b.mineCount {
		Log.WithFields(logrus.Fields{
			"board": b.dims(),
			"free":  len(candidates),
		}).Debug("neighbourhood too small, keeping only the clicked cell free")
		candidates = b.candidates(excludeRow, excludeCol, false)
	}
	if len(candidates) < b.mineCount {
		return fmt.Errorf(
			"%w: cannot fit %d mines into %d cells",
			ErrInvalidMineCount, b.mineCount, len(candidates),
		)
	}

	// Partial Fisher-Yates: take mineCount items off the candidate list.
	k := len(candidates)
	for range b.mineCount {
		i := b.rnd.IntN(k)
		b.cells[candidates[i]].IsMine = true
		k--
		candidates[i] = candidates[k]
	}

	b.countAdjacentMines()
	b.minesPlaced = true

	Log.WithFields(logrus.Fields{
		"board": b.dims(),
		"start": Point{excludeRow, excludeCol},
	}).Debug("mines placed")
	return nil
}

// placeMinesAt puts mines on exactly the given cells. Used to restore
// snapshots.
func (b *Board) placeMinesAt(points []Point) error {
	if b.minesPlaced {
		return ErrMinesPlaced
	}
	if len(points) != b.mineCount {
		return fmt.Errorf(
			"%w: have %d mines, want %d",
			ErrInvalidSnapshot, len(points), b.mineCount,
		)
	}
	for _, p := range points {
		i, err := b.index(p.Row, p.Col)
		if err != nil {
			return fmt.Errorf("%w: mine %s: %w", ErrInvalidSnapshot, p, err)
		}
		if b.cells[i].IsMine {
			return fmt.Errorf("%w: duplicate mine %s", ErrInvalidSnapshot, p)
		}
		b.cells[i].IsMine = true
	}
	b.countAdjacentMines()
	b.minesPlaced = true
	return nil
}

func (b *Board) countAdjacentMines() {
	for i := range b.cells {
		c := &b.cells[i]
		if c.IsMine {
			continue
		}
		n := 0
		for j := range b.neighbors(c.Row, c.Col) {
			if b.cells[j].IsMine {
				n++
			}
		}
		c.AdjacentMines = n
	}
}

// Reveal opens row:col. The first successful reveal places the mines
// around it. Opening a cell with no adjacent mines opens its whole
// zero region and the numbered cells bordering it.
func (b *Board) Reveal(row, col int) (Outcome, error) {
	i, err := b.index(row, col)
	if err != nil {
		return Continue, err
	}
	if !b.cells[i].CanReveal() {
		return Continue, fmt.Errorf(
			"%w: cell %d:%d is %s", ErrInvalidMove, row, col, b.cells[i].Status,
		)
	}
	if !b.minesPlaced {
		if err := b.PlaceMines(row, col); err != nil {
			return Continue, err
		}
	}
	return b.open(i)
}

// open reveals a hidden cell and cascades from it.
func (b *Board) open(start int) (Outcome, error) {
	if err := b.reveal(start); err != nil {
		return Continue, err
	}
	if b.cells[start].IsMine {
		b.explodedAt = start
		return Lost, nil
	}
	if b.cells[start].AdjacentMines == 0 {
		if err := b.floodFill(start); err != nil {
			return Continue, err
		}
	}
	if b.Cleared() {
		return Won, nil
	}
	return Continue, nil
}

// floodFill runs a breadth-first search from a revealed zero cell. A cell
// is queued only on its hidden→revealed edge, so each is visited once.
// Flagged cells are left alone.
func (b *Board) floodFill(start int) error {
	queue := []int{start}
	for qi := 0; qi < len(queue); qi++ {
		row, col := b.coords(queue[qi])
		for j := range b.neighbors(row, col) {
			n := &b.cells[j]
			if n.Status != Hidden || n.IsMine {
				continue
			}
			if err := b.reveal(j); err != nil {
				return err
			}
			if n.AdjacentMines == 0 {
				queue = append(queue, j)
			}
		}
	}
	return nil
}

func (b *Board) ToggleFlag(row, col int) error {
	i, err := b.index(row, col)
	if err != nil {
		return err
	}
	if !b.cells[i].CanFlag() {
		return fmt.Errorf(
			"%w: cell %d:%d is %s", ErrInvalidMove, row, col, b.cells[i].Status,
		)
	}
	return b.flag(i)
}

// ChordReveal opens every hidden, unflagged neighbour of a revealed
// number once the number of flags around it matches. If a flag is
// misplaced the chord hits a mine and the game is lost. With too few or
// too many flags it does nothing.
func (b *Board) ChordReveal(row, col int) (Outcome, error) {
	i, err := b.index(row, col)
	if err != nil {
		return Continue, err
	}
	c := b.cells[i]
	if c.Status != Revealed || c.IsMine || c.AdjacentMines == 0 {
		return Continue, fmt.Errorf(
			"%w: chord needs a revealed number, cell %d:%d is %s with %d adjacent mines",
			ErrInvalidMove, row, col, c.Status, c.AdjacentMines,
		)
	}

	flags := 0
	hidden := make([]int, 0, 8)
	for j := range b.neighbors(row, col) {
		switch b.cells[j].Status {
		case Flagged:
			flags++
		case Hidden:
			hidden = append(hidden, j)
		}
	}
	if flags != c.AdjacentMines {
		return Continue, nil
	}

	for _, j := range hidden {
		if b.cells[j].IsMine {
			return b.open(j)
		}
	}
	for _, j := range hidden {
		// an earlier cascade may already have opened it
		if b.cells[j].Status != Hidden {
			continue
		}
		if _, err := b.open(j); err != nil {
			return Continue, err
		}
	}
	if b.Cleared() {
		return Won, nil
	}
	return Continue, nil
}

// RevealMines opens every hidden mine for end-of-game display. Flags are
// kept.
func (b *Board) RevealMines() (n int, err error) {
	for i := range b.cells {
		if b.cells[i].IsMine && b.cells[i].Status == Hidden {
			if err := b.reveal(i); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

// Cleared reports whether every safe cell is revealed and no mine is.
func (b *Board) Cleared() bool {
	return b.explodedAt < 0 &&
		b.revealedCount == len(b.cells)-b.mineCount
}

// Exploded returns the revealed mine that lost the game.
func (b *Board) Exploded() (Point, bool) {
	if b.explodedAt < 0 {
		return Point{}, false
	}
	row, col := b.coords(b.explodedAt)
	return Point{row, col}, true
}

func (b *Board) points(keep func(Cell) bool) []Point {
	var points []Point
	for _, c := range b.cells {
		if keep(c) {
			points = append(points, Point{c.Row, c.Col})
		}
	}
	return points
}

func (b *Board) dims() string {
	return fmt.Sprintf("%dx%d(%d)", b.width, b.height, b.mineCount)
}

func (b *Board) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Board %s revealed=%d flagged=%d\n",
		b.dims(), b.revealedCount, b.flaggedCount)
	for row := range b.height {
		for col := range b.width {
			c := b.cells[row*b.width+col]
			var ch string
			switch {
			case c.Status == Flagged:
				ch = "F"
			case c.Status == Hidden:
				ch = "?"
			case c.IsMine:
				ch = "*"
			default:
				ch = strconv.Itoa(c.AdjacentMines)
			}
			sb.WriteString(ch + " ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
