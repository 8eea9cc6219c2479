package mines

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

// boardWithMines builds a board with mines on exactly the given cells.
func boardWithMines(t *testing.T, width, height int, mines ...Point) *Board {
	t.Helper()
	b := newBoard(width, height, len(mines))
	require.NoError(t, b.placeMinesAt(mines))
	return b
}

// sessionWithMines swaps the session's board for one with known mines.
func sessionWithMines(t *testing.T, s *Session, mines ...Point) *Session {
	t.Helper()
	d := s.Difficulty()
	require.Equal(t, d.MineCount, len(mines))
	s.board = boardWithMines(t, d.Width, d.Height, mines...)
	return s
}

// wall returns mines filling column col of a 9-row board.
func wall(col int) []Point {
	points := make([]Point, 9)
	for row := range points {
		points[row] = Point{row, col}
	}
	return points
}

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
