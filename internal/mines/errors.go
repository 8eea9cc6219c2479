package mines

import "errors"

// Configuration errors. A difficulty failing with one of these never
// produces a board.
var (
	ErrInvalidDimensions  = errors.New("invalid board dimensions")
	ErrInvalidMineCount   = errors.New("invalid mine count")
	ErrMineDensityTooHigh = errors.New("mine density too high")
)

// Move errors. These are expected during play and leave the board and
// the session untouched.
var (
	ErrOutOfBounds       = errors.New("cell position out of bounds")
	ErrInvalidMove       = errors.New("invalid move")
	ErrIllegalTransition = errors.New("illegal state transition")
	ErrSessionPaused     = errors.New("session is paused")
	ErrGameOver          = errors.New("game is over")
)

var (
	ErrMinesPlaced     = errors.New("mines already placed")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
