package mines

import "strconv"

// Outcome is what a move did to the game.
type Outcome int8

const (
	Continue Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "Outcome(" + strconv.Itoa(int(o)) + ")"
	}
}
