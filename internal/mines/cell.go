package mines

import (
	"fmt"
	"strconv"
)

type CellStatus int8

const (
	Hidden CellStatus = iota
	Revealed
	Flagged
)

func (s CellStatus) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	default:
		return "CellStatus(" + strconv.Itoa(int(s)) + ")"
	}
}

type cellAction int8

const (
	actionReveal cellAction = iota
	actionFlag
)

func (a cellAction) String() string {
	if a == actionReveal {
		return "reveal"
	}
	return "flag"
}

// transition is the single place where cell status changes are decided.
//
//	hidden   --reveal--> revealed
//	hidden   --flag----> flagged
//	flagged  --flag----> hidden
//	revealed --reveal--> revealed (no-op)
//
// Every other edge is illegal. In particular a flagged cell has to be
// unflagged before it can be revealed.
func transition(from CellStatus, action cellAction) (CellStatus, error) {
	switch from {
	case Hidden:
		switch action {
		case actionReveal:
			return Revealed, nil
		case actionFlag:
			return Flagged, nil
		}
	case Revealed:
		if action == actionReveal {
			return Revealed, nil
		}
	case Flagged:
		if action == actionFlag {
			return Hidden, nil
		}
	}
	return from, fmt.Errorf("%w: cannot %s a %s cell", ErrIllegalTransition, action, from)
}

type Cell struct {
	Row, Col      int
	IsMine        bool
	AdjacentMines int
	Status        CellStatus
}

func (c *Cell) Reveal() error {
	next, err := transition(c.Status, actionReveal)
	if err != nil {
		return err
	}
	c.Status = next
	return nil
}

func (c *Cell) ToggleFlag() error {
	next, err := transition(c.Status, actionFlag)
	if err != nil {
		return err
	}
	c.Status = next
	return nil
}

// CanReveal reports whether a reveal would change the cell.
func (c Cell) CanReveal() bool {
	return c.Status == Hidden
}

func (c Cell) CanFlag() bool {
	_, err := transition(c.Status, actionFlag)
	return err == nil
}

func (c Cell) String() string {
	return fmt.Sprintf(
		"Cell(%d, %d, %s, mine=%t, adjacent=%d)",
		c.Row, c.Col, c.Status, c.IsMine, c.AdjacentMines,
	)
}
