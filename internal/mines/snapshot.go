package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"
)

// Snapshot is everything needed to rebuild a session exactly.
type Snapshot struct {
	ID         string        `json:"id"`
	Difficulty Difficulty    `json:"difficulty"`
	State      SessionState  `json:"state"`
	Mines      []Point       `json:"mines,omitempty"`
	Revealed   []Point       `json:"revealed,omitempty"`
	Flagged    []Point       `json:"flagged,omitempty"`
	Exploded   *Point        `json:"exploded,omitempty"`
	MovesCount int           `json:"moves_count"`
	FlagsUsed  int           `json:"flags_used"`
	StartedAt  time.Time     `json:"started_at"`
	EndedAt    time.Time     `json:"ended_at"`
	PausedAt   time.Time     `json:"paused_at"`
	PausedFor  time.Duration `json:"paused_for"`
}

func DecodeSnapshot(buf []byte) (*Snapshot, error) {
	var snap Snapshot
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&snap)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s Snapshot) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(s)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SessionState) UnmarshalText(text []byte) error {
	st, err := ParseSessionState(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s *Session) Snapshot() Snapshot {
	b := s.board
	snap := Snapshot{
		ID:         s.id,
		Difficulty: s.difficulty,
		State:      s.state,
		Revealed:   b.points(func(c Cell) bool { return c.Status == Revealed }),
		Flagged:    b.points(func(c Cell) bool { return c.Status == Flagged }),
		MovesCount: s.movesCount,
		FlagsUsed:  s.flagsUsed,
		StartedAt:  s.startedAt,
		EndedAt:    s.endedAt,
		PausedAt:   s.pausedAt,
		PausedFor:  s.pausedFor,
	}
	if b.minesPlaced {
		snap.Mines = b.points(func(c Cell) bool { return c.IsMine })
	}
	if p, ok := b.Exploded(); ok {
		snap.Exploded = &p
	}
	return snap
}

// RestoreSession rebuilds a session from a snapshot. Cells are set
// directly, no cascade runs, so the result matches the snapshot cell for
// cell. Snapshots that could not come from a real game are rejected with
// ErrInvalidSnapshot.
func RestoreSession(snap Snapshot, opts ...SessionOption) (*Session, error) {
	if snap.ID == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidSnapshot)
	}
	if snap.State < StateNew || snap.State > StateLost {
		return nil, fmt.Errorf("%w: state %s", ErrInvalidSnapshot, snap.State)
	}
	if snap.MovesCount < 0 || snap.FlagsUsed < 0 || snap.FlagsUsed > snap.MovesCount {
		return nil, fmt.Errorf(
			"%w: moves=%d flags=%d", ErrInvalidSnapshot, snap.MovesCount, snap.FlagsUsed,
		)
	}

	s, err := NewSession(snap.Difficulty, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if err := s.board.restore(snap); err != nil {
		return nil, err
	}
	if err := s.checkRestored(snap); err != nil {
		return nil, err
	}

	s.id = snap.ID
	s.state = snap.State
	s.movesCount = snap.MovesCount
	s.flagsUsed = snap.FlagsUsed
	s.startedAt = snap.StartedAt
	s.endedAt = snap.EndedAt
	s.pausedAt = snap.PausedAt
	s.pausedFor = snap.PausedFor
	return s, nil
}

func (b *Board) restore(snap Snapshot) error {
	if len(snap.Mines) > 0 && len(snap.Revealed) == 0 {
		return fmt.Errorf("%w: mines placed without a revealed cell", ErrInvalidSnapshot)
	}
	if len(snap.Mines) > 0 {
		if err := b.placeMinesAt(snap.Mines); err != nil {
			return err
		}
	} else if len(snap.Revealed) > 0 {
		return fmt.Errorf("%w: cells revealed before mines were placed", ErrInvalidSnapshot)
	}

	for _, p := range snap.Revealed {
		i, err := b.index(p.Row, p.Col)
		if err != nil {
			return fmt.Errorf("%w: revealed %s: %w", ErrInvalidSnapshot, p, err)
		}
		if b.cells[i].Status != Hidden {
			return fmt.Errorf("%w: duplicate revealed cell %s", ErrInvalidSnapshot, p)
		}
		if err := b.reveal(i); err != nil {
			return err
		}
	}
	for _, p := range snap.Flagged {
		i, err := b.index(p.Row, p.Col)
		if err != nil {
			return fmt.Errorf("%w: flagged %s: %w", ErrInvalidSnapshot, p, err)
		}
		if b.cells[i].Status != Hidden {
			return fmt.Errorf("%w: flagged cell %s is %s", ErrInvalidSnapshot, p, b.cells[i].Status)
		}
		if err := b.flag(i); err != nil {
			return err
		}
	}

	if snap.Exploded != nil {
		i, err := b.index(snap.Exploded.Row, snap.Exploded.Col)
		if err != nil {
			return fmt.Errorf("%w: exploded %s: %w", ErrInvalidSnapshot, snap.Exploded, err)
		}
		if !b.cells[i].IsMine || b.cells[i].Status != Revealed {
			return fmt.Errorf(
				"%w: exploded cell %s is not a revealed mine", ErrInvalidSnapshot, snap.Exploded,
			)
		}
		b.explodedAt = i
	}
	return nil
}

// checkRestored makes sure the session state agrees with the board.
func (s *Session) checkRestored(snap Snapshot) error {
	b := s.board
	revealedMines := 0
	for _, c := range b.cells {
		if c.IsMine && c.Status == Revealed {
			revealedMines++
		}
	}

	var problem string
	switch snap.State {
	case StateNew:
		if b.revealedCount > 0 || b.flaggedCount > 0 || snap.MovesCount > 0 {
			problem = "new session with moves"
		} else if b.minesPlaced {
			problem = "new session with mines"
		}
	case StatePlaying, StatePaused:
		if b.Cleared() || revealedMines > 0 {
			problem = "finished board in an unfinished session"
		} else if snap.StartedAt.IsZero() {
			problem = "started session without start time"
		} else if snap.State == StatePaused && snap.PausedAt.IsZero() {
			problem = "paused session without pause time"
		}
	case StateWon:
		if !b.Cleared() {
			problem = "won session with uncleared board"
		}
	case StateLost:
		if _, ok := b.Exploded(); !ok {
			problem = "lost session without exploded mine"
		}
	}
	if snap.State != StateLost && revealedMines > 0 && problem == "" {
		problem = "revealed mines in a session that was not lost"
	}
	if snap.State.Over() && snap.EndedAt.IsZero() && problem == "" {
		problem = "finished session without end time"
	}
	if problem != "" {
		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, problem)
	}
	return nil
}
