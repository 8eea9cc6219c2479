package mines

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type SessionState int8

const (
	StateNew SessionState = iota
	StatePlaying
	StatePaused
	StateWon
	StateLost
)

func (s SessionState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "SessionState(" + strconv.Itoa(int(s)) + ")"
	}
}

func ParseSessionState(s string) (SessionState, error) {
	for st := StateNew; st <= StateLost; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown session state %q", s)
}

func (s SessionState) Over() bool {
	return s == StateWon || s == StateLost
}

// Session runs one game on one board. It is not safe for concurrent use;
// callers funnel every move through a single goroutine.
type Session struct {
	id         string
	difficulty Difficulty
	board      *Board
	state      SessionState

	startedAt time.Time
	endedAt   time.Time
	pausedAt  time.Time
	pausedFor time.Duration

	movesCount int
	flagsUsed  int

	rnd    *rand.Rand
	safety SafetyPolicy
	now    func() time.Time
	newID  func() string
}

type SessionOption func(*Session)

// WithSessionRand sets the generator every board of the session draws
// its mines from.
func WithSessionRand(r *rand.Rand) SessionOption {
	return func(s *Session) {
		s.rnd = r
	}
}

func WithFirstClick(p SafetyPolicy) SessionOption {
	return func(s *Session) {
		s.safety = p
	}
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) SessionOption {
	return func(s *Session) {
		s.newID = newID
	}
}

func NewSession(d Difficulty, opts ...SessionOption) (*Session, error) {
	s := &Session{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = NewRand()
	}
	if err := s.reset(d); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) reset(d Difficulty) error {
	board, err := NewBoard(d, WithRand(s.rnd), WithSafety(s.safety))
	if err != nil {
		return err
	}
	s.id = s.newID()
	s.difficulty = d
	s.board = board
	s.state = StateNew
	s.startedAt, s.endedAt, s.pausedAt = time.Time{}, time.Time{}, time.Time{}
	s.pausedFor = 0
	s.movesCount, s.flagsUsed = 0, 0
	return nil
}

// Reset discards the board and starts over with the same difficulty, or
// with d when given. An invalid d leaves the session as it was.
func (s *Session) Reset(d ...Difficulty) error {
	next := s.difficulty
	if len(d) > 0 {
		next = d[0]
	}
	if err := s.reset(next); err != nil {
		return err
	}
	s.logger().Debug("session reset")
	return nil
}

func (s *Session) logger() *logrus.Entry {
	return Log.WithFields(logrus.Fields{
		"session":    s.id,
		"difficulty": s.difficulty.Name,
	})
}

// canMove checks the state before a move touches the board.
func (s *Session) canMove() error {
	switch s.state {
	case StateNew, StatePlaying:
		return nil
	case StatePaused:
		return ErrSessionPaused
	default:
		return fmt.Errorf("%w: session is %s", ErrGameOver, s.state)
	}
}

func (s *Session) accept() {
	if s.state == StateNew {
		s.state = StatePlaying
		s.startedAt = s.now()
	}
	s.movesCount++
}

func (s *Session) apply(outcome Outcome) error {
	switch outcome {
	case Won:
		s.finish(StateWon)
	case Lost:
		if _, err := s.board.RevealMines(); err != nil {
			return err
		}
		s.finish(StateLost)
	}
	return nil
}

func (s *Session) finish(state SessionState) {
	s.state = state
	s.endedAt = s.now()
	s.logger().WithFields(logrus.Fields{
		"state":   state,
		"moves":   s.movesCount,
		"elapsed": s.Elapsed(),
	}).Info("game over")
}

func (s *Session) Reveal(row, col int) (Outcome, error) {
	if err := s.canMove(); err != nil {
		return Continue, err
	}
	outcome, err := s.board.Reveal(row, col)
	if err != nil {
		return Continue, err
	}
	s.accept()
	return outcome, s.apply(outcome)
}

func (s *Session) ToggleFlag(row, col int) (Outcome, error) {
	if err := s.canMove(); err != nil {
		return Continue, err
	}
	if err := s.board.ToggleFlag(row, col); err != nil {
		return Continue, err
	}
	s.accept()
	s.flagsUsed++
	return Continue, nil
}

func (s *Session) ChordReveal(row, col int) (Outcome, error) {
	if err := s.canMove(); err != nil {
		return Continue, err
	}
	outcome, err := s.board.ChordReveal(row, col)
	if err != nil {
		return Continue, err
	}
	s.accept()
	return outcome, s.apply(outcome)
}

func (s *Session) Pause() error {
	if s.state != StatePlaying {
		return fmt.Errorf("%w: cannot pause a %s session", ErrIllegalTransition, s.state)
	}
	s.state = StatePaused
	s.pausedAt = s.now()
	return nil
}

func (s *Session) Resume() error {
	if s.state != StatePaused {
		return fmt.Errorf("%w: cannot resume a %s session", ErrIllegalTransition, s.state)
	}
	s.state = StatePlaying
	s.pausedFor += s.now().Sub(s.pausedAt)
	s.pausedAt = time.Time{}
	return nil
}

// Elapsed is the time spent playing, not counting pauses. It stops when
// the game ends.
func (s *Session) Elapsed() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	end := s.now()
	switch {
	case !s.endedAt.IsZero():
		end = s.endedAt
	case s.state == StatePaused:
		end = s.pausedAt
	}
	return end.Sub(s.startedAt) - s.pausedFor
}

func (s *Session) ID() string             { return s.id }
func (s *Session) Difficulty() Difficulty { return s.difficulty }
func (s *Session) State() SessionState    { return s.state }
func (s *Session) MovesCount() int        { return s.movesCount }
func (s *Session) FlagsUsed() int         { return s.flagsUsed }
func (s *Session) StartedAt() time.Time   { return s.startedAt }
func (s *Session) Width() int             { return s.board.Width() }
func (s *Session) Height() int            { return s.board.Height() }
func (s *Session) MineCount() int         { return s.board.MineCount() }
func (s *Session) MinesLeft() int         { return s.board.MinesLeft() }

// EndedAt returns the time the game was won or lost.
func (s *Session) EndedAt() (time.Time, bool) {
	return s.endedAt, !s.endedAt.IsZero()
}

// View is the player's picture of the board. Mines are shown only once
// the game is over.
func (s *Session) View() Grid {
	return s.board.View(s.state.Over())
}

// Cell returns what the player may know about row:col. Mine identity and
// adjacency are withheld while the cell is covered and the game is on.
func (s *Session) Cell(row, col int) (Cell, error) {
	c, err := s.board.Cell(row, col)
	if err != nil {
		return Cell{}, err
	}
	if c.Status != Revealed && !s.state.Over() {
		c.IsMine, c.AdjacentMines = false, 0
	}
	return c, nil
}

func (s *Session) String() string {
	return fmt.Sprintf("Session %s %s %s moves=%d\n%s",
		s.id, s.difficulty, s.state, s.movesCount, s.View().ToString(s.Width()))
}

type Statistics struct {
	SessionID     string         `json:"session_id"`
	Difficulty    DifficultyName `json:"difficulty"`
	Width         int            `json:"board_width"`
	Height        int            `json:"board_height"`
	MineCount     int            `json:"mine_count"`
	State         string         `json:"state"`
	MovesCount    int            `json:"moves_count"`
	FlagsUsed     int            `json:"flags_used"`
	RevealedCount int            `json:"revealed_count"`
	FlaggedCount  int            `json:"flagged_count"`
	Duration      time.Duration  `json:"duration"`
	StartedAt     *time.Time     `json:"start_time,omitempty"`
	EndedAt       *time.Time     `json:"end_time,omitempty"`
}

func (s *Session) Statistics() Statistics {
	stats := Statistics{
		SessionID:     s.id,
		Difficulty:    s.difficulty.Name,
		Width:         s.board.Width(),
		Height:        s.board.Height(),
		MineCount:     s.board.MineCount(),
		State:         s.state.String(),
		MovesCount:    s.movesCount,
		FlagsUsed:     s.flagsUsed,
		RevealedCount: s.board.RevealedCount(),
		FlaggedCount:  s.board.FlaggedCount(),
		Duration:      s.Elapsed(),
	}
	if !s.startedAt.IsZero() {
		t := s.startedAt
		stats.StartedAt = &t
	}
	if !s.endedAt.IsZero() {
		t := s.endedAt
		stats.EndedAt = &t
	}
	return stats
}
