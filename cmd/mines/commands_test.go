package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
	"github.com/vancomm/minesweeper-engine/internal/store"
)

type memoryStore map[string]mines.Snapshot

func (m memoryStore) Save(_ context.Context, snap mines.Snapshot) error {
	m[snap.ID] = snap
	return nil
}

func (m memoryStore) Load(_ context.Context, id string) (*mines.Snapshot, error) {
	snap, ok := m[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &snap, nil
}

func (m memoryStore) List(context.Context) ([]string, error) {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (m memoryStore) Delete(_ context.Context, id string) error {
	delete(m, id)
	return nil
}

type rankedStore struct {
	memoryStore
	scores []repository.Highscore
	filter repository.HighscoreFilter
}

func (r *rankedStore) GetHighscores(
	_ context.Context, filter repository.HighscoreFilter,
) ([]repository.Highscore, error) {
	r.filter = filter
	return r.scores, nil
}

func newTestGame(t *testing.T, d mines.Difficulty) (*game, *bytes.Buffer, memoryStore) {
	t.Helper()
	var out bytes.Buffer
	sessions := memoryStore{}
	g, err := newGame(d, sessions, &out, slog.New(slog.NewTextHandler(io.Discard, nil)),
		mines.WithSessionRand(rand.New(rand.NewPCG(1, 2))),
	)
	require.NoError(t, err)
	return g, &out, sessions
}

func TestExecuteCommandErrors(t *testing.T) {
	g, _, _ := newTestGame(t, mines.BeginnerDifficulty)
	ctx := context.Background()

	tests := []struct {
		command string
		err     error
	}{
		{"x", nil},
		{"o 1", nil},
		{"o a 1", nil},
		{"o 1 b", nil},
		{"o 9 0", mines.ErrOutOfBounds},
		{"u", mines.ErrIllegalTransition},
		{"n width=8", mines.ErrInvalidDimensions},
		{"n width=20 height=20 mines=101", mines.ErrMineDensityTooHigh},
		{"n badoption", nil},
	}
	for _, test := range tests {
		t.Run(test.command, func(t *testing.T) {
			_, err := executeCommand(ctx, g, test.command)
			require.Error(t, err)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
			}
		})
	}
	assert.Equal(t, 0, g.session.MovesCount())
}

func TestExecuteLine(t *testing.T) {
	g, out, _ := newTestGame(t, mines.BeginnerDifficulty)
	ctx := context.Background()

	require.NoError(t, executeLine(ctx, g, "f 0 0; o 0 0; f 0 0; o 0 0"))
	assert.Contains(t, out.String(), "error: ")
	assert.Equal(t, 3, g.session.MovesCount())
	assert.Equal(t, 2, g.session.FlagsUsed())
	assert.Equal(t, mines.StatePlaying, g.session.State())

	out.Reset()
	require.NoError(t, executeLine(ctx, g, "p; o 4 4"))
	assert.Contains(t, out.String(), mines.ErrSessionPaused.Error())
	assert.Equal(t, mines.StatePaused, g.session.State())

	require.NoError(t, executeLine(ctx, g, "u"))
	assert.Equal(t, mines.StatePlaying, g.session.State())

	assert.ErrorIs(t, executeLine(ctx, g, "g; q; o 4 4"), errQuit)
}

func TestNewGameCommand(t *testing.T) {
	g, _, _ := newTestGame(t, mines.BeginnerDifficulty)
	ctx := context.Background()

	require.NoError(t, executeLine(ctx, g, "n difficulty=intermediate"))
	assert.Equal(t, mines.IntermediateDifficulty, g.session.Difficulty())

	require.NoError(t, executeLine(ctx, g, "n width=20 height=20 mines=90"))
	assert.Equal(t, mines.Difficulty{Name: mines.Custom, Width: 20, Height: 20, MineCount: 90},
		g.session.Difficulty())

	require.NoError(t, executeLine(ctx, g, "n width=12 height=10"))
	assert.Equal(t, mines.SuggestMineCount(12, 10), g.session.MineCount())

	require.NoError(t, executeLine(ctx, g, "n"))
	assert.Equal(t, 12, g.session.Width())
}

func TestSaveLoadCommands(t *testing.T) {
	g, out, sessions := newTestGame(t, mines.BeginnerDifficulty)
	ctx := context.Background()

	require.NoError(t, executeLine(ctx, g, "o 4 4; s"))
	id := g.session.ID()
	require.Contains(t, sessions, id)
	view := g.session.View()

	require.NoError(t, executeLine(ctx, g, "r"))
	assert.NotEqual(t, id, g.session.ID())

	out.Reset()
	require.NoError(t, executeLine(ctx, g, "ls"))
	assert.Equal(t, id+"\n", out.String())

	require.NoError(t, executeLine(ctx, g, "l "+id))
	assert.Equal(t, id, g.session.ID())
	assert.Equal(t, view, g.session.View())

	out.Reset()
	require.NoError(t, executeLine(ctx, g, "l missing"))
	assert.Contains(t, out.String(), store.ErrNotFound.Error())
}

func TestNoStore(t *testing.T) {
	g, out, _ := newTestGame(t, mines.BeginnerDifficulty)
	g.store = nil
	require.NoError(t, executeLine(context.Background(), g, "s"))
	assert.Contains(t, out.String(), errNoStore.Error())
}

func TestRenderGrid(t *testing.T) {
	grid := mines.Grid{0, 1, mines.ViewUnknown, mines.ViewFlagged}
	lines := strings.Split(renderGrid(grid, 2, false), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "    0  1 ", lines[0])
	assert.Equal(t, " 0  .  1 ", lines[1])
	assert.Equal(t, " 1  ?  F ", lines[2])
}

func TestPlayStopsOnEOF(t *testing.T) {
	g, out, _ := newTestGame(t, mines.BeginnerDifficulty)
	lines := make(chan string, 2)
	lines <- "o 4 4"
	close(lines)

	err := play(context.Background(), g, lines)
	assert.ErrorIs(t, err, errQuit)
	assert.Equal(t, 1, g.session.MovesCount())
	assert.Contains(t, out.String(), "Beginner 9x9(10)")
}

func TestRemoveCommand(t *testing.T) {
	g, out, sessions := newTestGame(t, mines.BeginnerDifficulty)
	ctx := context.Background()

	require.NoError(t, executeLine(ctx, g, "o 4 4; s"))
	id := g.session.ID()
	require.Contains(t, sessions, id)

	out.Reset()
	require.NoError(t, executeLine(ctx, g, "rm "+id))
	assert.Equal(t, "removed "+id+"\n", out.String())
	assert.NotContains(t, sessions, id)

	out.Reset()
	require.NoError(t, executeLine(ctx, g, "l "+id))
	assert.Contains(t, out.String(), store.ErrNotFound.Error())
}

func TestStatisticsCommand(t *testing.T) {
	g, out, _ := newTestGame(t, mines.BeginnerDifficulty)
	ctx := context.Background()

	require.NoError(t, executeLine(ctx, g, "f 0 0; o 4 4"))
	out.Reset()
	require.NoError(t, executeLine(ctx, g, "st"))

	stats := g.session.Statistics()
	assert.Contains(t, out.String(), "session:  "+g.session.ID())
	assert.Contains(t, out.String(), "board:    Beginner 9:9:10")
	assert.Contains(t, out.String(), "state:    playing")
	assert.Contains(t, out.String(), "moves:    2 (1 flags)")
	assert.Contains(t, out.String(), "flagged:  1 of 10")
	assert.Equal(t, 2, stats.MovesCount)
}

func TestNewGameFromSeed(t *testing.T) {
	g, out, _ := newTestGame(t, mines.BeginnerDifficulty)
	ctx := context.Background()

	require.NoError(t, executeLine(ctx, g, "n seed=12:10:20"))
	assert.Equal(t, "12:10:20", g.session.Difficulty().Seed())

	require.NoError(t, executeLine(ctx, g, "n difficulty=advanced seed=10:10:10"))
	assert.Equal(t, 10, g.session.Width())

	out.Reset()
	require.NoError(t, executeLine(ctx, g, "n seed=10x10"))
	assert.Contains(t, out.String(), "invalid difficulty seed")
	assert.Equal(t, 10, g.session.MineCount())
}

func TestHighscoresCommand(t *testing.T) {
	g, out, _ := newTestGame(t, mines.BeginnerDifficulty)
	ctx := context.Background()

	require.NoError(t, executeLine(ctx, g, "hs"))
	assert.Contains(t, out.String(), errNoHighscores.Error())

	ranked := &rankedStore{
		memoryStore: memoryStore{},
		scores: []repository.Highscore{{
			GameSessionId: "a",
			Difficulty:    "Beginner",
			Width:         9,
			Height:        9,
			MineCount:     10,
			MovesCount:    42,
			PlaytimeMs:    12500,
		}},
	}
	g.store = ranked

	out.Reset()
	require.NoError(t, executeLine(ctx, g, "hs"))
	assert.Equal(t, " 1. Beginner     9x9(10)    12.5s   42 moves\n", out.String())
	assert.Nil(t, ranked.filter.Difficulty)
	assert.Equal(t, highscoreLimit, ranked.filter.Limit)

	require.NoError(t, executeLine(ctx, g, "hs difficulty=expert"))
	assert.Contains(t, out.String(), "unknown difficulty level")

	require.NoError(t, executeLine(ctx, g, "hs difficulty=intermediate"))
	require.NotNil(t, ranked.filter.Difficulty)
	assert.Equal(t, mines.IntermediateDifficulty, *ranked.filter.Difficulty)

	ranked.scores = nil
	out.Reset()
	require.NoError(t, executeLine(ctx, g, "hs"))
	assert.Equal(t, "no highscores yet\n", out.String())
}

func TestRunRejectsBadDifficulty(t *testing.T) {
	saved := difficultyName
	t.Cleanup(func() { difficultyName = saved })
	difficultyName = "expert"

	assert.Equal(t, 2, run())
}
