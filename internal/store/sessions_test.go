package store

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

func TestSessionsSaveLoad(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	defer db.Close()

	sessions, err := NewSessions(ctx, db)
	require.NoError(t, err)

	s, err := mines.NewSession(
		mines.BeginnerDifficulty,
		mines.WithSessionRand(rand.New(rand.NewPCG(1, 2))),
	)
	require.NoError(t, err)
	_, err = s.Reveal(4, 4)
	require.NoError(t, err)
	for i, v := range s.View() {
		if v == mines.ViewUnknown {
			_, err = s.ToggleFlag(i/s.Width(), i%s.Width())
			require.NoError(t, err)
			break
		}
	}
	require.Equal(t, 1, s.FlagsUsed())

	require.NoError(t, sessions.Save(ctx, s.Snapshot()))

	snap, err := sessions.Load(ctx, s.ID())
	require.NoError(t, err)
	restored, err := mines.RestoreSession(*snap)
	require.NoError(t, err)
	assert.Equal(t, s.View(), restored.View())
	assert.Equal(t, s.MovesCount(), restored.MovesCount())

	ids, err := sessions.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{s.ID()}, ids)

	require.NoError(t, sessions.Delete(ctx, s.ID()))
	_, err = sessions.Load(ctx, s.ID())
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := sessions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	assert.ErrorIs(t, sessions.Save(ctx, mines.Snapshot{}), mines.ErrInvalidSnapshot)
}
