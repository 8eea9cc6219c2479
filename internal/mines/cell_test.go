package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from   CellStatus
		action cellAction
		want   CellStatus
		ok     bool
	}{
		{Hidden, actionReveal, Revealed, true},
		{Hidden, actionFlag, Flagged, true},
		{Flagged, actionFlag, Hidden, true},
		{Revealed, actionReveal, Revealed, true},
		{Flagged, actionReveal, Flagged, false},
		{Revealed, actionFlag, Revealed, false},
	}
	for _, test := range tests {
		t.Run(test.from.String()+"/"+test.action.String(), func(t *testing.T) {
			t.Parallel()
			got, err := transition(test.from, test.action)
			assert.Equal(t, test.want, got)
			if test.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrIllegalTransition)
			}
		})
	}
}

func TestCellFlagBlocksReveal(t *testing.T) {
	var c Cell
	assert.True(t, c.CanReveal())
	assert.True(t, c.CanFlag())

	assert.NoError(t, c.ToggleFlag())
	assert.Equal(t, Flagged, c.Status)
	assert.False(t, c.CanReveal())
	assert.ErrorIs(t, c.Reveal(), ErrIllegalTransition)
	assert.Equal(t, Flagged, c.Status)

	assert.NoError(t, c.ToggleFlag())
	assert.NoError(t, c.Reveal())
	assert.Equal(t, Revealed, c.Status)

	assert.NoError(t, c.Reveal(), "revealing twice is a no-op")
	assert.False(t, c.CanReveal())
	assert.False(t, c.CanFlag())
	assert.ErrorIs(t, c.ToggleFlag(), ErrIllegalTransition)
}
