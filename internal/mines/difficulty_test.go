package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                 string
		width, height, mines int
		err                  error
	}{
		{"beginner", 9, 9, 10, nil},
		{"smallest", 9, 9, 1, nil},
		{"largest", 30, 30, 225, nil},
		{"narrow", 8, 9, 10, ErrInvalidDimensions},
		{"short", 9, 8, 10, ErrInvalidDimensions},
		{"wide", 31, 9, 10, ErrInvalidDimensions},
		{"no mines", 9, 9, 0, ErrInvalidMineCount},
		{"negative mines", 9, 9, -1, ErrInvalidMineCount},
		{"all mines", 9, 9, 81, ErrInvalidMineCount},
		{"20x20(90)", 20, 20, 90, nil},
		{"20x20(100)", 20, 20, 100, nil},
		{"20x20(101)", 20, 20, 101, ErrMineDensityTooHigh},
		{"9x9(21)", 9, 9, 21, ErrMineDensityTooHigh},
		{"9x9(20)", 9, 9, 20, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(test.width, test.height, test.mines)
			if test.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, test.err)
			}
		})
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, p := range Presets() {
		assert.NoError(t, p.Validate(), p.String())
		assert.True(t, p.Density().LessThanOrEqual(MaxDensity))
	}
	assert.Equal(t, Difficulty{Advanced, 30, 16, 99}, AdvancedDifficulty)
}

func TestNewDifficulty(t *testing.T) {
	d, err := NewDifficulty(16, 16, 40)
	require.NoError(t, err)
	assert.Equal(t, Intermediate, d.Name)

	d, err = NewDifficulty(20, 20, 90)
	require.NoError(t, err)
	assert.Equal(t, Custom, d.Name)

	d, err = NewCustomDifficulty(9, 9, 10)
	require.NoError(t, err)
	assert.Equal(t, Custom, d.Name)

	_, err = NewCustomDifficulty(20, 20, 101)
	assert.ErrorIs(t, err, ErrMineDensityTooHigh)
	assert.ErrorContains(t, err, "25.3%")
}

func TestDifficultyByName(t *testing.T) {
	d, err := DifficultyByName("beginner")
	require.NoError(t, err)
	assert.Equal(t, BeginnerDifficulty, d)

	_, err = DifficultyByName("expert")
	assert.Error(t, err)
}

func TestSuggestMineCount(t *testing.T) {
	assert.Equal(t, 12, SuggestMineCount(9, 9))
	assert.Equal(t, 38, SuggestMineCount(16, 16))
	for w := MinSide; w <= MaxSide; w++ {
		for h := MinSide; h <= MaxSide; h++ {
			assert.NoError(t, Validate(w, h, SuggestMineCount(w, h)))
		}
	}
}

func TestSeed(t *testing.T) {
	seed := IntermediateDifficulty.Seed()
	assert.Equal(t, "16:16:40", seed)

	d, err := ParseSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, IntermediateDifficulty, d)

	_, err = ParseSeed("16:16")
	assert.Error(t, err)
	_, err = ParseSeed("8:16:40")
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}
