package mines

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MinSide = 9
	MaxSide = 30
)

// MaxDensity is the largest allowed share of mined cells.
var MaxDensity = decimal.New(25, -2)

var hundred = decimal.NewFromInt(100)

type DifficultyName string

const (
	Beginner     DifficultyName = "Beginner"
	Intermediate DifficultyName = "Intermediate"
	Advanced     DifficultyName = "Advanced"
	Custom       DifficultyName = "Custom"
)

type Difficulty struct {
	Name      DifficultyName `json:"name"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	MineCount int            `json:"mine_count"`
}

var (
	BeginnerDifficulty     = Difficulty{Beginner, 9, 9, 10}
	IntermediateDifficulty = Difficulty{Intermediate, 16, 16, 40}
	AdvancedDifficulty     = Difficulty{Advanced, 30, 16, 99}
)

func Presets() []Difficulty {
	return []Difficulty{
		BeginnerDifficulty,
		IntermediateDifficulty,
		AdvancedDifficulty,
	}
}

// Density returns mineCount / (width * height).
func Density(width, height, mineCount int) decimal.Decimal {
	total := width * height
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(mineCount)).Div(decimal.NewFromInt(int64(total)))
}

// Validate checks board parameters. Presets and custom games go through
// the same rules.
func Validate(width, height, mineCount int) error {
	if width < MinSide || width > MaxSide {
		return fmt.Errorf(
			"%w: width must be between %d and %d, got %d",
			ErrInvalidDimensions, MinSide, MaxSide, width,
		)
	}
	if height < MinSide || height > MaxSide {
		return fmt.Errorf(
			"%w: height must be between %d and %d, got %d",
			ErrInvalidDimensions, MinSide, MaxSide, height,
		)
	}
	total := width * height
	if mineCount < 1 || mineCount >= total {
		return fmt.Errorf(
			"%w: must be between 1 and %d, got %d",
			ErrInvalidMineCount, total-1, mineCount,
		)
	}
	if density := Density(width, height, mineCount); density.GreaterThan(MaxDensity) {
		return fmt.Errorf(
			"%w: %s%%, max %s%%",
			ErrMineDensityTooHigh,
			density.Mul(hundred).StringFixed(1),
			MaxDensity.Mul(hundred).String(),
		)
	}
	return nil
}

func (d Difficulty) Validate() error {
	return Validate(d.Width, d.Height, d.MineCount)
}

func (d Difficulty) Density() decimal.Decimal {
	return Density(d.Width, d.Height, d.MineCount)
}

func (d Difficulty) Cells() int {
	return d.Width * d.Height
}

// NewDifficulty validates the parameters and names the result after the
// matching preset, if there is one.
func NewDifficulty(width, height, mineCount int) (Difficulty, error) {
	if err := Validate(width, height, mineCount); err != nil {
		return Difficulty{}, err
	}
	for _, p := range Presets() {
		if p.Width == width && p.Height == height && p.MineCount == mineCount {
			return p, nil
		}
	}
	return Difficulty{Custom, width, height, mineCount}, nil
}

func NewCustomDifficulty(width, height, mineCount int) (Difficulty, error) {
	if err := Validate(width, height, mineCount); err != nil {
		return Difficulty{}, err
	}
	return Difficulty{Custom, width, height, mineCount}, nil
}

// DifficultyByName looks up a preset, ignoring case.
func DifficultyByName(name string) (Difficulty, error) {
	for _, p := range Presets() {
		if strings.EqualFold(string(p.Name), name) {
			return p, nil
		}
	}
	return Difficulty{}, fmt.Errorf("unknown difficulty level %q", name)
}

// SuggestMineCount proposes a mine count at 15% density.
func SuggestMineCount(width, height int) int {
	total := width * height
	return max(1, min(total*15/100, total-1))
}

// Seed encodes the board parameters as "width:height:mines".
func (d Difficulty) Seed() string {
	return fmt.Sprintf("%d:%d:%d", d.Width, d.Height, d.MineCount)
}

func ParseSeed(seed string) (Difficulty, error) {
	var width, height, mineCount int
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &width, &height, &mineCount)
	if n != 3 || err != nil {
		return Difficulty{}, fmt.Errorf(
			`invalid difficulty seed (seed = "%s", n = %d, err = %v)`,
			seed, n, err,
		)
	}
	return NewDifficulty(width, height, mineCount)
}

func (d Difficulty) String() string {
	return fmt.Sprintf("%s %dx%d(%d)", d.Name, d.Width, d.Height, d.MineCount)
}
