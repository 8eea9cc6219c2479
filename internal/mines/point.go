package mines

import "fmt"

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// neighborOffsets lists the 8 surrounding positions, row-major.
var neighborOffsets = [8]Point{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}
