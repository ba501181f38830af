package mines

import (
	"fmt"
	"strings"
)

type GameParams struct {
	Width     int `json:"width" schema:"width,required"`
	Height    int `json:"height" schema:"height,required"`
	MineCount int `json:"mine_count" schema:"mine_count,required"`
}

// MaxDimension caps both sides of a board.
const MaxDimension = 1 << 10

var Presets = map[string]GameParams{
	"beginner":     {Width: 9, Height: 9, MineCount: 10},
	"intermediate": {Width: 16, Height: 16, MineCount: 40},
	"expert":       {Width: 30, Height: 16, MineCount: 99},
}

func (p GameParams) Unpack() (w int, h int, mc int) {
	return p.Width, p.Height, p.MineCount
}

func (p GameParams) Size() int {
	return p.Width * p.Height
}

// Validate reports whether a board can be built from p. At least one cell
// must stay free of mines.
func (p GameParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf(
			"%w: dimensions must be positive (width = %d, height = %d)",
			ErrInvalidConfig, p.Width, p.Height,
		)
	}
	if p.Width > MaxDimension || p.Height > MaxDimension {
		return fmt.Errorf(
			"%w: dimensions must not exceed %d (width = %d, height = %d)",
			ErrInvalidConfig, MaxDimension, p.Width, p.Height,
		)
	}
	if p.MineCount < 0 || p.MineCount >= p.Size() {
		return fmt.Errorf(
			"%w: mine count must be in [0, %d) (mine_count = %d)",
			ErrInvalidConfig, p.Size(), p.MineCount,
		)
	}
	return nil
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Width, &p.Height, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	return p, nil
}

func (p GameParams) PointInBounds(pt Point) bool {
	return 0 <= pt.Row && pt.Row < p.Height && 0 <= pt.Col && pt.Col < p.Width
}
