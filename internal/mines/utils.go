package mines

import "iter"

type Point struct {
	Row, Col int
}

var (
	mooreDirections = []Point{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
	cardinalDirections = []Point{
		{-1, 0}, {0, -1}, {0, 1}, {1, 0},
	}
)

func (p Point) add(d Point) Point {
	return Point{p.Row + d.Row, p.Col + d.Col}
}

// neighbors yields the in-bounds points around p in the given directions.
func (g *Grid) neighbors(p Point, dirs []Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, d := range dirs {
			n := p.add(d)
			if !g.PointInBounds(n) {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}
