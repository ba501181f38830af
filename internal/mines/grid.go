package mines

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Value is what a cell holds: 0 to 8 for the number of mined neighbours,
// or Mine.
type Value int8

const Mine Value = -1

func (v Value) String() string {
	switch {
	case v == Mine:
		return "*"
	case 0 <= v && v <= 8:
		return strconv.Itoa(int(v))
	default:
		return "!"
	}
}

type cell struct {
	pos      Point
	value    Value
	revealed bool
	flagged  bool
}

// CellView is the read-only projection of a cell handed to renderers.
type CellView struct {
	Revealed bool  `json:"revealed"`
	Flagged  bool  `json:"flagged"`
	Value    Value `json:"value"`
}

type Grid struct {
	GameParams
	cells    []cell /* row-major */
	mines    mapset.Set[Point]
	rnd      *rand.Rand
	placed   bool
	adjacent bool
}

// NewGrid returns an empty grid with no mines, nothing revealed and nothing
// flagged. Fails with [ErrInvalidConfig].
func NewGrid(params GameParams, r *rand.Rand) (*Grid, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	g := &Grid{
		GameParams: params,
		cells:      make([]cell, params.Size()),
		mines:      mapset.New[Point](),
		rnd:        r,
	}
	for i := range g.cells {
		g.cells[i].pos = Point{Row: i / params.Width, Col: i % params.Width}
	}
	return g, nil
}

// Generate builds a ready-to-play grid: mines placed at random and
// adjacency counts computed.
func Generate(params GameParams, r *rand.Rand) (*Grid, error) {
	g, err := NewGrid(params, r)
	if err != nil {
		return nil, err
	}
	g.PlaceMines()
	g.ComputeAdjacency()
	return g, nil
}

// Layout builds a ready-to-play grid with mines at exactly the given
// points. params.MineCount is ignored and set to the number of distinct
// points.
func Layout(width, height int, mines ...Point) (*Grid, error) {
	params := GameParams{Width: width, Height: height}
	for _, p := range mines {
		if !params.PointInBounds(p) {
			return nil, fmt.Errorf(
				"%w: mine %d:%d out of bounds", ErrInvalidConfig, p.Row, p.Col,
			)
		}
	}
	set := mapset.New[Point]()
	for _, p := range mines {
		set.Put(p)
	}
	params.MineCount = set.Size()

	g, err := NewGrid(params, nil)
	if err != nil {
		return nil, err
	}
	for _, p := range mines {
		g.putMine(p)
	}
	g.placed = true
	g.ComputeAdjacency()
	return g, nil
}

func (g *Grid) at(p Point) *cell {
	return &g.cells[p.Row*g.Width+p.Col]
}

func (g *Grid) putMine(p Point) {
	g.mines.Put(p)
	g.at(p).value = Mine
}

// PlaceMines picks MineCount distinct cells uniformly at random. A draw
// that lands on a mine is thrown away and drawn again; this terminates
// because at least one cell is always left free.
func (g *Grid) PlaceMines() {
	if g.placed {
		return
	}
	for g.mines.Size() < g.MineCount {
		p := Point{Row: g.rnd.IntN(g.Height), Col: g.rnd.IntN(g.Width)}
		if g.mines.Has(p) {
			continue
		}
		g.putMine(p)
	}
	g.placed = true
}

// ComputeAdjacency writes the mined-neighbour count into every non-mine
// cell. Only the first call does anything.
func (g *Grid) ComputeAdjacency() {
	if g.adjacent {
		return
	}
	for i := range g.cells {
		c := &g.cells[i]
		if c.value == Mine {
			continue
		}
		var v Value
		for n := range g.neighbors(c.pos, mooreDirections) {
			if g.mines.Has(n) {
				v++
			}
		}
		c.value = v
	}
	g.adjacent = true
}

func (g *Grid) IsMine(p Point) bool {
	return g.mines.Has(p)
}

// Mines lists mine positions in row-major order.
func (g *Grid) Mines() []Point {
	res := make([]Point, 0, g.MineCount)
	for i := range g.cells {
		if g.cells[i].value == Mine {
			res = append(res, g.cells[i].pos)
		}
	}
	return res
}

func (g *Grid) CellAt(p Point) (CellView, bool) {
	if !g.PointInBounds(p) {
		return CellView{}, false
	}
	c := g.at(p)
	return CellView{Revealed: c.revealed, Flagged: c.flagged, Value: c.value}, true
}

// View returns a row-major snapshot of every cell.
func (g *Grid) View() []CellView {
	view := make([]CellView, len(g.cells))
	for i, c := range g.cells {
		view[i] = CellView{Revealed: c.revealed, Flagged: c.flagged, Value: c.value}
	}
	return view
}

// Flags counts flagged cells.
func (g *Grid) Flags() (n int) {
	for i := range g.cells {
		if g.cells[i].flagged {
			n++
		}
	}
	return
}

func (g *Grid) String() string {
	var b strings.Builder
	for y := range g.Height {
		for x := range g.Width {
			c := g.at(Point{y, x})
			var ch string
			switch {
			case c.flagged:
				ch = "F"
			case !c.revealed:
				ch = "-"
			default:
				ch = c.value.String()
			}
			fmt.Fprint(&b, ch+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
