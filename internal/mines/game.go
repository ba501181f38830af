package mines

import "github.com/zyedidia/generic/mapset"

// Reveal opens the cell at p and returns every cell it opened, in the order
// they were opened. exploded is set when p itself is a mine.
//
// Opening a zero cell floods outwards through its four orthogonal
// neighbours: zero cells keep the flood going, numbered cells are opened
// but stop it there. Flagged cells and mines are never opened by the flood,
// though a flagged zero cell still lets it through.
func (g *Grid) Reveal(p Point) (revealed []Point, exploded bool) {
	if !g.PointInBounds(p) {
		return nil, false
	}
	c := g.at(p)
	if c.revealed || c.flagged {
		return nil, false
	}

	c.revealed = true
	if c.value == Mine {
		/* *bang* */
		return []Point{p}, true
	}

	revealed = append(revealed, p)
	if c.value != 0 {
		return revealed, false
	}

	/*
	 * FIFO of zero cells whose neighbours still need a look. A flagged zero
	 * cell stays covered but still carries the flood, so visits are tracked
	 * apart from the revealed marks.
	 */
	visited := mapset.New[Point]()
	visited.Put(p)
	todo := []Point{p}
	for len(todo) > 0 {
		cur := todo[0]
		todo = todo[1:]
		for n := range g.neighbors(cur, cardinalDirections) {
			nc := g.at(n)
			if visited.Has(n) || nc.revealed || nc.value == Mine {
				continue
			}
			visited.Put(n)
			if !nc.flagged {
				nc.revealed = true
				revealed = append(revealed, n)
			}
			if nc.value == 0 {
				todo = append(todo, n)
			}
		}
	}

	return revealed, false
}

// ToggleFlag flips the flag on an unrevealed cell. changed is false when
// the cell is revealed or out of bounds.
func (g *Grid) ToggleFlag(p Point) (flagged bool, changed bool) {
	if !g.PointInBounds(p) {
		return false, false
	}
	c := g.at(p)
	if c.revealed {
		return c.flagged, false
	}
	c.flagged = !c.flagged
	return c.flagged, true
}

// RevealMines opens every mine still covered and returns them. Non-mine
// cells are left alone.
func (g *Grid) RevealMines() []Point {
	var revealed []Point
	for i := range g.cells {
		c := &g.cells[i]
		if c.value == Mine && !c.revealed {
			c.revealed = true
			revealed = append(revealed, c.pos)
		}
	}
	return revealed
}

// HasWon reports a win: as many flags as mines, every flag on a mine, and
// no mine opened. Covered safe cells do not matter.
func (g *Grid) HasWon(flagCount int) bool {
	if flagCount != g.MineCount {
		return false
	}
	for i := range g.cells {
		c := &g.cells[i]
		if c.flagged && c.value != Mine {
			return false
		}
		if c.revealed && c.value == Mine {
			return false
		}
	}
	return true
}

// Chord opens every covered, unflagged neighbour of an opened number once
// that number is matched by flags around it. A wrong flag makes this blow
// up just like a plain reveal would.
func (g *Grid) Chord(p Point) (revealed []Point, exploded bool) {
	if !g.PointInBounds(p) {
		return nil, false
	}
	c := g.at(p)
	if !c.revealed || c.value <= 0 {
		return nil, false
	}

	flags := 0
	todo := make([]Point, 0, 8)
	for n := range g.neighbors(p, mooreDirections) {
		nc := g.at(n)
		if nc.flagged {
			flags++
		} else if !nc.revealed {
			todo = append(todo, n)
		}
	}
	if flags != int(c.value) {
		return nil, false
	}

	for _, n := range todo {
		opened, bang := g.Reveal(n)
		revealed = append(revealed, opened...)
		if bang {
			return revealed, true
		}
	}
	return revealed, false
}
