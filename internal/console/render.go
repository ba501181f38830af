package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

const (
	IconHidden = "-"
	IconFlag   = "F"
	IconMine   = "*"
	IconEmpty  = "."
)

const Usage = `commands (join several with ';'):
  o <row> <col>   open a cell
  f <row> <col>   flag or unflag a cell
  c <row> <col>   open around a satisfied number
  r               restart with the same board
  n <board>       new board: beginner, intermediate, expert,
                  W:H:M or width=W&height=H&mine_count=M
  g               redraw
  h               this help
  q               quit
`

// Renderer draws a session to a terminal. It is the session's listener:
// events update the opened count and the status line, [Renderer.Draw]
// prints the board itself.
type Renderer struct {
	out    io.Writer
	plain  bool
	prompt bool

	revealed int
	status   string

	colorHidden color.Style
	colorFlag   color.Style
	colorMine   color.Style
	colorEmpty  color.Style
	colorAxis   color.Style
	colorWon    color.Style
	colorLost   color.Style
	colorError  color.Style
	colorDigits [9]color.Style
}

type Options struct {
	// Plain disables colors.
	Plain bool
	// Prompt prints a "> " prompt after every draw.
	Prompt bool
}

func NewRenderer(out io.Writer, opts Options) *Renderer {
	r := &Renderer{
		out:    out,
		plain:  opts.Plain,
		prompt: opts.Prompt,
	}
	r.colorHidden = color.Style{color.FgGray}
	r.colorFlag = color.Style{color.FgRed, color.OpBold}
	r.colorMine = color.Style{color.FgWhite, color.BgRed, color.OpBold}
	r.colorEmpty = color.Style{color.FgDarkGray}
	r.colorAxis = color.Style{color.FgGray, color.OpBold}
	r.colorWon = color.Style{color.FgGreen, color.OpBold}
	r.colorLost = color.Style{color.FgRed, color.OpBold}
	r.colorError = color.Style{color.FgYellow}
	r.colorDigits = [9]color.Style{
		{color.FgDarkGray},
		{color.FgBlue},
		{color.FgGreen},
		{color.FgRed},
		{color.FgMagenta},
		{color.FgYellow},
		{color.FgCyan},
		{color.FgWhite},
		{color.FgGray},
	}
	return r
}

func (r *Renderer) paint(s color.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Sprint(text)
}

// [Renderer] implements [session.Listener]
func (r *Renderer) CellRevealed(p mines.Point, value mines.Value) {
	r.revealed++
}

func (r *Renderer) GameEnded(won bool) {
	if won {
		r.status = r.paint(r.colorWon, "You won!")
	} else {
		r.status = r.paint(r.colorLost, "You lost!")
	}
}

// FlagCountChanged needs no bookkeeping, the session tracks the count.
func (r *Renderer) FlagCountChanged(int) {}

// Reset clears the per-game state after the session deals a new board.
func (r *Renderer) Reset() {
	r.revealed = 0
	r.status = ""
}

func (r *Renderer) cell(c mines.CellView) string {
	switch {
	case c.Flagged && !c.Revealed:
		return r.paint(r.colorFlag, IconFlag)
	case !c.Revealed:
		return r.paint(r.colorHidden, IconHidden)
	case c.Value == mines.Mine:
		return r.paint(r.colorMine, IconMine)
	case c.Value == 0:
		return r.paint(r.colorEmpty, IconEmpty)
	default:
		return r.paint(r.colorDigits[c.Value], c.Value.String())
	}
}

func (r *Renderer) Draw(s *session.Session) {
	params := s.Params()
	view := s.View()
	width := params.Width
	cw := len(fmt.Sprint(max(params.Width, params.Height)-1)) + 1

	var b strings.Builder
	fmt.Fprintf(&b, "Mines remaining: %d  Opened: %d  Time: %d  [%s]\n",
		s.MinesRemaining(), r.revealed, s.Elapsed(), s.State())

	fmt.Fprint(&b, strings.Repeat(" ", cw+1))
	for x := range width {
		fmt.Fprint(&b, r.paint(r.colorAxis, fmt.Sprintf("%*d", cw, x)))
	}
	fmt.Fprint(&b, "\n")

	for y := range len(view) / width {
		fmt.Fprint(&b, r.paint(r.colorAxis, fmt.Sprintf("%*d", cw, y)), " ")
		for x := range width {
			fmt.Fprint(&b, strings.Repeat(" ", cw-1), r.cell(view[y*width+x]))
		}
		fmt.Fprint(&b, "\n")
	}

	if r.status != "" {
		fmt.Fprintln(&b, r.status)
	}
	if r.prompt {
		fmt.Fprint(&b, "> ")
	}
	io.WriteString(r.out, b.String())
}

func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.out, r.paint(r.colorError, "error: "+err.Error()))
}

func (r *Renderer) Help() {
	io.WriteString(r.out, Usage)
}
