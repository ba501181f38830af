package console

import (
	"errors"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

type Kind string

const (
	Noop  Kind = "g"
	Open  Kind = "o"
	Flag  Kind = "f"
	Chord Kind = "c"
	Reset Kind = "r"
	New   Kind = "n"
	Help  Kind = "h"
	Quit  Kind = "q"
)

// Maps known commands to number of arguments
var commandNargs = map[Kind]int{
	Noop:  0,
	Open:  2,
	Flag:  2,
	Chord: 2,
	Reset: 0,
	New:   1,
	Help:  0,
	Quit:  0,
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArgs        = errors.New("invalid arguments")
	ErrOutOfBounds    = errors.New("invalid square coordinates")
)

type Command struct {
	Kind   Kind
	Point  mines.Point
	Params mines.GameParams
}

var dec = schema.NewDecoder()

func init() {
	dec.IgnoreUnknownKeys(true)
}

// Pieces splits a line into the commands it holds, numbered from 0.
// Commands are separated by ';', so "f 0 0; o 3 4" is two of them.
func Pieces(line string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		n := 0
		for piece := range strings.SplitSeq(line, ";") {
			if !yield(n, piece) {
				return
			}
			n++
		}
	}
}

func parsePoint(twoStrings []string) (p mines.Point, err error) {
	if p.Row, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = fmt.Errorf("%w: row must be an int", ErrBadArgs)
		return
	}
	if p.Col, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = fmt.Errorf("%w: column must be an int", ErrBadArgs)
		return
	}
	return
}

// parseParams accepts a preset name, a "W:H:M" seed or a query string such
// as "width=9&height=9&mine_count=10".
func parseParams(arg string) (mines.GameParams, error) {
	if p, ok := mines.Presets[arg]; ok {
		return p, nil
	}
	if strings.Contains(arg, ":") {
		p, err := mines.ParseSeed(arg)
		if err != nil {
			return mines.GameParams{}, fmt.Errorf("%w: %w", ErrBadArgs, err)
		}
		return *p, nil
	}
	query, err := url.ParseQuery(arg)
	if err != nil {
		return mines.GameParams{}, fmt.Errorf("%w: %w", ErrBadArgs, err)
	}
	var p mines.GameParams
	if err := dec.Decode(&p, query); err != nil {
		return mines.GameParams{}, fmt.Errorf("%w: %w", ErrBadArgs, err)
	}
	return p, nil
}

func Parse(c string) (Command, error) {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return Command{Kind: Noop}, nil
	}

	kind := Kind(strings.ToLower(parts[0]))
	nargs, ok := commandNargs[kind]
	if !ok {
		return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return Command{}, fmt.Errorf(
			"%w: %s takes %d, got %d", ErrBadArgs, kind, nargs, len(parts)-1,
		)
	}

	cmd := Command{Kind: kind}
	var err error
	switch kind {
	case Open, Flag, Chord:
		cmd.Point, err = parsePoint(parts[1:])
	case New:
		cmd.Params, err = parseParams(parts[1])
	}
	if err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// Apply runs a game command against s. Help and Quit belong to the caller
// and do nothing here.
func Apply(s *session.Session, cmd Command) error {
	switch cmd.Kind {
	case Open, Flag, Chord:
		if !s.InBounds(cmd.Point) {
			return ErrOutOfBounds
		}
	}

	switch cmd.Kind {
	case Open:
		s.Reveal(cmd.Point)
	case Flag:
		s.ToggleFlag(cmd.Point)
	case Chord:
		s.Chord(cmd.Point)
	case Reset:
		return s.Reset()
	case New:
		return s.Restart(cmd.Params)
	}
	return nil
}
