package session

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/mines"
)

var Log = logrus.New()

type State int

const (
	Playing State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Listener is notified of every visible change. Calls happen synchronously
// from within the session operation that caused them.
type Listener interface {
	CellRevealed(p mines.Point, value mines.Value)
	GameEnded(won bool)
	FlagCountChanged(count int)
}

type NopListener struct{}

func (NopListener) CellRevealed(mines.Point, mines.Value) {}
func (NopListener) GameEnded(bool)                        {}
func (NopListener) FlagCountChanged(int)                  {}

// Generator builds a ready-to-play grid for a new game.
type Generator func(params mines.GameParams) (*mines.Grid, error)

func RandomGenerator(r *rand.Rand) Generator {
	return func(params mines.GameParams) (*mines.Grid, error) {
		return mines.Generate(params, r)
	}
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

type Option func(*Session)

func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.generate = RandomGenerator(r) }
}

func WithGenerator(g Generator) Option {
	return func(s *Session) { s.generate = g }
}

func WithLogger(l *logrus.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Session is one player's game: a single live grid plus the counters and
// status around it. It is not safe for concurrent use.
type Session struct {
	id        uuid.UUID
	params    mines.GameParams
	grid      *mines.Grid
	state     State
	flagCount int
	elapsed   int

	listener Listener
	generate Generator
	logger   *logrus.Logger
	log      *logrus.Entry
}

// New starts a game. listener may be nil. Fails with
// [mines.ErrInvalidConfig].
func New(params mines.GameParams, listener Listener, opts ...Option) (*Session, error) {
	if listener == nil {
		listener = NopListener{}
	}
	s := &Session{
		params:   params,
		listener: listener,
		logger:   Log,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.generate == nil {
		s.generate = RandomGenerator(createRand())
	}
	if err := s.start(params); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) start(params mines.GameParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	grid, err := s.generate(params)
	if err != nil {
		return err
	}

	s.id = uuid.New()
	s.params = params
	s.grid = grid
	s.state = Playing
	s.flagCount = 0
	s.elapsed = 0
	s.log = s.logger.WithFields(logrus.Fields{
		"session": s.id.String(),
		"seed":    params.Seed(),
	})
	s.log.Debug("new game")
	return nil
}

// Reset throws the current grid away and deals a new one with the same
// params. Works in any state.
func (s *Session) Reset() error {
	return s.start(s.params)
}

// Restart is [Session.Reset] with different params. On error the current
// game is kept.
func (s *Session) Restart(params mines.GameParams) error {
	return s.start(params)
}

func (s *Session) Reveal(p mines.Point) {
	if s.state != Playing {
		return
	}
	revealed, exploded := s.grid.Reveal(p)
	s.afterReveal(revealed, exploded)
}

func (s *Session) Chord(p mines.Point) {
	if s.state != Playing {
		return
	}
	revealed, exploded := s.grid.Chord(p)
	s.afterReveal(revealed, exploded)
}

func (s *Session) afterReveal(revealed []mines.Point, exploded bool) {
	s.emitRevealed(revealed)
	if !exploded {
		return
	}
	s.state = Lost
	s.emitRevealed(s.grid.RevealMines())
	s.log.WithField("elapsed", s.elapsed).Info("game lost")
	s.listener.GameEnded(false)
}

func (s *Session) emitRevealed(points []mines.Point) {
	for _, p := range points {
		c, _ := s.grid.CellAt(p)
		s.listener.CellRevealed(p, c.Value)
	}
}

func (s *Session) ToggleFlag(p mines.Point) {
	if s.state != Playing {
		return
	}
	flagged, changed := s.grid.ToggleFlag(p)
	if !changed {
		return
	}
	if flagged {
		s.flagCount++
	} else {
		s.flagCount--
	}
	s.listener.FlagCountChanged(s.flagCount)

	if s.grid.HasWon(s.flagCount) {
		s.state = Won
		s.log.WithField("elapsed", s.elapsed).Info("game won")
		s.listener.GameEnded(true)
	}
}

// Tick advances the clock by one second while the game is on.
func (s *Session) Tick() {
	if s.state != Playing {
		return
	}
	s.elapsed++
}

func (s *Session) ID() uuid.UUID            { return s.id }
func (s *Session) State() State             { return s.state }
func (s *Session) FlagCount() int           { return s.flagCount }
func (s *Session) Elapsed() int             { return s.elapsed }
func (s *Session) Params() mines.GameParams { return s.params }

// MinesRemaining is the mine count less the flags placed. It goes negative
// when the player over-flags.
func (s *Session) MinesRemaining() int {
	return s.grid.MineCount - s.flagCount
}

func (s *Session) View() []mines.CellView {
	return s.grid.View()
}

func (s *Session) InBounds(p mines.Point) bool {
	return s.grid.PointInBounds(p)
}

func (s *Session) String() string {
	return s.grid.String()
}
