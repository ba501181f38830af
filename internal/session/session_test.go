package session

import (
	"math/rand/v2"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/mines"
)

func TestMain(m *testing.M) {
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	os.Exit(m.Run())
}

type revealEvent struct {
	P     mines.Point
	Value mines.Value
}

type recorder struct {
	revealed []revealEvent
	ended    []bool
	flags    []int
}

func (r *recorder) CellRevealed(p mines.Point, v mines.Value) {
	r.revealed = append(r.revealed, revealEvent{p, v})
}
func (r *recorder) GameEnded(won bool)     { r.ended = append(r.ended, won) }
func (r *recorder) FlagCountChanged(n int) { r.flags = append(r.flags, n) }

func (r *recorder) events() int {
	return len(r.revealed) + len(r.ended) + len(r.flags)
}

func layout(width, height int, pts ...mines.Point) Generator {
	return func(mines.GameParams) (*mines.Grid, error) {
		return mines.Layout(width, height, pts...)
	}
}

func newSession(t *testing.T, params mines.GameParams, gen Generator) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s, err := New(params, rec, WithGenerator(gen))
	require.NoError(t, err)
	return s, rec
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(mines.GameParams{Width: 2, Height: 2, MineCount: 4}, nil)
	require.ErrorIs(t, err, mines.ErrInvalidConfig)

	_, err = New(mines.GameParams{Width: 0, Height: 2, MineCount: 0}, nil)
	require.ErrorIs(t, err, mines.ErrInvalidConfig)
}

func TestNewGame(t *testing.T) {
	s, err := New(mines.Presets["beginner"], nil, WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)

	assert.Equal(t, Playing, s.State())
	assert.Equal(t, 0, s.FlagCount())
	assert.Equal(t, 0, s.Elapsed())
	assert.Equal(t, 10, s.MinesRemaining())
	assert.Len(t, s.View(), 81)
	for _, c := range s.View() {
		assert.False(t, c.Revealed)
		assert.False(t, c.Flagged)
	}
}

func TestRevealEmitsEveryCellOnce(t *testing.T) {
	s, rec := newSession(t, mines.GameParams{Width: 3, Height: 3}, layout(3, 3))

	s.Reveal(mines.Point{Row: 1, Col: 1})
	require.Len(t, rec.revealed, 9)
	seen := map[mines.Point]bool{}
	for _, e := range rec.revealed {
		assert.False(t, seen[e.P], "cell %v revealed twice", e.P)
		seen[e.P] = true
		assert.Equal(t, mines.Value(0), e.Value)
	}

	s.Reveal(mines.Point{Row: 1, Col: 1})
	s.Reveal(mines.Point{Row: 0, Col: 0})
	assert.Len(t, rec.revealed, 9)
	assert.Empty(t, rec.ended)
	assert.Equal(t, Playing, s.State())
}

func TestLoss(t *testing.T) {
	mine := mines.Point{Row: 0, Col: 0}
	other := mines.Point{Row: 2, Col: 2}
	s, rec := newSession(t,
		mines.GameParams{Width: 3, Height: 3, MineCount: 2},
		layout(3, 3, mine, other),
	)

	s.Reveal(mine)
	require.Equal(t, Lost, s.State())
	require.Equal(t, []bool{false}, rec.ended)
	require.Equal(t, []revealEvent{
		{mine, mines.Mine},
		{other, mines.Mine},
	}, rec.revealed)

	view := s.View()
	for i, c := range view {
		p := mines.Point{Row: i / 3, Col: i % 3}
		assert.Equal(t, p == mine || p == other, c.Revealed)
	}

	before := rec.events()
	s.Reveal(mines.Point{Row: 1, Col: 1})
	s.ToggleFlag(mines.Point{Row: 0, Col: 1})
	s.Chord(mines.Point{Row: 1, Col: 1})
	s.Tick()
	assert.Equal(t, before, rec.events())
	assert.Equal(t, view, s.View())
	assert.Equal(t, 0, s.Elapsed())
	assert.Equal(t, Lost, s.State())
}

func TestWin(t *testing.T) {
	tests := []struct {
		name string
		flag mines.Point
		want State
	}{
		{"flag the mine", mines.Point{Row: 0, Col: 0}, Won},
		{"flag 0:1", mines.Point{Row: 0, Col: 1}, Playing},
		{"flag 1:0", mines.Point{Row: 1, Col: 0}, Playing},
		{"flag 1:1", mines.Point{Row: 1, Col: 1}, Playing},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, rec := newSession(t,
				mines.GameParams{Width: 2, Height: 2, MineCount: 1},
				layout(2, 2, mines.Point{Row: 0, Col: 0}),
			)

			s.ToggleFlag(test.flag)
			assert.Equal(t, test.want, s.State())
			assert.Equal(t, []int{1}, rec.flags)
			assert.Equal(t, 0, s.MinesRemaining())
			if test.want == Won {
				assert.Equal(t, []bool{true}, rec.ended)
			} else {
				assert.Empty(t, rec.ended)
			}
		})
	}
}

func TestWonIsFrozen(t *testing.T) {
	s, rec := newSession(t,
		mines.GameParams{Width: 2, Height: 2, MineCount: 1},
		layout(2, 2, mines.Point{Row: 0, Col: 0}),
	)
	s.ToggleFlag(mines.Point{Row: 0, Col: 0})
	require.Equal(t, Won, s.State())

	before := rec.events()
	s.ToggleFlag(mines.Point{Row: 0, Col: 0})
	s.Reveal(mines.Point{Row: 1, Col: 1})
	assert.Equal(t, before, rec.events())
	assert.Equal(t, 1, s.FlagCount())
}

func TestFlagCount(t *testing.T) {
	s, rec := newSession(t,
		mines.GameParams{Width: 3, Height: 3, MineCount: 1},
		layout(3, 3, mines.Point{Row: 2, Col: 2}),
	)

	s.ToggleFlag(mines.Point{Row: 0, Col: 0})
	s.ToggleFlag(mines.Point{Row: 0, Col: 1})
	s.ToggleFlag(mines.Point{Row: 0, Col: 0})
	assert.Equal(t, []int{1, 2, 1}, rec.flags)
	assert.Equal(t, 1, s.FlagCount())
	assert.Equal(t, 0, s.MinesRemaining())
	assert.Equal(t, Playing, s.State())

	// flags on revealed cells and outside the board change nothing
	s.Reveal(mines.Point{Row: 1, Col: 1})
	s.ToggleFlag(mines.Point{Row: 1, Col: 1})
	s.ToggleFlag(mines.Point{Row: 7, Col: 7})
	assert.Equal(t, []int{1, 2, 1}, rec.flags)
}

func TestChordLoses(t *testing.T) {
	s, rec := newSession(t,
		mines.GameParams{Width: 3, Height: 3, MineCount: 1},
		layout(3, 3, mines.Point{Row: 0, Col: 0}),
	)
	s.Reveal(mines.Point{Row: 1, Col: 1})
	s.ToggleFlag(mines.Point{Row: 2, Col: 2})
	s.Chord(mines.Point{Row: 1, Col: 1})

	assert.Equal(t, Lost, s.State())
	assert.Equal(t, []bool{false}, rec.ended)
}

func TestTick(t *testing.T) {
	s, _ := newSession(t,
		mines.GameParams{Width: 2, Height: 2, MineCount: 1},
		layout(2, 2, mines.Point{Row: 0, Col: 0}),
	)
	view := s.View()
	for range 5 {
		s.Tick()
	}
	assert.Equal(t, 5, s.Elapsed())
	assert.Equal(t, view, s.View())
}

func TestReset(t *testing.T) {
	s, err := New(
		mines.GameParams{Width: 4, Height: 4, MineCount: 3}, nil,
		WithRand(rand.New(rand.NewPCG(5, 6))),
	)
	require.NoError(t, err)
	id := s.ID()

	s.ToggleFlag(mines.Point{Row: 0, Col: 0})
	s.Tick()
	for i := range 16 {
		s.Reveal(mines.Point{Row: i / 4, Col: i % 4})
	}
	require.Equal(t, Lost, s.State())

	require.NoError(t, s.Reset())
	assert.Equal(t, Playing, s.State())
	assert.Equal(t, 0, s.FlagCount())
	assert.Equal(t, 0, s.Elapsed())
	assert.Equal(t, 3, s.MinesRemaining())
	assert.NotEqual(t, id, s.ID())
	for _, c := range s.View() {
		assert.False(t, c.Revealed)
		assert.False(t, c.Flagged)
	}
}

func TestRestart(t *testing.T) {
	s, err := New(mines.Presets["beginner"], nil)
	require.NoError(t, err)

	err = s.Restart(mines.GameParams{Width: 2, Height: 2, MineCount: 4})
	require.ErrorIs(t, err, mines.ErrInvalidConfig)
	assert.Equal(t, mines.Presets["beginner"], s.Params())

	require.NoError(t, s.Restart(mines.Presets["expert"]))
	assert.Equal(t, mines.Presets["expert"], s.Params())
	assert.Len(t, s.View(), 30*16)
}
