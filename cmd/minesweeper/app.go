package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper/internal/console"
	"github.com/vancomm/minesweeper/internal/session"
)

var errQuit = errors.New("quit")

type application struct {
	session *session.Session
	render  *console.Renderer
	tick    time.Duration
	log     *logrus.Logger
}

// readLines feeds lines from r into the returned channel until EOF or ctx
// is done. A blocked read can not be interrupted, so the goroutine is left
// out of the errgroup and dies with the process.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func (app *application) run(ctx context.Context, in io.Reader) error {
	app.render.Draw(app.session)

	g, gCtx := errgroup.WithContext(ctx)
	ticks := make(chan struct{})
	lines := readLines(gCtx, in)

	g.Go(func() error {
		ticker := time.NewTicker(app.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case ticks <- struct{}{}:
				case <-gCtx.Done():
					return nil
				}
			case <-gCtx.Done():
				return nil
			}
		}
	})
	g.Go(func() error {
		for {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case <-ticks:
				app.session.Tick()
			case line, ok := <-lines:
				if !ok {
					return errQuit
				}
				if err := app.handleLine(line); err != nil {
					return err
				}
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (app *application) handleLine(line string) error {
	for _, piece := range console.Pieces(line) {
		cmd, err := console.Parse(piece)
		if err != nil {
			app.log.WithField("command", piece).Debug(err)
			app.render.Error(err)
			continue
		}
		switch cmd.Kind {
		case console.Quit:
			return errQuit
		case console.Help:
			app.render.Help()
			continue
		}
		if err := console.Apply(app.session, cmd); err != nil {
			app.log.WithField("command", piece).Debug(err)
			app.render.Error(err)
			continue
		}
		if cmd.Kind == console.Reset || cmd.Kind == console.New {
			app.render.Reset()
		}
	}
	app.render.Draw(app.session)
	return nil
}
