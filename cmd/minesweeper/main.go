package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/console"
	"github.com/vancomm/minesweeper/internal/logging"
	"github.com/vancomm/minesweeper/internal/session"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logrus.Fatal("unable to load config: ", err)
	}

	log, err := logging.New(cfg)
	if err != nil {
		logrus.Fatal("unable to set up logging: ", err)
	}
	session.Log = log

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	render := console.NewRenderer(os.Stdout, console.Options{
		Plain:  cfg.NoColor || !term.IsTerminal(int(os.Stdout.Fd())),
		Prompt: term.IsTerminal(int(os.Stdin.Fd())),
	})
	render.Help()

	s, err := session.New(cfg.Params(), render, session.WithLogger(log))
	if err != nil {
		log.Fatal("unable to start game: ", err)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	app := &application{
		session: s,
		render:  render,
		tick:    cfg.TickInterval.Duration,
		log:     log,
	}
	if err := app.run(ctx, os.Stdin); err != nil {
		log.Error("exit reason: ", err)
		return
	}
	log.Debug("bye")
}
