// Command smiley-term runs the raining smileys cart in the terminal. The
// terminal needs at least 160x80 cells and true colour. Keys: arrows move,
// x or space is button 1, z is button 2, Esc or q quits.
//
// Configuration comes from SMILEY_* environment variables; the log goes to
// SMILEY_LOG_FILE so it does not fight with the screen.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/edwinsyarief/kecil/console"
	"github.com/edwinsyarief/kecil/console/term"
	"github.com/edwinsyarief/kecil/internal/smiley"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("smiley-term failed")
	}
}

func run() error {
	cfg, err := smiley.LoadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := cfg.Logger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	mem := console.NewMemory()
	game, err := smiley.New(mem, cfg, logger)
	if err != nil {
		return eris.Wrap(err, "create cart")
	}

	fe, err := term.NewTerminal(term.WithLogger(logger))
	if err != nil {
		return err
	}
	defer fe.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = console.Run(ctx, game, mem, fe, console.WithFPS(cfg.FPS), console.WithRunLogger(logger))
	game.World().LogState(zerolog.InfoLevel)
	if errors.Is(err, console.ErrQuit) {
		return nil
	}
	return err
}
