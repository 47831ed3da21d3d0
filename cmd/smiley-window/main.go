// Command smiley-window runs the raining smileys cart in a desktop window.
// Keys: arrows move, x or space is button 1, z is button 2, Esc quits.
// Standard-layout gamepads work too.
package main

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/edwinsyarief/kecil/console"
	"github.com/edwinsyarief/kecil/console/window"
	"github.com/edwinsyarief/kecil/internal/smiley"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("smiley-window failed")
	}
}

func run() error {
	cfg, err := smiley.LoadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := cfg.Logger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	mem := console.NewMemory()
	game, err := smiley.New(mem, cfg, logger)
	if err != nil {
		return eris.Wrap(err, "create cart")
	}

	err = window.Run(game, mem,
		window.WithTitle("raining smileys"),
		window.WithScale(cfg.Scale),
		window.WithFPS(cfg.FPS),
		window.WithLogger(logger),
	)
	game.World().LogState(zerolog.InfoLevel)
	return err
}
