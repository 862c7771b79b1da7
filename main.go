package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	opts := parseFlags()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	log.Debug().Int64("seed", opts.Seed).Msg("starting")

	ebiten.SetWindowTitle("tilesprite")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(opts.Fullscreen)
	ebiten.SetTPS(opts.TPS)
	ebiten.SetWindowClosingHandled(true)

	g, err := NewGame(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}

	signal.Notify(g.signals,
		syscall.SIGINT,
		syscall.SIGTERM)

	err = ebiten.RunGame(g)
	g.close()
	if err != nil {
		log.Fatal().Err(err).Msg("game stopped")
	}
}
