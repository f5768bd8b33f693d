//go:build ebiten

package main

import (
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"caspace/internal/app"
	"caspace/internal/core"
	_ "caspace/internal/sims/briansbrain"
	_ "caspace/internal/sims/elementary"
	_ "caspace/internal/sims/life"
	_ "caspace/internal/sims/sampled"
)

var logger = loggo.GetLogger("caspace.cmd.ca")

func main() {
	if err := run(os.Args[1:]); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := app.ParseViewerArgs("ca", args)
	if err != nil {
		return errors.Trace(err)
	}
	if err := cfg.ConfigureLogging(); err != nil {
		return errors.Trace(err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
		logger.Infof("using seed %d", cfg.Seed)
	}
	params, err := cfg.SimParams()
	if err != nil {
		return errors.Trace(err)
	}
	sim, err := core.NewSim(cfg.Sim, params)
	if err != nil {
		return errors.Trace(err)
	}
	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg)
	size := sim.Size()

	ebiten.SetWindowTitle("caspace: " + sim.Name())
	ebiten.SetTPS(60)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return errors.Trace(err)
	}
	return nil
}
