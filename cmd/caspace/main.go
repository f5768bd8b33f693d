// Command caspace samples or loads a cellular automaton rule, runs it on a
// toroidal grid and writes the run as an animated GIF.
package main

import (
	"os"

	"github.com/juju/loggo"

	"caspace/internal/app"
)

var logger = loggo.GetLogger("caspace.cmd")

func main() {
	cfg, err := app.ParseArgs("caspace", os.Args[1:])
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(2)
	}
	if err := cfg.ConfigureLogging(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(2)
	}
	logger.Debugf("config: %v", cfg)
	if _, err := app.Render(cfg); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
