package app

import (
	"github.com/juju/errors"

	"caspace/internal/output"
	"caspace/internal/rule"
	"caspace/internal/sim"
)

// Render performs a headless run: it resolves the rule, optionally saves
// it, steps the automaton and writes the selected generations as a GIF.
// It returns the number of frames written.
func Render(c *Config) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, errors.Trace(err)
	}
	setup, err := c.Setup()
	if err != nil {
		return 0, errors.Trace(err)
	}
	p, err := sim.Build(setup)
	if err != nil {
		return 0, errors.Trace(err)
	}
	if p.Sampled {
		logger.Infof("rule %s", rule.FormatIdentifier(rule.Encode(p.Table)))
	}
	if c.SaveRule != "" {
		if err := rule.WriteMapFile(c.SaveRule, p.Table); err != nil {
			return 0, errors.Trace(err)
		}
		logger.Infof("saved rule to %s", c.SaveRule)
	}

	opts, err := c.RunOptions()
	if err != nil {
		return 0, errors.Trace(err)
	}
	frames, err := sim.Run(p.Automaton, opts)
	if err != nil {
		return 0, errors.Trace(err)
	}
	out, err := output.Create(c.Out)
	if err != nil {
		return 0, errors.Trace(err)
	}
	n, err := output.WriteFrames(out, frames, p.Table.States(), c.OutputOptions())
	if err != nil {
		out.Close()
		return n, errors.Trace(err)
	}
	if err := out.Close(); err != nil {
		return n, errors.Annotatef(err, "closing %s", c.Out)
	}
	logger.Infof("wrote %d frames to %s", n, c.Out)
	return n, nil
}
