package elementary

import (
	"image/color"
	"strconv"

	"github.com/juju/errors"

	"caspace/internal/core"
	"caspace/internal/engine"
	"caspace/internal/rule"
	"caspace/internal/sims/rulesim"
)

// Config holds parameters for the elementary cellular automaton.
type Config struct {
	Width  int
	Height int
	Rule   uint8
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Width: 256, Height: 256, Rule: 110}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	c.Width = rulesim.Int(cfg, "w", c.Width)
	c.Height = rulesim.Int(cfg, "h", c.Height)
	if v, ok := cfg["rule"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed <= 255 {
			c.Rule = uint8(parsed)
		}
	}
	return c
}

// Table projects Wolfram code w onto the plane: every cell takes the
// value the code assigns to the three cells of the row above it. Seeded
// with a single row, the grid shows the one-dimensional history scrolling
// downwards.
func Table(w uint8) (*rule.Table, error) {
	sp := rule.Space{States: 2, Horizon: 1}
	return rule.FromFunc(sp, func(cfg []uint8) uint8 {
		idx := (cfg[0] << 2) | (cfg[1] << 1) | cfg[2]
		return (w >> idx) & 1
	})
}

var palette = []color.RGBA{{0, 0, 0, 255}, {255, 255, 255, 255}}

// New creates an automaton with the given configuration.
func New(c Config) (*rulesim.Sim, error) {
	t, err := Table(c.Rule)
	if err != nil {
		return nil, errors.Trace(err)
	}
	st, err := engine.New(t, c.Width, c.Height, engine.Options{})
	if err != nil {
		return nil, errors.Trace(err)
	}
	// Reset clears the grid and seeds the top row with a single active cell.
	reset := func(g *core.Grid, _ int64) error {
		g.Clear()
		return g.Set(g.W/2, 0, 1)
	}
	return rulesim.New("elementary", st, reset, palette)
}

func init() {
	core.Register("elementary", func(cfg map[string]string) (core.Sim, error) {
		return New(FromMap(cfg))
	})
}
