package life

import (
	"image/color"

	"github.com/juju/errors"

	"caspace/internal/core"
	"caspace/internal/engine"
	"caspace/internal/rule"
	"caspace/internal/sims/rulesim"
	pcore "caspace/pkg/core"
)

// Config holds parameters for the Game of Life preset.
type Config struct {
	Width  int
	Height int
	// Density is the chance, in percent, that a cell starts alive.
	Density int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Width: 256, Height: 256, Density: 25}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	c.Width = rulesim.Int(cfg, "w", c.Width)
	c.Height = rulesim.Int(cfg, "h", c.Height)
	c.Density = min(rulesim.Int(cfg, "density", c.Density), 100)
	return c
}

// Space is the rule space of Life: two states, Moore neighbourhood, and
// a rule invariant under the full square symmetry group.
var Space = rule.Space{States: 2, Horizon: 1, Symmetry: rule.SymmetryDihedral}

const centre = 4

// Table returns B3/S23 as a rule table.
func Table() (*rule.Table, error) {
	return rule.FromFunc(Space, func(cfg []uint8) uint8 {
		neighbors := 0
		for p, v := range cfg {
			if p != centre {
				neighbors += int(v)
			}
		}
		alive := cfg[centre] == 1
		if (alive && (neighbors == 2 || neighbors == 3)) || (!alive && neighbors == 3) {
			return 1
		}
		return 0
	})
}

var palette = []color.RGBA{{0, 0, 0, 255}, {255, 255, 255, 255}}

// New returns a Life simulation with the provided configuration.
func New(c Config) (*rulesim.Sim, error) {
	t, err := Table()
	if err != nil {
		return nil, errors.Trace(err)
	}
	st, err := engine.New(t, c.Width, c.Height, engine.Options{})
	if err != nil {
		return nil, errors.Trace(err)
	}
	seeder := func(g *core.Grid, seed int64) error {
		rng := pcore.NewRNG(seed, pcore.StreamGrid).Source()
		cells := g.Cells()
		for i := range cells {
			if rng.IntN(100) < c.Density {
				cells[i] = 1
			}
		}
		return nil
	}
	return rulesim.New("life", st, seeder, palette)
}

func init() {
	core.Register("life", func(cfg map[string]string) (core.Sim, error) {
		return New(FromMap(cfg))
	})
}
