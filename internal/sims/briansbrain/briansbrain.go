package briansbrain

import (
	"image/color"

	"github.com/juju/errors"

	"caspace/internal/core"
	"caspace/internal/engine"
	"caspace/internal/rule"
	"caspace/internal/sims/rulesim"
	pcore "caspace/pkg/core"
)

const (
	stateDead  = 0
	stateOn    = 1
	stateDying = 2
)

// Space holds Brian's Brain: three states on the Moore neighbourhood.
var Space = rule.Space{States: 3, Horizon: 1, Symmetry: rule.SymmetryDihedral}

// Table returns the Brian's Brain rule. Firing cells start dying, dying
// cells die, and dead cells fire when exactly two neighbours fire.
func Table() (*rule.Table, error) {
	return rule.FromFunc(Space, func(cfg []uint8) uint8 {
		switch cfg[4] {
		case stateOn:
			return stateDying
		case stateDying:
			return stateDead
		}
		neighbors := 0
		for p, v := range cfg {
			if p != 4 && v == stateOn {
				neighbors++
			}
		}
		if neighbors == 2 {
			return stateOn
		}
		return stateDead
	})
}

var palette = []color.RGBA{
	stateDead:  {0, 0, 0, 255},
	stateOn:    {255, 255, 255, 255},
	stateDying: {60, 90, 200, 255},
}

// New creates a Brain simulation with the provided dimensions.
func New(w, h int) (*rulesim.Sim, error) {
	t, err := Table()
	if err != nil {
		return nil, errors.Trace(err)
	}
	st, err := engine.New(t, w, h, engine.Options{})
	if err != nil {
		return nil, errors.Trace(err)
	}
	// Reset randomizes cells into dead or firing states.
	reset := func(g *core.Grid, seed int64) error {
		rng := pcore.NewRNG(seed, pcore.StreamGrid).Source()
		cells := g.Cells()
		for i := range cells {
			if rng.IntN(8) == 0 {
				cells[i] = stateOn
				continue
			}
			cells[i] = stateDead
		}
		return nil
	}
	return rulesim.New("briansbrain", st, reset, palette)
}

func init() {
	core.Register("briansbrain", func(cfg map[string]string) (core.Sim, error) {
		return New(rulesim.Int(cfg, "w", 256), rulesim.Int(cfg, "h", 256))
	})
}
