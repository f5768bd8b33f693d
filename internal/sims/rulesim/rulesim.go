// Package rulesim adapts a rule table running on the stepping engine to the
// viewer's Sim interface.
package rulesim

import (
	"image/color"
	"strconv"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"caspace/internal/core"
	"caspace/internal/engine"
	"caspace/internal/render"
	"caspace/internal/rule"
)

var logger = loggo.GetLogger("caspace.sims.rulesim")

// Seeder fills generation 0 for a seed.
type Seeder func(g *core.Grid, seed int64) error

// Sim runs one rule table on a toroidal grid.
type Sim struct {
	name    string
	auto    *engine.Automaton
	seeder  Seeder
	palette []color.RGBA
	// blend marks palettes derived from render.Blend, which follow shift.
	blend bool
	shift int
}

// New wraps a stepper. A nil palette selects the blue-to-white blend.
func New(name string, st *engine.Stepper, seeder Seeder, palette []color.RGBA) (*Sim, error) {
	size := st.Size()
	g, err := core.NewGrid(size.W, size.H, st.Table().States())
	if err != nil {
		return nil, errors.Trace(err)
	}
	a, err := engine.NewAutomaton(st, g)
	if err != nil {
		return nil, errors.Trace(err)
	}
	s := &Sim{name: name, auto: a, seeder: seeder, palette: palette}
	if palette == nil {
		s.blend = true
		s.palette = render.Blend(g.States(), 0)
	}
	return s, nil
}

// Name returns the simulation identifier.
func (s *Sim) Name() string { return s.name }

// Size returns the grid dimensions.
func (s *Sim) Size() core.Size { return s.auto.Stepper().Size() }

// Cells exposes the current generation.
func (s *Sim) Cells() []uint8 { return s.auto.Grid().Cells() }

// Step advances one generation.
func (s *Sim) Step() { s.auto.Step() }

// Automaton exposes the underlying automaton.
func (s *Sim) Automaton() *engine.Automaton { return s.auto }

// Table returns the rule being run.
func (s *Sim) Table() *rule.Table { return s.auto.Stepper().Table() }

// Init seeds generation 0, reporting seeding errors.
func (s *Sim) Init(seed int64) error {
	g := s.auto.Grid().Clone()
	g.Clear()
	if s.seeder != nil {
		if err := s.seeder(g, seed); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(s.auto.Restart(g))
}

// Reset reseeds generation 0. Seeders are checked by Init when the sim is
// built, so failures here are only logged.
func (s *Sim) Reset(seed int64) {
	if err := s.Init(seed); err != nil {
		logger.Errorf("reset %s with seed %d: %v", s.name, seed, err)
	}
}

// Replace swaps in a new table of the same state count.
func (s *Sim) Replace(t *rule.Table) error {
	old := s.auto.Stepper()
	size := old.Size()
	st, err := engine.New(t, size.W, size.H, engine.Options{Workers: old.Workers()})
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(s.auto.SetStepper(st))
}

// Palette returns one colour per state.
func (s *Sim) Palette() []color.RGBA { return s.palette }

// Parameters describes the running rule.
func (s *Sim) Parameters() core.ParameterSnapshot {
	t := s.Table()
	st := s.auto.Stepper()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Rule",
			Params: []core.Parameter{
				core.IntParam("states", "States", t.States()),
				core.IntParam("horizon", "Horizon", t.Horizon()),
				core.TextParam("symmetry", "Symmetry", t.Space().Symmetry.String()),
				core.FloatParam("entropy", "Entropy (bits)", t.Entropy()),
			},
		},
		{
			Name: "Run",
			Params: []core.Parameter{
				core.IntParam("generation", "Generation", s.auto.Generation()),
				core.BoolParam("tiled", "Tiled", st.Tiled()),
				core.IntParam("workers", "Workers", st.Workers()),
				core.IntParam("palette_shift", "Palette shift", s.shift),
			},
		},
	}}
}

// ParameterControls lists the values the HUD may adjust.
func (s *Sim) ParameterControls() []core.ParameterControl {
	controls := []core.ParameterControl{
		{Key: "workers", Label: "Workers", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 64, HasMin: true, HasMax: true},
	}
	if s.blend {
		controls = append(controls, core.ParameterControl{
			Key: "palette_shift", Label: "Palette shift", Type: core.ParamTypeInt, Step: 1,
		})
	}
	return controls
}

// SetIntParameter applies a HUD adjustment.
func (s *Sim) SetIntParameter(key string, value int) bool {
	switch key {
	case "workers":
		if value < 1 {
			return false
		}
		s.auto.Stepper().SetWorkers(value)
		return true
	case "palette_shift":
		if !s.blend {
			return false
		}
		s.shift = value
		s.palette = render.Blend(len(s.palette), value)
		return true
	}
	return false
}

// Int reads a positive integer from cfg, falling back to def.
func Int(cfg map[string]string, key string, def int) int {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
