package rulesim

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/juju/errors"

	"caspace/internal/core"
	"caspace/internal/engine"
	"caspace/internal/render"
	"caspace/internal/rule"
)

var space = rule.Space{States: 3, Horizon: 1}

// constant returns a table mapping every configuration to s.
func constant(c *qt.C, s uint8) *rule.Table {
	t, err := rule.FromFunc(space, func([]uint8) uint8 { return s })
	c.Assert(err, qt.IsNil)
	return t
}

func newSim(c *qt.C, seeder Seeder) *Sim {
	st, err := engine.New(constant(c, 1), 8, 6, engine.Options{Workers: 2})
	c.Assert(err, qt.IsNil)
	s, err := New("test", st, seeder, nil)
	c.Assert(err, qt.IsNil)
	return s
}

func TestInitAndStep(t *testing.T) {
	c := qt.New(t)
	s := newSim(c, func(g *core.Grid, seed int64) error {
		return g.Set(int(seed), 0, 2)
	})
	c.Assert(s.Init(3), qt.IsNil)
	c.Assert(s.Cells()[3], qt.Equals, uint8(2))
	c.Assert(s.Cells()[4], qt.Equals, uint8(0))

	s.Step()
	for _, v := range s.Cells() {
		c.Assert(v, qt.Equals, uint8(1))
	}
	c.Assert(s.Automaton().Generation(), qt.Equals, 1)

	s.Reset(4)
	c.Assert(s.Automaton().Generation(), qt.Equals, 0)
	c.Assert(s.Cells()[3], qt.Equals, uint8(0))
	c.Assert(s.Cells()[4], qt.Equals, uint8(2))
}

func TestInitReportsSeederErrors(t *testing.T) {
	c := qt.New(t)
	s := newSim(c, func(g *core.Grid, seed int64) error {
		return g.Set(100, 0, 1)
	})
	err := s.Init(1)
	c.Assert(errors.Is(err, core.ErrPatternOutOfBounds), qt.IsTrue)
}

func TestReplaceKeepsWorkers(t *testing.T) {
	c := qt.New(t)
	s := newSim(c, nil)
	c.Assert(s.Replace(constant(c, 2)), qt.IsNil)
	c.Assert(s.Automaton().Stepper().Workers(), qt.Equals, 2)
	s.Step()
	c.Assert(s.Cells()[0], qt.Equals, uint8(2))

	other, err := rule.FromFunc(rule.Space{States: 2, Horizon: 1}, func([]uint8) uint8 { return 0 })
	c.Assert(err, qt.IsNil)
	c.Assert(s.Replace(other), qt.Not(qt.IsNil))
}

func TestParameters(t *testing.T) {
	c := qt.New(t)
	s := newSim(c, nil)
	snap := s.Parameters()
	p, ok := snap.Lookup("states")
	c.Assert(ok, qt.IsTrue)
	c.Assert(p.Value, qt.Equals, "3")
	p, ok = snap.Lookup("symmetry")
	c.Assert(ok, qt.IsTrue)
	c.Assert(p.Value, qt.Equals, "none")

	c.Assert(s.SetIntParameter("workers", 5), qt.IsTrue)
	p, _ = s.Parameters().Lookup("workers")
	c.Assert(p.Value, qt.Equals, "5")
	c.Assert(s.SetIntParameter("workers", 0), qt.IsFalse)
	c.Assert(s.SetIntParameter("nope", 1), qt.IsFalse)
}

func TestPaletteShift(t *testing.T) {
	c := qt.New(t)
	s := newSim(c, nil)
	c.Assert(s.Palette(), qt.DeepEquals, render.Blend(3, 0))
	c.Assert(s.ParameterControls(), qt.HasLen, 2)
	c.Assert(s.SetIntParameter("palette_shift", 1), qt.IsTrue)
	c.Assert(s.Palette(), qt.DeepEquals, render.Blend(3, 1))

	st, err := engine.New(constant(c, 0), 4, 4, engine.Options{})
	c.Assert(err, qt.IsNil)
	fixed, err := New("fixed", st, nil, render.Blend(3, 2))
	c.Assert(err, qt.IsNil)
	c.Assert(fixed.ParameterControls(), qt.HasLen, 1)
	c.Assert(fixed.SetIntParameter("palette_shift", 1), qt.IsFalse)
}

func TestInt(t *testing.T) {
	c := qt.New(t)
	cfg := map[string]string{"a": "7", "b": "x", "c": "-1"}
	c.Assert(Int(cfg, "a", 1), qt.Equals, 7)
	c.Assert(Int(cfg, "b", 1), qt.Equals, 1)
	c.Assert(Int(cfg, "c", 1), qt.Equals, 1)
	c.Assert(Int(cfg, "d", 2), qt.Equals, 2)
}
