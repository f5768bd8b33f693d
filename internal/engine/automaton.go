package engine

import (
	"github.com/juju/errors"

	"caspace/internal/core"
)

// Automaton owns a pair of generation buffers and flips between them.
type Automaton struct {
	stepper  *Stepper
	cur, nxt *core.Grid
	gen      int
}

// NewAutomaton takes ownership of g as generation 0.
func NewAutomaton(s *Stepper, g *core.Grid) (*Automaton, error) {
	if s == nil {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "no stepper")
	}
	if g == nil {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "no initial grid")
	}
	nxt, err := core.NewGrid(g.W, g.H, g.States())
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := s.Check(g, nxt); err != nil {
		return nil, errors.Trace(err)
	}
	return &Automaton{stepper: s, cur: g, nxt: nxt}, nil
}

// Step advances one generation.
func (a *Automaton) Step() {
	a.stepper.step(a.cur.Cells(), a.nxt.Cells())
	a.cur, a.nxt = a.nxt, a.cur
	a.gen++
}

// StepN advances n generations.
func (a *Automaton) StepN(n int) {
	for i := 0; i < n; i++ {
		a.Step()
	}
}

// Grid returns the current generation. It is overwritten two steps later;
// clone it to keep a snapshot.
func (a *Automaton) Grid() *core.Grid { return a.cur }

// Previous returns the generation before the current one. Before the first
// step it holds no meaningful data.
func (a *Automaton) Previous() *core.Grid { return a.nxt }

// Generation returns the number of steps taken since generation 0.
func (a *Automaton) Generation() int { return a.gen }

// Stepper returns the stepper in use.
func (a *Automaton) Stepper() *Stepper { return a.stepper }

// SetStepper swaps the rule or strategy without touching the grid.
func (a *Automaton) SetStepper(s *Stepper) error {
	if s == nil {
		return errors.Annotatef(core.ErrInvalidConfiguration, "no stepper")
	}
	if err := s.Check(a.cur, a.nxt); err != nil {
		return errors.Trace(err)
	}
	a.stepper = s
	return nil
}

// Restart copies g into the current generation and resets the counter.
func (a *Automaton) Restart(g *core.Grid) error {
	if !g.SameShape(a.cur) {
		return errors.Annotatef(core.ErrInvalidConfiguration, "restart grid is %dx%d with %d states", g.W, g.H, g.States())
	}
	copy(a.cur.Cells(), g.Cells())
	a.gen = 0
	return nil
}
