// Package sim drives an automaton through a fixed number of generations and
// hands out the generations a caller asked to keep.
package sim

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"caspace/internal/core"
	"caspace/internal/engine"
)

var logger = loggo.GetLogger("caspace.sim")

// Options select which generations become frames.
type Options struct {
	// Steps is the number of generations to run.
	Steps int
	// Skip is the stride between emitted generations; 1 keeps every one.
	Skip      int
	Transform Transform
}

// Frame is a snapshot of one emitted generation.
type Frame struct {
	Generation int
	Grid       *core.Grid
}

// Frames is a lazy, finite sequence of frames. Like bufio.Scanner it is
// consumed by calling Next until it returns false, reading Frame after each
// successful call. It cannot be restarted.
type Frames struct {
	a     *engine.Automaton
	opts  Options
	base  int
	next  int
	done  bool
	frame Frame
}

// Run prepares to emit generations 0, Skip, 2·Skip, … up to Steps of a,
// counted from a's current generation. Nothing is stepped until Next is
// called.
func Run(a *engine.Automaton, opts Options) (*Frames, error) {
	if a == nil {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "no automaton")
	}
	if opts.Steps < 0 {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "negative step count %d", opts.Steps)
	}
	if opts.Skip < 1 {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "skip %d (want at least 1)", opts.Skip)
	}
	g := a.Grid()
	if err := opts.Transform.Check(g.W, g.H); err != nil {
		return nil, errors.Trace(err)
	}
	return &Frames{a: a, opts: opts, base: a.Generation()}, nil
}

// Count returns the number of frames the sequence emits in total.
func (f *Frames) Count() int { return f.opts.Steps/f.opts.Skip + 1 }

// Next advances to the next emitted generation. When none is left it runs
// any remaining generations up to Steps and returns false.
func (f *Frames) Next() bool {
	if f.done {
		return false
	}
	if f.next > f.opts.Steps {
		f.a.StepN(f.base + f.opts.Steps - f.a.Generation())
		f.done = true
		f.frame = Frame{}
		logger.Debugf("ran %d generations", f.opts.Steps)
		return false
	}
	f.a.StepN(f.base + f.next - f.a.Generation())
	cur := f.a.Grid()
	snap, err := core.NewGrid(cur.W, cur.H, cur.States())
	if err != nil {
		// cur is a valid grid, so its shape is too.
		panic(err)
	}
	f.opts.Transform.Apply(snap, cur)
	f.frame = Frame{Generation: f.next, Grid: snap}
	f.next += f.opts.Skip
	return true
}

// Frame returns the frame produced by the last successful Next.
func (f *Frames) Frame() Frame { return f.frame }

// Collect drains f into a slice.
func Collect(f *Frames) []Frame {
	var out []Frame
	for f.Next() {
		out = append(out, f.Frame())
	}
	return out
}
