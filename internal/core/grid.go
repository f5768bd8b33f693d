package core

import (
	"slices"

	"github.com/juju/errors"
)

// MaxStates is the largest state count a byte-sized cell can hold.
const MaxStates = 256

// Grid stores the cell states of a toroidal automaton in row-major order.
// Its dimensions and state count are fixed at creation.
type Grid struct {
	W, H   int
	states int
	data   []uint8
}

// NewGrid allocates a grid of the given dimensions with every cell in state 0.
func NewGrid(w, h, states int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.Annotatef(ErrInvalidConfiguration, "grid size %dx%d", w, h)
	}
	if states < 2 || states > MaxStates {
		return nil, errors.Annotatef(ErrInvalidConfiguration, "%d states (want 2..%d)", states, MaxStates)
	}
	return &Grid{W: w, H: h, states: states, data: make([]uint8, w*h)}, nil
}

// States returns the number of cell states the grid accepts.
func (g *Grid) States() int { return g.states }

// Size returns the grid dimensions.
func (g *Grid) Size() Size { return Size{W: g.W, H: g.H} }

// Cells exposes the backing slice so callers can read/write values directly.
// Writers are responsible for keeping values below States.
func (g *Grid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// At returns the state at (x, y) after toroidal wrapping.
func (g *Grid) At(x, y int) uint8 {
	x, y = g.Wrap(x, y)
	return g.data[g.Index(x, y)]
}

// Set writes state s at (x, y). Coordinates are not wrapped.
func (g *Grid) Set(x, y int, s uint8) error {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return errors.Annotatef(ErrPatternOutOfBounds, "cell (%d,%d) outside %dx%d grid", x, y, g.W, g.H)
	}
	if int(s) >= g.states {
		return errors.Annotatef(ErrInvalidConfiguration, "state %d at (%d,%d) not below %d", s, x, y, g.states)
	}
	g.data[g.Index(x, y)] = s
	return nil
}

// Fill sets every cell to s.
func (g *Grid) Fill(s uint8) {
	for i := range g.data {
		g.data[i] = s
	}
}

// Clear fills the grid with zeros.
func (g *Grid) Clear() { g.Fill(0) }

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{W: g.W, H: g.H, states: g.states, data: slices.Clone(g.data)}
}

// SameShape reports whether o has the same dimensions and state count.
func (g *Grid) SameShape(o *Grid) bool {
	return o != nil && g.W == o.W && g.H == o.H && g.states == o.states
}

// Equal reports whether o has the same shape and cell values.
func (g *Grid) Equal(o *Grid) bool {
	return g.SameShape(o) && slices.Equal(g.data, o.data)
}
