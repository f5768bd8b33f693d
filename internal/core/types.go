package core

import (
	"image/color"
	"sort"

	"github.com/juju/errors"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a viewer-facing automaton must implement.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// PaletteProvider is implemented by sims that supply their own colours, one
// per cell state.
type PaletteProvider interface {
	Palette() []color.RGBA
}

// Resampler is implemented by sims that can replace their rule in place.
type Resampler interface {
	Resample(seed int64) error
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// SimNames returns the registered names in sorted order.
func SimNames() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSim looks up and constructs the named simulation.
func NewSim(name string, cfg map[string]string) (Sim, error) {
	f, ok := sims[name]
	if !ok {
		return nil, errors.Annotatef(ErrInvalidConfiguration, "unknown sim %q (have %v)", name, SimNames())
	}
	sim, err := f(cfg)
	if err != nil {
		return nil, errors.Annotatef(err, "cannot build sim %q", name)
	}
	return sim, nil
}
