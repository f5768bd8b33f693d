// Package rule represents cellular automaton transition tables and converts
// them to and from rule identifiers, map files and random samples.
//
// A neighbourhood of radius h covers the (2h+1)×(2h+1) window around a cell.
// Window cells are numbered row-major, row offset -h..h outer and column
// offset -h..h inner, and a configuration with states d_p is stored at table
// index Σ d_p·S^p. The same order is used by identifiers, map files and the
// stepping engine.
package rule

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"caspace/internal/core"
)

var logger = loggo.GetLogger("caspace.rule")

// MaxTableSize bounds the number of configurations a table may enumerate.
const MaxTableSize = 1 << 26

// Symmetry selects the group under which configurations are identified.
type Symmetry uint8

const (
	// SymmetryNone assigns every configuration independently.
	SymmetryNone Symmetry = iota
	// SymmetryRotation identifies configurations related by quarter turns.
	SymmetryRotation
	// SymmetryDihedral adds the four reflections to the rotations.
	SymmetryDihedral
)

var symmetryNames = map[Symmetry]string{
	SymmetryNone:     "none",
	SymmetryRotation: "rotation",
	SymmetryDihedral: "dihedral",
}

func (s Symmetry) String() string {
	if name, ok := symmetryNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSymmetry parses "none", "rotation" or "dihedral".
func ParseSymmetry(s string) (Symmetry, error) {
	for sym, name := range symmetryNames {
		if strings.EqualFold(s, name) {
			return sym, nil
		}
	}
	return SymmetryNone, errors.Annotatef(core.ErrInvalidConfiguration, "unknown symmetry %q", s)
}

// Space identifies a family of tables: S states over a neighbourhood of
// radius Horizon, optionally restricted to a symmetry group.
type Space struct {
	States   int
	Horizon  int
	Symmetry Symmetry
}

// Window returns the side length of the neighbourhood window.
func (sp Space) Window() int { return 2*sp.Horizon + 1 }

// NeighborhoodSize returns k, the number of cells in a neighbourhood.
func (sp Space) NeighborhoodSize() int { return sp.Window() * sp.Window() }

// Symmetric reports whether the space is restricted to a symmetry group.
func (sp Space) Symmetric() bool { return sp.Symmetry != SymmetryNone }

// Validate checks that the space can be materialised as a table.
func (sp Space) Validate() error {
	if sp.States < 2 || sp.States > core.MaxStates {
		return errors.Annotatef(core.ErrInvalidConfiguration, "%d states (want 2..%d)", sp.States, core.MaxStates)
	}
	if sp.Horizon < 0 {
		return errors.Annotatef(core.ErrInvalidConfiguration, "negative horizon %d", sp.Horizon)
	}
	if _, ok := symmetryNames[sp.Symmetry]; !ok {
		return errors.Annotatef(core.ErrInvalidConfiguration, "unknown symmetry %d", sp.Symmetry)
	}
	if _, ok := tableSize(sp.States, sp.NeighborhoodSize()); !ok {
		return errors.Annotatef(core.ErrInvalidConfiguration,
			"%d states with horizon %d need more than %d table entries", sp.States, sp.Horizon, MaxTableSize)
	}
	return nil
}

// TableSize returns S^k. It is only meaningful for a valid space.
func (sp Space) TableSize() int {
	n, _ := tableSize(sp.States, sp.NeighborhoodSize())
	return n
}

func (sp Space) String() string {
	return fmt.Sprintf("states=%d horizon=%d symmetry=%s", sp.States, sp.Horizon, sp.Symmetry)
}

func tableSize(states, k int) (int, bool) {
	n := 1
	for i := 0; i < k; i++ {
		if n > MaxTableSize/states {
			return 0, false
		}
		n *= states
	}
	return n, true
}

// powers returns S^0..S^(k-1).
func powers(states, k int) []int {
	pw := make([]int, k)
	v := 1
	for i := range pw {
		pw[i] = v
		v *= states
	}
	return pw
}
