package rule

import (
	"fmt"
	"math"
	"slices"

	"github.com/juju/errors"
	"gonum.org/v1/gonum/stat"

	"caspace/internal/core"
)

// Table is a total transition function: entry i is the successor state of
// configuration i. Tables are immutable once built.
type Table struct {
	space   Space
	entries []uint8
}

// FromEntries builds a table from a full list of successor states. When the
// space is symmetric the entries must already agree across every class.
func FromEntries(sp Space, entries []uint8) (*Table, error) {
	if err := sp.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if len(entries) != sp.TableSize() {
		return nil, errors.Annotatef(core.ErrInvalidRule, "%d entries for %v (want %d)", len(entries), sp, sp.TableSize())
	}
	for i, e := range entries {
		if int(e) >= sp.States {
			return nil, errors.Annotatef(core.ErrInvalidRule, "entry %d is state %d, not below %d", i, e, sp.States)
		}
	}
	t := &Table{space: sp, entries: slices.Clone(entries)}
	if sp.Symmetric() {
		part, err := Classes(sp)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if i, ok := firstAsymmetry(t.entries, part); !ok {
			return nil, errors.Annotatef(core.ErrInvalidRule, "configuration %d breaks %v symmetry", i, sp.Symmetry)
		}
	}
	return t, nil
}

// FromFunc builds a table by evaluating next on every configuration. The
// slice passed to next holds the window states in canonical order and is
// reused between calls.
func FromFunc(sp Space, next func(cfg []uint8) uint8) (*Table, error) {
	if err := sp.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	t := &Table{space: sp, entries: make([]uint8, sp.TableSize())}
	cfg := make([]uint8, sp.NeighborhoodSize())
	for i := range t.entries {
		t.Configuration(i, cfg)
		s := next(cfg)
		if int(s) >= sp.States {
			return nil, errors.Annotatef(core.ErrInvalidRule, "configuration %d maps to state %d, not below %d", i, s, sp.States)
		}
		t.entries[i] = s
	}
	if sp.Symmetric() {
		return FromEntries(sp, t.entries)
	}
	return t, nil
}

// fromClassValues broadcasts one value per class (or per configuration when
// part is nil) into a full table.
func fromClassValues(sp Space, part *Partition, values []uint8) *Table {
	if part == nil {
		return &Table{space: sp, entries: values}
	}
	entries := make([]uint8, len(part.Class))
	for i, c := range part.Class {
		entries[i] = values[c]
	}
	return &Table{space: sp, entries: entries}
}

// Space returns the space the table belongs to.
func (t *Table) Space() Space { return t.space }

// States returns the number of cell states.
func (t *Table) States() int { return t.space.States }

// Horizon returns the neighbourhood radius.
func (t *Table) Horizon() int { return t.space.Horizon }

// Len returns the number of configurations, S^k.
func (t *Table) Len() int { return len(t.entries) }

// Lookup returns the successor of configuration i.
func (t *Table) Lookup(i int) uint8 { return t.entries[i] }

// Entries exposes the successor states in canonical order. Callers must not
// modify the returned slice.
func (t *Table) Entries() []uint8 { return t.entries }

// Configuration decodes index i into window states, reusing buf when it has
// room for k cells.
func (t *Table) Configuration(i int, buf []uint8) []uint8 {
	k := t.space.NeighborhoodSize()
	if cap(buf) < k {
		buf = make([]uint8, k)
	}
	buf = buf[:k]
	for p := range buf {
		buf[p] = uint8(i % t.space.States)
		i /= t.space.States
	}
	return buf
}

// Index encodes window states into a configuration index.
func (t *Table) Index(cfg []uint8) int {
	idx := 0
	for p := len(cfg) - 1; p >= 0; p-- {
		idx = idx*t.space.States + int(cfg[p])
	}
	return idx
}

// Histogram counts how many configurations map to each state.
func (t *Table) Histogram() []int {
	h := make([]int, t.space.States)
	for _, e := range t.entries {
		h[e]++
	}
	return h
}

// Entropy returns the Shannon entropy, in bits, of the successor-state
// distribution over all configurations.
func (t *Table) Entropy() float64 {
	h := t.Histogram()
	p := make([]float64, len(h))
	for i, n := range h {
		p[i] = float64(n) / float64(len(t.entries))
	}
	return stat.Entropy(p) / math.Ln2
}

// IsSymmetric reports whether configurations equivalent under sym share a
// successor.
func (t *Table) IsSymmetric(sym Symmetry) bool {
	if sym == SymmetryNone {
		return true
	}
	sp := t.space
	sp.Symmetry = sym
	part, err := Classes(sp)
	if err != nil {
		return false
	}
	_, ok := firstAsymmetry(t.entries, part)
	return ok
}

// Equal reports whether o describes the same space and transitions.
func (t *Table) Equal(o *Table) bool {
	return o != nil && t.space == o.space && slices.Equal(t.entries, o.entries)
}

func (t *Table) String() string {
	return fmt.Sprintf("rule(%v, %d entries)", t.space, len(t.entries))
}

func firstAsymmetry(entries []uint8, part *Partition) (int, bool) {
	seen := make([]int16, part.Count)
	for i := range seen {
		seen[i] = -1
	}
	for i, c := range part.Class {
		switch prev := seen[c]; {
		case prev < 0:
			seen[c] = int16(entries[i])
		case prev != int16(entries[i]):
			return i, false
		}
	}
	return 0, true
}
