package rule

import (
	"fmt"
	"sync"

	"github.com/juju/errors"
	"golang.org/x/sync/singleflight"
)

// Partition groups the configurations of a space into symmetry classes.
// Classes are numbered in order of their smallest member, so class j's
// representative is the j-th configuration not equivalent to any earlier one.
type Partition struct {
	// Class maps each configuration index to its class.
	Class []int32
	// Count is the number of classes.
	Count int
}

var (
	partitionMu    sync.Mutex
	partitionCache = map[Space]*Partition{}
	partitionGroup singleflight.Group
)

// Classes returns the symmetry partition for sp, computing it once per space.
// It returns nil for SymmetryNone, where every configuration is its own class.
func Classes(sp Space) (*Partition, error) {
	if err := sp.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if !sp.Symmetric() {
		return nil, nil
	}
	key := Space{States: sp.States, Horizon: sp.Horizon, Symmetry: sp.Symmetry}
	partitionMu.Lock()
	p, ok := partitionCache[key]
	partitionMu.Unlock()
	if ok {
		return p, nil
	}
	v, _, _ := partitionGroup.Do(key.String(), func() (interface{}, error) {
		p := buildPartition(key)
		partitionMu.Lock()
		partitionCache[key] = p
		partitionMu.Unlock()
		logger.Debugf("partitioned %d configurations of %v into %d classes", len(p.Class), key, p.Count)
		return p, nil
	})
	return v.(*Partition), nil
}

func buildPartition(sp Space) *Partition {
	size := sp.TableSize()
	k := sp.NeighborhoodSize()
	pw := powers(sp.States, k)
	perms := groupPermutations(sp.Window(), sp.Symmetry)

	class := make([]int32, size)
	for i := range class {
		class[i] = -1
	}
	digits := make([]int, k)
	count := 0
	for i := 0; i < size; i++ {
		if class[i] >= 0 {
			continue
		}
		c := int32(count)
		count++
		class[i] = c
		v := i
		for p := range digits {
			digits[p] = v % sp.States
			v /= sp.States
		}
		for _, perm := range perms {
			j := 0
			for p, d := range digits {
				j += d * pw[perm[p]]
			}
			class[j] = c
		}
	}
	return &Partition{Class: class, Count: count}
}

// groupPermutations returns, for every non-identity group element, the
// window position each cell moves to.
func groupPermutations(n int, sym Symmetry) [][]int {
	type transform func(r, c int) (int, int)
	rotations := []transform{
		func(r, c int) (int, int) { return c, n - 1 - r },
		func(r, c int) (int, int) { return n - 1 - r, n - 1 - c },
		func(r, c int) (int, int) { return n - 1 - c, r },
	}
	reflections := []transform{
		func(r, c int) (int, int) { return r, n - 1 - c },
		func(r, c int) (int, int) { return n - 1 - r, c },
		func(r, c int) (int, int) { return c, r },
		func(r, c int) (int, int) { return n - 1 - c, n - 1 - r },
	}
	var group []transform
	switch sym {
	case SymmetryRotation:
		group = rotations
	case SymmetryDihedral:
		group = append(append(group, rotations...), reflections...)
	default:
		panic(fmt.Sprintf("no permutations for symmetry %v", sym))
	}
	perms := make([][]int, len(group))
	for t, f := range group {
		perm := make([]int, n*n)
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				nr, nc := f(r, c)
				perm[r*n+c] = nr*n + nc
			}
		}
		perms[t] = perm
	}
	return perms
}
