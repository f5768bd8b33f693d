package ui

// Activity tracks which cells changed recently. Each changed cell is set to
// full heat, which then fades by Decay per observed generation.
type Activity struct {
	Decay uint8
	prev  []uint8
	heat  []uint8
}

// NewActivity returns a tracker for n cells.
func NewActivity(n int, decay uint8) *Activity {
	return &Activity{Decay: max(decay, 1), heat: make([]uint8, n)}
}

// Observe compares cells with the previous observation. The first call
// only records the grid.
func (a *Activity) Observe(cells []uint8) {
	if len(cells) != len(a.heat) {
		return
	}
	if a.prev == nil {
		a.prev = append([]uint8(nil), cells...)
		return
	}
	for i, v := range cells {
		switch {
		case v != a.prev[i]:
			a.heat[i] = 255
		case a.heat[i] > a.Decay:
			a.heat[i] -= a.Decay
		default:
			a.heat[i] = 0
		}
	}
	copy(a.prev, cells)
}

// Heat returns the per-cell weights, suitable as a render highlight.
func (a *Activity) Heat() []uint8 { return a.heat }

// Level returns the fraction of cells at full heat.
func (a *Activity) Level() float64 {
	if len(a.heat) == 0 {
		return 0
	}
	n := 0
	for _, h := range a.heat {
		if h == 255 {
			n++
		}
	}
	return float64(n) / float64(len(a.heat))
}

// Reset forgets all history.
func (a *Activity) Reset() {
	a.prev = nil
	clear(a.heat)
}
