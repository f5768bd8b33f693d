package core

import "math/rand/v2"

// Stream identifiers keep independent draws reproducible from one seed: the
// rule sampler and the grid seeding never consume each other's numbers.
const (
	StreamRule uint64 = iota + 1
	StreamGrid
	StreamSweep
)

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG for the given seed and stream.
func NewRNG(seed int64, stream uint64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), stream))}
}

// Uint8n returns a random uint8 in [0, n).
func (r *RNG) Uint8n(n int) uint8 {
	if n <= 0 {
		return 0
	}
	return uint8(r.r.IntN(n))
}

// FillUniform fills the buffer with values drawn uniformly from [0, states).
func FillUniform(r *rand.Rand, buf []uint8, states int) {
	for i := range buf {
		buf[i] = uint8(r.IntN(states))
	}
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
