package rule

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/juju/errors"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"caspace/internal/core"
)

// Distribution selects how Sample draws successor states.
type Distribution uint8

const (
	// Uniform draws every free value independently and uniformly.
	Uniform Distribution = iota
	// Dirichlet draws a state distribution λ ~ Dir(DirichletAlpha) once per
	// table and then draws every free value from λ. Small concentrations
	// favour a few dominant states.
	Dirichlet
)

// DirichletAlpha is the symmetric concentration used by Dirichlet sampling.
const DirichletAlpha = 0.2

func (d Distribution) String() string {
	switch d {
	case Uniform:
		return "uniform"
	case Dirichlet:
		return "dirichlet"
	}
	return "unknown"
}

// ParseDistribution parses "uniform" or "dirichlet".
func ParseDistribution(s string) (Distribution, error) {
	switch strings.ToLower(s) {
	case "uniform":
		return Uniform, nil
	case "dirichlet":
		return Dirichlet, nil
	}
	return Uniform, errors.Annotatef(core.ErrInvalidConfiguration, "unknown distribution %q", s)
}

// Sample draws a random table from sp. One value is drawn per symmetry
// class, or per configuration when sp has no symmetry, so the result always
// respects sp.Symmetry. Equal seeds give equal tables.
func Sample(sp Space, dist Distribution, rng *rand.Rand) (*Table, error) {
	if err := sp.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	n, err := DigitCount(sp)
	if err != nil {
		return nil, errors.Trace(err)
	}
	values := make([]uint8, n)
	switch dist {
	case Uniform:
		for i := range values {
			values[i] = uint8(rng.IntN(sp.States))
		}
	case Dirichlet:
		lambda := stateWeights(sp.States, rng)
		if onehot, ok := degenerate(lambda); ok {
			for i := range values {
				values[i] = uint8(onehot)
			}
			break
		}
		cat := distuv.NewCategorical(lambda, rng)
		for i := range values {
			values[i] = uint8(cat.Rand())
		}
	default:
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "unknown distribution %d", dist)
	}
	part, err := Classes(sp)
	if err != nil {
		return nil, errors.Trace(err)
	}
	t := fromClassValues(sp, part, values)
	logger.Tracef("sampled %v from %v, entropy %.3f bits", t, dist, t.Entropy())
	return t, nil
}

// stateWeights draws λ ~ Dir(DirichletAlpha·1_S). With very small alpha the
// gamma draws can all underflow to zero; the result is then a one-hot vector
// at a uniformly chosen state.
func stateWeights(states int, rng *rand.Rand) []float64 {
	alpha := make([]float64, states)
	for i := range alpha {
		alpha[i] = DirichletAlpha
	}
	dir := distmv.NewDirichlet(alpha, rng)
	lambda := dir.Rand(nil)
	sum := 0.0
	for _, v := range lambda {
		if math.IsNaN(v) || v < 0 {
			sum = 0
			break
		}
		sum += v
	}
	if sum <= 0 || math.IsNaN(sum) {
		for i := range lambda {
			lambda[i] = 0
		}
		lambda[rng.IntN(states)] = 1
	}
	return lambda
}

// degenerate reports the single state carrying all of the weight, if any.
func degenerate(lambda []float64) (int, bool) {
	hot := -1
	for i, v := range lambda {
		if v == 0 {
			continue
		}
		if hot >= 0 {
			return 0, false
		}
		hot = i
	}
	return hot, hot >= 0
}
