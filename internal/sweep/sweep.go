// Package sweep samples many rules from one space, runs each briefly and
// ranks them by how lively the resulting grid is.
package sweep

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"gonum.org/v1/gonum/stat"

	"caspace/internal/core"
	"caspace/internal/engine"
	"caspace/internal/rule"
	pcore "caspace/pkg/core"
)

var logger = loggo.GetLogger("caspace.sweep")

// window is the number of final generations activity is averaged over.
const window = 10

// Options configures a sweep.
type Options struct {
	Space    rule.Space
	Sampling rule.Distribution
	Width    int
	Height   int
	Steps    int
	Count    int
	Seed     int64
	Workers  int
}

// Validate reports configuration errors.
func (o Options) Validate() error {
	if err := o.Space.Validate(); err != nil {
		return errors.Trace(err)
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.Annotatef(core.ErrInvalidConfiguration, "grid size %dx%d", o.Width, o.Height)
	}
	if o.Steps < window || o.Count < 1 || o.Workers < 1 {
		return errors.Annotatef(core.ErrInvalidConfiguration, "steps must be at least %d, count and workers at least 1", window)
	}
	return nil
}

// Result scores one sampled rule. Seed reproduces both the rule and the
// initial grid through the usual rule and grid streams.
type Result struct {
	Seed  int64
	Table *rule.Table
	// Activity is the mean fraction of cells changing per generation over
	// the final generations.
	Activity float64
	// Diversity is the entropy, in bits, of the final state distribution.
	Diversity float64
}

// Score favours rules that keep roughly half the grid changing while
// using many states. Frozen and fully chaotic rules both score zero.
func (r Result) Score() float64 {
	return 4 * r.Activity * (1 - r.Activity) * r.Diversity
}

// Seeds derives the candidate seeds of a sweep.
func Seeds(seed int64, n int) []int64 {
	src := pcore.NewRNG(seed, pcore.StreamSweep).Source()
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = src.Int64()
	}
	return seeds
}

// Run evaluates opts.Count candidates on opts.Workers goroutines and
// returns them best first. Cancelling ctx stops the sweep early.
func Run(ctx context.Context, opts Options) ([]Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	seeds := Seeds(opts.Seed, opts.Count)
	logger.Infof("sweeping %d rules in %v (%d workers, %d steps)", len(seeds), opts.Space, opts.Workers, opts.Steps)

	jobs := make(chan int64)
	results := make(chan Result)
	errs := make(chan error, opts.Workers)
	var wg sync.WaitGroup

	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				res, err := Evaluate(opts, seed)
				if err != nil {
					errs <- err
					cancel()
					return
				}
				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, seed := range seeds {
			select {
			case jobs <- seed:
			case <-ctx.Done():
				return
			}
		}
	}()

	var all []Result
	for res := range results {
		all = append(all, res)
		logger.Debugf("seed %d: activity %.3f diversity %.3f", res.Seed, res.Activity, res.Diversity)
	}
	select {
	case err := <-errs:
		return nil, errors.Trace(err)
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}

	sort.Slice(all, func(i, j int) bool {
		si, sj := all[i].Score(), all[j].Score()
		if si != sj {
			return si > sj
		}
		return all[i].Seed < all[j].Seed
	})
	return all, nil
}

// Evaluate samples and runs the candidate for one seed.
func Evaluate(opts Options, seed int64) (Result, error) {
	t, err := rule.Sample(opts.Space, opts.Sampling, pcore.NewRNG(seed, pcore.StreamRule).Source())
	if err != nil {
		return Result{}, errors.Trace(err)
	}
	st, err := engine.New(t, opts.Width, opts.Height, engine.Options{})
	if err != nil {
		return Result{}, errors.Trace(err)
	}
	g, err := core.NewGrid(opts.Width, opts.Height, opts.Space.States)
	if err != nil {
		return Result{}, errors.Trace(err)
	}
	pcore.FillUniform(pcore.NewRNG(seed, pcore.StreamGrid).Source(), g.Cells(), g.States())
	a, err := engine.NewAutomaton(st, g)
	if err != nil {
		return Result{}, errors.Trace(err)
	}

	a.StepN(opts.Steps - window)
	changed := 0
	for i := 0; i < window; i++ {
		a.Step()
		changed += differing(a.Grid().Cells(), a.Previous().Cells())
	}
	cells := float64(opts.Width * opts.Height)
	return Result{
		Seed:      seed,
		Table:     t,
		Activity:  float64(changed) / (window * cells),
		Diversity: stateEntropy(a.Grid()),
	}, nil
}

func differing(a, b []uint8) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}

func stateEntropy(g *core.Grid) float64 {
	p := make([]float64, g.States())
	for _, v := range g.Cells() {
		p[v]++
	}
	total := float64(len(g.Cells()))
	for i := range p {
		p[i] /= total
	}
	return stat.Entropy(p) / math.Ln2
}
