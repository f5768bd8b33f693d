// Command rule-sweep samples many rules from one rule space, runs each on a
// small grid and prints the liveliest. Any listed seed reproduces its rule
// and initial grid with caspace --seed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"

	"caspace/internal/rule"
	"caspace/internal/sweep"
)

var logger = loggo.GetLogger("caspace.cmd.sweep")

type flags struct {
	states    int
	horizon   int
	symmetry  string
	sampling  string
	size      int
	steps     int
	count     int
	seed      int64
	workers   int
	top       int
	saveDir   string
	ids       bool
	logConfig string
}

func parse(args []string) (*flags, error) {
	f := &flags{}
	fs := gnuflag.NewFlagSet("rule-sweep", gnuflag.ContinueOnError)
	fs.IntVar(&f.states, "states", 3, "number of cell states")
	fs.IntVar(&f.states, "n", 3, "")
	fs.IntVar(&f.horizon, "horizon", 1, "neighbourhood radius")
	fs.StringVar(&f.symmetry, "symmetry", "dihedral", "symmetry group: none, rotation or dihedral")
	fs.StringVar(&f.sampling, "sampling", "dirichlet", "rule sampling: uniform or dirichlet")
	fs.IntVar(&f.size, "size", 64, "grid width and height")
	fs.IntVar(&f.steps, "steps", 120, "generations per candidate")
	fs.IntVar(&f.count, "count", 200, "number of candidates")
	fs.Int64Var(&f.seed, "seed", 0, "sweep seed (0 picks one from the clock)")
	fs.IntVar(&f.workers, "workers", runtime.NumCPU(), "number of worker goroutines")
	fs.IntVar(&f.top, "top", 10, "results to print")
	fs.StringVar(&f.saveDir, "save-dir", "", "write the printed rules as map files into this directory")
	fs.BoolVar(&f.ids, "ids", false, "print full rule identifiers")
	fs.StringVar(&f.logConfig, "log-config", "<root>=INFO", "logging configuration")
	if err := fs.Parse(true, args); err != nil {
		return nil, errors.Trace(err)
	}
	if fs.NArg() > 0 {
		return nil, errors.Errorf("unexpected arguments %q", fs.Args())
	}
	return f, nil
}

func (f *flags) options() (sweep.Options, error) {
	sym, err := rule.ParseSymmetry(f.symmetry)
	if err != nil {
		return sweep.Options{}, errors.Trace(err)
	}
	dist, err := rule.ParseDistribution(f.sampling)
	if err != nil {
		return sweep.Options{}, errors.Trace(err)
	}
	if f.seed == 0 {
		f.seed = time.Now().UnixNano()
		logger.Infof("using seed %d", f.seed)
	}
	return sweep.Options{
		Space:    rule.Space{States: f.states, Horizon: f.horizon, Symmetry: sym},
		Sampling: dist,
		Width:    f.size,
		Height:   f.size,
		Steps:    f.steps,
		Count:    f.count,
		Seed:     f.seed,
		Workers:  f.workers,
	}, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	f, err := parse(args)
	if err != nil {
		return errors.Trace(err)
	}
	if err := loggo.ConfigureLoggers(f.logConfig); err != nil {
		return errors.Trace(err)
	}
	opts, err := f.options()
	if err != nil {
		return errors.Trace(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := sweep.Run(ctx, opts)
	if err != nil {
		return errors.Trace(err)
	}
	elapsed := time.Since(start)

	fmt.Printf("Top %d of %d rules (elapsed %s):\n", min(f.top, len(results)), len(results), elapsed.Round(time.Millisecond))
	for i := 0; i < len(results) && i < f.top; i++ {
		res := results[i]
		fmt.Printf("%2d) score=%.3f activity=%.3f diversity=%.3f entropy=%.3f seed=%d\n",
			i+1, res.Score(), res.Activity, res.Diversity, res.Table.Entropy(), res.Seed)
		if f.ids {
			fmt.Printf("    rule=%s\n", rule.FormatIdentifier(rule.Encode(res.Table)))
		}
		if f.saveDir != "" {
			path := filepath.Join(f.saveDir, fmt.Sprintf("rule-%d.map", res.Seed))
			if err := rule.WriteMapFile(path, res.Table); err != nil {
				return errors.Trace(err)
			}
		}
	}
	return nil
}
