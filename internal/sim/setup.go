package sim

import (
	"math"
	"math/big"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/juju/errors"

	"caspace/internal/core"
	"caspace/internal/engine"
	"caspace/internal/pattern"
	"caspace/internal/rule"
	pcore "caspace/pkg/core"
)

// Init selects how generation 0 is filled before any pattern is applied.
type Init uint8

const (
	// InitRandom draws every cell uniformly.
	InitRandom Init = iota
	// InitNoise quantises Perlin noise into S bands.
	InitNoise
	// InitBlank leaves every cell in state 0.
	InitBlank
)

var initNames = []string{"random", "noise", "blank"}

func (i Init) String() string {
	if int(i) < len(initNames) {
		return initNames[i]
	}
	return "unknown"
}

// ParseInit parses random, noise or blank.
func ParseInit(s string) (Init, error) {
	for i, name := range initNames {
		if strings.EqualFold(s, name) {
			return Init(i), nil
		}
	}
	return InitRandom, errors.Annotatef(core.ErrInvalidConfiguration, "unknown init %q", s)
}

// Setup describes everything needed to start a run. The rule comes from
// RuleFile, else RuleID, else a fresh sample.
type Setup struct {
	Space       rule.Space
	Sampling    rule.Distribution
	RuleID      *big.Int
	RuleFile    string
	PatternFile string
	Init        Init
	Width       int
	Height      int
	Seed        int64
	Engine      engine.Options
}

// Prepared is a table and an automaton ready to run.
type Prepared struct {
	Table     *rule.Table
	Automaton *engine.Automaton
	// Sampled is set when the table was drawn rather than supplied.
	Sampled bool
}

// Build resolves the rule, seeds generation 0 and prepares the stepper.
// Every configuration error surfaces here.
func Build(s Setup) (*Prepared, error) {
	tbl, sampled, err := Table(s)
	if err != nil {
		return nil, errors.Trace(err)
	}
	g, err := core.NewGrid(s.Width, s.Height, s.Space.States)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := Seed(g, s); err != nil {
		return nil, errors.Trace(err)
	}
	st, err := engine.New(tbl, s.Width, s.Height, s.Engine)
	if err != nil {
		return nil, errors.Trace(err)
	}
	a, err := engine.NewAutomaton(st, g)
	if err != nil {
		return nil, errors.Trace(err)
	}
	logger.Infof("prepared %dx%d %v (sampled=%v, init=%v)", s.Width, s.Height, tbl, sampled, s.Init)
	return &Prepared{Table: tbl, Automaton: a, Sampled: sampled}, nil
}

// Table resolves the rule a setup describes and reports whether it was
// sampled.
func Table(s Setup) (*rule.Table, bool, error) {
	switch {
	case s.RuleFile != "" && s.RuleID != nil:
		return nil, false, errors.Annotatef(core.ErrInvalidConfiguration, "both a rule file and a rule identifier given")
	case s.RuleFile != "":
		t, err := rule.ReadMapFile(s.RuleFile, s.Space)
		return t, false, errors.Trace(err)
	case s.RuleID != nil:
		t, err := rule.Decode(s.RuleID, s.Space)
		return t, false, errors.Trace(err)
	}
	t, err := rule.Sample(s.Space, s.Sampling, pcore.NewRNG(s.Seed, pcore.StreamRule).Source())
	return t, true, errors.Trace(err)
}

// Seed fills g according to s.Init and then applies s.PatternFile, if any,
// centred on the grid.
func Seed(g *core.Grid, s Setup) error {
	switch s.Init {
	case InitRandom:
		pcore.FillUniform(pcore.NewRNG(s.Seed, pcore.StreamGrid).Source(), g.Cells(), g.States())
	case InitNoise:
		fillNoise(g, s.Seed)
	case InitBlank:
		g.Clear()
	default:
		return errors.Annotatef(core.ErrInvalidConfiguration, "unknown init %d", s.Init)
	}
	if s.PatternFile == "" {
		return nil
	}
	p, err := pattern.Load(s.PatternFile)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(p.Apply(g, pattern.Centered))
}

// noiseScale is the number of cells per noise lattice unit.
const noiseScale = 16.0

func fillNoise(g *core.Grid, seed int64) {
	p := perlin.NewPerlin(2, 2, 3, seed)
	states := g.States()
	cells := g.Cells()
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			v := (p.Noise2D(float64(x)/noiseScale, float64(y)/noiseScale) + 1) / 2
			s := int(math.Floor(v * float64(states)))
			cells[y*g.W+x] = uint8(min(max(s, 0), states-1))
		}
	}
}
