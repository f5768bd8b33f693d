// Package sampled runs a rule drawn from, or loaded into, an arbitrary rule
// space. It is the viewer's counterpart of the headless renderer.
package sampled

import (
	"strconv"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"caspace/internal/core"
	"caspace/internal/engine"
	"caspace/internal/rule"
	"caspace/internal/sim"
	"caspace/internal/sims/rulesim"
	pcore "caspace/pkg/core"
)

var logger = loggo.GetLogger("caspace.sims.sampled")

// DefaultSetup returns the setup used for keys absent from the map.
func DefaultSetup() sim.Setup {
	return sim.Setup{
		Space:    rule.Space{States: 3, Horizon: 1, Symmetry: rule.SymmetryDihedral},
		Sampling: rule.Dirichlet,
		Init:     sim.InitRandom,
		Width:    256,
		Height:   256,
		Seed:     1,
		Engine:   engine.Options{Workers: 1},
	}
}

// FromMap reads a setup from a string map. Unlike the fixed presets every
// key is checked, since a typo would silently change the rule space.
func FromMap(cfg map[string]string) (sim.Setup, error) {
	s := DefaultSetup()
	var err error
	ints := []struct {
		key string
		dst *int
	}{
		{"w", &s.Width},
		{"h", &s.Height},
		{"states", &s.Space.States},
		{"horizon", &s.Space.Horizon},
		{"workers", &s.Engine.Workers},
	}
	for _, kv := range ints {
		v, ok := cfg[kv.key]
		if !ok {
			continue
		}
		if *kv.dst, err = strconv.Atoi(v); err != nil {
			return s, errors.Annotatef(core.ErrInvalidConfiguration, "%s=%q", kv.key, v)
		}
	}
	if v, ok := cfg["seed"]; ok {
		if s.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return s, errors.Annotatef(core.ErrInvalidConfiguration, "seed=%q", v)
		}
	}
	if v, ok := cfg["symmetry"]; ok {
		if s.Space.Symmetry, err = rule.ParseSymmetry(v); err != nil {
			return s, errors.Trace(err)
		}
	}
	if v, ok := cfg["sampling"]; ok {
		if s.Sampling, err = rule.ParseDistribution(v); err != nil {
			return s, errors.Trace(err)
		}
	}
	if v, ok := cfg["init"]; ok {
		if s.Init, err = sim.ParseInit(v); err != nil {
			return s, errors.Trace(err)
		}
	}
	if v, ok := cfg["mode"]; ok {
		if s.Engine.Mode, err = engine.ParseMode(v); err != nil {
			return s, errors.Trace(err)
		}
	}
	if v, ok := cfg["rule"]; ok {
		if s.RuleID, err = rule.ParseIdentifier(v); err != nil {
			return s, errors.Trace(err)
		}
	}
	s.RuleFile = cfg["file"]
	s.PatternFile = cfg["pattern"]
	return s, errors.Trace(s.Space.Validate())
}

// Sim is a rule-table simulation whose rule can be redrawn.
type Sim struct {
	*rulesim.Sim
	setup sim.Setup
}

// New resolves the rule and seeds generation 0, so a bad rule file or
// pattern fails here rather than on the first reset.
func New(s sim.Setup) (*Sim, error) {
	t, sampled, err := sim.Table(s)
	if err != nil {
		return nil, errors.Trace(err)
	}
	st, err := engine.New(t, s.Width, s.Height, s.Engine)
	if err != nil {
		return nil, errors.Trace(err)
	}
	seeder := func(g *core.Grid, seed int64) error {
		run := s
		run.Seed = seed
		return sim.Seed(g, run)
	}
	rs, err := rulesim.New("sampled", st, seeder, nil)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := rs.Init(s.Seed); err != nil {
		return nil, errors.Trace(err)
	}
	if sampled {
		logger.Infof("sampled %v (%s, seed %d)", t, s.Sampling, s.Seed)
	}
	return &Sim{Sim: rs, setup: s}, nil
}

// Resample draws a fresh rule from the configured space and distribution.
// The grid is left as it is.
func (s *Sim) Resample(seed int64) error {
	t, err := rule.Sample(s.setup.Space, s.setup.Sampling, pcore.NewRNG(seed, pcore.StreamRule).Source())
	if err != nil {
		return errors.Trace(err)
	}
	if err := s.Replace(t); err != nil {
		return errors.Trace(err)
	}
	logger.Infof("resampled %v with seed %d", t, seed)
	return nil
}

// Identifier returns the decimal identifier of the running rule.
func (s *Sim) Identifier() string {
	return rule.FormatIdentifier(rule.Encode(s.Table()))
}

func init() {
	core.Register("sampled", func(cfg map[string]string) (core.Sim, error) {
		s, err := FromMap(cfg)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return New(s)
	})
}
