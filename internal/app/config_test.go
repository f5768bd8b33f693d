package app

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"caspace/internal/core"
	"caspace/internal/engine"
	"caspace/internal/rule"
	"caspace/internal/sim"
)

func TestDefaults(t *testing.T) {
	c := qt.New(t)
	cfg, err := ParseArgs("caspace", nil)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, NewConfig())
	c.Assert(cfg.Validate(), qt.IsNil)
	w, h := cfg.Dimensions()
	c.Assert([]int{w, h}, qt.DeepEquals, []int{128, 128})
}

func TestShortAndLongFlags(t *testing.T) {
	c := qt.New(t)
	cfg, err := ParseArgs("caspace", []string{"-n", "3", "--steps", "30", "-k", "10", "-s", "64", "--height", "32", "-o", "-", "--rotate", "2"})
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.States, qt.Equals, 3)
	c.Assert(cfg.Steps, qt.Equals, 30)
	c.Assert(cfg.Skip, qt.Equals, 10)
	c.Assert(cfg.Out, qt.Equals, "-")
	c.Assert(cfg.PaletteShift, qt.Equals, 2)
	w, h := cfg.Dimensions()
	c.Assert([]int{w, h}, qt.DeepEquals, []int{64, 32})
}

func TestParseArgsRejects(t *testing.T) {
	c := qt.New(t)
	_, err := ParseArgs("caspace", []string{"--no-such-flag"})
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
	_, err = ParseArgs("caspace", []string{"stray"})
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
}

func TestRunFileUnderFlags(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "run.yaml")
	c.Assert(os.WriteFile(path, []byte("states: 4\nsteps: 200\nsymmetry: rotation\nout: file.gif\n"), 0o644), qt.IsNil)

	cfg, err := ParseArgs("caspace", []string{"--config", path, "--steps", "20"})
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.States, qt.Equals, 4)
	c.Assert(cfg.Steps, qt.Equals, 20)
	c.Assert(cfg.Out, qt.Equals, "file.gif")
	c.Assert(cfg.Skip, qt.Equals, 1)
	sp, err := cfg.Space()
	c.Assert(err, qt.IsNil)
	c.Assert(sp.Symmetry, qt.Equals, rule.SymmetryRotation)
}

func TestRunFileRejectsUnknownKeys(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "run.yaml")
	c.Assert(os.WriteFile(path, []byte("stats: 4\n"), 0o644), qt.IsNil)
	_, err := ParseArgs("caspace", []string{"--config", path})
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
}

func TestSpaceSymmetry(t *testing.T) {
	c := qt.New(t)
	cfg := NewConfig()
	sp, err := cfg.Space()
	c.Assert(err, qt.IsNil)
	c.Assert(sp.Symmetry, qt.Equals, rule.SymmetryNone)

	cfg.Symmetric = true
	sp, err = cfg.Space()
	c.Assert(err, qt.IsNil)
	c.Assert(sp.Symmetry, qt.Equals, rule.SymmetryDihedral)

	cfg.Symmetry = "rotation"
	sp, err = cfg.Space()
	c.Assert(err, qt.IsNil)
	c.Assert(sp.Symmetry, qt.Equals, rule.SymmetryRotation)

	cfg.Symmetry = "spiral"
	_, err = cfg.Space()
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
}

func TestSetup(t *testing.T) {
	c := qt.New(t)
	cfg, err := ParseArgs("caspace", []string{"--rule", "2", "--states", "2", "--horizon", "0", "--width", "64", "--mode", "tiled", "--workers", "2", "--init", "noise", "--seed", "9"})
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Validate(), qt.IsNil)
	s, err := cfg.Setup()
	c.Assert(err, qt.IsNil)
	c.Assert(s.RuleID.Int64(), qt.Equals, int64(2))
	c.Assert(s.Width, qt.Equals, 64)
	c.Assert(s.Height, qt.Equals, 128)
	c.Assert(s.Init, qt.Equals, sim.InitNoise)
	c.Assert(s.Engine, qt.Equals, engine.Options{Mode: engine.ModeTiled, Workers: 2})
	c.Assert(s.Seed, qt.Equals, int64(9))

	opts, err := cfg.RunOptions()
	c.Assert(err, qt.IsNil)
	c.Assert(opts, qt.Equals, sim.Options{Steps: 50, Skip: 1})
}

func TestSetupPicksSeed(t *testing.T) {
	c := qt.New(t)
	cfg := NewConfig()
	s, err := cfg.Setup()
	c.Assert(err, qt.IsNil)
	c.Assert(s.Seed, qt.Not(qt.Equals), int64(0))
	c.Assert(cfg.Seed, qt.Equals, s.Seed)
}

func TestValidate(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		about  string
		modify func(*Config)
	}{
		{"zero skip", func(cfg *Config) { cfg.Skip = 0 }},
		{"negative steps", func(cfg *Config) { cfg.Steps = -1 }},
		{"one state", func(cfg *Config) { cfg.States = 1 }},
		{"bad sampling", func(cfg *Config) { cfg.Sampling = "gaussian" }},
		{"bad init", func(cfg *Config) { cfg.Init = "stripes" }},
		{"bad mode", func(cfg *Config) { cfg.Mode = "diagonal" }},
		{"bad transform", func(cfg *Config) { cfg.Transform = "spin" }},
		{"empty grid", func(cfg *Config) { cfg.Size = 0 }},
		{"file and rule", func(cfg *Config) { cfg.RuleFile, cfg.Rule = "r.map", "3" }},
		{"negative workers", func(cfg *Config) { cfg.Workers = -2 }},
		{"no output", func(cfg *Config) { cfg.Out = "" }},
	}
	for _, test := range tests {
		c.Run(test.about, func(c *qt.C) {
			cfg := NewConfig()
			test.modify(cfg)
			c.Assert(cfg.Validate(), qt.ErrorIs, core.ErrInvalidConfiguration)
		})
	}

	cfg := NewConfig()
	cfg.Rule = "-5"
	c.Assert(cfg.Validate(), qt.ErrorIs, core.ErrInvalidRule)
}

func TestConfigureLogging(t *testing.T) {
	c := qt.New(t)
	cfg := NewConfig()
	cfg.LogConfig = "<root>=DEBUG;caspace.engine=TRACE"
	c.Assert(cfg.ConfigureLogging(), qt.IsNil)
	cfg.LogConfig = "<root>=LOUD"
	c.Assert(cfg.ConfigureLogging(), qt.ErrorIs, core.ErrInvalidConfiguration)
	cfg.LogConfig = "<root>=INFO"
	c.Assert(cfg.ConfigureLogging(), qt.IsNil)
}
