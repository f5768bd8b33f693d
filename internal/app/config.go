package app

import (
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"
	"gopkg.in/yaml.v2"

	"caspace/internal/core"
	"caspace/internal/engine"
	"caspace/internal/output"
	"caspace/internal/rule"
	"caspace/internal/sim"
)

var logger = loggo.GetLogger("caspace.app")

// Config represents the command-line parameters of a headless run. The
// yaml tags name the keys a run file may set.
type Config struct {
	Size         int    `yaml:"size"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	States       int    `yaml:"states"`
	Horizon      int    `yaml:"horizon"`
	Steps        int    `yaml:"steps"`
	Skip         int    `yaml:"skip"`
	Delay        int    `yaml:"delay"`
	RuleFile     string `yaml:"file"`
	Rule         string `yaml:"rule"`
	Pattern      string `yaml:"pattern"`
	Sampling     string `yaml:"sampling"`
	Symmetric    bool   `yaml:"symmetric"`
	Symmetry     string `yaml:"symmetry"`
	PaletteShift int    `yaml:"palette-shift"`
	Transform    string `yaml:"transform"`
	Seed         int64  `yaml:"seed"`
	Init         string `yaml:"init"`
	Mode         string `yaml:"mode"`
	Workers      int    `yaml:"workers"`
	Out          string `yaml:"out"`
	SaveRule     string `yaml:"save-rule"`
	Scale        int    `yaml:"scale"`
	LogConfig    string `yaml:"log-config"`

	// ConfigFile names the run file; it cannot be set from the file itself.
	ConfigFile string `yaml:"-"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Size:      128,
		States:    2,
		Horizon:   1,
		Steps:     50,
		Skip:      1,
		Delay:     10,
		Sampling:  "dirichlet",
		Transform: "none",
		Init:      "random",
		Mode:      "auto",
		Workers:   1,
		Out:       "test.gif",
		LogConfig: "<root>=INFO",
	}
}

// bindModel attaches the flags that describe the rule and the grid.
func (c *Config) bindModel(fs *gnuflag.FlagSet) {
	fs.IntVar(&c.Size, "size", c.Size, "grid width and height")
	fs.IntVar(&c.Size, "s", c.Size, "")
	fs.IntVar(&c.Width, "width", c.Width, "grid width (overrides --size)")
	fs.IntVar(&c.Height, "height", c.Height, "grid height (overrides --size)")
	fs.IntVar(&c.States, "states", c.States, "number of cell states")
	fs.IntVar(&c.States, "n", c.States, "")
	fs.IntVar(&c.Horizon, "horizon", c.Horizon, "neighbourhood radius")
	fs.StringVar(&c.RuleFile, "file", c.RuleFile, "read the rule from a map file")
	fs.StringVar(&c.RuleFile, "f", c.RuleFile, "")
	fs.StringVar(&c.Rule, "rule", c.Rule, "decimal rule identifier")
	fs.StringVar(&c.Pattern, "pattern", c.Pattern, "pattern file applied over the initial grid")
	fs.StringVar(&c.Pattern, "p", c.Pattern, "")
	fs.StringVar(&c.Sampling, "sampling", c.Sampling, "rule sampling: uniform or dirichlet")
	fs.StringVar(&c.Sampling, "r", c.Sampling, "")
	fs.BoolVar(&c.Symmetric, "symmetric", c.Symmetric, "restrict rules to the dihedral group")
	fs.StringVar(&c.Symmetry, "symmetry", c.Symmetry, "symmetry group: none, rotation or dihedral")
	fs.IntVar(&c.PaletteShift, "palette-shift", c.PaletteShift, "rotate the state colours")
	fs.IntVar(&c.PaletteShift, "rotate", c.PaletteShift, "")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 picks one from the clock)")
	fs.StringVar(&c.Init, "init", c.Init, "initial grid: random, noise or blank")
	fs.StringVar(&c.Mode, "mode", c.Mode, "stepping mode: auto, plain or tiled")
	fs.IntVar(&c.Workers, "workers", c.Workers, "tiles updated concurrently")
	fs.StringVar(&c.LogConfig, "log-config", c.LogConfig, "logging configuration")
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *gnuflag.FlagSet) {
	c.bindModel(fs)
	fs.IntVar(&c.Steps, "steps", c.Steps, "number of generations")
	fs.IntVar(&c.Steps, "t", c.Steps, "")
	fs.IntVar(&c.Skip, "skip", c.Skip, "keep every skip-th generation")
	fs.IntVar(&c.Skip, "k", c.Skip, "")
	fs.IntVar(&c.Delay, "delay", c.Delay, "frame delay in hundredths of a second")
	fs.StringVar(&c.Transform, "transform", c.Transform, "frame transform: none, rot90, rot180, rot270, flipx or flipy")
	fs.StringVar(&c.Out, "out", c.Out, "output GIF, - for standard output")
	fs.StringVar(&c.Out, "o", c.Out, "")
	fs.StringVar(&c.SaveRule, "save-rule", c.SaveRule, "write the rule to this map file")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell (0 picks from the grid size)")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "YAML run file; flags override its values")
}

// LoadFile reads a YAML run file over the current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Trace(err)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return errors.Annotatef(core.ErrInvalidConfiguration, "run file %s: %v", path, err)
	}
	return nil
}

// ParseArgs builds a Config from defaults, then the run file named by
// --config, then the remaining flags.
func ParseArgs(name string, args []string) (*Config, error) {
	cfg, err := parseOnto(NewConfig(), name, args)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if cfg.ConfigFile == "" {
		return cfg, nil
	}
	file := NewConfig()
	if err := file.LoadFile(cfg.ConfigFile); err != nil {
		return nil, errors.Trace(err)
	}
	return parseOnto(file, name, args)
}

func parseOnto(cfg *Config, name string, args []string) (*Config, error) {
	fs := gnuflag.NewFlagSet(name, gnuflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	cfg.Bind(fs)
	if err := fs.Parse(true, args); err != nil {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "%v", err)
	}
	if fs.NArg() > 0 {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "unexpected arguments %q", fs.Args())
	}
	return cfg, nil
}

// ConfigureLogging applies --log-config.
func (c *Config) ConfigureLogging() error {
	if err := loggo.ConfigureLoggers(c.LogConfig); err != nil {
		return errors.Annotatef(core.ErrInvalidConfiguration, "log config %q: %v", c.LogConfig, err)
	}
	return nil
}

// Dimensions returns the grid size after applying --width and --height
// over --size.
func (c *Config) Dimensions() (int, int) {
	w, h := c.Size, c.Size
	if c.Width > 0 {
		w = c.Width
	}
	if c.Height > 0 {
		h = c.Height
	}
	return w, h
}

// Space returns the rule space the flags describe. --symmetric alone
// selects the dihedral group; --symmetry names one explicitly.
func (c *Config) Space() (rule.Space, error) {
	sym := rule.SymmetryNone
	if c.Symmetric {
		sym = rule.SymmetryDihedral
	}
	if c.Symmetry != "" {
		var err error
		if sym, err = rule.ParseSymmetry(c.Symmetry); err != nil {
			return rule.Space{}, errors.Trace(err)
		}
	}
	sp := rule.Space{States: c.States, Horizon: c.Horizon, Symmetry: sym}
	return sp, errors.Trace(sp.Validate())
}

// Setup converts the flags into a run setup. A zero seed is replaced by
// one taken from the clock and stored back into c.
func (c *Config) Setup() (sim.Setup, error) {
	sp, err := c.Space()
	if err != nil {
		return sim.Setup{}, errors.Trace(err)
	}
	dist, err := rule.ParseDistribution(c.Sampling)
	if err != nil {
		return sim.Setup{}, errors.Trace(err)
	}
	start, err := sim.ParseInit(c.Init)
	if err != nil {
		return sim.Setup{}, errors.Trace(err)
	}
	mode, err := engine.ParseMode(c.Mode)
	if err != nil {
		return sim.Setup{}, errors.Trace(err)
	}
	var id *big.Int
	if c.Rule != "" {
		if id, err = rule.ParseIdentifier(c.Rule); err != nil {
			return sim.Setup{}, errors.Trace(err)
		}
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
		logger.Infof("using seed %d", c.Seed)
	}
	w, h := c.Dimensions()
	return sim.Setup{
		Space:       sp,
		Sampling:    dist,
		RuleID:      id,
		RuleFile:    c.RuleFile,
		PatternFile: c.Pattern,
		Init:        start,
		Width:       w,
		Height:      h,
		Seed:        c.Seed,
		Engine:      engine.Options{Mode: mode, Workers: c.Workers},
	}, nil
}

// RunOptions returns the frame selection options.
func (c *Config) RunOptions() (sim.Options, error) {
	tr, err := sim.ParseTransform(c.Transform)
	if err != nil {
		return sim.Options{}, errors.Trace(err)
	}
	return sim.Options{Steps: c.Steps, Skip: c.Skip, Transform: tr}, nil
}

// OutputOptions returns the GIF encoding options.
func (c *Config) OutputOptions() output.Options {
	return output.Options{Scale: c.Scale, Delay: c.Delay, PaletteShift: c.PaletteShift}
}

// Validate checks everything that can be checked without touching files.
func (c *Config) Validate() error {
	if w, h := c.Dimensions(); w <= 0 || h <= 0 {
		return errors.Annotatef(core.ErrInvalidConfiguration, "grid size %dx%d", w, h)
	}
	if c.Steps < 0 {
		return errors.Annotatef(core.ErrInvalidConfiguration, "negative step count %d", c.Steps)
	}
	if c.Skip < 1 {
		return errors.Annotatef(core.ErrInvalidConfiguration, "skip %d (want at least 1)", c.Skip)
	}
	if c.Delay < 0 || c.Scale < 0 || c.Workers < 0 {
		return errors.Annotatef(core.ErrInvalidConfiguration, "delay, scale and workers must not be negative")
	}
	if c.RuleFile != "" && c.Rule != "" {
		return errors.Annotatef(core.ErrInvalidConfiguration, "--file and --rule are exclusive")
	}
	if c.Out == "" {
		return errors.Annotatef(core.ErrInvalidConfiguration, "no output path")
	}
	if _, err := c.Space(); err != nil {
		return errors.Trace(err)
	}
	if _, err := rule.ParseDistribution(c.Sampling); err != nil {
		return errors.Trace(err)
	}
	if _, err := sim.ParseInit(c.Init); err != nil {
		return errors.Trace(err)
	}
	if _, err := engine.ParseMode(c.Mode); err != nil {
		return errors.Trace(err)
	}
	if _, err := c.RunOptions(); err != nil {
		return errors.Trace(err)
	}
	if c.Rule != "" {
		if _, err := rule.ParseIdentifier(c.Rule); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func (c *Config) String() string {
	w, h := c.Dimensions()
	return fmt.Sprintf("%dx%d states=%d horizon=%d steps=%d skip=%d seed=%d", w, h, c.States, c.Horizon, c.Steps, c.Skip, c.Seed)
}
