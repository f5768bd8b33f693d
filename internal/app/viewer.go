package app

import (
	"os"
	"strconv"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"caspace/internal/core"
)

// ViewerConfig holds the parameters of the interactive viewer. The rule
// and grid flags are shared with the headless renderer.
type ViewerConfig struct {
	Config
	Sim      string
	TPS      int
	HUDWidth int
}

// NewViewerConfig returns the viewer defaults.
func NewViewerConfig() *ViewerConfig {
	c := &ViewerConfig{Config: *NewConfig(), Sim: "sampled", TPS: 30, HUDWidth: 240}
	c.Size = 256
	c.States = 3
	c.Symmetric = true
	c.Scale = 3
	return c
}

// Bind attaches the viewer flags to fs.
func (c *ViewerConfig) Bind(fs *gnuflag.FlagSet) {
	c.bindModel(fs)
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.TPS, "tps", c.TPS, "generations per second")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "width of the parameter panel, 0 hides it")
}

// ParseViewerArgs parses the viewer command line.
func ParseViewerArgs(name string, args []string) (*ViewerConfig, error) {
	cfg := NewViewerConfig()
	fs := gnuflag.NewFlagSet(name, gnuflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	cfg.Bind(fs)
	if err := fs.Parse(true, args); err != nil {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "%v", err)
	}
	if fs.NArg() > 0 {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "unexpected arguments %q", fs.Args())
	}
	if cfg.Scale < 1 || cfg.TPS < 1 || cfg.HUDWidth < 0 {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "scale and tps must be positive")
	}
	return cfg, nil
}

// SimParams renders the model flags as a sim configuration map. Only
// explicitly meaningful values are included so presets keep their own
// defaults for the rest.
func (c *ViewerConfig) SimParams() (map[string]string, error) {
	sp, err := c.Space()
	if err != nil {
		return nil, errors.Trace(err)
	}
	w, h := c.Dimensions()
	params := map[string]string{
		"w":        strconv.Itoa(w),
		"h":        strconv.Itoa(h),
		"states":   strconv.Itoa(sp.States),
		"horizon":  strconv.Itoa(sp.Horizon),
		"symmetry": sp.Symmetry.String(),
		"sampling": c.Sampling,
		"init":     c.Init,
		"mode":     c.Mode,
		"workers":  strconv.Itoa(max(c.Workers, 1)),
		"seed":     strconv.FormatInt(c.Seed, 10),
	}
	for key, v := range map[string]string{"rule": c.Rule, "file": c.RuleFile, "pattern": c.Pattern} {
		if v != "" {
			params[key] = v
		}
	}
	return params, nil
}
