// Package engine advances toroidal grids by one generation under a rule
// table, either cell by cell or tile by tile.
package engine

import (
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"golang.org/x/sync/errgroup"

	"caspace/internal/core"
	"caspace/internal/rule"
)

var logger = loggo.GetLogger("caspace.engine")

// TileSize is the edge length of a tile in tiled mode.
const TileSize = 64

// Mode selects the stepping strategy.
type Mode uint8

const (
	// ModeAuto tiles when both dimensions are multiples of TileSize.
	ModeAuto Mode = iota
	// ModePlain visits every cell in row-major order.
	ModePlain
	// ModeTiled visits the grid tile by tile.
	ModeTiled
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModePlain:
		return "plain"
	case ModeTiled:
		return "tiled"
	}
	return "unknown"
}

// ParseMode parses "auto", "plain" or "tiled".
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeAuto, ModePlain, ModeTiled} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return ModeAuto, errors.Annotatef(core.ErrInvalidConfiguration, "unknown stepping mode %q", s)
}

// Options tune how a Stepper walks the grid. They never change the result.
type Options struct {
	Mode Mode
	// Workers is the number of tiles updated concurrently. Values below 2
	// update tiles sequentially. Plain mode is always sequential.
	Workers int
}

type region struct {
	x0, y0, x1, y1 int
}

// Stepper applies one rule table to grids of a fixed size.
type Stepper struct {
	table   *rule.Table
	lut     []uint8
	w, h, r int
	// offs[p] is the linear offset of window cell p from the centre, and
	// pw[p] its weight S^p in the configuration index.
	offs    []int
	pw      []int
	tiled   bool
	regions []region
	workers int
}

// New prepares a stepper for w×h grids.
func New(t *rule.Table, w, h int, opts Options) (*Stepper, error) {
	if t == nil {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "no rule table")
	}
	if w <= 0 || h <= 0 {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "grid size %dx%d", w, h)
	}
	if opts.Workers < 0 {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "%d workers", opts.Workers)
	}
	divisible := w%TileSize == 0 && h%TileSize == 0
	var tiled bool
	switch opts.Mode {
	case ModeAuto:
		tiled = divisible
	case ModePlain:
	case ModeTiled:
		if !divisible {
			return nil, errors.Annotatef(core.ErrInvalidConfiguration,
				"tiled mode needs dimensions divisible by %d, got %dx%d", TileSize, w, h)
		}
		tiled = true
	default:
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "unknown stepping mode %d", opts.Mode)
	}

	r := t.Horizon()
	s := &Stepper{
		table:   t,
		lut:     t.Entries(),
		w:       w,
		h:       h,
		r:       r,
		tiled:   tiled,
		workers: max(opts.Workers, 1),
	}
	weight := 1
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			s.offs = append(s.offs, dy*w+dx)
			s.pw = append(s.pw, weight)
			weight *= t.States()
		}
	}
	if tiled {
		for y := 0; y < h; y += TileSize {
			for x := 0; x < w; x += TileSize {
				s.regions = append(s.regions, region{x, y, x + TileSize, y + TileSize})
			}
		}
	} else {
		s.regions = []region{{0, 0, w, h}}
	}
	logger.Debugf("stepping %dx%d with %v: tiled=%v regions=%d workers=%d",
		w, h, t, tiled, len(s.regions), s.workers)
	return s, nil
}

// Table returns the rule the stepper applies.
func (s *Stepper) Table() *rule.Table { return s.table }

// Size returns the grid dimensions the stepper accepts.
func (s *Stepper) Size() core.Size { return core.Size{W: s.w, H: s.h} }

// Tiled reports whether the stepper walks the grid tile by tile.
func (s *Stepper) Tiled() bool { return s.tiled }

// Workers returns the tile concurrency limit.
func (s *Stepper) Workers() int { return s.workers }

// SetWorkers changes the tile concurrency limit. Values below 1 mean 1.
func (s *Stepper) SetWorkers(n int) { s.workers = max(n, 1) }

// Check reports whether cur and next can be stepped from and into.
func (s *Stepper) Check(cur, next *core.Grid) error {
	for _, g := range []*core.Grid{cur, next} {
		if g == nil {
			return errors.Annotatef(core.ErrInvalidConfiguration, "nil grid")
		}
		if g.W != s.w || g.H != s.h {
			return errors.Annotatef(core.ErrInvalidConfiguration, "grid is %dx%d, stepper expects %dx%d", g.W, g.H, s.w, s.h)
		}
		if g.States() != s.table.States() {
			return errors.Annotatef(core.ErrInvalidConfiguration, "grid has %d states, rule has %d", g.States(), s.table.States())
		}
	}
	if cur == next || &cur.Cells()[0] == &next.Cells()[0] {
		return errors.Annotatef(core.ErrInvalidConfiguration, "current and next generation share a buffer")
	}
	return nil
}

// Step writes the successor of cur into next. Only cur is read and every
// cell of next is written.
func (s *Stepper) Step(cur, next *core.Grid) error {
	if err := s.Check(cur, next); err != nil {
		return errors.Trace(err)
	}
	s.step(cur.Cells(), next.Cells())
	return nil
}

func (s *Stepper) step(cur, next []uint8) {
	if s.workers < 2 || len(s.regions) < 2 {
		for _, rg := range s.regions {
			s.stepRegion(cur, next, rg)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, rg := range s.regions {
		g.Go(func() error {
			s.stepRegion(cur, next, rg)
			return nil
		})
	}
	// Tiles cannot fail.
	_ = g.Wait()
}

// stepRegion updates the cells of next inside rg. Cells whose window lies
// inside the grid use precomputed linear offsets; the rest wrap.
func (s *Stepper) stepRegion(cur, next []uint8, rg region) {
	w, h, r := s.w, s.h, s.r
	for y := rg.y0; y < rg.y1; y++ {
		row := y * w
		innerY := y >= r && y < h-r
		for x := rg.x0; x < rg.x1; x++ {
			idx := 0
			if innerY && x >= r && x < w-r {
				c := row + x
				for p, off := range s.offs {
					idx += int(cur[c+off]) * s.pw[p]
				}
			} else {
				idx = s.wrappedIndex(cur, x, y)
			}
			next[row+x] = s.lut[idx]
		}
	}
}

func (s *Stepper) wrappedIndex(cur []uint8, x, y int) int {
	w, h, r := s.w, s.h, s.r
	idx, p := 0, 0
	for dy := -r; dy <= r; dy++ {
		yy := ((y+dy)%h + h) % h * w
		for dx := -r; dx <= r; dx++ {
			xx := ((x+dx)%w + w) % w
			idx += int(cur[yy+xx]) * s.pw[p]
			p++
		}
	}
	return idx
}
