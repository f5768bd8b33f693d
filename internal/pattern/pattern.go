// Package pattern loads initial cell layouts from text files.
//
// A pattern file holds optional "N=<states>" and "BG=<state>" header lines
// and a block of rows between two lines starting with '#'. Each row lists
// one state per character, '0' being state 0. Rows may differ in length.
//
//	N=3
//	BG=0
//	#
//	010
//	212
//	#
package pattern

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"caspace/internal/core"
)

var logger = loggo.GetLogger("caspace.pattern")

// Pattern is a parsed pattern file.
type Pattern struct {
	// States is the declared state count, or one more than the largest
	// state used when the file has no N line.
	States     int
	Background uint8
	Rows       [][]uint8
}

// Width returns the length of the longest row.
func (p *Pattern) Width() int {
	w := 0
	for _, r := range p.Rows {
		w = max(w, len(r))
	}
	return w
}

// Height returns the number of rows.
func (p *Pattern) Height() int { return len(p.Rows) }

// Parse reads a pattern. Malformed headers or cells give
// core.ErrInvalidConfiguration.
func Parse(r io.Reader) (*Pattern, error) {
	p := &Pattern{}
	declared := false
	inBlock := false
	top := uint8(0)
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case strings.HasPrefix(line, "#"):
			inBlock = !inBlock
		case inBlock:
			row := make([]uint8, len(line))
			for i := 0; i < len(line); i++ {
				c := line[i]
				if c < '0' {
					return nil, errors.Annotatef(core.ErrInvalidConfiguration, "line %d: %q is not a state", n, c)
				}
				row[i] = c - '0'
				top = max(top, row[i])
			}
			p.Rows = append(p.Rows, row)
		case strings.Contains(line, "="):
			key, val, _ := strings.Cut(line, "=")
			v, err := strconv.Atoi(strings.TrimSpace(val))
			switch strings.TrimSpace(key) {
			case "N":
				if err != nil || v < 2 || v > core.MaxStates {
					return nil, errors.Annotatef(core.ErrInvalidConfiguration, "line %d: bad state count %q", n, val)
				}
				p.States = v
				declared = true
			case "BG":
				if err != nil || v < 0 || v >= core.MaxStates {
					return nil, errors.Annotatef(core.ErrInvalidConfiguration, "line %d: bad background %q", n, val)
				}
				p.Background = uint8(v)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	top = max(top, p.Background)
	if !declared {
		p.States = max(int(top)+1, 2)
	} else if int(top) >= p.States {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "pattern uses state %d but declares N=%d", top, p.States)
	}
	return p, nil
}

// Load parses the pattern file at path.
func Load(path string) (*Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	p, err := Parse(f)
	if err != nil {
		return nil, errors.Annotatef(err, "pattern %s", path)
	}
	logger.Debugf("loaded %dx%d pattern with %d states from %s", p.Width(), p.Height(), p.States, path)
	return p, nil
}

// Placement positions a pattern on a grid.
type Placement struct {
	// X and Y locate the top-left row start. They are ignored when Centered
	// is set.
	X, Y     int
	Centered bool
}

// Centered places the pattern's middle at the grid's middle.
var Centered = Placement{Centered: true}

// Origin returns the grid coordinates of the pattern's first cell.
func (pl Placement) Origin(p *Pattern, g *core.Grid) (int, int) {
	if pl.Centered {
		return g.W/2 - p.Width()/2, g.H/2 - p.Height()/2
	}
	return pl.X, pl.Y
}

// Apply fills g with the background and then writes the pattern rows. Every
// cell is checked before the grid is touched: a cell outside g gives
// core.ErrPatternOutOfBounds and a state g cannot hold gives
// core.ErrInvalidConfiguration.
func (p *Pattern) Apply(g *core.Grid, pl Placement) error {
	if p.States > g.States() {
		return errors.Annotatef(core.ErrInvalidConfiguration, "pattern has %d states, grid holds %d", p.States, g.States())
	}
	if int(p.Background) >= g.States() {
		return errors.Annotatef(core.ErrInvalidConfiguration, "background %d not below %d", p.Background, g.States())
	}
	x0, y0 := pl.Origin(p, g)
	for i, row := range p.Rows {
		if len(row) == 0 {
			continue
		}
		y := y0 + i
		if y < 0 || y >= g.H || x0 < 0 || x0+len(row) > g.W {
			return errors.Annotatef(core.ErrPatternOutOfBounds,
				"row %d spans (%d,%d)-(%d,%d) on a %dx%d grid", i, x0, y, x0+len(row)-1, y, g.W, g.H)
		}
	}
	g.Fill(p.Background)
	for i, row := range p.Rows {
		for j, s := range row {
			if err := g.Set(x0+j, y0+i, s); err != nil {
				return errors.Trace(err)
			}
		}
	}
	return nil
}
