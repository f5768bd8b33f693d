// Package output encodes frame sequences as animated GIFs.
package output

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"caspace/internal/core"
	"caspace/internal/render"
	"caspace/internal/sim"
)

var logger = loggo.GetLogger("caspace.output")

// Options control how frames are drawn.
type Options struct {
	// Scale is the pixel edge length of one cell. Zero picks DefaultScale.
	Scale int
	// Delay is the time each frame is shown, in hundredths of a second.
	Delay int
	// PaletteShift rotates the state colours.
	PaletteShift int
}

// DefaultScale picks a cell size that keeps images of large grids
// manageable.
func DefaultScale(w, h int) int {
	switch size := max(w, h); {
	case size <= 256:
		return 4
	case size <= 512:
		return 3
	}
	return 2
}

// GIFWriter collects frames and writes a looping GIF on Close.
type GIFWriter struct {
	w       io.Writer
	opts    Options
	palette color.Palette
	anim    gif.GIF
	width   int
	height  int
	states  int
}

// NewGIFWriter prepares a writer for frames with the given state count.
func NewGIFWriter(w io.Writer, states int, opts Options) (*GIFWriter, error) {
	if states < 2 || states > core.MaxStates {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "%d states", states)
	}
	if opts.Scale < 0 || opts.Delay < 0 {
		return nil, errors.Annotatef(core.ErrInvalidConfiguration, "scale %d, delay %d", opts.Scale, opts.Delay)
	}
	pal := make(color.Palette, states)
	for i, c := range render.Blend(states, opts.PaletteShift) {
		pal[i] = c
	}
	return &GIFWriter{
		w:       w,
		opts:    opts,
		palette: pal,
		states:  states,
		anim:    gif.GIF{LoopCount: 0},
	}, nil
}

// Add appends g as the next frame. Every frame must have the size and state
// count of the first.
func (gw *GIFWriter) Add(g *core.Grid) error {
	if g.States() != gw.states {
		return errors.Annotatef(core.ErrInvalidConfiguration, "frame has %d states, writer has %d", g.States(), gw.states)
	}
	if len(gw.anim.Image) == 0 {
		gw.width, gw.height = g.W, g.H
		if gw.opts.Scale == 0 {
			gw.opts.Scale = DefaultScale(g.W, g.H)
		}
	} else if g.W != gw.width || g.H != gw.height {
		return errors.Annotatef(core.ErrInvalidConfiguration, "frame is %dx%d, earlier frames %dx%d", g.W, g.H, gw.width, gw.height)
	}
	scale := gw.opts.Scale
	img := image.NewPaletted(image.Rect(0, 0, g.W*scale, g.H*scale), gw.palette)
	cells := g.Cells()
	for y := 0; y < img.Rect.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+img.Rect.Dx()]
		src := cells[(y/scale)*g.W : (y/scale+1)*g.W]
		for x := range row {
			row[x] = src[x/scale]
		}
	}
	gw.anim.Image = append(gw.anim.Image, img)
	gw.anim.Delay = append(gw.anim.Delay, gw.opts.Delay)
	return nil
}

// Frames returns the number of frames added so far.
func (gw *GIFWriter) Frames() int { return len(gw.anim.Image) }

// Close encodes the animation. It does not close the underlying writer.
func (gw *GIFWriter) Close() error {
	if len(gw.anim.Image) == 0 {
		return errors.Annotatef(core.ErrInvalidConfiguration, "no frames to write")
	}
	return errors.Trace(gif.EncodeAll(gw.w, &gw.anim))
}

// WriteFrames drains frames into a GIF on w and returns the frame count.
func WriteFrames(w io.Writer, frames *sim.Frames, states int, opts Options) (int, error) {
	gw, err := NewGIFWriter(w, states, opts)
	if err != nil {
		return 0, errors.Trace(err)
	}
	total := frames.Count()
	for frames.Next() {
		f := frames.Frame()
		if err := gw.Add(f.Grid); err != nil {
			return gw.Frames(), errors.Trace(err)
		}
		logger.Debugf("processing image %d/%d (generation %d)", gw.Frames(), total, f.Generation)
	}
	if err := gw.Close(); err != nil {
		return gw.Frames(), errors.Trace(err)
	}
	return gw.Frames(), nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Create opens path for writing, or standard output when path is "-".
func Create(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return f, nil
}
