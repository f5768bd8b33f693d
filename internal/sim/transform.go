package sim

import (
	"strings"

	"github.com/juju/errors"

	"caspace/internal/core"
)

// Transform is a fixed rotation or reflection applied to emitted frames.
type Transform uint8

const (
	TransformNone Transform = iota
	// TransformRot90 turns the frame a quarter turn clockwise.
	TransformRot90
	TransformRot180
	// TransformRot270 turns the frame a quarter turn counter-clockwise.
	TransformRot270
	// TransformFlipX mirrors columns.
	TransformFlipX
	// TransformFlipY mirrors rows.
	TransformFlipY
)

var transformNames = []string{"none", "rot90", "rot180", "rot270", "flipx", "flipy"}

func (t Transform) String() string {
	if int(t) < len(transformNames) {
		return transformNames[t]
	}
	return "unknown"
}

// ParseTransform parses one of none, rot90, rot180, rot270, flipx, flipy.
func ParseTransform(s string) (Transform, error) {
	for i, name := range transformNames {
		if strings.EqualFold(s, name) {
			return Transform(i), nil
		}
	}
	return TransformNone, errors.Annotatef(core.ErrInvalidConfiguration, "unknown transform %q", s)
}

// Check reports whether t applies to w×h frames.
func (t Transform) Check(w, h int) error {
	switch t {
	case TransformNone, TransformRot180, TransformFlipX, TransformFlipY:
		return nil
	case TransformRot90, TransformRot270:
		if w != h {
			return errors.Annotatef(core.ErrInvalidConfiguration, "%v needs a square grid, got %dx%d", t, w, h)
		}
		return nil
	}
	return errors.Annotatef(core.ErrInvalidConfiguration, "unknown transform %d", t)
}

// Apply writes the transformed src into dst. Both grids must have the same
// shape and must not be the same grid.
func (t Transform) Apply(dst, src *core.Grid) {
	w, h := src.W, src.H
	in, out := src.Cells(), dst.Cells()
	if t == TransformNone {
		copy(out, in)
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sx, sy int
			switch t {
			case TransformRot90:
				sx, sy = y, h-1-x
			case TransformRot180:
				sx, sy = w-1-x, h-1-y
			case TransformRot270:
				sx, sy = w-1-y, x
			case TransformFlipX:
				sx, sy = w-1-x, y
			case TransformFlipY:
				sx, sy = x, h-1-y
			}
			out[y*w+x] = in[sy*w+sx]
		}
	}
}
