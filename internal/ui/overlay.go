//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"caspace/internal/core"
)

const activityDecay = 24

// Overlay draws optional diagnostics on top of the grid. Key 1 toggles the
// activity highlight and key 2 the state histogram.
type Overlay struct {
	sim      core.Sim
	scale    int
	activity *Activity

	showActivity  bool
	showHistogram bool

	counts []int
	pixel  *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	size := sim.Size()
	o := &Overlay{sim: sim, scale: max(scale, 1), activity: NewActivity(size.W*size.H, activityDecay)}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showActivity = !o.showActivity
		o.activity.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showHistogram = !o.showHistogram
	}
}

// Observe records a generation. It is cheap when the overlay is hidden.
func (o *Overlay) Observe() {
	if o.showActivity {
		o.activity.Observe(o.sim.Cells())
	}
}

// Forget drops activity history, for instance after a reset.
func (o *Overlay) Forget() { o.activity.Reset() }

// Highlight returns the weights to tint cells by, or nil when hidden.
func (o *Overlay) Highlight() []uint8 {
	if !o.showActivity {
		return nil
	}
	return o.activity.Heat()
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image, palette []color.RGBA) {
	if o.showActivity {
		msg := fmt.Sprintf("activity %.1f%%", 100*o.activity.Level())
		text.Draw(screen, msg, basicfont.Face7x13, 6, 16, color.RGBA{R: 255, G: 210, B: 80, A: 255})
	}
	if o.showHistogram {
		o.drawHistogram(screen, palette)
	}
}

// drawHistogram draws one bar per state along the bottom edge, scaled to
// the most frequent state.
func (o *Overlay) drawHistogram(screen *ebiten.Image, palette []color.RGBA) {
	if len(palette) == 0 {
		return
	}
	if len(o.counts) != len(palette) {
		o.counts = make([]int, len(palette))
	}
	clear(o.counts)
	for _, v := range o.sim.Cells() {
		if int(v) < len(o.counts) {
			o.counts[v]++
		}
	}
	top := 0
	for _, n := range o.counts {
		top = max(top, n)
	}
	if top == 0 {
		return
	}

	const (
		barWidth  = 10
		barGap    = 2
		maxHeight = 60.0
		margin    = 6
	)
	bottom := float64(o.sim.Size().H*o.scale - margin)
	o.drawRect(screen, margin-2, bottom-maxHeight-2, float64(len(palette)*(barWidth+barGap)+2), maxHeight+4, color.RGBA{A: 160})
	for s, n := range o.counts {
		h := maxHeight * float64(n) / float64(top)
		x := float64(margin + s*(barWidth+barGap))
		o.drawRect(screen, x, bottom-h, barWidth, h, palette[s])
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
