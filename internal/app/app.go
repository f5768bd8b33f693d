//go:build ebiten

package app

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"caspace/internal/core"
	"caspace/internal/render"
	"caspace/internal/ui"
)

// maxBurst bounds the generations run in one frame after a stall.
const maxBurst = 8

var activityTint = color.RGBA{R: 255, G: 200, B: 60, A: 255}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	pacer   *core.Pacer

	// fallback is used for sims without their own palette.
	fallback []color.RGBA

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg *ViewerConfig) *Game {
	size := sim.Size()
	return &Game{
		sim:      sim,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(sim, cfg.Scale),
		hud:      ui.NewHUD(sim, cfg.HUDWidth),
		pacer:    core.NewPacer(cfg.TPS, maxBurst),
		fallback: render.Blend(2, cfg.PaletteShift),
		scale:    cfg.Scale,
		hudWidth: cfg.HUDWidth,
		seed:     cfg.Seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.overlay.Forget()
	g.tickOnce = false
	logger.Infof("reset %s with seed %d", g.sim.Name(), seed)
}

// resample draws a new rule when the sim supports it.
func (g *Game) resample() {
	r, ok := g.sim.(core.Resampler)
	if !ok {
		logger.Infof("%s has a fixed rule", g.sim.Name())
		return
	}
	if err := r.Resample(time.Now().UnixNano()); err != nil {
		logger.Errorf("resample: %v", err)
		return
	}
	g.overlay.Forget()
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyU) {
		g.resample()
	}

	g.overlay.Update()
	g.hud.Update(g.viewWidth())

	// Due is consulted while paused too, so resuming does not replay the
	// time spent paused.
	n := g.pacer.Due(time.Now())
	switch {
	case g.tickOnce:
		n = 1
		g.tickOnce = false
	case g.paused:
		n = 0
	}
	for i := 0; i < n; i++ {
		g.sim.Step()
		g.overlay.Observe()
	}
	return nil
}

func (g *Game) palette() []color.RGBA {
	if p, ok := g.sim.(core.PaletteProvider); ok {
		return p.Palette()
	}
	return g.fallback
}

func (g *Game) viewWidth() int { return g.sim.Size().W * g.scale }

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	pal := g.palette()
	g.painter.Blit(screen, g.sim.Cells(), pal, g.overlay.Highlight(), activityTint, g.scale)
	g.overlay.Draw(screen, pal)
	g.hud.Draw(screen, g.viewWidth(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
