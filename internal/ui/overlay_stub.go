//go:build !ebiten

package ui

import (
	"image/color"

	"caspace/internal/core"
)

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(core.Sim, int) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Observe is a no-op in headless builds.
func (o *Overlay) Observe() {}

// Forget is a no-op in headless builds.
func (o *Overlay) Forget() {}

// Highlight returns nil in headless builds.
func (o *Overlay) Highlight() []uint8 { return nil }

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any, []color.RGBA) {}
