package render

import "image/color"

var (
	paletteFrom = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	paletteTo   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Blend returns one colour per state on a straight line from blue to white.
// shift rotates which state gets which colour, so state s takes the colour
// of state (s+shift) mod states.
func Blend(states, shift int) []color.RGBA {
	if states <= 0 {
		return nil
	}
	shift = ((shift % states) + states) % states
	out := make([]color.RGBA, states)
	for s := range out {
		t := 0.0
		if states > 1 {
			t = float64((s+shift)%states) / float64(states-1)
		}
		out[s] = color.RGBA{
			R: lerp(paletteFrom.R, paletteTo.R, t),
			G: lerp(paletteFrom.G, paletteTo.G, t),
			B: lerp(paletteFrom.B, paletteTo.B, t),
			A: 255,
		}
	}
	return out
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(b)*t + float64(a)*(1-t))
}
