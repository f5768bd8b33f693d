package render

import "image/color"

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := min(int(c), last)
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// tintRGBA blends tint over the pixels whose weight is non-zero. Weights run
// from 0 (untouched) to 255 (fully tinted).
func tintRGBA(buf []byte, weights []uint8, tint color.RGBA) {
	for i, w := range weights {
		if w == 0 {
			continue
		}
		base := i * 4
		a := uint32(w)
		buf[base+0] = uint8((uint32(buf[base+0])*(255-a) + uint32(tint.R)*a) / 255)
		buf[base+1] = uint8((uint32(buf[base+1])*(255-a) + uint32(tint.G)*a) / 255)
		buf[base+2] = uint8((uint32(buf[base+2])*(255-a) + uint32(tint.B)*a) / 255)
	}
}
