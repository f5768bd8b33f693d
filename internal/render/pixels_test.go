package render

import (
	"image/color"
	"testing"
)

func TestBlendEndpoints(t *testing.T) {
	p := Blend(3, 0)
	if p[0] != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("state 0 = %v, want blue", p[0])
	}
	if p[2] != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("state 2 = %v, want white", p[2])
	}
	if p[1].R != 127 || p[1].B != 255 {
		t.Fatalf("state 1 = %v, want the midpoint", p[1])
	}
}

func TestBlendShift(t *testing.T) {
	base := Blend(4, 0)
	for _, shift := range []int{1, 5, -3} {
		got := Blend(4, shift)
		for s := range got {
			want := base[((s+shift)%4+4)%4]
			if got[s] != want {
				t.Fatalf("shift %d state %d = %v, want %v", shift, s, got[s], want)
			}
		}
	}
}

func TestFillPaletteRGBA(t *testing.T) {
	pal := []color.RGBA{{1, 2, 3, 4}, {5, 6, 7, 8}}
	buf := make([]byte, 12)
	fillPaletteRGBA(buf, []uint8{0, 1, 9}, pal)
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 5, 6, 7, 8}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf = %v, want %v", buf, want)
		}
	}

	fillPaletteRGBA(buf, []uint8{0, 1, 0}, nil)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d = %d after clearing", i, b)
		}
	}
}

func TestTintRGBA(t *testing.T) {
	buf := []byte{0, 0, 0, 255, 100, 100, 100, 255}
	tintRGBA(buf, []uint8{255, 0}, color.RGBA{R: 200, A: 255})
	if buf[0] != 200 || buf[1] != 0 || buf[3] != 255 {
		t.Fatalf("tinted pixel = %v", buf[:4])
	}
	if buf[4] != 100 {
		t.Fatalf("untinted pixel changed: %v", buf[4:])
	}
}
