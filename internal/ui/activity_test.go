package ui

import "testing"

func TestActivityDecays(t *testing.T) {
	a := NewActivity(3, 100)
	a.Observe([]uint8{0, 0, 0})
	if a.Level() != 0 {
		t.Fatalf("first observation produced heat %v", a.Heat())
	}
	a.Observe([]uint8{1, 0, 0})
	if got := a.Heat(); got[0] != 255 || got[1] != 0 {
		t.Fatalf("heat after change = %v", got)
	}
	if got := a.Level(); got < 0.33 || got > 0.34 {
		t.Fatalf("Level = %v, want 1/3", got)
	}
	want := []uint8{155, 55, 0}
	for _, w := range want {
		a.Observe([]uint8{1, 0, 0})
		if got := a.Heat()[0]; got != w {
			t.Fatalf("heat = %d, want %d", got, w)
		}
	}
}

func TestActivityReset(t *testing.T) {
	a := NewActivity(2, 0)
	if a.Decay != 1 {
		t.Fatalf("zero decay not raised to 1")
	}
	a.Observe([]uint8{0, 1})
	a.Observe([]uint8{1, 1})
	a.Reset()
	if a.Heat()[0] != 0 {
		t.Fatalf("Reset kept heat")
	}
	a.Observe([]uint8{0, 0})
	if a.Level() != 0 {
		t.Fatalf("observation after Reset compared against old grid")
	}
}

func TestActivityIgnoresWrongSize(t *testing.T) {
	a := NewActivity(2, 10)
	a.Observe([]uint8{1})
	a.Observe([]uint8{1, 1, 1})
	if a.prev != nil {
		t.Fatalf("mismatched grid recorded")
	}
}
