package core

import (
	"testing"
	"time"
)

func TestPacerDue(t *testing.T) {
	p := NewPacer(10, 5)
	start := time.Unix(100, 0)
	if got := p.Due(start); got != 1 {
		t.Fatalf("first call = %d, want 1", got)
	}
	if got := p.Due(start.Add(50 * time.Millisecond)); got != 0 {
		t.Fatalf("after 50ms = %d, want 0", got)
	}
	if got := p.Due(start.Add(250 * time.Millisecond)); got != 2 {
		t.Fatalf("after 250ms = %d, want 2", got)
	}
	if got := p.Due(start.Add(10 * time.Second)); got != 5 {
		t.Fatalf("after stall = %d, want burst cap 5", got)
	}
}
