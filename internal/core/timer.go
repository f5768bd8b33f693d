package core

import "time"

// Pacer converts wall-clock time into a number of generations to advance,
// independent of the display refresh rate.
type Pacer struct {
	step     time.Duration
	pending  time.Duration
	last     time.Time
	maxBurst int
}

// NewPacer constructs a Pacer targeting gps generations per second. At most
// maxBurst generations are reported per call so a stalled frame cannot queue
// up an unbounded amount of work.
func NewPacer(gps, maxBurst int) *Pacer {
	if maxBurst <= 0 {
		maxBurst = 1
	}
	p := &Pacer{maxBurst: maxBurst}
	p.SetRate(gps)
	return p
}

// SetRate changes the generation rate. Non-positive rates fall back to 30.
func (p *Pacer) SetRate(gps int) {
	if gps <= 0 {
		gps = 30
	}
	p.step = time.Second / time.Duration(gps)
}

// Due reports how many generations should run at time now.
func (p *Pacer) Due(now time.Time) int {
	if p.last.IsZero() {
		p.last = now
		return 1
	}
	p.pending += now.Sub(p.last)
	p.last = now
	n := int(p.pending / p.step)
	if n > p.maxBurst {
		n = p.maxBurst
		p.pending = 0
		return n
	}
	p.pending -= time.Duration(n) * p.step
	return n
}
