package life

import "testing"

func TestBlinkerOscillation(t *testing.T) {
	life, err := New(Config{Width: 5, Height: 5})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	life.Reset(1)
	cells := life.Cells()
	for i := range cells {
		cells[i] = 0
	}

	w := life.Size().W
	set := func(x, y int) { life.Cells()[y*w+x] = 1 }
	set(2, 1)
	set(2, 2)
	set(2, 3)

	life.Step()
	cells = life.Cells()

	expects := map[[2]int]bool{
		{1, 2}: true,
		{2, 2}: true,
		{3, 2}: true,
	}

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			idx := y*w + x
			alive := cells[idx] == 1
			_, shouldBeAlive := expects[[2]int{x, y}]
			if shouldBeAlive != alive {
				t.Fatalf("cell (%d,%d) alive=%v, expected %v", x, y, alive, shouldBeAlive)
			}
		}
	}

	life.Step()
	cells = life.Cells()

	expects = map[[2]int]bool{
		{2, 1}: true,
		{2, 2}: true,
		{2, 3}: true,
	}

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			idx := y*w + x
			alive := cells[idx] == 1
			_, shouldBeAlive := expects[[2]int{x, y}]
			if shouldBeAlive != alive {
				t.Fatalf("after second step cell (%d,%d) alive=%v, expected %v", x, y, alive, shouldBeAlive)
			}
		}
	}
}

func TestTableIsSymmetric(t *testing.T) {
	tbl, err := Table()
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if got := tbl.Len(); got != 512 {
		t.Fatalf("table has %d entries, want 512", got)
	}
	// Three live neighbours in the top row give birth.
	if got := tbl.Lookup(1 + 2 + 4); got != 1 {
		t.Fatalf("birth configuration maps to %d", got)
	}
	// A lone live centre dies.
	if got := tbl.Lookup(1 << centre); got != 0 {
		t.Fatalf("isolated cell maps to %d", got)
	}
}

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{"w": "64", "h": "-1", "density": "500"})
	if c.Width != 64 || c.Height != 256 || c.Density != 100 {
		t.Fatalf("FromMap = %+v", c)
	}
}
