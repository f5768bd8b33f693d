package sim

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"caspace/internal/core"
	"caspace/internal/engine"
	"caspace/internal/rule"
)

func newAutomaton(c *qt.C, w, h int) *engine.Automaton {
	p, err := Build(Setup{
		Space:  rule.Space{States: 3, Horizon: 1},
		Width:  w,
		Height: h,
		Seed:   42,
	})
	c.Assert(err, qt.IsNil)
	return p.Automaton
}

func generations(frames []Frame) []int {
	out := make([]int, len(frames))
	for i, f := range frames {
		out[i] = f.Generation
	}
	return out
}

func TestRunEmitsEverySkip(t *testing.T) {
	c := qt.New(t)
	a := newAutomaton(c, 16, 16)
	f, err := Run(a, Options{Steps: 30, Skip: 10})
	c.Assert(err, qt.IsNil)
	c.Assert(f.Count(), qt.Equals, 4)
	frames := Collect(f)
	c.Assert(generations(frames), qt.DeepEquals, []int{0, 10, 20, 30})
	c.Assert(a.Generation(), qt.Equals, 30)
	c.Assert(f.Next(), qt.IsFalse)
}

func TestRunFinishesRemainingSteps(t *testing.T) {
	c := qt.New(t)
	a := newAutomaton(c, 16, 16)
	f, err := Run(a, Options{Steps: 25, Skip: 10})
	c.Assert(err, qt.IsNil)
	c.Assert(generations(Collect(f)), qt.DeepEquals, []int{0, 10, 20})
	c.Assert(a.Generation(), qt.Equals, 25)
}

func TestRunZeroSteps(t *testing.T) {
	c := qt.New(t)
	a := newAutomaton(c, 8, 8)
	f, err := Run(a, Options{Steps: 0, Skip: 1})
	c.Assert(err, qt.IsNil)
	frames := Collect(f)
	c.Assert(frames, qt.HasLen, 1)
	c.Assert(frames[0].Grid.Equal(a.Grid()), qt.IsTrue)
}

func TestFramesAreSnapshots(t *testing.T) {
	c := qt.New(t)
	a := newAutomaton(c, 16, 16)
	f, err := Run(a, Options{Steps: 3, Skip: 1})
	c.Assert(err, qt.IsNil)
	frames := Collect(f)
	c.Assert(frames, qt.HasLen, 4)

	replay := newAutomaton(c, 16, 16)
	for i, fr := range frames {
		c.Assert(fr.Grid.Equal(replay.Grid()), qt.IsTrue, qt.Commentf("generation %d", i))
		replay.Step()
	}
}

func TestRunRejects(t *testing.T) {
	c := qt.New(t)
	a := newAutomaton(c, 16, 8)
	_, err := Run(a, Options{Steps: 10, Skip: 0})
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
	_, err = Run(a, Options{Steps: -1, Skip: 1})
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
	_, err = Run(a, Options{Steps: 1, Skip: 1, Transform: TransformRot90})
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
	_, err = Run(a, Options{Steps: 1, Skip: 1, Transform: TransformFlipY})
	c.Assert(err, qt.IsNil)
	_, err = Run(nil, Options{Skip: 1})
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
}

func TestTransforms(t *testing.T) {
	c := qt.New(t)
	src, err := core.NewGrid(3, 3, 9)
	c.Assert(err, qt.IsNil)
	// 0 1 2
	// 3 4 5
	// 6 7 8
	for i := range src.Cells() {
		src.Cells()[i] = uint8(i)
	}
	tests := []struct {
		t    Transform
		want []uint8
	}{
		{TransformNone, []uint8{0, 1, 2, 3, 4, 5, 6, 7, 8}},
		{TransformRot90, []uint8{6, 3, 0, 7, 4, 1, 8, 5, 2}},
		{TransformRot180, []uint8{8, 7, 6, 5, 4, 3, 2, 1, 0}},
		{TransformRot270, []uint8{2, 5, 8, 1, 4, 7, 0, 3, 6}},
		{TransformFlipX, []uint8{2, 1, 0, 5, 4, 3, 8, 7, 6}},
		{TransformFlipY, []uint8{6, 7, 8, 3, 4, 5, 0, 1, 2}},
	}
	for _, test := range tests {
		dst := src.Clone()
		test.t.Apply(dst, src)
		c.Check(dst.Cells(), qt.DeepEquals, test.want, qt.Commentf("%v", test.t))

		parsed, err := ParseTransform(test.t.String())
		c.Assert(err, qt.IsNil)
		c.Assert(parsed, qt.Equals, test.t)
	}
	_, err = ParseTransform("spin")
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
}

func TestTransformLeavesAutomatonAlone(t *testing.T) {
	c := qt.New(t)
	a := newAutomaton(c, 16, 16)
	plain := newAutomaton(c, 16, 16)
	f, err := Run(a, Options{Steps: 4, Skip: 2, Transform: TransformRot180})
	c.Assert(err, qt.IsNil)
	Collect(f)
	plain.StepN(4)
	c.Assert(a.Grid().Equal(plain.Grid()), qt.IsTrue)
}

func TestBuildIsReproducible(t *testing.T) {
	c := qt.New(t)
	s := Setup{Space: rule.Space{States: 4, Horizon: 1, Symmetry: rule.SymmetryDihedral}, Sampling: rule.Dirichlet, Width: 20, Height: 12, Seed: 7}
	a, err := Build(s)
	c.Assert(err, qt.IsNil)
	b, err := Build(s)
	c.Assert(err, qt.IsNil)
	c.Assert(a.Sampled, qt.IsTrue)
	c.Assert(a.Table.Equal(b.Table), qt.IsTrue)
	c.Assert(a.Automaton.Grid().Equal(b.Automaton.Grid()), qt.IsTrue)
}

func TestBuildRuleSources(t *testing.T) {
	c := qt.New(t)
	sp := rule.Space{States: 2, Horizon: 0}
	p, err := Build(Setup{Space: sp, RuleID: big.NewInt(2), Width: 4, Height: 4, Init: InitBlank})
	c.Assert(err, qt.IsNil)
	c.Assert(p.Sampled, qt.IsFalse)
	c.Assert(p.Table.Entries(), qt.DeepEquals, []uint8{0, 1})

	path := filepath.Join(c.TempDir(), "id.map")
	c.Assert(rule.WriteMapFile(path, p.Table), qt.IsNil)
	q, err := Build(Setup{Space: sp, RuleFile: path, Width: 4, Height: 4})
	c.Assert(err, qt.IsNil)
	c.Assert(q.Table.Equal(p.Table), qt.IsTrue)

	_, err = Build(Setup{Space: sp, RuleFile: path, RuleID: big.NewInt(1), Width: 4, Height: 4})
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
	_, err = Build(Setup{Space: sp, RuleID: big.NewInt(99), Width: 4, Height: 4})
	c.Assert(err, qt.ErrorIs, core.ErrInvalidRule)
	_, err = Build(Setup{Space: sp, Width: 100, Height: 4, Engine: engine.Options{Mode: engine.ModeTiled}})
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
}

func TestSeedModes(t *testing.T) {
	c := qt.New(t)
	for _, mode := range []Init{InitRandom, InitNoise, InitBlank} {
		g, err := core.NewGrid(32, 32, 3)
		c.Assert(err, qt.IsNil)
		c.Assert(Seed(g, Setup{Init: mode, Seed: 5}), qt.IsNil)
		hist := make([]int, 3)
		for _, v := range g.Cells() {
			c.Assert(int(v) < 3, qt.IsTrue)
			hist[v]++
		}
		if mode == InitBlank {
			c.Assert(hist[0], qt.Equals, 32*32)
		} else {
			c.Assert(hist[0] < 32*32, qt.IsTrue, qt.Commentf("%v", mode))
		}
		parsed, err := ParseInit(mode.String())
		c.Assert(err, qt.IsNil)
		c.Assert(parsed, qt.Equals, mode)
	}
}

func TestSeedPattern(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	good := filepath.Join(dir, "dot.pat")
	c.Assert(os.WriteFile(good, []byte("BG=0\n#\n1\n#\n"), 0o644), qt.IsNil)
	g, err := core.NewGrid(5, 5, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(Seed(g, Setup{PatternFile: good, Seed: 1}), qt.IsNil)
	c.Assert(g.At(2, 2), qt.Equals, uint8(1))
	c.Assert(g.At(0, 0), qt.Equals, uint8(0))

	wide := filepath.Join(dir, "wide.pat")
	c.Assert(os.WriteFile(wide, []byte("#\n1111111\n#\n"), 0o644), qt.IsNil)
	c.Assert(Seed(g, Setup{PatternFile: wide}), qt.ErrorIs, core.ErrPatternOutOfBounds)
}
