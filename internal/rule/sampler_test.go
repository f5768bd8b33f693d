package rule

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"caspace/internal/core"
	pcore "caspace/pkg/core"
)

func TestSampleDeterministic(t *testing.T) {
	c := qt.New(t)
	sp := Space{States: 3, Horizon: 1}
	for _, dist := range []Distribution{Uniform, Dirichlet} {
		a, err := Sample(sp, dist, pcore.NewRNG(5, pcore.StreamRule).Source())
		c.Assert(err, qt.IsNil)
		b, err := Sample(sp, dist, pcore.NewRNG(5, pcore.StreamRule).Source())
		c.Assert(err, qt.IsNil)
		c.Check(a.Equal(b), qt.IsTrue, qt.Commentf("%v", dist))

		other, err := Sample(sp, dist, pcore.NewRNG(6, pcore.StreamRule).Source())
		c.Assert(err, qt.IsNil)
		c.Check(a.Equal(other), qt.IsFalse, qt.Commentf("%v", dist))
	}
}

func TestSampleRespectsSymmetry(t *testing.T) {
	c := qt.New(t)
	rng := pcore.NewRNG(9, pcore.StreamRule).Source()
	for _, sym := range []Symmetry{SymmetryRotation, SymmetryDihedral} {
		for _, dist := range []Distribution{Uniform, Dirichlet} {
			sp := Space{States: 3, Horizon: 1, Symmetry: sym}
			tbl, err := Sample(sp, dist, rng)
			c.Assert(err, qt.IsNil)
			c.Check(tbl.IsSymmetric(sym), qt.IsTrue)
			c.Check(tbl.IsSymmetric(SymmetryRotation), qt.IsTrue)
			for _, e := range tbl.Entries() {
				c.Assert(int(e) < sp.States, qt.IsTrue)
			}
		}
	}
}

func TestUniformSampleIsUsuallyAsymmetric(t *testing.T) {
	c := qt.New(t)
	tbl, err := Sample(Space{States: 2, Horizon: 1}, Uniform, pcore.NewRNG(1, pcore.StreamRule).Source())
	c.Assert(err, qt.IsNil)
	c.Assert(tbl.IsSymmetric(SymmetryRotation), qt.IsFalse)
}

func TestDirichletLowersEntropy(t *testing.T) {
	c := qt.New(t)
	sp := Space{States: 4, Horizon: 1}
	rng := pcore.NewRNG(3, pcore.StreamRule).Source()
	const samples = 50
	var uniform, dirichlet float64
	for i := 0; i < samples; i++ {
		u, err := Sample(sp, Uniform, rng)
		c.Assert(err, qt.IsNil)
		uniform += u.Entropy()
		d, err := Sample(sp, Dirichlet, rng)
		c.Assert(err, qt.IsNil)
		dirichlet += d.Entropy()
	}
	uniform /= samples
	dirichlet /= samples
	c.Logf("mean entropy: uniform %.3f, dirichlet %.3f", uniform, dirichlet)
	c.Assert(uniform > 1.99, qt.IsTrue)
	c.Assert(dirichlet < uniform-0.5, qt.IsTrue)
}

func TestSampleRejects(t *testing.T) {
	c := qt.New(t)
	rng := pcore.NewRNG(1, pcore.StreamRule).Source()
	_, err := Sample(Space{States: 1}, Uniform, rng)
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
	_, err = Sample(Space{States: 2}, Distribution(7), rng)
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
}

func TestParseDistribution(t *testing.T) {
	c := qt.New(t)
	d, err := ParseDistribution("Dirichlet")
	c.Assert(err, qt.IsNil)
	c.Assert(d, qt.Equals, Dirichlet)
	d, err = ParseDistribution("uniform")
	c.Assert(err, qt.IsNil)
	c.Assert(d, qt.Equals, Uniform)
	_, err = ParseDistribution("beta")
	c.Assert(err, qt.ErrorIs, core.ErrInvalidConfiguration)
}

func TestDegenerate(t *testing.T) {
	c := qt.New(t)
	i, ok := degenerate([]float64{0, 0, 1})
	c.Assert(ok, qt.IsTrue)
	c.Assert(i, qt.Equals, 2)
	_, ok = degenerate([]float64{0.5, 0, 0.5})
	c.Assert(ok, qt.IsFalse)
}
