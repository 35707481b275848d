package growth_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"popsim/internal/growth"
	"popsim/internal/popdyn"
)

var _ = Describe("ThreePoint", func() {
	It("keeps the probabilities on the simplex", func() {
		for _, tc := range []struct{ alpha, pDown float64 }{
			{0.5, 0.1}, {0.7, 0.2}, {1.0, 0.3}, {1.5, 0.4}, {2.0, 0.2},
		} {
			s, err := growth.NewThreePoint(tc.alpha, tc.pDown, 1)
			Expect(err).NotTo(HaveOccurred(), "alpha=%g p_down=%g", tc.alpha, tc.pDown)

			down, stay, up := s.Probabilities()
			Expect(down).To(BeNumerically(">=", 0))
			Expect(stay).To(BeNumerically(">=", 0))
			Expect(up).To(BeNumerically(">=", 0))
			Expect(down + stay + up).To(BeNumerically("~", 1, 1e-12))
		}
	})

	It("satisfies the moment constraint E[g^a] = 1", func() {
		alpha, pDown := 0.7, 0.2
		s, err := growth.NewThreePoint(alpha, pDown, 1)
		Expect(err).NotTo(HaveOccurred())

		down, stay, up := s.Probabilities()
		moment := down*math.Pow(0.5, alpha) + stay + up*math.Pow(2, alpha)
		Expect(moment).To(BeNumerically("~", 1, 1e-12))
	})

	It("rejects infeasible p_down for the given alpha", func() {
		// high p_down with small alpha leaves no mass for p_stay
		_, err := growth.NewThreePoint(0.1, 0.9, 1)
		Expect(errors.Is(err, popdyn.ErrInvalidParameter)).To(BeTrue(), "got %v", err)
	})

	It("rejects non-positive alpha", func() {
		_, err := growth.NewThreePoint(0, 0.2, 1)
		Expect(errors.Is(err, popdyn.ErrInvalidParameter)).To(BeTrue())
	})

	It("only emits the three configured factors", func() {
		s, err := growth.NewThreePoint(0.7, 0.2, 42)
		Expect(err).NotTo(HaveOccurred())

		draws := make([]float64, 1000)
		s.Sample(draws)
		for _, g := range draws {
			Expect(g).To(Or(Equal(0.5), Equal(1.0), Equal(2.0)))
		}
	})
})

var _ = Describe("Binary", func() {
	It("satisfies (g0^a + g1^a)/2 = 1 across gamma and alpha", func() {
		for _, alpha := range []float64{0.3, 0.7, 1.0, 2.0} {
			for _, gamma := range []float64{0.25, 0.5, 2, 4, 16} {
				s, err := growth.NewBinary(alpha, gamma, 1)
				Expect(err).NotTo(HaveOccurred(), "alpha=%g gamma=%g", alpha, gamma)

				g0, g1 := s.Factors()
				Expect(g1).To(BeNumerically("~", gamma*g0, 1e-12))
				moment := 0.5 * (math.Pow(g0, alpha) + math.Pow(g1, alpha))
				Expect(moment).To(BeNumerically("~", 1, 1e-12))
			}
		}
	})

	It("rejects non-positive gamma and alpha", func() {
		_, err := growth.NewBinary(0.7, 0, 1)
		Expect(errors.Is(err, popdyn.ErrInvalidParameter)).To(BeTrue())

		_, err = growth.NewBinary(-1, 4, 1)
		Expect(errors.Is(err, popdyn.ErrInvalidParameter)).To(BeTrue())
	})
})

var _ = Describe("LogUniform", func() {
	It("solves bounds that satisfy the moment equation", func() {
		for _, tc := range []struct{ alpha, skew float64 }{
			{0.5, -0.01}, {1.0, -0.01}, {1.0, -0.1}, {2.0, -0.05},
		} {
			s, err := growth.NewLogUniform(tc.alpha, tc.skew, 1)
			Expect(err).NotTo(HaveOccurred(), "alpha=%g skew=%g", tc.alpha, tc.skew)

			gMin, gMax := s.Bounds()
			Expect(gMin).To(BeNumerically(">", 0))
			Expect(gMax).To(BeNumerically(">", gMin))

			// E[g^a] over log-uniform [lo, hi] is (gMax^a - gMin^a)/((hi-lo)·a)
			lo, hi := math.Log(gMin), math.Log(gMax)
			moment := (math.Pow(gMax, tc.alpha) - math.Pow(gMin, tc.alpha)) / ((hi - lo) * tc.alpha)
			Expect(moment).To(BeNumerically("~", 1, 1e-9))
		}
	})

	It("keeps draws inside the solved bounds", func() {
		s, err := growth.NewLogUniform(1.0, -0.02, 7)
		Expect(err).NotTo(HaveOccurred())

		gMin, gMax := s.Bounds()
		draws := make([]float64, 1000)
		s.Sample(draws)
		for _, g := range draws {
			Expect(g).To(BeNumerically(">=", gMin))
			Expect(g).To(BeNumerically("<=", gMax))
		}
	})

	It("rejects a non-negative skew offset", func() {
		_, err := growth.NewLogUniform(1.0, 0, 1)
		Expect(errors.Is(err, popdyn.ErrInvalidParameter)).To(BeTrue())

		_, err = growth.NewLogUniform(1.0, 0.01, 1)
		Expect(errors.Is(err, popdyn.ErrInvalidParameter)).To(BeTrue())
	})
})

var _ = Describe("determinism", func() {
	It("replays the identical draw sequence for the same seed", func() {
		build := func() []float64 {
			s, err := growth.NewThreePoint(0.7, 0.2, 42)
			Expect(err).NotTo(HaveOccurred())
			draws := make([]float64, 500)
			s.Sample(draws[:200])
			s.Sample(draws[200:])
			return draws
		}
		Expect(build()).To(Equal(build()))
	})

	It("diverges across different seeds", func() {
		a, _ := growth.NewThreePoint(0.7, 0.2, 1)
		b, _ := growth.NewThreePoint(0.7, 0.2, 2)
		da := make([]float64, 200)
		db := make([]float64, 200)
		a.Sample(da)
		b.Sample(db)
		Expect(da).NotTo(Equal(db))
	})
})
