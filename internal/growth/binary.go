package growth

import (
	"fmt"
	"math"
	"math/rand"

	"popsim/internal/popdyn"
)

// Binary samples from the two-point factor set {g0, γ·g0} at probability 1/2
// each, with g0 = (2/(1+γ^α))^(1/α) so that (g0^α + g1^α)/2 = 1.
type Binary struct {
	rng *rand.Rand
	g0  float64
	g1  float64
}

func NewBinary(alpha, gamma float64, seed int64) (*Binary, error) {
	if alpha <= 0 {
		return nil, fmt.Errorf("binary: alpha %g must be positive: %w", alpha, popdyn.ErrInvalidParameter)
	}
	if gamma <= 0 {
		return nil, fmt.Errorf("binary: gamma %g must be positive: %w", gamma, popdyn.ErrInvalidParameter)
	}
	g0 := math.Pow(2/(1+math.Pow(gamma, alpha)), 1/alpha)
	return &Binary{
		rng: rand.New(rand.NewSource(seed)),
		g0:  g0,
		g1:  gamma * g0,
	}, nil
}

func (b *Binary) Name() string { return "binary" }

// Factors returns (g0, g1).
func (b *Binary) Factors() (float64, float64) { return b.g0, b.g1 }

func (b *Binary) Sample(dst []float64) {
	for i := range dst {
		if b.rng.Float64() < 0.5 {
			dst[i] = b.g0
		} else {
			dst[i] = b.g1
		}
	}
}
