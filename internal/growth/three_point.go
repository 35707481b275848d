package growth

import (
	"fmt"
	"math"
	"math/rand"

	"popsim/internal/popdyn"
)

const (
	factorDown = 0.5
	factorUp   = 2.0
)

// ThreePoint samples from the discrete three-point factor set {1/2, 1, 2}.
// The down probability is configured; the up probability follows from the
// tail exponent so that E[g^α] = 1.
type ThreePoint struct {
	rng   *rand.Rand
	pDown float64
	pUp   float64
	pStay float64
}

func NewThreePoint(alpha, pDown float64, seed int64) (*ThreePoint, error) {
	if alpha <= 0 {
		return nil, fmt.Errorf("three-point: alpha %g must be positive: %w", alpha, popdyn.ErrInvalidParameter)
	}
	if pDown < 0 || pDown > 1 {
		return nil, fmt.Errorf("three-point: p_down %g outside [0,1]: %w", pDown, popdyn.ErrInvalidParameter)
	}
	pUp := pDown * (1 - math.Pow(2, -alpha)) / (math.Pow(2, alpha) - 1)
	pStay := 1 - pDown - pUp
	if pUp < 0 || pStay < 0 {
		return nil, fmt.Errorf("three-point: p_down %g infeasible for alpha %g (p_up %g, p_stay %g): %w",
			pDown, alpha, pUp, pStay, popdyn.ErrInvalidParameter)
	}
	return &ThreePoint{
		rng:   rand.New(rand.NewSource(seed)),
		pDown: pDown,
		pUp:   pUp,
		pStay: pStay,
	}, nil
}

func (t *ThreePoint) Name() string { return "three_point" }

// Probabilities returns (down, stay, up).
func (t *ThreePoint) Probabilities() (float64, float64, float64) {
	return t.pDown, t.pStay, t.pUp
}

func (t *ThreePoint) Sample(dst []float64) {
	for i := range dst {
		u := t.rng.Float64()
		switch {
		case u < t.pDown:
			dst[i] = factorDown
		case u < t.pDown+t.pUp:
			dst[i] = factorUp
		default:
			dst[i] = 1.0
		}
	}
}
