package growth

import (
	"fmt"
	"math"
	"math/rand"

	"popsim/internal/popdyn"
)

const (
	rootTolerance = 1e-12
	maxBracket    = 64
	maxBisect     = 200
)

// LogUniform samples factors uniformly in log-space over [−b+e, b+e], where
// the half-width b is solved numerically so that E[g^α] = 1. The skew offset
// e must be negative; a non-negative offset leaves the moment equation
// without a positive root.
type LogUniform struct {
	rng  *rand.Rand
	low  float64 // log-space lower bound
	high float64 // log-space upper bound
}

func NewLogUniform(alpha, skew float64, seed int64) (*LogUniform, error) {
	if alpha <= 0 {
		return nil, fmt.Errorf("log-uniform: alpha %g must be positive: %w", alpha, popdyn.ErrInvalidParameter)
	}
	if skew >= 0 {
		return nil, fmt.Errorf("log-uniform: skew %g must be negative: %w", skew, popdyn.ErrInvalidParameter)
	}
	b, err := solveHalfWidth(alpha, skew)
	if err != nil {
		return nil, err
	}
	return &LogUniform{
		rng:  rand.New(rand.NewSource(seed)),
		low:  -b + skew,
		high: b + skew,
	}, nil
}

func (l *LogUniform) Name() string { return "log_uniform" }

// Bounds returns the factor-space interval [g_min, g_max].
func (l *LogUniform) Bounds() (float64, float64) {
	return math.Exp(l.low), math.Exp(l.high)
}

func (l *LogUniform) Sample(dst []float64) {
	span := l.high - l.low
	for i := range dst {
		dst[i] = math.Exp(l.low + span*l.rng.Float64())
	}
}

// solveHalfWidth finds b > 0 with
//
//	(e^{(b+e)α} − e^{(−b+e)α}) / (2bα) = 1
//
// by bracketing and bisection. The left side tends to e^{eα} < 1 as b → 0
// and grows without bound, so for negative e exactly one root exists.
func solveHalfWidth(alpha, skew float64) (float64, error) {
	f := func(b float64) float64 {
		return (math.Exp((b+skew)*alpha)-math.Exp((-b+skew)*alpha))/(2*b*alpha) - 1
	}

	lo, hi := rootTolerance, 1.0
	bracket := 0
	for ; f(hi) < 0; bracket++ {
		if bracket == maxBracket {
			return 0, fmt.Errorf("log-uniform: no bracket for alpha %g skew %g after %d doublings: %w",
				alpha, skew, maxBracket, popdyn.ErrNumericDivergence)
		}
		lo = hi
		hi *= 2
	}

	for i := 0; i < maxBisect; i++ {
		mid := 0.5 * (lo + hi)
		if hi-lo < rootTolerance {
			return mid, nil
		}
		if f(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0, fmt.Errorf("log-uniform: bisection for alpha %g skew %g stalled at width %g: %w",
		alpha, skew, hi-lo, popdyn.ErrNumericDivergence)
}
