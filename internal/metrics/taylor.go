package metrics

import (
	"math"

	"popsim/internal/popdyn"
)

// TaylorExponent estimates the exponent of Taylor's law, var ∝ mean^b,
// by regressing log variance on log mean of each species' trajectory.
// Needs at least two species with positive variance to produce a slope.
type TaylorExponent struct {
	species int
	count   int
	sum     []float64
	sumSq   []float64
}

func NewTaylorExponent() *TaylorExponent { return &TaylorExponent{} }

func (t *TaylorExponent) Name() string { return "taylor_exponent" }

func (t *TaylorExponent) Observe(step int, abundance []float64) {
	if t.sum == nil {
		t.species = len(abundance)
		t.sum = make([]float64, t.species)
		t.sumSq = make([]float64, t.species)
	}
	if len(abundance) != t.species {
		return
	}
	for i, v := range abundance {
		t.sum[i] += v
		t.sumSq[i] += v * v
	}
	t.count++
}

func (t *TaylorExponent) Value() float64 {
	if t.count < 2 || t.species < 2 {
		return 0
	}
	n := float64(t.count)

	// least-squares slope of log10(var) against log10(mean)
	var sx, sy, sxx, sxy float64
	points := 0
	for i := 0; i < t.species; i++ {
		mean := t.sum[i] / n
		variance := t.sumSq[i]/n - mean*mean
		if mean <= 0 || variance <= 0 {
			continue
		}
		x := math.Log10(mean)
		y := math.Log10(variance)
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
		points++
	}
	if points < 2 {
		return 0
	}
	p := float64(points)
	denom := p*sxx - sx*sx
	if denom == 0 {
		return 0
	}
	return (p*sxy - sx*sy) / denom
}

func (t *TaylorExponent) Reset() {
	t.sum = nil
	t.sumSq = nil
	t.count = 0
	t.species = 0
}

var _ popdyn.Metric = (*TaylorExponent)(nil)
