package metrics

import (
	"math"

	"popsim/internal/popdyn"
)

// MeanAbundance tracks the average total abundance across all species and
// observed macro steps.
type MeanAbundance struct {
	samples int
	sum     float64
}

func NewMeanAbundance() *MeanAbundance { return &MeanAbundance{} }

func (m *MeanAbundance) Name() string { return "mean_abundance" }

func (m *MeanAbundance) Observe(step int, abundance []float64) {
	for _, v := range abundance {
		m.sum += v
		m.samples++
	}
}

func (m *MeanAbundance) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanAbundance) Reset() {
	m.sum = 0
	m.samples = 0
}

// GrowthSpread tracks the standard deviation of log step-to-step growth
// rates pooled over all species. Non-positive abundances are skipped rather
// than poisoning the statistic; the aggregator's growth-rate path is the one
// that hard-fails on those.
type GrowthSpread struct {
	prev    []float64
	samples int
	sum     float64
	sumSq   float64
}

func NewGrowthSpread() *GrowthSpread { return &GrowthSpread{} }

func (g *GrowthSpread) Name() string { return "growth_spread" }

func (g *GrowthSpread) Observe(step int, abundance []float64) {
	if g.prev != nil && len(g.prev) == len(abundance) {
		for i, v := range abundance {
			if v <= 0 || g.prev[i] <= 0 {
				continue
			}
			r := math.Log(v / g.prev[i])
			g.sum += r
			g.sumSq += r * r
			g.samples++
		}
	}
	if g.prev == nil {
		g.prev = make([]float64, len(abundance))
	}
	copy(g.prev, abundance)
}

func (g *GrowthSpread) Value() float64 {
	if g.samples < 2 {
		return 0
	}
	n := float64(g.samples)
	variance := g.sumSq/n - (g.sum/n)*(g.sum/n)
	if variance < 0 {
		return 0
	}
	return math.Sqrt(variance)
}

func (g *GrowthSpread) Reset() {
	g.prev = nil
	g.sum = 0
	g.sumSq = 0
	g.samples = 0
}

var (
	_ popdyn.Metric = (*MeanAbundance)(nil)
	_ popdyn.Metric = (*GrowthSpread)(nil)
)
