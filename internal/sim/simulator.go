package sim

import (
	"context"
	"math"
	"sync/atomic"

	"popsim/internal/popdyn"
)

// Simulator evolves per-(species, site) abundance under multiplicative random
// growth with additive forcing, emitting one coarse-grained per-species
// abundance row per macro step.
type Simulator struct {
	sampler  popdyn.Sampler
	cfg      Config
	metrics  []popdyn.Metric
	progress atomic.Int64
}

func New(sampler popdyn.Sampler, cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{sampler: sampler, cfg: cfg}, nil
}

func (s *Simulator) AddMetric(m popdyn.Metric) { s.metrics = append(s.metrics, m) }

// Progress reports completed macro steps. Safe to call from another
// goroutine while Run is in flight.
func (s *Simulator) Progress() int { return int(s.progress.Load()) }

func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	return s.RunWithCallback(ctx, nil)
}

// RunWithCallback runs the full evolution, invoking cb after every macro step
// with the step index and the per-species abundance just emitted. Returning
// false from cb stops the run early without error.
//
// Each macro step draws the entire factor batch in one sequential pass
// (species-major, then site, then substep), so runs with the same seed are
// bit-identical regardless of worker count; only the per-cell arithmetic
// fans out, reading frozen state and writing a separate next buffer.
func (s *Simulator) RunWithCallback(ctx context.Context, cb func(step int, abundance []float64) bool) (*Result, error) {
	cfg := s.cfg
	cells := cfg.Species * cfg.Sites

	state := make([]float64, cells)
	next := make([]float64, cells)
	for i := range state {
		state[i] = cfg.Initial
	}
	factors := make([]float64, cells*cfg.Window)
	totals := make([]float64, cfg.Species)

	for _, m := range s.metrics {
		m.Reset()
	}
	s.progress.Store(0)

	result := &Result{
		Abundance: popdyn.NewAbundance(cfg.Species, cfg.Steps),
		Metrics:   make(map[string]float64),
	}

	for step := 0; step < cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.sampler.Sample(factors)

		forEachChunk(cfg.Workers, cfg.Species, func(lo, hi int) {
			for sp := lo; sp < hi; sp++ {
				for site := 0; site < cfg.Sites; site++ {
					cell := sp*cfg.Sites + site
					next[cell] = advanceCell(state[cell], factors[cell*cfg.Window:(cell+1)*cfg.Window], cfg.Force)
				}
			}
		})
		state, next = next, state

		for sp := 0; sp < cfg.Species; sp++ {
			sum := 0.0
			for site := 0; site < cfg.Sites; site++ {
				v := state[sp*cfg.Sites+site]
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return result, popdyn.StepError{
						Step: step,
						Cell: cellName(sp, site),
						Err:  popdyn.ErrNumericOverflow,
					}
				}
				sum += v
			}
			totals[sp] = sum
		}

		result.Abundance.Append(totals)
		result.StepsTaken++
		s.progress.Store(int64(step + 1))

		for _, m := range s.metrics {
			m.Observe(step, totals)
		}
		if cb != nil && !cb(step, totals) {
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// advanceCell applies the closed form of x_t = g_t·x_{t-1} + c over one
// coarse-graining window: old·Π(g) plus the telescoping forcing sum, plus the
// forcing of the final substep. A single backward pass yields both the full
// product and every suffix product, so the window costs O(τ) not O(τ²).
func advanceCell(old float64, window []float64, force float64) float64 {
	suffix := 1.0
	forcing := 0.0
	for k := len(window) - 1; k >= 1; k-- {
		suffix *= window[k]
		forcing += suffix
	}
	product := suffix * window[0]
	return old*product + force*forcing + force
}
