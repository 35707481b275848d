package sim

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"popsim/internal/popdyn"
)

// Lattice evolves a scalar per cell of an L×L torus, blending local
// multiplicative growth with diffusive coupling to the four orthogonal
// neighbors. Sweeps are synchronous: every neighbor read for step t sees
// only step t−1 values, enforced by double buffering.
type Lattice struct {
	sampler  popdyn.Sampler
	cfg      LatticeConfig
	progress atomic.Int64
}

func NewLattice(sampler popdyn.Sampler, cfg LatticeConfig) (*Lattice, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Lattice{sampler: sampler, cfg: cfg}, nil
}

// Progress reports completed sweeps. Safe to call concurrently with Run.
func (l *Lattice) Progress() int { return int(l.progress.Load()) }

func (l *Lattice) Run(ctx context.Context) (*LatticeResult, error) {
	cfg := l.cfg
	n := cfg.Size
	d := cfg.Diffusion
	retain := 1 - 4*d

	cur := make([]float64, n*n)
	nxt := make([]float64, n*n)
	if len(cfg.State) > 0 {
		copy(cur, cfg.State)
	} else {
		for i := range cur {
			cur[i] = cfg.Initial
		}
	}
	factors := make([]float64, n*n)

	l.progress.Store(0)
	result := &LatticeResult{
		Total:  popdyn.NewAbundance(1, cfg.Steps),
		Frames: make([][]float64, 0, cfg.Steps),
	}

	for step := 0; step < cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		// one draw per cell per sweep; no substep decomposition here
		l.sampler.Sample(factors)

		for i := 0; i < n; i++ {
			up := ((i - 1 + n) % n) * n
			down := ((i + 1) % n) * n
			row := i * n
			for j := 0; j < n; j++ {
				left := (j - 1 + n) % n
				right := (j + 1) % n
				blend := retain*cur[row+j] + d*(cur[up+j]+cur[down+j]+cur[row+left]+cur[row+right])
				nxt[row+j] = blend*factors[row+j] + cfg.Force
			}
		}
		cur, nxt = nxt, cur

		total := 0.0
		for idx, v := range cur {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return result, popdyn.StepError{
					Step: step,
					Cell: fmt.Sprintf("cell (%d,%d)", idx/n, idx%n),
					Err:  popdyn.ErrNumericOverflow,
				}
			}
			total += v
		}

		frame := make([]float64, len(cur))
		copy(frame, cur)
		result.Frames = append(result.Frames, frame)
		result.Total.Append([]float64{total})
		result.StepsTaken++
		l.progress.Store(int64(step + 1))
	}

	result.Final = make([]float64, len(cur))
	copy(result.Final, cur)
	return result, nil
}
