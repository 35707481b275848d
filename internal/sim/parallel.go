package sim

import (
	"context"
	"fmt"
	"sync"

	"popsim/internal/popdyn"
)

// forEachChunk splits [0, n) into contiguous chunks and runs fn on each,
// using up to workers goroutines. With workers <= 1 it runs inline; callers
// rely on chunks never overlapping so concurrent writes stay disjoint.
func forEachChunk(workers, n int, fn func(lo, hi int)) {
	if workers <= 1 || n <= 1 {
		fn(0, n)
		return
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

func cellName(species, site int) string {
	return fmt.Sprintf("species %d, site %d", species, site)
}

// Ensemble runs the same configuration across consecutive seeds, one
// goroutine per replicate. Macro steps inside each run stay strictly
// sequential; only whole replicates run in parallel.
type Ensemble struct {
	cfg       Config
	build     func(seed int64) (popdyn.Sampler, error)
	metrics   func() []popdyn.Metric
	replicas  int
	seedStart int64
}

func NewEnsemble(cfg Config, build func(seed int64) (popdyn.Sampler, error), replicas int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, build: build, replicas: replicas, seedStart: seedStart}
}

// SetMetrics installs a factory invoked once per replicate, so replicates
// never share metric state.
func (e *Ensemble) SetMetrics(build func() []popdyn.Metric) { e.metrics = build }

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.replicas)
	errs := make([]error, e.replicas)

	var wg sync.WaitGroup
	for i := 0; i < e.replicas; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sampler, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			sim, err := New(sampler, e.cfg)
			if err != nil {
				errs[idx] = err
				return
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					sim.AddMetric(m)
				}
			}
			results[idx], errs[idx] = sim.Run(ctx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
