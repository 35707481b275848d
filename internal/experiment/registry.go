package experiment

import (
	"fmt"

	"popsim/internal/config"
	"popsim/internal/growth"
	"popsim/internal/metrics"
	"popsim/internal/popdyn"
)

type Registry struct {
	samplers map[string]func(cfg *config.Config, seed int64) (popdyn.Sampler, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		samplers: make(map[string]func(cfg *config.Config, seed int64) (popdyn.Sampler, error)),
	}

	r.samplers["three_point"] = func(cfg *config.Config, seed int64) (popdyn.Sampler, error) {
		return growth.NewThreePoint(cfg.Alpha, cfg.PDown, seed)
	}
	r.samplers["log_uniform"] = func(cfg *config.Config, seed int64) (popdyn.Sampler, error) {
		return growth.NewLogUniform(cfg.Alpha, cfg.Skew, seed)
	}
	r.samplers["binary"] = func(cfg *config.Config, seed int64) (popdyn.Sampler, error) {
		return growth.NewBinary(cfg.Alpha, cfg.Gamma, seed)
	}

	return r
}

func (r *Registry) GetSampler(name string, cfg *config.Config, seed int64) (popdyn.Sampler, error) {
	fn, ok := r.samplers[name]
	if !ok {
		return nil, fmt.Errorf("unknown growth model: %s", name)
	}
	return fn(cfg, seed)
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.samplers))
	for name := range r.samplers {
		names = append(names, name)
	}
	return names
}

func (r *Registry) DefaultMetrics() []popdyn.Metric {
	return []popdyn.Metric{
		metrics.NewMeanAbundance(),
		metrics.NewTaylorExponent(),
		metrics.NewGrowthSpread(),
	}
}
