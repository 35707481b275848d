package experiment

import (
	"context"
	"fmt"

	"popsim/internal/config"
	"popsim/internal/sim"
)

// Experiment wires a configuration into a ready-to-run simulator: growth
// model from the registry, engine config, default metrics. All parameter
// validation happens in Setup, before a single factor is drawn.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(registry *Registry) error {
	sampler, err := registry.GetSampler(e.cfg.Model, e.cfg, e.cfg.Seed)
	if err != nil {
		return err
	}

	simulator, err := sim.New(sampler, sim.Config{
		Species: e.cfg.Species,
		Sites:   e.cfg.Sites,
		Window:  e.cfg.Window,
		Steps:   e.cfg.Steps,
		Force:   e.cfg.Force,
		Initial: e.cfg.Initial,
		Workers: e.cfg.Workers,
	})
	if err != nil {
		return err
	}

	for _, m := range registry.DefaultMetrics() {
		simulator.AddMetric(m)
	}
	e.simulator = simulator
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx)
}

// Simulator exposes the underlying engine for callbacks and progress polling.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

// SetupLattice builds the spatial variant from the same configuration.
func SetupLattice(registry *Registry, cfg *config.Config) (*sim.Lattice, error) {
	sampler, err := registry.GetSampler(cfg.Model, cfg, cfg.Seed)
	if err != nil {
		return nil, err
	}
	return sim.NewLattice(sampler, sim.LatticeConfig{
		Size:      cfg.Lattice.Size,
		Steps:     cfg.Lattice.Steps,
		Diffusion: cfg.Lattice.Diffusion,
		Force:     cfg.Force,
		Initial:   cfg.Initial,
	})
}
