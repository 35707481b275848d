package experiment

import (
	"context"
	"errors"
	"testing"

	"popsim/internal/config"
	"popsim/internal/popdyn"
)

func quickConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Species = 3
	cfg.Sites = 2
	cfg.Window = 2
	cfg.Steps = 20
	cfg.Seed = 7
	return cfg
}

func TestRegistryGetSampler(t *testing.T) {
	r := NewRegistry()
	cfg := quickConfig()

	for _, name := range []string{"three_point", "log_uniform", "binary"} {
		sampler, err := r.GetSampler(name, cfg, 1)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if sampler.Name() != name {
			t.Errorf("expected name %s, got %s", name, sampler.Name())
		}
	}
}

func TestRegistryUnknownModel(t *testing.T) {
	r := NewRegistry()
	if _, err := r.GetSampler("lotka_volterra", quickConfig(), 1); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestRegistryPropagatesInvalidParameters(t *testing.T) {
	r := NewRegistry()
	cfg := quickConfig()
	cfg.Alpha = -1

	_, err := r.GetSampler("three_point", cfg, 1)
	if !errors.Is(err, popdyn.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestExperimentRun(t *testing.T) {
	exp := New(quickConfig())
	if err := exp.Setup(NewRegistry()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Abundance.Steps() != 20 {
		t.Errorf("expected 20 steps, got %d", result.Abundance.Steps())
	}
	if result.Abundance.Species() != 3 {
		t.Errorf("expected 3 species, got %d", result.Abundance.Species())
	}
	for _, name := range []string{"mean_abundance", "taylor_exponent", "growth_spread"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("metric %s missing from result", name)
		}
	}
}

func TestExperimentNotSetup(t *testing.T) {
	exp := New(quickConfig())
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error for experiment without setup")
	}
}

func TestSetupLattice(t *testing.T) {
	cfg := quickConfig()
	cfg.Lattice = config.LatticeConfig{Size: 4, Steps: 3, Diffusion: 0.1}

	lattice, err := SetupLattice(NewRegistry(), cfg)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := lattice.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 3 {
		t.Errorf("expected 3 steps, got %d", result.StepsTaken)
	}
	if len(result.Final) != 16 {
		t.Errorf("expected 16 cells, got %d", len(result.Final))
	}
}

func TestSetupLatticeRejectsUnstableDiffusion(t *testing.T) {
	cfg := quickConfig()
	cfg.Lattice = config.LatticeConfig{Size: 4, Steps: 3, Diffusion: 0.3}

	if _, err := SetupLattice(NewRegistry(), cfg); !errors.Is(err, popdyn.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}
