package sim

import (
	"fmt"

	"popsim/internal/popdyn"
)

// Config drives the non-spatial accumulator: S species times M sites evolve
// for Steps macro steps, each folding Window stochastic substeps.
type Config struct {
	Species int     // S, independent species
	Sites   int     // M, sites summed per species each macro step
	Window  int     // tau, substeps folded into one macro step
	Steps   int     // dp, macro step budget
	Force   float64 // c, additive forcing injected every substep
	Initial float64 // per-cell abundance at t=0
	Workers int     // goroutines per sweep; <=1 runs serially
}

func (c Config) Validate() error {
	if c.Species <= 0 {
		return fmt.Errorf("species %d must be positive: %w", c.Species, popdyn.ErrInvalidParameter)
	}
	if c.Sites <= 0 {
		return fmt.Errorf("sites %d must be positive: %w", c.Sites, popdyn.ErrInvalidParameter)
	}
	if c.Window <= 0 {
		return fmt.Errorf("window %d must be positive: %w", c.Window, popdyn.ErrInvalidParameter)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps %d must be positive: %w", c.Steps, popdyn.ErrInvalidParameter)
	}
	if c.Initial <= 0 {
		return fmt.Errorf("initial abundance %g must be positive: %w", c.Initial, popdyn.ErrInvalidParameter)
	}
	if c.Force < 0 {
		return fmt.Errorf("force %g must be non-negative: %w", c.Force, popdyn.ErrInvalidParameter)
	}
	return nil
}

// LatticeConfig drives the spatial diffusion accumulator on an L×L torus.
type LatticeConfig struct {
	Size      int       // L
	Steps     int       // macro step budget
	Diffusion float64   // d, neighbor coupling; 4d must stay below 1
	Force     float64   // c
	Initial   float64   // uniform per-cell value at t=0
	State     []float64 // optional row-major L×L initial state, overrides Initial
}

func (c LatticeConfig) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("lattice size %d must be positive: %w", c.Size, popdyn.ErrInvalidParameter)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps %d must be positive: %w", c.Steps, popdyn.ErrInvalidParameter)
	}
	if c.Diffusion < 0 || 4*c.Diffusion >= 1 {
		return fmt.Errorf("diffusion %g must satisfy 0 <= 4d < 1: %w", c.Diffusion, popdyn.ErrInvalidParameter)
	}
	if len(c.State) > 0 {
		if len(c.State) != c.Size*c.Size {
			return fmt.Errorf("initial state has %d cells, want %d: %w", len(c.State), c.Size*c.Size, popdyn.ErrInvalidParameter)
		}
		for i, v := range c.State {
			if v <= 0 {
				return fmt.Errorf("initial state cell %d is %g, must be positive: %w", i, v, popdyn.ErrInvalidParameter)
			}
		}
	} else if c.Initial <= 0 {
		return fmt.Errorf("initial value %g must be positive: %w", c.Initial, popdyn.ErrInvalidParameter)
	}
	if c.Force < 0 {
		return fmt.Errorf("force %g must be non-negative: %w", c.Force, popdyn.ErrInvalidParameter)
	}
	return nil
}

// Result holds the output of a non-spatial run.
type Result struct {
	Abundance  *popdyn.Abundance
	Metrics    map[string]float64
	StepsTaken int
}

// LatticeResult holds the output of a spatial run. Frames keeps one lattice
// snapshot per macro step; the spatial variant runs few steps, so retaining
// them all is cheap.
type LatticeResult struct {
	Total      *popdyn.Abundance // single series: lattice-wide sum per step
	Frames     [][]float64       // row-major L×L snapshot per step
	Final      []float64         // row-major L×L state after the last step
	StepsTaken int
}
