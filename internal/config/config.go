package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAlpha   = 0.7
	DefaultPDown   = 0.2
	DefaultGamma   = 4.0
	DefaultSkew    = -0.01
	DefaultSpecies = 50
	DefaultSites   = 10
	DefaultWindow  = 10
	DefaultSteps   = 10000
	DefaultForce   = 1.0
	DefaultInitial = 1.0
)

type Config struct {
	Model   string        `yaml:"model"`
	Alpha   float64       `yaml:"alpha"`
	PDown   float64       `yaml:"p_down"`
	Gamma   float64       `yaml:"gamma"`
	Skew    float64       `yaml:"skew"`
	Species int           `yaml:"species"`
	Sites   int           `yaml:"sites"`
	Window  int           `yaml:"window"`
	Steps   int           `yaml:"steps"`
	Force   float64       `yaml:"force"`
	Initial float64       `yaml:"initial"`
	Seed    int64         `yaml:"seed"`
	Workers int           `yaml:"workers"`
	Lattice LatticeConfig `yaml:"lattice"`
}

type LatticeConfig struct {
	Size      int     `yaml:"size"`
	Steps     int     `yaml:"steps"`
	Diffusion float64 `yaml:"diffusion"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:   "three_point",
		Alpha:   DefaultAlpha,
		PDown:   DefaultPDown,
		Gamma:   DefaultGamma,
		Skew:    DefaultSkew,
		Species: DefaultSpecies,
		Sites:   DefaultSites,
		Window:  DefaultWindow,
		Steps:   DefaultSteps,
		Force:   DefaultForce,
		Initial: DefaultInitial,
		Lattice: LatticeConfig{
			Size:      16,
			Steps:     3,
			Diffusion: 0.1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
