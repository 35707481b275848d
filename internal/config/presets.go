package config

var Presets = map[string]map[string]*Config{
	"three_point": {
		"quick": {
			Model: "three_point", Alpha: 0.7, PDown: 0.2,
			Species: 10, Sites: 5, Window: 5, Steps: 1000,
			Force: 1.0, Initial: 1.0,
		},
		"taylor": {
			Model: "three_point", Alpha: 0.7, PDown: 0.2,
			Species: 100, Sites: 10, Window: 10, Steps: 100000,
			Force: 1.0, Initial: 1.0,
		},
		"single": {
			Model: "three_point", Alpha: 0.7, PDown: 0.2,
			Species: 1, Sites: 1, Window: 1, Steps: 1000000,
			Force: 1.0, Initial: 1.0,
		},
	},
	"log_uniform": {
		"quick": {
			Model: "log_uniform", Alpha: 1.0, Skew: -0.01,
			Species: 10, Sites: 5, Window: 5, Steps: 1000,
			Force: 1.0, Initial: 1.0,
		},
		"heavy_tail": {
			Model: "log_uniform", Alpha: 0.5, Skew: -0.05,
			Species: 100, Sites: 10, Window: 10, Steps: 100000,
			Force: 1.0, Initial: 1.0,
		},
	},
	"binary": {
		"quick": {
			Model: "binary", Alpha: 0.7, Gamma: 4.0,
			Species: 10, Sites: 5, Window: 5, Steps: 1000,
			Force: 1.0, Initial: 1.0,
		},
		"asymmetric": {
			Model: "binary", Alpha: 0.7, Gamma: 16.0,
			Species: 100, Sites: 10, Window: 10, Steps: 100000,
			Force: 1.0, Initial: 1.0,
		},
	},
	"lattice": {
		"demo": {
			Model: "three_point", Alpha: 0.7, PDown: 0.2,
			Force: 1.0, Initial: 1.0,
			Lattice: LatticeConfig{Size: 4, Steps: 3, Diffusion: 0.0},
		},
		"diffusive": {
			Model: "three_point", Alpha: 0.7, PDown: 0.2,
			Force: 1.0, Initial: 1.0,
			Lattice: LatticeConfig{Size: 32, Steps: 50, Diffusion: 0.2},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
