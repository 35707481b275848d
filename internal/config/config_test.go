package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "three_point" {
		t.Errorf("expected model three_point, got %s", cfg.Model)
	}
	if cfg.Alpha <= 0 {
		t.Error("alpha should be positive")
	}
	if cfg.Species <= 0 || cfg.Sites <= 0 {
		t.Error("species and sites should be positive")
	}
	if cfg.Window <= 0 || cfg.Steps <= 0 {
		t.Error("window and steps should be positive")
	}
	if 4*cfg.Lattice.Diffusion >= 1 {
		t.Error("default diffusion should satisfy 4d < 1")
	}
}

func TestLoadSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popsim.yaml")

	cfg := DefaultConfig()
	cfg.Model = "binary"
	cfg.Gamma = 8.0
	cfg.Steps = 12345
	cfg.Seed = 42

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Model != "binary" {
		t.Errorf("expected model binary, got %s", loaded.Model)
	}
	if loaded.Gamma != 8.0 {
		t.Errorf("expected gamma 8, got %f", loaded.Gamma)
	}
	if loaded.Steps != 12345 {
		t.Errorf("expected steps 12345, got %d", loaded.Steps)
	}
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("three_point", "quick")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Model != "three_point" {
		t.Errorf("expected model three_point, got %s", cfg.Model)
	}
	if cfg.Steps != 1000 {
		t.Errorf("expected steps 1000, got %d", cfg.Steps)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("three_point", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "quick"); cfg != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("lattice")
	if len(presets) == 0 {
		t.Error("expected presets for lattice")
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent model")
	}
}
